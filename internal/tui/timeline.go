package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"mentorplan/internal/progress"
	"mentorplan/internal/suggestion"
	"mentorplan/internal/tui/components"
)

// ToggleFunc persists a task completion change.
type ToggleFunc func(dayIndex, taskIndex int, completed bool) error

// TimelineModel renders the active plan as a scrollable day timeline with
// checkable tasks.
type TimelineModel struct {
	sg     *suggestion.Suggestion
	set    progress.CompletedSet
	loc    *time.Location
	now    func() time.Time
	toggle ToggleFunc

	// cursor indexes positions, the flattened task list.
	cursor    int
	positions []progress.TaskKey

	viewport viewport.Model
	ready    bool
	width    int
	height   int
	err      error
}

// NewTimelineModel creates the timeline for an applied suggestion.
func NewTimelineModel(sg *suggestion.Suggestion, set progress.CompletedSet, loc *time.Location, now func() time.Time, toggle ToggleFunc) TimelineModel {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}

	var positions []progress.TaskKey
	for d := range sg.Plan {
		for t := range sg.Plan[d].Tasks {
			positions = append(positions, progress.TaskKey{Day: d, Task: t})
		}
	}

	m := TimelineModel{
		sg:        sg,
		set:       set,
		loc:       loc,
		now:       now,
		toggle:    toggle,
		positions: positions,
	}

	// Start the cursor on the current day's first task.
	current := progress.CurrentDayIndex(sg, now(), loc)
	for i, pos := range positions {
		if pos.Day == current {
			m.cursor = i
			break
		}
	}
	return m
}

// Init implements tea.Model.
func (m TimelineModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m TimelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3 // title + progress bar + blank
		footerHeight := 1 // status bar
		viewHeight := msg.Height - headerHeight - footerHeight
		if viewHeight < 1 {
			viewHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewHeight
		}
		m.viewport.SetContent(m.renderTimeline())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.positions)-1 {
				m.cursor++
			}
		case " ":
			m = m.toggleCurrent()
		}

		if m.ready {
			m.viewport.SetContent(m.renderTimeline())
			m.scrollToCursor()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// toggleCurrent flips the task under the cursor and persists the change.
func (m TimelineModel) toggleCurrent() TimelineModel {
	if m.cursor >= len(m.positions) {
		return m
	}
	pos := m.positions[m.cursor]

	m.set = m.set.Toggle(pos.Day, pos.Task, func(d, t int, completed bool) {
		if m.toggle != nil {
			if err := m.toggle(d, t, completed); err != nil {
				m.err = err
			}
		}
	})
	return m
}

// scrollToCursor keeps the selected task's day visible in the viewport.
func (m *TimelineModel) scrollToCursor() {
	line := m.cursorLine()
	if line < m.viewport.YOffset {
		m.viewport.SetYOffset(line)
	} else if bottom := m.viewport.YOffset + m.viewport.Height - 1; line > bottom {
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

// cursorLine returns the rendered line number of the cursor's task.
func (m TimelineModel) cursorLine() int {
	if m.cursor >= len(m.positions) {
		return 0
	}
	pos := m.positions[m.cursor]

	line := 0
	for d := 0; d < pos.Day; d++ {
		line += 1 + len(m.sg.Plan[d].Tasks) + 1 // header + tasks + blank
	}
	return line + 1 + pos.Task
}

// View implements tea.Model.
func (m TimelineModel) View() string {
	if !m.ready {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	items := []string{"↑↓ Navigate", "Space Toggle", "q Quit"}
	b.WriteString(components.NewStatusBar().Render(m.width, items))
	return b.String()
}

func (m TimelineModel) renderHeader() string {
	metrics := progress.Summarize(m.sg, m.set, m.now(), m.loc)

	title := TitleStyle.Render(fmt.Sprintf("Study Plan · day %d of %d", metrics.CurrentDayIndex+1, metrics.TotalDays))

	barWidth := 30
	if m.width > 0 && m.width < 44 {
		barWidth = m.width - 14
	}
	bar := components.NewProgress(metrics.CompletedTasks, metrics.TotalTasks, barWidth).View()

	line := fmt.Sprintf("%s  %d/%d tasks", bar, metrics.CompletedTasks, metrics.TotalTasks)
	if m.err != nil {
		line = ErrorStyle.Render("save failed: " + m.err.Error())
	}

	return title + "\n" + line + "\n"
}

// renderTimeline renders every plan day with its tasks.
func (m TimelineModel) renderTimeline() string {
	current := progress.CurrentDayIndex(m.sg, m.now(), m.loc)

	var b strings.Builder
	for d, day := range m.sg.Plan {
		b.WriteString(m.renderDayHeader(d, day, current))
		b.WriteString("\n")

		for t, task := range day.Tasks {
			b.WriteString(m.renderTask(d, t, task, current))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m TimelineModel) renderDayHeader(dayIndex int, day suggestion.DayPlan, current int) string {
	pct := progress.DayProgress(m.sg, m.set, dayIndex)
	header := fmt.Sprintf("Day %d · %s · %d%%", dayIndex+1, day.Date, pct)

	switch progress.ClassifyDay(dayIndex, current) {
	case progress.DayCurrent:
		return TodayStyle.Render("▶ " + header)
	case progress.DayPast:
		if pct < 100 {
			return BehindStyle.Render("  " + header)
		}
		return SubtleStyle.Render("  " + header)
	default:
		return SubtleStyle.Render("  " + header)
	}
}

func (m TimelineModel) renderTask(dayIndex, taskIndex int, task suggestion.StudyTask, current int) string {
	check := "[ ]"
	if m.set.Has(dayIndex, taskIndex) {
		check = "[x]"
	}

	minutes := 0
	if task.DurationMinutes != nil {
		minutes = *task.DurationMinutes
	}
	line := fmt.Sprintf("    %s %s  %s (%dm)", check, task.Time, task.Task, minutes)

	selected := m.cursor < len(m.positions) &&
		m.positions[m.cursor] == (progress.TaskKey{Day: dayIndex, Task: taskIndex})
	if selected {
		return SelectedStyle.Render(line)
	}
	if progress.ClassifyDay(dayIndex, current) == progress.DayFuture {
		return SubtleStyle.Render(line)
	}
	return line
}

// Completed exposes the current completion set, mainly for tests.
func (m TimelineModel) Completed() progress.CompletedSet {
	return m.set
}

// Cursor returns the flattened cursor position, mainly for tests.
func (m TimelineModel) Cursor() int {
	return m.cursor
}

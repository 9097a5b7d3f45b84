package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mentorplan/internal/progress"
	"mentorplan/internal/suggestion"
)

func timelineFixture(days, tasksPerDay int, appliedAt time.Time) *suggestion.Suggestion {
	length := days
	conf := 0.8
	sg := &suggestion.Suggestion{
		ID:      "tl-1",
		Applied: true,
		Document: suggestion.Document{
			PlanLength: &length,
			Confidence: &conf,
		},
		AppliedAt: suggestion.Timestamp{Time: appliedAt},
	}
	for d := 0; d < days; d++ {
		day := suggestion.DayPlan{
			Day:  d + 1,
			Date: appliedAt.AddDate(0, 0, d).Format("2006-01-02"),
		}
		for i := 0; i < tasksPerDay; i++ {
			minutes := 30
			day.Tasks = append(day.Tasks, suggestion.StudyTask{
				Time:            "10:00",
				Task:            "Read chapter",
				DurationMinutes: &minutes,
			})
		}
		sg.Plan = append(sg.Plan, day)
	}
	return sg
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewTimelineModel_CursorStartsOnCurrentDay(t *testing.T) {
	applied := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	sg := timelineFixture(7, 2, applied)

	now := applied.AddDate(0, 0, 3)
	m := NewTimelineModel(sg, progress.NewCompletedSet(), time.UTC, fixedNow(now), nil)

	// Day index 3, two tasks per day: flattened position 6.
	if m.Cursor() != 6 {
		t.Errorf("cursor = %d, want 6", m.Cursor())
	}
}

func TestTimeline_Navigation(t *testing.T) {
	applied := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	sg := timelineFixture(2, 2, applied)
	m := NewTimelineModel(sg, progress.NewCompletedSet(), time.UTC, fixedNow(applied), nil)

	if m.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", m.Cursor())
	}

	next, _ := m.Update(key("k"))
	m = next.(TimelineModel)
	if m.Cursor() != 0 {
		t.Errorf("cursor should not move above 0, got %d", m.Cursor())
	}

	for i := 0; i < 10; i++ {
		next, _ = m.Update(key("j"))
		m = next.(TimelineModel)
	}
	if m.Cursor() != 3 {
		t.Errorf("cursor should clamp at last task (3), got %d", m.Cursor())
	}
}

func TestTimeline_ToggleUpdatesSetAndPersists(t *testing.T) {
	applied := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	sg := timelineFixture(2, 2, applied)

	type call struct {
		day, task int
		completed bool
	}
	var calls []call
	toggle := func(d, t int, completed bool) error {
		calls = append(calls, call{d, t, completed})
		return nil
	}

	m := NewTimelineModel(sg, progress.NewCompletedSet(), time.UTC, fixedNow(applied), toggle)

	next, _ := m.Update(key(" "))
	m = next.(TimelineModel)
	if !m.Completed().Has(0, 0) {
		t.Error("task (0,0) should be completed after toggle")
	}

	next, _ = m.Update(key(" "))
	m = next.(TimelineModel)
	if m.Completed().Has(0, 0) {
		t.Error("second toggle should uncomplete the task")
	}

	if len(calls) != 2 {
		t.Fatalf("toggle persisted %d times, want 2", len(calls))
	}
	if !calls[0].completed || calls[1].completed {
		t.Errorf("toggle states = %+v, want completed then uncompleted", calls)
	}
}

func TestTimeline_RenderMarksDaysAndTasks(t *testing.T) {
	applied := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	sg := timelineFixture(3, 1, applied)

	set := progress.NewCompletedSet()
	set[progress.TaskKey{Day: 0, Task: 0}] = struct{}{}

	now := applied.AddDate(0, 0, 1)
	m := NewTimelineModel(sg, set, time.UTC, fixedNow(now), nil)

	out := m.renderTimeline()
	if !strings.Contains(out, "▶ Day 2") {
		t.Errorf("current day should be marked, got:\n%s", out)
	}
	if !strings.Contains(out, "[x] 10:00") {
		t.Errorf("completed task should be checked, got:\n%s", out)
	}
	if !strings.Contains(out, "Day 1 · 2026-09-01 · 100%") {
		t.Errorf("past day should show its percentage, got:\n%s", out)
	}
}

func TestTimeline_ViewBeforeSizing(t *testing.T) {
	applied := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	sg := timelineFixture(1, 1, applied)
	m := NewTimelineModel(sg, progress.NewCompletedSet(), time.UTC, fixedNow(applied), nil)

	if got := m.View(); got != "" {
		t.Errorf("view before WindowSizeMsg should be empty, got %q", got)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(TimelineModel)
	if m.View() == "" {
		t.Error("view after sizing should render")
	}
}

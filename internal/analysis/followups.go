// Package analysis inspects an applied plan's completion history and
// produces follow-up recommendations for the mentor.
package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"mentorplan/internal/progress"
	"mentorplan/internal/suggestion"
)

// Followup is a single recommended mentor action derived from progress data.
type Followup struct {
	Category string // e.g. "Pacing", "Plan Fit", "Insights"
	Title    string
	Detail   string
}

// Analyzer derives followups from a suggestion, its completed-task set and
// the progress event log.
type Analyzer struct {
	sg     *suggestion.Suggestion
	set    progress.CompletedSet
	events []progress.Event
	loc    *time.Location
}

// NewAnalyzer creates an analyzer. A nil location defaults to UTC.
func NewAnalyzer(sg *suggestion.Suggestion, set progress.CompletedSet, events []progress.Event, loc *time.Location) *Analyzer {
	if loc == nil {
		loc = time.UTC
	}
	return &Analyzer{sg: sg, set: set, events: events, loc: loc}
}

// Analyze examines plan progress as of now and generates followups.
// A suggestion without an active plan yields none.
func (a *Analyzer) Analyze(now time.Time) []Followup {
	if !a.sg.HasPlan() {
		return nil
	}

	var followups []Followup
	followups = append(followups, a.analyzePacing(now)...)
	followups = append(followups, a.analyzeChurn()...)
	followups = append(followups, a.analyzeOverall(now)...)
	followups = append(followups, a.analyzeInsights()...)

	return deduplicate(followups)
}

// analyzePacing flags past days the student left mostly incomplete.
func (a *Analyzer) analyzePacing(now time.Time) []Followup {
	current := progress.CurrentDayIndex(a.sg, now, a.loc)

	var followups []Followup
	for i := range a.sg.Plan {
		if progress.ClassifyDay(i, current) != progress.DayPast {
			continue
		}
		if len(a.sg.Plan[i].Tasks) == 0 {
			continue
		}
		if pct := progress.DayProgress(a.sg, a.set, i); pct < 50 {
			followups = append(followups, Followup{
				Category: "Pacing",
				Title:    fmt.Sprintf("Day %d finished at %d%%", i+1, pct),
				Detail:   "The student fell behind on this day. Check whether the workload was realistic or something got in the way.",
			})
		}
	}
	return followups
}

// analyzeChurn flags tasks that were repeatedly unchecked, a sign the task
// is too ambitious or poorly scoped.
func (a *Analyzer) analyzeChurn() []Followup {
	unchecks := make(map[progress.TaskKey]int)
	for _, event := range a.events {
		if event.Event != progress.EventTaskUncompleted {
			continue
		}
		day, _ := event.Data["day_index"].(float64)
		task, _ := event.Data["task_index"].(float64)
		unchecks[progress.TaskKey{Day: int(day), Task: int(task)}]++
	}

	var followups []Followup
	for key, count := range unchecks {
		if count < 2 {
			continue
		}
		title := fmt.Sprintf("Task %d on day %d was unchecked %d times", key.Task+1, key.Day+1, count)
		detail := "Repeated unchecking suggests the task is too large or unclear. Consider splitting it."
		if key.Day < len(a.sg.Plan) && key.Task < len(a.sg.Plan[key.Day].Tasks) {
			detail = fmt.Sprintf("%q keeps being unchecked. Consider splitting it or lowering its duration.",
				a.sg.Plan[key.Day].Tasks[key.Task].Task)
		}
		followups = append(followups, Followup{
			Category: "Plan Fit",
			Title:    title,
			Detail:   detail,
		})
	}

	sort.Slice(followups, func(i, j int) bool { return followups[i].Title < followups[j].Title })
	return followups
}

// analyzeOverall compares total completion against how far into the plan the
// student is.
func (a *Analyzer) analyzeOverall(now time.Time) []Followup {
	m := progress.Summarize(a.sg, a.set, now, a.loc)
	if m.TotalTasks == 0 {
		return nil
	}

	// Halfway through the plan with under 30% done: the plan length is
	// probably wrong for this student.
	if m.CurrentDayIndex >= m.TotalDays/2 && m.OverallPercent < 30 {
		return []Followup{{
			Category: "Plan Fit",
			Title:    fmt.Sprintf("Only %d%% complete at day %d of %d", m.OverallPercent, m.CurrentDayIndex+1, m.TotalDays),
			Detail:   "Consider regenerating a shorter plan or reducing daily load before the student disengages.",
		}}
	}

	if m.OverallPercent >= 80 {
		return []Followup{{
			Category: "Pacing",
			Title:    fmt.Sprintf("Plan is %d%% complete", m.OverallPercent),
			Detail:   "The student is keeping up well. A short encouragement message would land here.",
		}}
	}
	return nil
}

// analyzeInsights surfaces high-severity insights so they are not lost once
// the plan is underway.
func (a *Analyzer) analyzeInsights() []Followup {
	var followups []Followup
	for _, insight := range a.sg.Insights {
		if insight.Severity != suggestion.SeverityHigh {
			continue
		}
		followups = append(followups, Followup{
			Category: "Insights",
			Title:    insight.Title,
			Detail:   insight.Detail,
		})
	}
	return followups
}

// deduplicate removes followups sharing a category and title.
func deduplicate(followups []Followup) []Followup {
	seen := make(map[string]bool)
	var result []Followup

	for _, f := range followups {
		key := f.Category + ":" + f.Title
		if !seen[key] {
			seen[key] = true
			result = append(result, f)
		}
	}
	return result
}

// FormatFollowups renders followups grouped by category for display.
func FormatFollowups(followups []Followup) string {
	if len(followups) == 0 {
		return "No followups. The plan looks on track.\n"
	}

	byCategory := make(map[string][]Followup)
	for _, f := range followups {
		byCategory[f.Category] = append(byCategory[f.Category], f)
	}

	var categories []string
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var sb strings.Builder
	sb.WriteString("Suggested mentor followups:\n\n")
	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("## %s\n\n", cat))
		for _, f := range byCategory[cat] {
			sb.WriteString(fmt.Sprintf("- %s\n", f.Title))
			sb.WriteString(fmt.Sprintf("  %s\n", f.Detail))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Package progress derives renderable progress state from an applied study
// suggestion plus a set of completed tasks. All computations are pure; the
// only state transition (task toggle) returns a new set and leaves
// persistence to the caller.
package progress

import (
	"math"
	"time"

	"mentorplan/internal/suggestion"
)

// TaskKey identifies a task by its 0-based position in the plan, not by the
// day's own ordinal field.
type TaskKey struct {
	Day  int
	Task int
}

// CompletedSet records which plan tasks a student has checked off.
type CompletedSet map[TaskKey]struct{}

// NewCompletedSet returns an empty completed-task set.
func NewCompletedSet() CompletedSet {
	return make(CompletedSet)
}

// Has reports whether the task at (dayIndex, taskIndex) is checked off.
func (s CompletedSet) Has(dayIndex, taskIndex int) bool {
	_, ok := s[TaskKey{Day: dayIndex, Task: taskIndex}]
	return ok
}

// Count returns the number of completed tasks.
func (s CompletedSet) Count() int {
	return len(s)
}

// NotifyFunc is invoked after a toggle with the task position and its new
// completion state, so a caller can persist the change.
type NotifyFunc func(dayIndex, taskIndex int, completed bool)

// Toggle returns a new set with the task's membership flipped. The input set
// is never mutated; toggling twice yields a set equal to the original.
func (s CompletedSet) Toggle(dayIndex, taskIndex int, notify NotifyFunc) CompletedSet {
	next := make(CompletedSet, len(s)+1)
	for k := range s {
		next[k] = struct{}{}
	}

	key := TaskKey{Day: dayIndex, Task: taskIndex}
	_, present := next[key]
	if present {
		delete(next, key)
	} else {
		next[key] = struct{}{}
	}

	if notify != nil {
		notify(dayIndex, taskIndex, !present)
	}
	return next
}

// CurrentDayIndex returns the 0-based index of today's plan entry: whole days
// elapsed since the plan was applied, clamped to the plan bounds. Days are
// counted on calendar boundaries in loc. A suggestion without a plan, without
// an applied timestamp, or with an unparseable one yields 0.
func CurrentDayIndex(s *suggestion.Suggestion, today time.Time, loc *time.Location) int {
	if s == nil || len(s.Plan) == 0 {
		return 0
	}
	if s.AppliedAt.IsZero() {
		return 0
	}
	if loc == nil {
		loc = time.UTC
	}

	elapsed := daysBetween(s.AppliedAt.Time, today, loc)
	if elapsed < 0 {
		return 0
	}
	if last := len(s.Plan) - 1; elapsed > last {
		return last
	}
	return elapsed
}

// daysBetween counts calendar days from one instant to another in loc.
// Rounding absorbs DST transitions.
func daysBetween(from, to time.Time, loc *time.Location) int {
	fy, fm, fd := from.In(loc).Date()
	ty, tm, td := to.In(loc).Date()

	start := time.Date(fy, fm, fd, 0, 0, 0, 0, loc)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, loc)

	return int(math.Round(end.Sub(start).Hours() / 24))
}

// DayProgress returns the rounded percentage of the day's tasks present in
// the completed set. A day with zero tasks, or an index outside the plan,
// yields 0.
func DayProgress(s *suggestion.Suggestion, set CompletedSet, dayIndex int) int {
	if s == nil || dayIndex < 0 || dayIndex >= len(s.Plan) {
		return 0
	}

	tasks := s.Plan[dayIndex].Tasks
	if len(tasks) == 0 {
		return 0
	}

	completed := 0
	for i := range tasks {
		if set.Has(dayIndex, i) {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(tasks)) * 100))
}

// DayClass partitions plan days relative to the current day index.
type DayClass int

const (
	DayPast DayClass = iota
	DayCurrent
	DayFuture
)

func (c DayClass) String() string {
	switch c {
	case DayPast:
		return "past"
	case DayCurrent:
		return "today"
	default:
		return "future"
	}
}

// ClassifyDay returns exactly one of past, today or future for a day index.
func ClassifyDay(dayIndex, currentDayIndex int) DayClass {
	switch {
	case dayIndex < currentDayIndex:
		return DayPast
	case dayIndex == currentDayIndex:
		return DayCurrent
	default:
		return DayFuture
	}
}

// Metrics is the aggregate progress view for a plan.
type Metrics struct {
	TotalDays         int
	TotalTasks        int
	CompletedTasks    int
	OverallPercent    int
	CurrentDayIndex   int
	ConfidencePercent int
}

// Summarize computes the aggregate metrics for a suggestion. A missing or
// empty plan degrades to zero metrics rather than an error.
func Summarize(s *suggestion.Suggestion, set CompletedSet, today time.Time, loc *time.Location) Metrics {
	var m Metrics
	if s == nil {
		return m
	}

	if s.Confidence != nil {
		m.ConfidencePercent = int(math.Round(*s.Confidence * 100))
	}
	if len(s.Plan) == 0 {
		return m
	}

	m.TotalDays = len(s.Plan)
	m.TotalTasks = s.TaskCount()
	m.CompletedTasks = set.Count()
	m.CurrentDayIndex = CurrentDayIndex(s, today, loc)
	if m.TotalTasks > 0 {
		m.OverallPercent = int(math.Round(float64(m.CompletedTasks) / float64(m.TotalTasks) * 100))
	}
	return m
}

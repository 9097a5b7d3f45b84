package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mentorplan/internal/suggestion"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func storedSuggestion(userID string) *suggestion.Suggestion {
	length := 7
	confidence := 0.8
	duration := 45
	return &suggestion.Suggestion{
		UserID: userID,
		Agent:  suggestion.AgentMentor,
		Document: suggestion.Document{
			Insights: []suggestion.Insight{
				{Title: "Needs revision time", Detail: "Upcoming internals", Severity: suggestion.SeverityMedium},
			},
			PlanLength: &length,
			Plan: []suggestion.DayPlan{
				{Day: 1, Date: "2026-09-01", Tasks: []suggestion.StudyTask{
					{Time: "10:00", Task: "Revise graphs", DurationMinutes: &duration},
					{Time: "16:00", Task: "Practice problems", DurationMinutes: &duration},
				}},
			},
			MicroSupport:  []suggestion.MicroSupport{},
			MentorActions: []string{"Schedule a check-in"},
			Confidence:    &confidence,
		},
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)

	sg := storedSuggestion("student-1")
	if err := store.SaveSuggestion(sg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sg.ID == "" {
		t.Fatal("save should assign an ID")
	}
	if sg.GeneratedAt.IsZero() {
		t.Error("save should stamp GeneratedAt")
	}

	got, err := store.GetSuggestion(sg.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != "student-1" {
		t.Errorf("userID = %q, want student-1", got.UserID)
	}
	if got.TaskCount() != 2 {
		t.Errorf("task count = %d, want 2", got.TaskCount())
	}
}

func TestStore_GetByPrefix(t *testing.T) {
	store := newTestStore(t)

	sg := storedSuggestion("student-1")
	if err := store.SaveSuggestion(sg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetSuggestion(sg.ID[:8])
	if err != nil {
		t.Fatalf("prefix lookup failed: %v", err)
	}
	if got.ID != sg.ID {
		t.Errorf("id = %q, want %q", got.ID, sg.ID)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetSuggestion("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestStore_ListByStatus(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	pending := storedSuggestion("student-1")
	if err := store.SaveSuggestion(pending); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	applied := storedSuggestion("student-1")
	if err := applied.MarkReviewed("mentor-1", "", true, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := applied.Apply(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveSuggestion(applied); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dismissed := storedSuggestion("student-2")
	if err := dismissed.Dismiss("stale", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveSuggestion(dismissed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, tc := range []struct {
		status string
		want   int
	}{
		{"all", 3},
		{suggestion.StatusPending, 1},
		{suggestion.StatusApplied, 1},
		{suggestion.StatusDismissed, 1},
	} {
		got, err := store.ListSuggestions(tc.status)
		if err != nil {
			t.Fatalf("list %s: unexpected error: %v", tc.status, err)
		}
		if len(got) != tc.want {
			t.Errorf("list %s: count = %d, want %d", tc.status, len(got), tc.want)
		}
	}

	if _, err := store.ListSuggestions("bogus"); err == nil {
		t.Error("unknown status filter should error")
	}
}

func TestStore_UpdateLifecycle(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	sg := storedSuggestion("student-1")
	if err := store.SaveSuggestion(sg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := sg.Apply(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveSuggestion(sg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetSuggestion(sg.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Applied || got.AppliedAt.IsZero() {
		t.Errorf("reloaded suggestion lost applied state: %+v", got)
	}

	all, err := store.ListSuggestions("all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("save after apply should replace, not duplicate; count = %d", len(all))
	}
}

func TestStore_ActiveSuggestion(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.ActiveSuggestion(); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound with no active plan", err)
	}

	sg := storedSuggestion("student-1")
	if err := sg.Apply(time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveSuggestion(sg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.ActiveSuggestion()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != sg.ID {
		t.Errorf("active id = %q, want %q", got.ID, sg.ID)
	}
}

func TestStore_CompletedTasks(t *testing.T) {
	store := newTestStore(t)

	if err := store.SetCompleted("s1", 0, 1, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SetCompleted("s1", 2, 0, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	set, err := store.LoadCompleted("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Count() != 2 {
		t.Fatalf("count = %d, want 2", set.Count())
	}
	if !set.Has(0, 1) || !set.Has(2, 0) {
		t.Errorf("set missing expected keys: %v", set)
	}

	if err := store.SetCompleted("s1", 0, 1, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	set, err = store.LoadCompleted("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Has(0, 1) {
		t.Error("untoggled task should be removed")
	}

	// Setting the same task twice stays idempotent at the storage level.
	if err := store.SetCompleted("s1", 2, 0, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	set, err = store.LoadCompleted("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Count() != 1 {
		t.Errorf("count = %d, want 1", set.Count())
	}
}

func TestStore_Metrics(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	first := storedSuggestion("student-1")
	if err := store.SaveSuggestion(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := storedSuggestion("student-2")
	if err := second.MarkReviewed("mentor-1", "", true, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := second.Apply(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveSuggestion(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts, err := store.Metrics()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts.Total != 2 {
		t.Errorf("total = %d, want 2", counts.Total)
	}
	if counts.Reviewed != 1 || counts.Accepted != 1 || counts.Applied != 1 {
		t.Errorf("counts = %+v, want 1 reviewed/accepted/applied", counts)
	}
	if counts.Dismissed != 0 {
		t.Errorf("dismissed = %d, want 0", counts.Dismissed)
	}
}

func TestExportSuggestion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggestion.json")

	sg := storedSuggestion("student-1")
	sg.ID = "export-test"
	if err := ExportSuggestion(path, sg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}

	var decoded suggestion.Suggestion
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded.ID != "export-test" {
		t.Errorf("id = %q, want export-test", decoded.ID)
	}
}

package cli

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"mentorplan/internal/ai"
	"mentorplan/internal/config"
	"mentorplan/internal/progress"
	"mentorplan/internal/storage"
	"mentorplan/internal/suggestion"
	"mentorplan/internal/testutil"
)

const validDocJSON = `{
  "insights": [{"title": "Weak in algebra", "detail": "Quiz scores trail the class average.", "severity": "high"}],
  "planLength": 7,
  "plan": [
    {"day": 1, "date": "2026-09-02", "tasks": [
      {"time": "09:00", "task": "Revise linear equations", "durationMinutes": 45},
      {"time": "16:00", "task": "Practice word problems", "durationMinutes": 30}
    ]},
    {"day": 2, "date": "2026-09-03", "tasks": [
      {"time": "09:00", "task": "Quadratics walkthrough", "durationMinutes": 60}
    ]}
  ],
  "microSupport": [],
  "resources": [],
  "mentorActions": ["Check in after day 2"],
  "confidence": 0.75
}`

// TestSuggestionWorkflow drives ingest -> review -> apply -> toggle through
// the RunE functions directly, the way a user session would.
func TestSuggestionWorkflow(t *testing.T) {
	testutil.SetupTestDir(t)
	t.Cleanup(resetFlags)

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := os.WriteFile("doc.json", []byte(validDocJSON), 0644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	if err := runIngest(ingestCmd, []string{"doc.json"}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	id := onlySuggestionID(t)

	reviewAccept = true
	reviewBy = "ms-rivera"
	if err := runReview(reviewCmd, []string{id[:8]}); err != nil {
		t.Fatalf("review: %v", err)
	}

	if err := runApply(applyCmd, []string{id[:8]}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if err := runToggle(toggleCmd, []string{"1", "2"}); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	// Verify persisted state end to end.
	store := storage.NewStore(config.DataDirName)
	if err := store.Init(); err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	sg, err := store.GetSuggestion(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sg.Status() != suggestion.StatusApplied {
		t.Errorf("status = %s, want applied", sg.Status())
	}
	if sg.ReviewedBy != "ms-rivera" {
		t.Errorf("reviewedBy = %q", sg.ReviewedBy)
	}
	if sg.AppliedAt.IsZero() {
		t.Error("appliedAt should be set")
	}

	set, err := store.LoadCompleted(sg.ID)
	if err != nil {
		t.Fatalf("load completed: %v", err)
	}
	if !set.Has(0, 1) {
		t.Error("task (day 1, task 2) should be completed")
	}
	if set.Count() != 1 {
		t.Errorf("completed count = %d, want 1", set.Count())
	}

	events, err := progress.ReadEvents(config.DataDirName)
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	var names []string
	for _, e := range events {
		names = append(names, e.Event)
	}
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, progress.EventPlanApplied) {
		t.Errorf("missing plan_applied event, got %s", joined)
	}
	if !strings.Contains(joined, progress.EventTaskCompleted) {
		t.Errorf("missing task_completed event, got %s", joined)
	}
}

func TestGenerateCommand(t *testing.T) {
	testutil.SetupTestDir(t)
	t.Cleanup(resetFlags)

	originalCommand := ai.CommandContext
	originalLookPath := ai.LookPath
	t.Cleanup(func() {
		ai.CommandContext = originalCommand
		ai.LookPath = originalLookPath
	})
	ai.CommandContext = testutil.MockCommandFunc(validDocJSON)
	ai.LookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := os.WriteFile("profile.txt", []byte("attendance 68%, weak in algebra"), 0644); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	generateUserID = "student-9"
	if err := runGenerate(generateCmd, []string{"profile.txt"}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	id := onlySuggestionID(t)

	store := storage.NewStore(config.DataDirName)
	if err := store.Init(); err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	sg, err := store.GetSuggestion(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sg.UserID != "student-9" {
		t.Errorf("userID = %q, want student-9", sg.UserID)
	}
	if sg.Agent != suggestion.AgentMentor {
		t.Errorf("agent = %q, want %q", sg.Agent, suggestion.AgentMentor)
	}
	if sg.Status() != suggestion.StatusPending {
		t.Errorf("status = %s, want pending", sg.Status())
	}
}

func TestIngest_InvalidDocument(t *testing.T) {
	testutil.SetupTestDir(t)
	t.Cleanup(resetFlags)

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("init: %v", err)
	}

	bad := strings.Replace(validDocJSON, `"planLength": 7`, `"planLength": 10`, 1)
	if err := os.WriteFile("bad.json", []byte(bad), 0644); err != nil {
		t.Fatalf("write doc: %v", err)
	}

	if err := runIngest(ingestCmd, []string{"bad.json"}); err == nil {
		t.Fatal("expected ingest to reject an invalid document")
	}

	store := storage.NewStore(config.DataDirName)
	if err := store.Init(); err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	suggestions, err := store.ListSuggestions("all")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(suggestions) != 0 {
		t.Errorf("rejected document should not be stored, found %d", len(suggestions))
	}
}

func TestToggle_NoActivePlan(t *testing.T) {
	testutil.SetupTestDir(t)
	t.Cleanup(resetFlags)

	if err := runInit(initCmd, nil); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := runToggle(toggleCmd, []string{"1", "1"}); err == nil {
		t.Error("toggle without an active plan should fail")
	}
}

func TestFormatTimeline(t *testing.T) {
	var sg suggestion.Suggestion
	mustUnmarshalDoc(t, &sg)
	sg.ID = "abcdef1234"
	sg.Applied = true
	sg.AppliedAt = suggestion.Timestamp{Time: time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)}

	set := progress.NewCompletedSet()
	set[progress.TaskKey{Day: 0, Task: 0}] = struct{}{}

	now := time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC)
	out := formatTimeline(&sg, set, now, time.UTC)

	if !strings.Contains(out, "day 2 of 2") {
		t.Errorf("header should show current day, got:\n%s", out)
	}
	if !strings.Contains(out, "[x] 09:00  Revise linear equations") {
		t.Errorf("completed task should be checked, got:\n%s", out)
	}
	if !strings.Contains(out, "> Day 2") {
		t.Errorf("current day should carry the marker, got:\n%s", out)
	}
}

func onlySuggestionID(t *testing.T) string {
	t.Helper()

	store := storage.NewStore(config.DataDirName)
	if err := store.Init(); err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	suggestions, err := store.ListSuggestions("all")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected exactly 1 suggestion, got %d", len(suggestions))
	}
	return suggestions[0].ID
}

func mustUnmarshalDoc(t *testing.T, sg *suggestion.Suggestion) {
	t.Helper()
	result := suggestion.Validate([]byte(validDocJSON))
	if !result.Valid {
		t.Fatalf("fixture should validate: %s", result.ErrorSummary())
	}
	if err := json.Unmarshal([]byte(validDocJSON), &sg.Document); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
}

func resetFlags() {
	generateUserID = ""
	ingestUserID = ""
	listStatus = "all"
	showJSON = false
	showExport = ""
	reviewAccept = false
	reviewDecline = false
	reviewNotes = ""
	reviewBy = ""
	dismissReason = ""
}

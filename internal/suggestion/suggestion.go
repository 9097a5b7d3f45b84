package suggestion

import (
	"encoding/json"
	"time"
)

// Severity levels for insights.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Agent identifiers for the generator that produced a suggestion.
const (
	AgentMentor        = "mentorAgent"
	AgentCareerPlanner = "careerPlanner"
	AgentAdhoc         = "adhoc"
)

// Document is the schema-validated payload produced by the AI generator:
// prioritized insights, an N-day study plan and supporting material.
// Pointer fields distinguish a missing value from a legitimate zero.
type Document struct {
	Insights      []Insight      `json:"insights" validate:"required,min=1,dive"`
	PlanLength    *int           `json:"planLength" validate:"required,oneof=7 14 28"`
	Plan          []DayPlan      `json:"plan" validate:"required,dive"`
	MicroSupport  []MicroSupport `json:"microSupport" validate:"required,dive"`
	Resources     []Resource     `json:"resources" validate:"omitempty,dive"`
	MentorActions []string       `json:"mentorActions" validate:"required,dive,min=1"`
	Confidence    *float64       `json:"confidence" validate:"required,gte=0,lte=1"`
}

// Insight is a single prioritized observation about the student.
type Insight struct {
	Title    string `json:"title" validate:"required"`
	Detail   string `json:"detail" validate:"required"`
	Severity string `json:"severity" validate:"required,oneof=low medium high"`
}

// DayPlan is one day of the study schedule. Day is a 1-based ordinal chosen by
// the generator; consumers must index by position in Plan, not by this value.
type DayPlan struct {
	Day   int         `json:"day" validate:"required,gte=1"`
	Date  string      `json:"date" validate:"required,datetime=2006-01-02"`
	Tasks []StudyTask `json:"tasks" validate:"dive"`
}

// StudyTask is a single timed study activity within a day.
type StudyTask struct {
	Time               string   `json:"time" validate:"required,datetime=15:04"`
	Task               string   `json:"task" validate:"required"`
	DurationMinutes    *int     `json:"durationMinutes" validate:"required,gte=1,lte=240"`
	Resource           string   `json:"resource,omitempty"`
	ResourceURL        string   `json:"resourceUrl,omitempty" validate:"omitempty,url"`
	PracticeProblemIDs []string `json:"practiceProblemIds,omitempty" validate:"omitempty,dive,min=1"`
}

// MicroSupport is a short self-contained learning unit.
type MicroSupport struct {
	Title            string `json:"title" validate:"required"`
	Summary          string `json:"summary" validate:"required"`
	EstimatedMinutes int    `json:"estimatedMinutes" validate:"required,gte=1"`
	ResourceURL      string `json:"resourceUrl,omitempty" validate:"omitempty,url"`
	ExampleProblem   string `json:"exampleProblem,omitempty"`
}

// Resource is an external reference attached to a suggestion.
type Resource struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
	Type  string `json:"type,omitempty" validate:"omitempty,oneof=video article course notes practice other"`
}

// Suggestion wraps a validated document with its review/apply lifecycle.
type Suggestion struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"userId,omitempty"`
	Agent  string `json:"agent,omitempty"`

	Document

	GeneratedAt   Timestamp `json:"generatedAt"`
	Reviewed      bool      `json:"reviewed"`
	ReviewedAt    Timestamp `json:"reviewedAt"`
	ReviewedBy    string    `json:"reviewedBy,omitempty"`
	ReviewNotes   string    `json:"reviewNotes,omitempty"`
	Accepted      bool      `json:"accepted"`
	Dismissed     bool      `json:"dismissed"`
	DismissReason string    `json:"dismissReason,omitempty"`
	Applied       bool      `json:"applied"`
	AppliedAt     Timestamp `json:"appliedAt"`

	ModelUsed  string `json:"modelUsed,omitempty"`
	PromptHash string `json:"promptHash,omitempty"`
}

// Timestamp is a time value that tolerates malformed input. A timestamp that
// cannot be parsed is treated as absent rather than failing the document,
// since downstream consumers fall back to zero state anyway.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// UnmarshalJSON parses RFC 3339 timestamps or bare dates. Anything else,
// including null, yields the zero value without error.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}

	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return nil
}

// MarshalJSON emits RFC 3339, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// TaskCount returns the total number of tasks across all plan days.
func (s *Suggestion) TaskCount() int {
	count := 0
	for i := range s.Plan {
		count += len(s.Plan[i].Tasks)
	}
	return count
}

// HasPlan reports whether the suggestion carries a non-empty study plan.
func (s *Suggestion) HasPlan() bool {
	return s != nil && len(s.Plan) > 0
}

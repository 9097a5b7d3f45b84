// Package storage persists suggestions and completed-task state in a SQLite
// database under the data directory.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mentorplan/internal/progress"
	"mentorplan/internal/suggestion"
)

const dbFileName = "mentorplan.db"

var (
	ErrNotFound       = errors.New("suggestion not found")
	ErrAmbiguousID    = errors.New("multiple suggestions match")
	ErrNotInitialized = errors.New("store is not initialized")
)

// Store wraps the SQLite database holding suggestions and completion state.
type Store struct {
	path string
	db   *sql.DB
}

// NewStore creates a store rooted at the given data directory.
func NewStore(dataDir string) *Store {
	return &Store{
		path: filepath.Join(dataDir, dbFileName),
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS suggestions (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL DEFAULT '',
	agent         TEXT NOT NULL DEFAULT 'mentorAgent',
	document      TEXT NOT NULL,
	generated_at  TEXT NOT NULL,
	reviewed      INTEGER NOT NULL DEFAULT 0,
	accepted      INTEGER NOT NULL DEFAULT 0,
	dismissed     INTEGER NOT NULL DEFAULT 0,
	applied       INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_suggestions_user ON suggestions (user_id, generated_at DESC);
CREATE TABLE IF NOT EXISTS completed_tasks (
	suggestion_id TEXT NOT NULL,
	day_index     INTEGER NOT NULL,
	task_index    INTEGER NOT NULL,
	completed_at  TEXT NOT NULL,
	PRIMARY KEY (suggestion_id, day_index, task_index)
);
`

// Init creates the data directory, opens the database and applies the schema.
func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSuggestion inserts or replaces a suggestion. A missing ID or generation
// timestamp is filled in before the write.
func (s *Store) SaveSuggestion(sg *suggestion.Suggestion) error {
	if s.db == nil {
		return ErrNotInitialized
	}

	if sg.ID == "" {
		sg.ID = uuid.NewString()
	}
	if sg.GeneratedAt.IsZero() {
		sg.GeneratedAt = suggestion.Timestamp{Time: time.Now().UTC()}
	}

	doc, err := json.Marshal(sg)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestion: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO suggestions
			(id, user_id, agent, document, generated_at, reviewed, accepted, dismissed, applied)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sg.ID, sg.UserID, sg.Agent, string(doc),
		sg.GeneratedAt.Format(time.RFC3339),
		sg.Reviewed, sg.Accepted, sg.Dismissed, sg.Applied,
	)
	if err != nil {
		return fmt.Errorf("failed to save suggestion: %w", err)
	}
	return nil
}

// GetSuggestion looks a suggestion up by ID or unique ID prefix.
func (s *Store) GetSuggestion(id string) (*suggestion.Suggestion, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}

	rows, err := s.db.Query(
		`SELECT document FROM suggestions WHERE id = ? OR id LIKE ? || '%'`, id, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestion: %w", err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(docs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return decodeSuggestion(docs[0])
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

// ListSuggestions returns suggestions filtered by lifecycle status
// ("all", "pending", "reviewed", "applied" or "dismissed"), newest first.
func (s *Store) ListSuggestions(status string) ([]*suggestion.Suggestion, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}

	query := `SELECT document FROM suggestions`
	switch status {
	case "", "all":
	case suggestion.StatusPending:
		query += ` WHERE reviewed = 0 AND dismissed = 0`
	case suggestion.StatusReviewed:
		query += ` WHERE reviewed = 1`
	case suggestion.StatusApplied:
		query += ` WHERE applied = 1`
	case suggestion.StatusDismissed:
		query += ` WHERE dismissed = 1`
	default:
		return nil, fmt.Errorf("unknown status filter: %s", status)
	}
	query += ` ORDER BY generated_at DESC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	defer rows.Close()

	var out []*suggestion.Suggestion
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		sg, err := decodeSuggestion(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	return out, rows.Err()
}

// ActiveSuggestion returns the most recently applied, non-dismissed
// suggestion, or ErrNotFound when no plan is active.
func (s *Store) ActiveSuggestion() (*suggestion.Suggestion, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}

	var doc string
	err := s.db.QueryRow(`
		SELECT document FROM suggestions
		WHERE applied = 1 AND dismissed = 0
		ORDER BY generated_at DESC LIMIT 1`).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no active plan", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query active suggestion: %w", err)
	}
	return decodeSuggestion(doc)
}

// SetCompleted records or clears a single task completion.
func (s *Store) SetCompleted(suggestionID string, dayIndex, taskIndex int, completed bool) error {
	if s.db == nil {
		return ErrNotInitialized
	}

	var err error
	if completed {
		_, err = s.db.Exec(`
			INSERT OR REPLACE INTO completed_tasks (suggestion_id, day_index, task_index, completed_at)
			VALUES (?, ?, ?, ?)`,
			suggestionID, dayIndex, taskIndex, time.Now().UTC().Format(time.RFC3339))
	} else {
		_, err = s.db.Exec(`
			DELETE FROM completed_tasks
			WHERE suggestion_id = ? AND day_index = ? AND task_index = ?`,
			suggestionID, dayIndex, taskIndex)
	}
	if err != nil {
		return fmt.Errorf("failed to update completed task: %w", err)
	}
	return nil
}

// LoadCompleted returns the completed-task set for a suggestion.
func (s *Store) LoadCompleted(suggestionID string) (progress.CompletedSet, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}

	rows, err := s.db.Query(`
		SELECT day_index, task_index FROM completed_tasks
		WHERE suggestion_id = ?`, suggestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed tasks: %w", err)
	}
	defer rows.Close()

	set := progress.NewCompletedSet()
	for rows.Next() {
		var day, task int
		if err := rows.Scan(&day, &task); err != nil {
			return nil, fmt.Errorf("failed to scan completed task: %w", err)
		}
		set[progress.TaskKey{Day: day, Task: task}] = struct{}{}
	}
	return set, rows.Err()
}

// Counts aggregates suggestion lifecycle totals.
type Counts struct {
	Total     int
	Reviewed  int
	Accepted  int
	Dismissed int
	Applied   int
}

// Metrics returns aggregate lifecycle counts across all suggestions.
func (s *Store) Metrics() (Counts, error) {
	var c Counts
	if s.db == nil {
		return c, ErrNotInitialized
	}

	err := s.db.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(reviewed), 0),
			COALESCE(SUM(accepted), 0),
			COALESCE(SUM(dismissed), 0),
			COALESCE(SUM(applied), 0)
		FROM suggestions`).Scan(&c.Total, &c.Reviewed, &c.Accepted, &c.Dismissed, &c.Applied)
	if err != nil {
		return c, fmt.Errorf("failed to aggregate metrics: %w", err)
	}
	return c, nil
}

func decodeSuggestion(doc string) (*suggestion.Suggestion, error) {
	var sg suggestion.Suggestion
	if err := json.Unmarshal([]byte(doc), &sg); err != nil {
		return nil, fmt.Errorf("failed to parse stored suggestion: %w", err)
	}
	return &sg, nil
}

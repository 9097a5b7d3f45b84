package progress

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const eventLogFileName = "progress.log"

// Event type constants for the progress log.
const (
	EventPlanApplied     = "plan_applied"
	EventPlanDismissed   = "plan_dismissed"
	EventTaskCompleted   = "task_completed"
	EventTaskUncompleted = "task_uncompleted"
)

// Event is a single progress log entry.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Event     string         `json:"event"`
	Data      map[string]any `json:"data,omitempty"`
}

// EventLog appends progress events to a JSON Lines file in the data
// directory. It is the persistence side effect of toggle and lifecycle
// actions, kept out of the pure tracker functions.
type EventLog struct {
	path string
}

// NewEventLog creates an event log for the given data directory.
func NewEventLog(dataDir string) *EventLog {
	return &EventLog{
		path: filepath.Join(dataDir, eventLogFileName),
	}
}

// Log appends an event to the log file.
func (l *EventLog) Log(event string, data map[string]any) error {
	entry := Event{
		Timestamp: time.Now(),
		Event:     event,
		Data:      data,
	}

	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	jsonBytes = append(jsonBytes, '\n')

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(jsonBytes)
	return err
}

// PlanApplied logs a plan_applied event.
func (l *EventLog) PlanApplied(suggestionID string, planDays int) error {
	return l.Log(EventPlanApplied, map[string]any{
		"suggestion_id": suggestionID,
		"plan_days":     planDays,
	})
}

// PlanDismissed logs a plan_dismissed event.
func (l *EventLog) PlanDismissed(suggestionID, reason string) error {
	return l.Log(EventPlanDismissed, map[string]any{
		"suggestion_id": suggestionID,
		"reason":        reason,
	})
}

// TaskToggled logs the new completion state of a task.
func (l *EventLog) TaskToggled(suggestionID string, dayIndex, taskIndex int, completed bool) error {
	event := EventTaskCompleted
	if !completed {
		event = EventTaskUncompleted
	}
	return l.Log(event, map[string]any{
		"suggestion_id": suggestionID,
		"day_index":     dayIndex,
		"task_index":    taskIndex,
	})
}

// ReadEvents parses every well-formed line of an event log. Malformed lines
// are skipped. A missing file yields no events.
func ReadEvents(dataDir string) ([]Event, error) {
	f, err := os.Open(filepath.Join(dataDir, eventLogFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, scanner.Err()
}

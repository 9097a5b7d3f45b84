package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"mentorplan/internal/suggestion"
)

// ExportSuggestion atomically writes a suggestion document as indented JSON.
// Uses a temp file + rename so a crash never leaves a partial file behind.
func ExportSuggestion(path string, sg *suggestion.Suggestion) error {
	data, err := json.MarshalIndent(sg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal suggestion: %w", err)
	}

	tmpPath := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

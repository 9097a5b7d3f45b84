// Package ai generates candidate study suggestions through the Claude CLI
// and gates them behind schema validation before they reach storage.
package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"mentorplan/internal/suggestion"
)

// claudeResponse represents the JSON wrapper returned by the Claude CLI when
// using --output-format json.
type claudeResponse struct {
	Type    string `json:"type"`
	Result  string `json:"result"`
	IsError bool   `json:"is_error"`
}

// CommandContext is the function used to create exec.Cmd instances.
// It can be replaced in tests to mock command execution.
var CommandContext = exec.CommandContext

// LookPath resolves command locations; replaceable in tests.
var LookPath = exec.LookPath

// DefaultGenerationTimeout is the maximum time allowed for one generation.
const DefaultGenerationTimeout = 5 * time.Minute

// maxAttempts covers the initial call plus one strict-JSON retry when the
// model's output fails schema validation.
const maxAttempts = 2

// IsClaudeAvailable checks if the claude command exists in PATH.
func IsClaudeAvailable() bool {
	_, err := LookPath("claude")
	return err == nil
}

// GenerateSuggestion asks the model for a study suggestion based on a
// free-text student profile, validates the response against the suggestion
// schema, and retries once with a corrective prompt on validation failure.
func GenerateSuggestion(ctx context.Context, userID, profile string) (*suggestion.Suggestion, error) {
	if !IsClaudeAvailable() {
		return nil, errors.New("Claude Code CLI not found. Install it: https://claude.ai/code")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultGenerationTimeout)
		defer cancel()
	}

	basePrompt := buildMentorPrompt(profile)
	prompt := basePrompt

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := runClaude(ctx, prompt)
		if err != nil {
			return nil, err
		}

		result := suggestion.Validate(raw)
		if result.Valid {
			var doc suggestion.Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				return nil, fmt.Errorf("failed to parse validated document: %w", err)
			}
			return &suggestion.Suggestion{
				UserID:      userID,
				Agent:       suggestion.AgentMentor,
				Document:    doc,
				GeneratedAt: suggestion.Timestamp{Time: time.Now().UTC()},
				PromptHash:  hashString(basePrompt),
			}, nil
		}

		lastErr = fmt.Errorf("schema validation failed: %s", result.ErrorSummary())
		prompt = strictJSONPrompt(basePrompt, result)
	}

	return nil, fmt.Errorf("generation failed after %d attempts: %w", maxAttempts, lastErr)
}

func runClaude(ctx context.Context, prompt string) ([]byte, error) {
	// --dangerously-skip-permissions is required for non-interactive use. This is safe here
	// because we only use the -p flag with a controlled prompt (no file access or tool use).
	cmd := CommandContext(ctx, "claude", "-p", prompt, "--output-format", "json", "--dangerously-skip-permissions")
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.New("suggestion generation timed out")
		}
		if ctx.Err() == context.Canceled {
			return nil, errors.New("suggestion generation was cancelled")
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("claude command failed: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("failed to execute claude command: %w", err)
	}

	return extractJSON(output)
}

// buildMentorPrompt creates the generation prompt for a student profile.
func buildMentorPrompt(profile string) string {
	return fmt.Sprintf(`You are an academic mentor assistant. Analyze this student profile and produce a personalized study suggestion.

STUDENT PROFILE:
%s

OUTPUT REQUIREMENTS:
Return a JSON object with this exact structure:
{
  "insights": [{"title": "...", "detail": "...", "severity": "low|medium|high"}],
  "planLength": 7,
  "plan": [{"day": 1, "date": "YYYY-MM-DD", "tasks": [{"time": "09:00", "task": "Revise topic X", "durationMinutes": 60, "resource": "url or text", "practiceProblemIds": []}]}],
  "microSupport": [{"title": "...", "summary": "...", "estimatedMinutes": 30, "resourceUrl": "", "exampleProblem": ""}],
  "resources": [{"title": "...", "url": "https://...", "type": "video|article|course|notes|practice|other"}],
  "mentorActions": ["Short bullet suggestions for the mentor"],
  "confidence": 0.8
}

GUIDELINES:
- Up to 5 prioritized insights
- planLength must be exactly 7, 14 or 28
- Task times use a 24-hour HH:MM clock; durations are 1-240 minutes
- Keep each day realistic (no more than 5 hours total)
- confidence is a number between 0 and 1

Return ONLY the JSON, no markdown formatting or explanation.`, profile)
}

// strictJSONPrompt builds the corrective prompt for a retry after the first
// response failed schema validation.
func strictJSONPrompt(basePrompt string, result suggestion.Result) string {
	return fmt.Sprintf(`%s

Your previous response did not match the required schema. Violations:
%s

Respond ONLY with valid JSON matching the exact schema above. No markdown, no code blocks, no explanations.`,
		basePrompt, result.ErrorSummary())
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// extractJSON defensively extracts a JSON object from potentially noisy output.
func extractJSON(data []byte) ([]byte, error) {
	// First, try to parse as Claude Code CLI response wrapper
	var claudeResp claudeResponse
	if err := json.Unmarshal(data, &claudeResp); err == nil && claudeResp.Type == "result" {
		if claudeResp.IsError {
			return nil, errors.New("claude returned an error: " + claudeResp.Result)
		}
		data = []byte(claudeResp.Result)
	}

	// Strip markdown code blocks if present (```json ... ``` or ``` ... ```)
	str := stripMarkdownCodeBlocks(string(data))

	if json.Valid([]byte(str)) {
		return []byte(str), nil
	}

	// Find JSON object boundaries as fallback
	start := strings.Index(str, "{")
	end := strings.LastIndex(str, "}")

	if start == -1 || end == -1 || start >= end {
		return nil, errors.New("no JSON object found in response")
	}

	extracted := str[start : end+1]
	if !json.Valid([]byte(extracted)) {
		return nil, errors.New("extracted content is not valid JSON")
	}

	return []byte(extracted), nil
}

// stripMarkdownCodeBlocks removes markdown code block markers from a string.
func stripMarkdownCodeBlocks(s string) string {
	s = strings.TrimSpace(s)
	if cut, found := strings.CutPrefix(s, "```json"); found {
		s = cut
	} else if cut, found := strings.CutPrefix(s, "```"); found {
		s = cut
	}
	if cut, found := strings.CutSuffix(s, "```"); found {
		s = cut
	}
	return strings.TrimSpace(s)
}

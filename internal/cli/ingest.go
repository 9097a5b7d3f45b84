package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mentorplan/internal/logger"
	"mentorplan/internal/suggestion"
)

var ingestUserID string

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Validate and store an externally produced suggestion JSON",
	Long:  `Ingest validates a suggestion document against the schema. A valid document is stored as a pending suggestion; an invalid one is rejected with every violation listed.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestUserID, "user", "", "student identifier to attach to the suggestion")
}

func runIngest(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	result := suggestion.Validate(raw)
	if !result.Valid {
		fmt.Printf("Schema validation failed with %d violation(s):\n", len(result.Errors))
		for _, fe := range result.Errors {
			fmt.Printf("  - %s\n", fe.Error())
		}
		return fmt.Errorf("document rejected")
	}

	var doc suggestion.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	userID := ingestUserID
	if userID == "" {
		userID = e.cfg.UserID
	}

	sg := &suggestion.Suggestion{
		UserID:   userID,
		Agent:    suggestion.AgentAdhoc,
		Document: doc,
	}
	if err := e.store.SaveSuggestion(sg); err != nil {
		return err
	}
	logger.Logger.Info("suggestion ingested", "id", sg.ID, "file", args[0])

	fmt.Printf("Suggestion %s ingested (%d-day plan, %d tasks).\n", shortID(sg.ID), len(sg.Plan), sg.TaskCount())
	return nil
}

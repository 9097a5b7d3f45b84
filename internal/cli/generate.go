package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mentorplan/internal/ai"
	"mentorplan/internal/logger"
)

var generateUserID string

var generateCmd = &cobra.Command{
	Use:   "generate <profile-file>",
	Short: "Generate a study suggestion from a student profile",
	Long:  `Generate asks the AI for a study suggestion based on a free-text student profile, validates the response against the suggestion schema, and stores the result as a pending suggestion.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateUserID, "user", "", "student identifier to attach to the suggestion")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	profile, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}

	userID := generateUserID
	if userID == "" {
		userID = e.cfg.UserID
	}

	fmt.Println("Generating suggestion...")
	sg, err := ai.GenerateSuggestion(context.Background(), userID, string(profile))
	if err != nil {
		return err
	}

	if err := e.store.SaveSuggestion(sg); err != nil {
		return err
	}
	logger.Logger.Info("suggestion generated", "id", sg.ID, "user", userID, "planDays", len(sg.Plan))

	fmt.Printf("Suggestion %s created (%d-day plan, %d tasks).\n", shortID(sg.ID), len(sg.Plan), sg.TaskCount())
	fmt.Printf("Review it: mentorplan review %s --accept\n", shortID(sg.ID))
	return nil
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mentorplan/internal/config"
	"mentorplan/internal/logger"
	"mentorplan/internal/progress"
)

var dismissReason string

var dismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Dismiss a suggestion",
	Long:  `Dismiss rejects a suggestion so it can no longer be applied. An already-applied suggestion cannot be dismissed.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDismiss,
}

func init() {
	dismissCmd.Flags().StringVar(&dismissReason, "reason", "", "why the suggestion was dismissed")
}

func runDismiss(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	sg, err := e.store.GetSuggestion(args[0])
	if err != nil {
		return err
	}

	if err := sg.Dismiss(dismissReason, time.Now()); err != nil {
		return err
	}
	if err := e.store.SaveSuggestion(sg); err != nil {
		return err
	}

	events := progress.NewEventLog(config.DataDirName)
	if err := events.PlanDismissed(sg.ID, dismissReason); err != nil {
		logger.Logger.Warn("failed to log plan_dismissed event", "err", err)
	}
	logger.Logger.Info("suggestion dismissed", "id", sg.ID, "reason", dismissReason)

	fmt.Printf("Suggestion %s dismissed.\n", shortID(sg.ID))
	return nil
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mentorplan/internal/config"
	"mentorplan/internal/logger"
	"mentorplan/internal/progress"
)

var applyCmd = &cobra.Command{
	Use:   "apply <id>",
	Short: "Apply a suggestion's study plan",
	Long:  `Apply commits the student to the suggestion's plan, anchoring day-by-day progress at the current time. A dismissed suggestion cannot be applied.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	sg, err := e.store.GetSuggestion(args[0])
	if err != nil {
		return err
	}

	if err := sg.Apply(time.Now()); err != nil {
		return err
	}
	if err := e.store.SaveSuggestion(sg); err != nil {
		return err
	}

	events := progress.NewEventLog(config.DataDirName)
	if err := events.PlanApplied(sg.ID, len(sg.Plan)); err != nil {
		logger.Logger.Warn("failed to log plan_applied event", "err", err)
	}
	logger.Logger.Info("plan applied", "id", sg.ID, "days", len(sg.Plan))

	fmt.Printf("Applied %d-day plan from suggestion %s.\n", len(sg.Plan), shortID(sg.ID))
	fmt.Println("Track it: mentorplan progress  (or run mentorplan with no arguments for the timeline)")
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mentorplan/internal/progress"
	"mentorplan/internal/storage"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show suggestion lifecycle and active plan metrics",
	RunE:  runMetrics,
}

func runMetrics(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	counts, err := e.store.Metrics()
	if err != nil {
		return err
	}

	fmt.Println("Suggestions:")
	fmt.Printf("  total:     %d\n", counts.Total)
	fmt.Printf("  reviewed:  %d\n", counts.Reviewed)
	fmt.Printf("  accepted:  %d\n", counts.Accepted)
	fmt.Printf("  dismissed: %d\n", counts.Dismissed)
	fmt.Printf("  applied:   %d\n", counts.Applied)

	sg, err := e.store.ActiveSuggestion()
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Println("\nNo active plan.")
		return nil
	}
	if err != nil {
		return err
	}

	set, err := e.store.LoadCompleted(sg.ID)
	if err != nil {
		return err
	}
	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}

	m := progress.Summarize(sg, set, time.Now(), loc)
	fmt.Printf("\nActive plan %s:\n", shortID(sg.ID))
	fmt.Printf("  day:        %d of %d\n", m.CurrentDayIndex+1, m.TotalDays)
	fmt.Printf("  tasks:      %d/%d (%d%%)\n", m.CompletedTasks, m.TotalTasks, m.OverallPercent)
	fmt.Printf("  confidence: %d%%\n", m.ConfidencePercent)
	fmt.Printf("  days left:  %d\n", sg.DaysRemaining(time.Now()))
	return nil
}

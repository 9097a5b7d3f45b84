package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mentorplan/internal/analysis"
	"mentorplan/internal/config"
	"mentorplan/internal/progress"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Suggest mentor followups for the active plan",
	Long:  `Analyze inspects the active plan's completion history and recommends followups: days that slipped, tasks that keep being unchecked, and pacing problems.`,
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	sg, err := e.store.ActiveSuggestion()
	if err != nil {
		return err
	}
	set, err := e.store.LoadCompleted(sg.ID)
	if err != nil {
		return err
	}
	events, err := progress.ReadEvents(config.DataDirName)
	if err != nil {
		return err
	}
	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}

	followups := analysis.NewAnalyzer(sg, set, events, loc).Analyze(time.Now())
	fmt.Print(analysis.FormatFollowups(followups))
	return nil
}

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mentorplan/internal/progress"
	"mentorplan/internal/suggestion"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show the active plan's day-by-day progress",
	RunE:  runProgress,
}

func runProgress(cmd *cobra.Command, args []string) error {
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
	loc, err := e.cfg.Location()
	if err != nil {
		return err
	}

	fmt.Print(formatTimeline(sg, set, time.Now(), loc))
	return nil
}

func formatTimeline(sg *suggestion.Suggestion, set progress.CompletedSet, now time.Time, loc *time.Location) string {
	var sb strings.Builder

	m := progress.Summarize(sg, set, now, loc)
	current := m.CurrentDayIndex

	fmt.Fprintf(&sb, "Plan %s: day %d of %d, %d/%d tasks done (%d%%)\n\n",
		shortID(sg.ID), current+1, m.TotalDays, m.CompletedTasks, m.TotalTasks, m.OverallPercent)

	for i, day := range sg.Plan {
		marker := " "
		if progress.ClassifyDay(i, current) == progress.DayCurrent {
			marker = ">"
		}
		fmt.Fprintf(&sb, "%s Day %d (%s) [%s] %d%%\n",
			marker, i+1, day.Date, progress.ClassifyDay(i, current), progress.DayProgress(sg, set, i))

		for t, task := range day.Tasks {
			check := "[ ]"
			if set.Has(i, t) {
				check = "[x]"
			}
			fmt.Fprintf(&sb, "    %s %s  %s\n", check, task.Time, task.Task)
		}
	}

	return sb.String()
}

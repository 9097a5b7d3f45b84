package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mentorplan/internal/storage"
	"mentorplan/internal/suggestion"
)

var (
	showJSON   bool
	showExport string
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a suggestion in detail",
	Long:  `Show prints a suggestion's insights, plan and lifecycle state. IDs may be abbreviated to a unique prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the raw suggestion JSON")
	showCmd.Flags().StringVar(&showExport, "export", "", "write the suggestion JSON to a file")
}

func runShow(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	sg, err := e.store.GetSuggestion(args[0])
	if err != nil {
		return err
	}

	if showExport != "" {
		if err := storage.ExportSuggestion(showExport, sg); err != nil {
			return err
		}
		fmt.Println("Exported to", showExport)
		return nil
	}

	if showJSON {
		out, err := json.MarshalIndent(sg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Print(formatSuggestion(sg))
	return nil
}

func formatSuggestion(sg *suggestion.Suggestion) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Suggestion %s (%s)\n", shortID(sg.ID), sg.Status())
	if sg.UserID != "" {
		fmt.Fprintf(&sb, "Student: %s\n", sg.UserID)
	}
	if sg.Confidence != nil {
		fmt.Fprintf(&sb, "Confidence: %d%%\n", int(*sg.Confidence*100))
	}
	if sg.Reviewed {
		fmt.Fprintf(&sb, "Reviewed by %s", sg.ReviewedBy)
		if sg.ReviewNotes != "" {
			fmt.Fprintf(&sb, ": %s", sg.ReviewNotes)
		}
		sb.WriteString("\n")
	}
	if sg.Dismissed && sg.DismissReason != "" {
		fmt.Fprintf(&sb, "Dismissed: %s\n", sg.DismissReason)
	}

	if len(sg.Insights) > 0 {
		sb.WriteString("\nInsights:\n")
		for _, insight := range sg.Insights {
			fmt.Fprintf(&sb, "  [%s] %s: %s\n", insight.Severity, insight.Title, insight.Detail)
		}
	}

	if len(sg.Plan) > 0 {
		fmt.Fprintf(&sb, "\nPlan (%d days, %d tasks):\n", len(sg.Plan), sg.TaskCount())
		for _, day := range sg.Plan {
			fmt.Fprintf(&sb, "  Day %d (%s):\n", day.Day, day.Date)
			for _, task := range day.Tasks {
				minutes := 0
				if task.DurationMinutes != nil {
					minutes = *task.DurationMinutes
				}
				fmt.Fprintf(&sb, "    %s  %s (%dm)\n", task.Time, task.Task, minutes)
			}
		}
	}

	if len(sg.MentorActions) > 0 {
		sb.WriteString("\nMentor actions:\n")
		for _, action := range sg.MentorActions {
			fmt.Fprintf(&sb, "  - %s\n", action)
		}
	}

	return sb.String()
}

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored suggestions",
	Long:  `List all suggestions, newest first, optionally filtered by lifecycle status.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "all", "filter: all, pending, reviewed, applied or dismissed")
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	suggestions, err := e.store.ListSuggestions(listStatus)
	if err != nil {
		return err
	}

	if len(suggestions) == 0 {
		fmt.Println("No suggestions.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tUSER\tPLAN\tCONFIDENCE\tGENERATED")

	for _, sg := range suggestions {
		confidence := "-"
		if sg.Confidence != nil {
			confidence = fmt.Sprintf("%d%%", int(*sg.Confidence*100))
		}
		plan := fmt.Sprintf("%dd/%dt", len(sg.Plan), sg.TaskCount())

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(sg.ID),
			sg.Status(),
			sg.UserID,
			plan,
			confidence,
			formatAge(sg.GeneratedAt.Time),
		)
	}

	return w.Flush()
}

// shortID truncates a UUID for display; lookups accept the prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatAge returns a human-readable relative time string.
func formatAge(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}

	duration := time.Since(t)
	if duration < time.Minute {
		return "just now"
	}

	minutes := int(duration.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}

	hours := int(duration.Hours())
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd ago", days)
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mentorplan/internal/logger"
)

var (
	reviewAccept  bool
	reviewDecline bool
	reviewNotes   string
	reviewBy      string
)

var reviewCmd = &cobra.Command{
	Use:   "review <id>",
	Short: "Record a mentor's review decision",
	Long:  `Review accepts or declines a pending suggestion. Declining dismisses it; accepting makes it eligible for apply.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewAccept, "accept", false, "accept the suggestion")
	reviewCmd.Flags().BoolVar(&reviewDecline, "decline", false, "decline and dismiss the suggestion")
	reviewCmd.Flags().StringVar(&reviewNotes, "notes", "", "review notes")
	reviewCmd.Flags().StringVar(&reviewBy, "by", "", "reviewing mentor's name (defaults to configured mentor)")
	reviewCmd.MarkFlagsOneRequired("accept", "decline")
	reviewCmd.MarkFlagsMutuallyExclusive("accept", "decline")
}

func runReview(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	sg, err := e.store.GetSuggestion(args[0])
	if err != nil {
		return err
	}

	by := reviewBy
	if by == "" {
		by = e.cfg.Mentor
	}

	if err := sg.MarkReviewed(by, reviewNotes, reviewAccept, time.Now()); err != nil {
		return err
	}
	if err := e.store.SaveSuggestion(sg); err != nil {
		return err
	}
	logger.Logger.Info("suggestion reviewed", "id", sg.ID, "by", sg.ReviewedBy, "accepted", sg.Accepted)

	if reviewAccept {
		fmt.Printf("Suggestion %s accepted.\n", shortID(sg.ID))
		fmt.Printf("Apply it: mentorplan apply %s\n", shortID(sg.ID))
	} else {
		fmt.Printf("Suggestion %s declined and dismissed.\n", shortID(sg.ID))
	}
	return nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mentorplan/internal/config"
	"mentorplan/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize mentorplan in the current directory",
	Long:  "Creates a .mentorplan/ folder holding the suggestion database, configuration and logs.",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if IsInitialized() {
		return fmt.Errorf("mentorplan is already initialized in this directory")
	}

	if err := os.MkdirAll(config.DataDirName, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", config.DataDirName, err)
	}

	if err := config.Default().Save(config.DataDirName); err != nil {
		return err
	}

	store := storage.NewStore(config.DataDirName)
	if err := store.Init(); err != nil {
		return err
	}
	defer store.Close()

	fmt.Println("Initialized mentorplan in", config.DataDirName)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run: mentorplan generate <profile.txt>  (or ingest an existing suggestion JSON)")
	fmt.Println("  2. Review it: mentorplan review <id> --accept")
	fmt.Println("  3. Apply it: mentorplan apply <id>")
	return nil
}

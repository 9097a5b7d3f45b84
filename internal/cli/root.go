// Package cli implements the mentorplan command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mentorplan/internal/config"
	"mentorplan/internal/logger"
	"mentorplan/internal/storage"
	"mentorplan/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "mentorplan",
	Short:   "Review AI study suggestions and track plan progress",
	Long:    `Mentorplan validates AI-generated study suggestions, walks them through mentor review, and tracks a student's day-by-day progress once a plan is applied.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(dismissCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(metricsCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// IsInitialized checks if the data directory exists in the current directory.
func IsInitialized() bool {
	info, err := os.Stat(config.DataDirName)
	return err == nil && info.IsDir()
}

// RequireInitialized returns an error when the data directory is missing.
func RequireInitialized() error {
	if !IsInitialized() {
		return fmt.Errorf("mentorplan is not initialized here. Run: mentorplan init")
	}
	return nil
}

// env bundles the pieces every command needs: configuration and an open store.
type env struct {
	cfg   *config.Config
	store *storage.Store
}

// openEnv loads configuration, initializes logging and opens the store.
// The caller must Close the returned env.
func openEnv() (*env, error) {
	if err := RequireInitialized(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.DataDirName)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(config.DataDirName, cfg.Debug); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	store := storage.NewStore(config.DataDirName)
	if err := store.Init(); err != nil {
		return nil, err
	}

	return &env{cfg: cfg, store: store}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

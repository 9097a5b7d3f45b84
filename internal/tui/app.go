// Package tui implements the interactive study plan timeline.
package tui

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mentorplan/internal/config"
	"mentorplan/internal/logger"
	"mentorplan/internal/progress"
	"mentorplan/internal/storage"
)

// Run loads the active plan and starts the timeline UI. Without an active
// plan it prints a hint and returns.
func Run() error {
	if info, err := os.Stat(config.DataDirName); err != nil || !info.IsDir() {
		fmt.Println("mentorplan is not initialized here. Run: mentorplan init")
		return nil
	}

	cfg, err := config.Load(config.DataDirName)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	store := storage.NewStore(config.DataDirName)
	if err := store.Init(); err != nil {
		return err
	}
	defer store.Close()

	sg, err := store.ActiveSuggestion()
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Println("No active study plan. Apply one first: mentorplan apply <id>")
		return nil
	}
	if err != nil {
		return err
	}

	set, err := store.LoadCompleted(sg.ID)
	if err != nil {
		return err
	}

	events := progress.NewEventLog(config.DataDirName)
	toggle := func(dayIndex, taskIndex int, completed bool) error {
		if err := store.SetCompleted(sg.ID, dayIndex, taskIndex, completed); err != nil {
			return err
		}
		if err := events.TaskToggled(sg.ID, dayIndex, taskIndex, completed); err != nil {
			logger.Logger.Warn("failed to log task toggle", "err", err)
		}
		return nil
	}

	p := tea.NewProgram(
		NewTimelineModel(sg, set, loc, time.Now, toggle),
		tea.WithAltScreen(),
	)
	_, err = p.Run()
	return err
}

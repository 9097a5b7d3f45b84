package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mentorplan/internal/config"
	"mentorplan/internal/logger"
	"mentorplan/internal/progress"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <day> <task>",
	Short: "Toggle a task's completion on the active plan",
	Long:  `Toggle flips the completion state of a task on the active plan. Day and task are 1-based positions as shown by the progress command.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runToggle,
}

func runToggle(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	day, err := strconv.Atoi(args[0])
	if err != nil || day < 1 {
		return fmt.Errorf("invalid day number: %s", args[0])
	}
	task, err := strconv.Atoi(args[1])
	if err != nil || task < 1 {
		return fmt.Errorf("invalid task number: %s", args[1])
	}

	sg, err := e.store.ActiveSuggestion()
	if err != nil {
		return err
	}

	dayIndex, taskIndex := day-1, task-1
	if dayIndex >= len(sg.Plan) {
		return fmt.Errorf("plan has %d days, no day %d", len(sg.Plan), day)
	}
	if taskIndex >= len(sg.Plan[dayIndex].Tasks) {
		return fmt.Errorf("day %d has %d tasks, no task %d", day, len(sg.Plan[dayIndex].Tasks), task)
	}

	set, err := e.store.LoadCompleted(sg.ID)
	if err != nil {
		return err
	}

	events := progress.NewEventLog(config.DataDirName)
	var toggleErr error
	set.Toggle(dayIndex, taskIndex, func(d, t int, completed bool) {
		if err := e.store.SetCompleted(sg.ID, d, t, completed); err != nil {
			toggleErr = err
			return
		}
		if err := events.TaskToggled(sg.ID, d, t, completed); err != nil {
			logger.Logger.Warn("failed to log task toggle", "err", err)
		}

		state := "done"
		if !completed {
			state = "not done"
		}
		fmt.Printf("Day %d task %d: %s\n", d+1, t+1, state)
	})
	return toggleErr
}

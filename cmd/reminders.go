package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lowaak/stamena-trainer/internal/progress"
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Manage daily workout reminders",
}

var remindersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		printReminders(e.app.Store.Record())
		return nil
	}),
}

var remindersAddCmd = &cobra.Command{
	Use:   "add HH:MM",
	Short: "Add a daily reminder",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		t, err := progress.ParseReminderTime(args[0])
		if err != nil {
			return err
		}
		if err := e.app.Store.AddReminder(t); err != nil {
			return err
		}
		printReminders(e.app.Store.Record())
		return nil
	}),
}

var remindersRemoveCmd = &cobra.Command{
	Use:   "remove N",
	Short: "Remove the Nth reminder (as numbered by list)",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		index, err := parseReminderNumber(args[0])
		if err != nil {
			return err
		}
		if err := e.app.Store.RemoveReminder(index); err != nil {
			return err
		}
		printReminders(e.app.Store.Record())
		return nil
	}),
}

var remindersSetCmd = &cobra.Command{
	Use:   "set N HH:MM",
	Short: "Change the time of the Nth reminder",
	Args:  cobra.ExactArgs(2),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		index, err := parseReminderNumber(args[0])
		if err != nil {
			return err
		}
		t, err := progress.ParseReminderTime(args[1])
		if err != nil {
			return err
		}
		if err := e.app.Store.UpdateReminder(index, t); err != nil {
			return err
		}
		printReminders(e.app.Store.Record())
		return nil
	}),
}

func init() {
	remindersCmd.AddCommand(remindersListCmd, remindersAddCmd, remindersRemoveCmd, remindersSetCmd)
	rootCmd.AddCommand(remindersCmd)
}

// parseReminderNumber turns a 1-based number from the command line into an
// index
func parseReminderNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("reminder number must be a number: %q", s)
	}
	return n - 1, nil
}

func printReminders(rec progress.Record) {
	if len(rec.Reminders) == 0 {
		fmt.Println("No reminders")
		return
	}
	for i, r := range rec.Reminders {
		fmt.Printf("%d. %s\n", i+1, r)
	}
	if !rec.WorkoutNotifications {
		fmt.Println("(workout notifications are off)")
	}
}

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lowaak/stamena-trainer/internal/progress"
)

var levelCmd = &cobra.Command{
	Use:   "level <n>",
	Short: "Choose the workout level (requires unlocked mode)",
	Args:  cobra.ExactArgs(1),
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		level, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("level must be a number: %q", args[0])
		}
		if err := e.app.Store.SetLevel(level); err != nil {
			if errors.Is(err, progress.ErrLevelLocked) {
				return fmt.Errorf("%w (run `stamena unlock on` first)", err)
			}
			return err
		}
		fmt.Printf("Level set to %d\n", level)
		return nil
	}),
}

var unlockCmd = &cobra.Command{
	Use:       "unlock on|off",
	Short:     "Allow or forbid choosing the level manually",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		on, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		e.app.Store.SetUnlocked(on)
		fmt.Printf("Unlocked mode %s\n", args[0])
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(unlockCmd)
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lowaak/stamena-trainer/internal/logging"
	"github.com/lowaak/stamena-trainer/internal/trainer"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive workout (space: start/pause, r: reset, esc: quit)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// The terminal belongs to the UI: logs go to the file and the log pane
		uiLogChan := make(chan string, 100)
		logger, closer, err := logging.New(cfg.Log, trainer.NewChannelWriter(uiLogChan))
		if err != nil {
			return fmt.Errorf("opening log: %w", err)
		}
		defer closer.Close()

		return trainer.RunTUI(cfg, logger, uiLogChan)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

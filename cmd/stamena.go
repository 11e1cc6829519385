package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/lowaak/stamena-trainer/internal/config"
	"github.com/lowaak/stamena-trainer/internal/logging"
	"github.com/lowaak/stamena-trainer/internal/trainer"
)

var rootCmd = &cobra.Command{
	Use:           "stamena",
	Short:         "Daily pelvic floor workouts with levels, points and streaks",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every non-interactive command works with
type env struct {
	cfg    *config.Config
	logger *log.Logger
	app    *trainer.App
	closer io.Closer
}

// loadConfig resolves the configuration from the command's flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(cmd.Flags())
}

// openEnv loads config, opens the log and builds the app. --verbose copies
// the log to stderr.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	var tee io.Writer
	if cfg.Verbose {
		tee = os.Stderr
	}
	logger, closer, err := logging.New(cfg.Log, tee)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	app, err := trainer.OpenApp(cfg, logger, nil)
	if err != nil {
		closer.Close()
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, app: app, closer: closer}, nil
}

func (e *env) Close() {
	if err := e.app.Close(); err != nil {
		e.logger.Printf("stamena: close: %v", err)
	}
	e.closer.Close()
}

// withEnv wraps a command body with openEnv/Close
func withEnv(fn func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(cmd, args, e)
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lowaak/stamena-trainer/internal/plan"
	"github.com/lowaak/stamena-trainer/internal/session"
)

const statusHistorySize = 5

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show level, points, streak, reminders and recent workouts",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		rec := e.app.Store.Record()

		printBoxedHeader("STAMENA")

		level := fmt.Sprint(rec.Level)
		if rec.Unlocked {
			level += color.RedString(" (unlocked)")
		}
		printMetric("Level", level)
		printMetric("Points", fmt.Sprintf("%d / %d", rec.TotalPoints, rec.NextLevelGoal()))
		printMetric("Streak", fmt.Sprintf("%d day(s)", rec.StreakCount))
		printMetric("Workouts", rec.CompletedWorkouts)
		last := "never"
		if rec.LastWorkoutTimestamp != nil {
			last = rec.LastWorkoutTimestamp.Local().Format("2006-01-02 15:04")
		} else if rec.LastWorkoutDate != "" {
			last = rec.LastWorkoutDate
		}
		printMetric("Last workout", last)
		today := plan.Generate(rec.Level)
		printMetric("Today's plan", fmt.Sprintf("%d sets, %s", len(today), session.FormatTime(today.TotalDuration())))
		fmt.Println()

		printSection("Reminders:")
		if !rec.WorkoutNotifications {
			fmt.Println("  " + color.HiBlackString("notifications off"))
		}
		if len(rec.Reminders) == 0 {
			fmt.Println("  none")
		}
		for i, r := range rec.Reminders {
			fmt.Printf("  %d. %s\n", i+1, r)
		}
		fmt.Println()

		entries, err := e.app.RecentWorkouts(statusHistorySize)
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}
		printSection("Recent workouts:")
		if len(entries) == 0 {
			fmt.Println("  none yet")
		}
		for _, entry := range entries {
			fmt.Printf("  • %s  level %d  %s  streak %d\n",
				entry.CompletedAt.Local().Format("2006-01-02 15:04"),
				entry.Level,
				color.GreenString("+%d", entry.Points),
				entry.Streak)
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// printBoxedHeader prints a header in a box.
func printBoxedHeader(title string) {
	width := 40
	cyanBold := color.New(color.FgCyan, color.Bold).SprintFunc()
	border := strings.Repeat("═", width)
	fmt.Println(cyanBold("╔" + border + "╗"))
	fmt.Println(cyanBold("║" + centerText(title, width) + "║"))
	fmt.Println(cyanBold("╚" + border + "╝"))
}

func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	padding := (width - len(s)) / 2
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-len(s)-padding)
}

func printMetric(label string, value interface{}) {
	yellowBold := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Printf("  %s: %v\n", yellowBold(label), value)
}

func printSection(title string) {
	fmt.Println(color.New(color.FgGreen, color.Bold).Sprint(title))
}

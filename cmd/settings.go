package main

import (
	"github.com/spf13/cobra"

	"github.com/lowaak/stamena-trainer/internal/progress"
)

var (
	textCues             bool
	audioCues            bool
	vibrationCues        bool
	workoutNotifications bool
	pointNotifications   bool
	notificationTitle    string
	notificationBody     string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change cue and notification settings",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(cmd *cobra.Command, args []string, e *env) error {
		store := e.app.Store
		flags := cmd.Flags()
		if flags.Changed("text-cues") {
			store.SetTextCues(textCues)
		}
		if flags.Changed("audio-cues") {
			store.SetAudioCues(audioCues)
		}
		if flags.Changed("vibration-cues") {
			store.SetVibrationCues(vibrationCues)
		}
		if flags.Changed("workout-notifications") {
			store.SetWorkoutNotifications(workoutNotifications)
		}
		if flags.Changed("point-notifications") {
			store.SetPointNotifications(pointNotifications)
		}
		if flags.Changed("title") || flags.Changed("body") {
			rec := store.Record()
			title, body := rec.NotificationTitle, rec.NotificationBody
			if flags.Changed("title") {
				title = notificationTitle
			}
			if flags.Changed("body") {
				body = notificationBody
			}
			store.SetNotificationText(title, body)
		}
		printSettings(store.Record())
		return nil
	}),
}

func init() {
	f := settingsCmd.Flags()
	f.BoolVar(&textCues, "text-cues", true, "show SQUEEZE / RELAX text")
	f.BoolVar(&audioCues, "audio-cues", true, "play sound cues")
	f.BoolVar(&vibrationCues, "vibration-cues", true, "play vibration cues")
	f.BoolVar(&workoutNotifications, "workout-notifications", true, "daily reminders and streak warnings")
	f.BoolVar(&pointNotifications, "point-notifications", true, "announce points after a workout")
	f.StringVar(&notificationTitle, "title", "", "reminder title (empty for the default)")
	f.StringVar(&notificationBody, "body", "", "reminder text (empty for the default)")
	rootCmd.AddCommand(settingsCmd)
}

func printSettings(rec progress.Record) {
	printMetric("Text cues", onOff(rec.TextCues))
	printMetric("Audio cues", onOff(rec.AudioCues))
	printMetric("Vibration cues", onOff(rec.VibrationCues))
	printMetric("Workout notifications", onOff(rec.WorkoutNotifications))
	printMetric("Point notifications", onOff(rec.PointNotifications))
	printMetric("Reminder title", rec.Title())
	printMetric("Reminder body", rec.Body())
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

package progress

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lowaak/stamena-trainer/internal/plan"
)

// recordJSON is the on-disk layout. Reminders are stored as full
// timestamps; only hour and minute are read back.
type recordJSON struct {
	Level                int        `json:"level"`
	Unlocked             bool       `json:"unlocked"`
	TextCues             bool       `json:"text_cues"`
	VibrationCues        bool       `json:"vibration_cues"`
	AudioCues            bool       `json:"audio_cues"`
	WorkoutNotifications bool       `json:"workout_notifications"`
	PointNotifications   bool       `json:"point_notifications"`
	NotificationTitle    string     `json:"notification_title,omitempty"`
	NotificationBody     string     `json:"notification_body,omitempty"`
	TotalPoints          int        `json:"total_points"`
	StreakCount          int        `json:"streak_count"`
	LastWorkoutDate      string     `json:"last_workout_date,omitempty"`
	LastWorkoutTimestamp *time.Time `json:"last_workout_timestamp,omitempty"`
	CompletedWorkouts    int        `json:"completed_workouts"`
	Reminders            []string   `json:"reminders"`
}

func encodeRecord(r Record, now time.Time) ([]byte, error) {
	out := recordJSON{
		Level:                r.Level,
		Unlocked:             r.Unlocked,
		TextCues:             r.TextCues,
		VibrationCues:        r.VibrationCues,
		AudioCues:            r.AudioCues,
		WorkoutNotifications: r.WorkoutNotifications,
		PointNotifications:   r.PointNotifications,
		NotificationTitle:    r.NotificationTitle,
		NotificationBody:     r.NotificationBody,
		TotalPoints:          r.TotalPoints,
		StreakCount:          r.StreakCount,
		LastWorkoutDate:      r.LastWorkoutDate,
		LastWorkoutTimestamp: r.LastWorkoutTimestamp,
		CompletedWorkouts:    r.CompletedWorkouts,
		Reminders:            make([]string, 0, len(r.Reminders)),
	}
	for _, rem := range r.Reminders {
		ts := time.Date(now.Year(), now.Month(), now.Day(), rem.Hour, rem.Minute, 0, 0, now.Location())
		out.Reminders = append(out.Reminders, ts.Format(time.RFC3339))
	}
	return json.MarshalIndent(out, "", "  ")
}

// fieldDecoder reads one field into rec, returning an error if the value is
// unusable. Each field is listed with its current key followed by the key
// the record used before it was renamed.
type fieldDecoder struct {
	keys   []string
	decode func(raw json.RawMessage, rec *Record) error
}

var fieldDecoders = []fieldDecoder{
	{[]string{"level", "stamenaLevel"}, func(raw json.RawMessage, rec *Record) error {
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if v < plan.MinLevel || v > plan.MaxLevel {
			return fmt.Errorf("%w: %d", ErrLevelOutOfRange, v)
		}
		rec.Level = v
		return nil
	}},
	{[]string{"unlocked", "godMode"}, boolField(func(r *Record) *bool { return &r.Unlocked })},
	{[]string{"text_cues", "textCues"}, boolField(func(r *Record) *bool { return &r.TextCues })},
	{[]string{"vibration_cues", "vibrationCues"}, boolField(func(r *Record) *bool { return &r.VibrationCues })},
	{[]string{"audio_cues", "audioCues"}, boolField(func(r *Record) *bool { return &r.AudioCues })},
	{[]string{"workout_notifications", "workoutNotifs"}, boolField(func(r *Record) *bool { return &r.WorkoutNotifications })},
	{[]string{"point_notifications", "pointNotifs"}, boolField(func(r *Record) *bool { return &r.PointNotifications })},
	{[]string{"notification_title"}, stringField(func(r *Record) *string { return &r.NotificationTitle })},
	{[]string{"notification_body"}, stringField(func(r *Record) *string { return &r.NotificationBody })},
	{[]string{"total_points", "totalPoints"}, countField(func(r *Record) *int { return &r.TotalPoints })},
	{[]string{"streak_count", "streak"}, countField(func(r *Record) *int { return &r.StreakCount })},
	{[]string{"completed_workouts"}, countField(func(r *Record) *int { return &r.CompletedWorkouts })},
	{[]string{"last_workout_date", "lastWorkoutDate"}, func(raw json.RawMessage, rec *Record) error {
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if v == nil || *v == "" {
			rec.LastWorkoutDate = ""
			return nil
		}
		if _, err := time.Parse(DateLayout, *v); err != nil {
			return err
		}
		rec.LastWorkoutDate = *v
		return nil
	}},
	{[]string{"last_workout_timestamp"}, func(raw json.RawMessage, rec *Record) error {
		var v *time.Time
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		rec.LastWorkoutTimestamp = v
		return nil
	}},
	{[]string{"reminders"}, func(raw json.RawMessage, rec *Record) error {
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		reminders := make([]ReminderTime, 0, len(v))
		for _, s := range v {
			if ts, err := time.Parse(time.RFC3339, s); err == nil {
				reminders = append(reminders, ReminderTime{Hour: ts.Hour(), Minute: ts.Minute()})
				continue
			}
			if rem, err := ParseReminderTime(s); err == nil {
				reminders = append(reminders, rem)
			}
		}
		rec.Reminders = reminders
		return nil
	}},
}

func boolField(ptr func(*Record) *bool) func(json.RawMessage, *Record) error {
	return func(raw json.RawMessage, rec *Record) error {
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*ptr(rec) = v
		return nil
	}
}

func stringField(ptr func(*Record) *string) func(json.RawMessage, *Record) error {
	return func(raw json.RawMessage, rec *Record) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*ptr(rec) = v
		return nil
	}
}

func countField(ptr func(*Record) *int) func(json.RawMessage, *Record) error {
	return func(raw json.RawMessage, rec *Record) error {
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("negative count %d", v)
		}
		*ptr(rec) = v
		return nil
	}
}

// decodeRecord starts from DefaultRecord and overlays every field of raw
// that parses. A field that is missing or invalid keeps its default; a
// document that is not a JSON object yields the defaults.
func decodeRecord(raw []byte, logger *log.Logger) Record {
	rec := DefaultRecord()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		logger.Printf("ProgressStore: record is not a JSON object, using defaults: %v", err)
		return rec
	}

	for _, fd := range fieldDecoders {
		for _, key := range fd.keys {
			value, ok := fields[key]
			if !ok {
				continue
			}
			if err := fd.decode(value, &rec); err != nil {
				logger.Printf("ProgressStore: ignoring field %q: %v", key, err)
			}
			break
		}
	}
	return rec
}

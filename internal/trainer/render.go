package trainer

import (
	"fmt"
	"strings"

	"github.com/lowaak/stamena-trainer/internal/progress"
	"github.com/lowaak/stamena-trainer/internal/session"
)

const progressBarWidth = 30

// progressBar draws fraction (0..1) as a bar of width cells
func progressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// phaseLine is the big line of the workout page
func phaseLine(st session.State, textCues bool) string {
	switch st.Phase {
	case session.PhaseIdle:
		return "[green]Ready[white]"
	case session.PhaseCountdown:
		return fmt.Sprintf("[yellow]%d[white]", st.CountdownValue)
	case session.PhaseFinished:
		return "[green]Workout complete![white]"
	}
	label := session.TextCue(st, textCues)
	if label == "" {
		label = st.EffectivePhase().String()
	}
	color := "cyan"
	if st.EffectivePhase() == session.PhaseRelaxing {
		color = "blue"
	}
	line := fmt.Sprintf("[%s]%s[white]  %ds", color, label, session.PhaseSecondsLeft(st))
	if st.Phase == session.PhasePaused {
		line += " [gray](PAUSED)[white]"
	}
	return line
}

// renderSession formats the session panel of the workout page
func renderSession(st session.State, textCues bool) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  [yellow]Level %d[white]\n\n", st.Level)
	fmt.Fprintf(&b, "  %s\n\n", phaseLine(st, textCues))

	if st.Phase != session.PhaseIdle && st.Phase != session.PhaseFinished && st.Phase != session.PhaseCountdown {
		set := st.CurrentSet()
		fmt.Fprintf(&b, "  [gray]Set:[white] %d/%d %s\n", st.SetIndex+1, st.TotalSets(), set.Label)
		fmt.Fprintf(&b, "  [gray]Rep:[white] %d/%d\n\n", st.RepIndex, set.RepetitionCount)
		fmt.Fprintf(&b, "  %s\n\n", progressBar(st.PhaseProgress, progressBarWidth))
	}
	fmt.Fprintf(&b, "  [gray]Time left:[white] %s\n", session.FormatTime(st.TotalTimeRemaining))

	b.WriteString("\n  [gray]─────────────────────────[white]\n")
	switch st.Phase {
	case session.PhaseIdle:
		b.WriteString("  [yellow]Space[white] Start  |  [yellow]+/-[white] Level\n")
	case session.PhaseCountdown:
		b.WriteString("  [yellow]R[white] Reset\n")
	case session.PhasePaused:
		b.WriteString("  [yellow]Space[white] Resume  |  [yellow]R[white] Reset\n")
	case session.PhaseFinished:
		b.WriteString("  [yellow]Space[white] Restart  |  [yellow]R[white] Reset\n")
	default:
		b.WriteString("  [yellow]Space[white] Pause  |  [yellow]R[white] Reset\n")
	}
	return b.String()
}

// renderPlan lists the sets of the plan with the current one highlighted
func renderPlan(st session.State) string {
	var b strings.Builder
	b.WriteString("\n")
	if len(st.Plan) == 0 {
		b.WriteString("  [gray]No sets at this level[white]\n")
		return b.String()
	}
	active := st.Phase != session.PhaseIdle && st.Phase != session.PhaseFinished
	for i, set := range st.Plan {
		marker := " "
		color := "white"
		switch {
		case active && i == st.SetIndex:
			marker, color = "▶", "yellow"
		case (active && i < st.SetIndex) || st.Phase == session.PhaseFinished:
			color = "gray"
		}
		fmt.Fprintf(&b, "  %s [%s]%-15s[white] %2d × %.1fs / %.1fs\n",
			marker, color, set.Label, set.RepetitionCount, set.Squeeze.Seconds(), set.Relax.Seconds())
	}
	fmt.Fprintf(&b, "\n  [gray]Total:[white] %s\n", session.FormatTime(st.Plan.TotalDuration()))
	return b.String()
}

// renderStats formats level, points and streak for the progress page
func renderStats(rec progress.Record) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  [gray]Level:[white]     [yellow]%d[white]", rec.Level)
	if rec.Unlocked {
		b.WriteString(" [red](unlocked)[white]")
	}
	b.WriteString("\n")
	goal := rec.NextLevelGoal()
	fmt.Fprintf(&b, "  [gray]Points:[white]    %d / %d\n", rec.TotalPoints, goal)
	if goal > 0 {
		fmt.Fprintf(&b, "  %s\n", progressBar(float64(rec.TotalPoints)/float64(goal), progressBarWidth))
	}
	fmt.Fprintf(&b, "  [gray]Streak:[white]    %d day(s)\n", rec.StreakCount)
	fmt.Fprintf(&b, "  [gray]Workouts:[white]  %d\n", rec.CompletedWorkouts)
	last := "never"
	if rec.LastWorkoutDate != "" {
		last = rec.LastWorkoutDate
	}
	fmt.Fprintf(&b, "  [gray]Last:[white]      %s\n", last)
	return b.String()
}

// renderHistory lists recent workouts, newest first
func renderHistory(entries []progress.Entry) string {
	if len(entries) == 0 {
		return "\n  [gray]No workouts recorded yet[white]\n"
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "  %s  [gray]level[white] %2d  [green]+%d[white]  [gray]streak[white] %d\n",
			e.CompletedAt.Local().Format("2006-01-02 15:04"), e.Level, e.Points, e.Streak)
	}
	return b.String()
}

func onOff(on bool) string {
	if on {
		return "[green]on[white]"
	}
	return "[gray]off[white]"
}

// renderSettings formats the toggles and reminders for the settings page
func renderSettings(rec progress.Record) string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "  [yellow]T[white] Text cues              %s\n", onOff(rec.TextCues))
	fmt.Fprintf(&b, "  [yellow]A[white] Audio cues             %s\n", onOff(rec.AudioCues))
	fmt.Fprintf(&b, "  [yellow]V[white] Vibration cues         %s\n", onOff(rec.VibrationCues))
	fmt.Fprintf(&b, "  [yellow]N[white] Workout notifications  %s\n", onOff(rec.WorkoutNotifications))
	fmt.Fprintf(&b, "  [yellow]P[white] Point notifications    %s\n", onOff(rec.PointNotifications))
	fmt.Fprintf(&b, "  [yellow]U[white] Unlocked level select  %s\n", onOff(rec.Unlocked))

	b.WriteString("\n  [gray]Reminders:[white]\n")
	if len(rec.Reminders) == 0 {
		b.WriteString("    none\n")
	}
	for i, r := range rec.Reminders {
		fmt.Fprintf(&b, "    %d. %s\n", i+1, r)
	}
	fmt.Fprintf(&b, "\n  [gray]Title:[white] %s\n  [gray]Body:[white]  %s\n", rec.Title(), rec.Body())
	b.WriteString("\n  [gray]Edit reminders with `stamena reminders`[white]\n")
	return b.String()
}

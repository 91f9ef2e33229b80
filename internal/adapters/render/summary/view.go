package summary

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/smartworker/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now time.Time
	// MaxRounds draws the round budget bar when positive.
	MaxRounds int
}

const (
	shortIDLength   = 8
	promptPreview   = 60
	roundsBarWidth  = 24
	trailPreviewLen = 120
)

func runView(run domain.Run, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("SmartWorker Run"),
		lipgloss.JoinHorizontal(lipgloss.Top, s.runID.Render(string(run.ID)), " ", stateBadge(run.State)),
		s.header.Render(runMeta(run, opts)),
	}

	if opts.MaxRounds > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			s.label.Render("rounds:"), " ",
			renderProgressBar(run.Rounds, opts.MaxRounds, roundsBarWidth, s), " ",
			s.detail.Render(fmt.Sprintf("%d/%d", run.Rounds, opts.MaxRounds)),
		))
	}

	if run.Prompt != "" {
		lines = append(lines, s.section.Render(s.label.Render("contract")), s.detail.Render(run.Prompt))
	}
	if len(run.Plan) > 0 {
		lines = append(lines, s.section.Render(s.label.Render("plan")))
		lines = append(lines, numbered(run.Plan, s)...)
	}
	if len(run.Trail) > 0 {
		lines = append(lines, s.section.Render(s.label.Render("feedback")))
		for i, entry := range run.Trail {
			lines = append(lines, s.step.Render(fmt.Sprintf("%2d.", i+1))+" "+s.detail.Render(truncate(oneLine(entry), trailPreviewLen)))
		}
	}
	if len(run.Clarification) > 0 {
		lines = append(lines, s.section.Render(s.label.Render("clarifications")))
		for _, answer := range run.Clarification {
			lines = append(lines, s.detail.Render("- "+answer))
		}
	}
	if run.Error != "" {
		lines = append(lines, s.section.Render(s.warning.Render("error: "+run.Error)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func runsView(runs []domain.Run, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("SmartWorker Runs"),
		s.header.Render(fmt.Sprintf("runs: %d", len(runs))),
	}

	if len(runs) == 0 {
		lines = append(lines, s.empty.Render("No runs recorded yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, run := range runs {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			s.runID.Render(shortID(run.ID)), " ",
			stateBadge(run.State), " ",
			s.header.Render(fmt.Sprintf("%d rounds, %s", run.Rounds, formatStarted(run.StartedAt, opts.Now))), " ",
			s.detail.Render(truncate(oneLine(run.Prompt), promptPreview)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func planView(prompt string, plan []string, s styles) string {
	lines := []string{
		s.title.Render("SmartWorker Plan"),
		s.detail.Render(prompt),
		s.section.Render(s.header.Render(fmt.Sprintf("steps: %d", len(plan)))),
	}
	if len(plan) == 0 {
		lines = append(lines, s.empty.Render("The oracle proposed no steps."))
	}
	lines = append(lines, numbered(plan, s)...)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func stateBadge(state domain.LoopState) string {
	label := string(state)
	if label == "" {
		label = "unknown"
	}
	return lipgloss.NewStyle().Bold(true).Foreground(stateColor(label)).Render("[" + label + "]")
}

func runMeta(run domain.Run, opts RenderOptions) string {
	parts := []string{fmt.Sprintf("rounds: %d", run.Rounds), fmt.Sprintf("actions: %d", len(run.Actions))}
	if !run.StartedAt.IsZero() {
		parts = append(parts, formatStarted(run.StartedAt, opts.Now))
	}
	if d := run.Duration(); d > 0 {
		parts = append(parts, "took "+d.Round(time.Second).String())
	}
	return strings.Join(parts, " | ")
}

func numbered(items []string, s styles) []string {
	lines := make([]string, 0, len(items))
	for i, item := range items {
		lines = append(lines, s.step.Render(fmt.Sprintf("%2d.", i+1))+" "+s.detail.Render(item))
	}
	return lines
}

func renderProgressBar(used int, total int, width int, s styles) string {
	if width <= 0 || total <= 0 {
		return ""
	}

	fraction := float64(used) / float64(total)
	filled := int(math.Round(float64(width) * fraction))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func formatStarted(started, now time.Time) string {
	if started.IsZero() {
		return "not started"
	}
	if now.IsZero() || started.After(now) {
		return "started " + started.Format("2006-01-02 15:04")
	}

	elapsed := now.Sub(started)
	switch {
	case elapsed < time.Minute:
		return "started just now"
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "minute") + " ago"
	case elapsed < 24*time.Hour:
		return plural(int(elapsed.Hours()), "hour") + " ago"
	default:
		return plural(int(elapsed.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func shortID(id domain.RunID) string {
	if len(id) <= shortIDLength {
		return string(id)
	}
	return string(id[:shortIDLength])
}

func oneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

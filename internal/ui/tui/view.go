package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderSteps(&b, m)

	if len(m.Output) > 0 {
		renderOutput(&b, m)
	}
	if len(m.Details) > 0 {
		renderDetails(&b, m)
	}

	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	b.WriteString(titleStyle.Render(fmt.Sprintf("provisionr: %s", m.Title)))

	status := " "
	switch {
	case m.Done:
		status += readyStyle.Render("Ready")
	case m.Err != nil:
		status += failedStyle.Render("Failed")
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame))
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	fmt.Fprintf(b, "  %s %d/%d\n", bar, m.Finished(), len(m.Steps))
}

func renderSteps(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Steps"))
	b.WriteString("\n")

	for _, step := range m.Steps {
		var icon string
		var style styleFunc
		switch step.State {
		case StepFailed:
			icon = crossMark
			style = sf(failedStyle)
		case StepDone:
			icon = checkMark
			style = sf(readyStyle)
		case StepSkipped:
			icon = skipMark
			style = sf(readyStyle)
		case StepActive:
			icon = currentSpinner(m.SpinnerFrame)
			style = sf(activeStyle)
		default:
			icon = pending
			style = sf(dimStyle)
		}
		line := fmt.Sprintf("    %s %s", style(icon), style(step.Description))
		if step.Message != "" && step.State != StepActive {
			line += "  " + dimStyle.Render(step.Message)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func renderOutput(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Output"))
	b.WriteString("\n")
	for _, line := range m.Output {
		fmt.Fprintf(b, "    %s\n", dimStyle.Render(line))
	}
}

func renderDetails(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Details"))
	b.WriteString("\n")
	for _, d := range m.Details {
		if d.Warning {
			fmt.Fprintf(b, "    %s %s\n", warningStyle.Render(warnMark), d.Text)
			continue
		}
		fmt.Fprintf(b, "    %s\n", d.Text)
	}
	if m.Hint != "" {
		fmt.Fprintf(b, "    %s %s\n", failedStyle.Render(crossMark), m.Hint)
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime))
	b.WriteString(footerStyle.Render(fmt.Sprintf("  elapsed: %s  |  q: quit", elapsed)))
	b.WriteString("\n")
}

// Helper functions

func currentSpinner(frame int) string {
	if len(spinnerFrames) == 0 {
		return spinner
	}
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}
	if len(m.Steps) == 0 {
		return 0
	}
	return float64(m.Finished()) / float64(len(m.Steps))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

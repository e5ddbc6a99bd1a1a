// Package status prints the prefixed, colored status lines of a provisioning
// run and its closing banner.
//
// [INFO] and [OK] lines go to stdout, [WARN] and [FAIL] lines to stderr.
package status

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Level selects the prefix and stream of a status line.
type Level int

const (
	LevelInfo Level = iota
	LevelOK
	LevelWarn
	LevelFail
)

// Prefix returns the bracketed tag printed for the level.
func (l Level) Prefix() string {
	switch l {
	case LevelOK:
		return "[OK]"
	case LevelWarn:
		return "[WARN]"
	case LevelFail:
		return "[FAIL]"
	default:
		return "[INFO]"
	}
}

var (
	colorBlue   = lipgloss.Color("4")
	colorGreen  = lipgloss.Color("2")
	colorYellow = lipgloss.Color("3")
	colorRed    = lipgloss.Color("1")
	colorDim    = lipgloss.Color("8")
)

// Printer writes status lines. It is not safe for concurrent use.
type Printer struct {
	out    io.Writer
	errOut io.Writer

	outStyles map[Level]lipgloss.Style
	errStyles map[Level]lipgloss.Style
	banner    lipgloss.Style
	title     lipgloss.Style
	dim       lipgloss.Style
}

// New creates a Printer. With color false all output is plain text.
func New(out, errOut io.Writer, color bool) *Printer {
	outR := newRenderer(out, color)
	errR := newRenderer(errOut, color)

	return &Printer{
		out:       out,
		errOut:    errOut,
		outStyles: levelStyles(outR),
		errStyles: levelStyles(errR),
		banner: outR.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGreen).
			Padding(0, 1),
		title: outR.NewStyle().Bold(true).Foreground(colorGreen),
		dim:   outR.NewStyle().Foreground(colorDim),
	}
}

// ColorEnabled reports whether status output should be colored: only when
// stdout and stderr are both terminals, noColor is false and NO_COLOR is unset.
func ColorEnabled(noColor bool) bool {
	return !noColor && os.Getenv("NO_COLOR") == "" &&
		IsTerminal(os.Stdout) && IsTerminal(os.Stderr)
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

func levelStyles(r *lipgloss.Renderer) map[Level]lipgloss.Style {
	return map[Level]lipgloss.Style{
		LevelInfo: r.NewStyle().Foreground(colorBlue),
		LevelOK:   r.NewStyle().Foreground(colorGreen),
		LevelWarn: r.NewStyle().Foreground(colorYellow),
		LevelFail: r.NewStyle().Foreground(colorRed).Bold(true),
	}
}

// Line prints one status line at the given level.
func (p *Printer) Line(level Level, format string, args ...any) {
	w, styles := p.out, p.outStyles
	if level >= LevelWarn {
		w, styles = p.errOut, p.errStyles
	}
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(w, "%s %s\n", styles[level].Render(level.Prefix()), msg)
}

// Info prints an [INFO] line.
func (p *Printer) Info(format string, args ...any) { p.Line(LevelInfo, format, args...) }

// OK prints an [OK] line.
func (p *Printer) OK(format string, args ...any) { p.Line(LevelOK, format, args...) }

// Warn prints a [WARN] line.
func (p *Printer) Warn(format string, args ...any) { p.Line(LevelWarn, format, args...) }

// Fail prints a [FAIL] line.
func (p *Printer) Fail(format string, args ...any) { p.Line(LevelFail, format, args...) }

// Banner prints a boxed summary: a title followed by indented commands.
func (p *Printer) Banner(title string, commands []string) {
	var b strings.Builder
	b.WriteString(p.title.Render(title))
	if len(commands) > 0 {
		b.WriteString("\n\n")
		b.WriteString(p.dim.Render("Next steps:"))
		for _, c := range commands {
			b.WriteString("\n  ")
			b.WriteString(c)
		}
	}
	_, _ = fmt.Fprintln(p.out, p.banner.Render(b.String()))
}

// Package termcal prints occurrence lists and week grids to a terminal.
package termcal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"recurcal/internal/calendar"
	"recurcal/internal/model"
)

// Gruvbox-inspired color palette.
var (
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorBg     = lipgloss.Color("#282828")
)

var (
	styleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	styleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	styleDay        = lipgloss.NewStyle().Foreground(ColorFg)
	styleOccurrence = lipgloss.NewStyle().Foreground(ColorBg).Background(ColorBlue).Bold(true)
	styleMonth      = lipgloss.NewStyle().Foreground(ColorYellow)
	styleWarn       = lipgloss.NewStyle().Foreground(ColorYellow)
)

// occurrenceMark follows a day number that carries an occurrence so the
// grid stays readable without color.
const occurrenceMark = "*"

// Printer writes styled output. With color off every style is skipped and
// the output is plain text.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

// ColorEnabled reports whether f is a terminal and NO_COLOR is unset.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p *Printer) header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return p.render(styleHeader, upper) + "\n" + p.render(styleDim, line)
}

// Occurrences prints the numbered occurrence list under a
// "Generated Events (N)" header.
func (p *Printer) Occurrences(occurrences []model.DateTime, truncated bool) error {
	var b strings.Builder
	b.WriteString(p.header(fmt.Sprintf("Generated Events (%d)", len(occurrences))))
	b.WriteString("\n")

	if len(occurrences) == 0 {
		b.WriteString(p.render(styleDim, "No events generated yet."))
		b.WriteString("\n")
	}
	width := len(fmt.Sprint(len(occurrences)))
	for i, o := range occurrences {
		fmt.Fprintf(&b, "%*d. %s\n", width+2, i+1, o.Display())
	}
	if truncated {
		b.WriteString(p.render(styleWarn, "count was capped by max_occurrences"))
		b.WriteString("\n")
	}

	_, err := io.WriteString(p.out, b.String())
	return err
}

// Grid prints the Sunday-first week rows covering window. Days with an
// occurrence are highlighted and marked, days outside window are dimmed, and
// a row is labeled with the month that starts in it.
func (p *Printer) Grid(window model.Interval, occurrences []model.DateTime) error {
	days, err := calendar.Days(window)
	if err != nil {
		return err
	}
	grid, err := calendar.BuildWeeks(days)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(p.header("Calendar View"))
	b.WriteString("\n")

	var head strings.Builder
	for _, name := range calendar.WeekdayNames {
		fmt.Fprintf(&head, "%4s", name)
	}
	b.WriteString(p.render(styleDim, head.String()))
	b.WriteString("\n")

	for _, row := range grid {
		var line strings.Builder
		label := ""
		for _, d := range row {
			inRange := calendar.IsInRange(d, window)
			num := fmt.Sprintf("%3d", d.Day)
			switch {
			case calendar.HasOccurrence(d, occurrences):
				line.WriteString(p.render(styleOccurrence, num))
				line.WriteString(occurrenceMark)
			case !inRange:
				line.WriteString(p.render(styleDim, num))
				line.WriteString(" ")
			default:
				line.WriteString(p.render(styleDay, num))
				line.WriteString(" ")
			}
			if inRange && (d.Day == 1 || d.Equal(window.Start)) {
				label = fmt.Sprintf("%s %d", d.Month, d.Year)
			}
		}

		text := strings.TrimRight(line.String(), " ")
		if label != "" {
			text += "  " + p.render(styleMonth, label)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	_, err = io.WriteString(p.out, b.String())
	return err
}

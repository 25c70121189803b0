// Package render draws a ResponseBundle for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"

	"TickerLens/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1).
		MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6"))

	labelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	actualStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981"))

	forecastStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B"))

	noticeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#EF4444")).
		Padding(0, 1)
)

// Block elements for sub-character vertical resolution.
var blockChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Bundle renders every visible panel of b, width columns wide.
func Bundle(b model.ResponseBundle, width int) string {
	if width < 20 {
		width = 20
	}
	inner := width - 4 // border and padding

	var parts []string
	if b.NotFound {
		parts = append(parts, noticeStyle.Width(inner).Render(b.Notice))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	if b.Outcome == model.OutcomeIdle {
		return labelStyle.Render("Enter a ticker to look up.")
	}

	parts = append(parts, titleStyle.Render(fmt.Sprintf("%s  %s", b.Ticker, b.Range)))
	if b.Visibility.PriceChart {
		parts = append(parts, chartPanel(b.PriceChart, inner, actualStyle))
	}
	if b.Visibility.ForecastChart {
		parts = append(parts, chartPanel(b.ForecastChart, inner, actualStyle, forecastStyle))
	}
	if b.Visibility.Fundamentals {
		parts = append(parts, fieldsPanel(b.FundamentalsBlock, inner))
	}
	if b.Visibility.Description {
		body := headingStyle.Render(b.DescriptionBlock.Heading) + "\n" + b.DescriptionBlock.Body
		parts = append(parts, panelStyle.Width(inner).Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func chartPanel(c model.Chart, width int, styles ...lipgloss.Style) string {
	var sb strings.Builder
	sb.WriteString(headingStyle.Render(c.Title))
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render(fmt.Sprintf("%s: %.2f - %.2f", c.YTitle, c.YMin, c.YMax)))
	for i, line := range c.Lines {
		style := styles[min(i, len(styles)-1)]
		values := make([]float64, len(line.Points))
		for j, p := range line.Points {
			values[j] = p.Y
		}
		sb.WriteString("\n")
		sb.WriteString(style.Render(Sparkline(values, c.YMin, c.YMax, width-2)))
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render("  " + line.Name))
	}
	return panelStyle.Width(width).Render(sb.String())
}

func fieldsPanel(t model.TextBlock, width int) string {
	labelWidth := 0
	for _, f := range t.Fields {
		labelWidth = max(labelWidth, lipgloss.Width(f.Label))
	}
	lines := []string{headingStyle.Render(t.Heading)}
	for _, f := range t.Fields {
		label := labelStyle.Width(labelWidth + 2).Render(f.Label + ":")
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label, f.Value))
	}
	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// Sparkline renders values as one row of block characters at most width
// runes long, scaled between lo and hi.
func Sparkline(values []float64, lo, hi float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	cols := downsample(values, width)
	if lo == hi {
		lo, hi = floats.Min(cols), floats.Max(cols)
	}
	span := hi - lo

	var sb strings.Builder
	for _, v := range cols {
		level := len(blockChars) / 2
		if span > 0 {
			level = int((v - lo) / span * float64(len(blockChars)-1))
			level = max(0, min(level, len(blockChars)-1))
		}
		sb.WriteRune(blockChars[level])
	}
	return sb.String()
}

// downsample averages values into at most width buckets.
func downsample(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		from := i * len(values) / width
		to := (i + 1) * len(values) / width
		out[i] = floats.Sum(values[from:to]) / float64(to-from)
	}
	return out
}

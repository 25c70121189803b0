package notifier

import (
	"fmt"
	"html"
	"strings"

	"TickerLens/internal/model"
)

const maxDescription = 600

// FormatBundle renders a bundle as a Telegram HTML message.
func FormatBundle(b model.ResponseBundle) string {
	switch b.Outcome {
	case model.OutcomeIdle:
		return "No lookup yet.\n\n" + usage
	case model.OutcomeEmpty, model.OutcomeNotFoundOrError:
		return fmt.Sprintf("⚠️ %s\n<code>%s</code> %s", escape(b.Notice), escape(b.Ticker), b.Range)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 <b>%s</b> | %s\n\n", escape(b.PriceChart.Title), b.Range)

	if b.Visibility.PriceChart && len(b.Prices) > 0 {
		first, last := b.Prices[0], b.Prices[len(b.Prices)-1]
		change := 0.0
		if first.Close != 0 {
			change = (last.Close - first.Close) / first.Close * 100
		}
		fmt.Fprintf(&sb, "Last close: %.2f (%s)\n", last.Close, last.Date.Format(model.DateLayout))
		fmt.Fprintf(&sb, "Range: %.2f - %.2f | Change: %+.1f%%\n", b.PriceChart.YMin, b.PriceChart.YMax, change)
		fmt.Fprintf(&sb, "Trading days: %d\n\n", len(b.Prices))
	}

	if b.Visibility.ForecastChart && len(b.ForecastChart.Lines) == 2 {
		points := b.ForecastChart.Lines[1].Points
		p := points[len(points)-1]
		fmt.Fprintf(&sb, "🔮 <b>%s</b>\n%s: %.2f (%s)\n\n",
			escape(b.ForecastChart.Title), escape(b.ForecastChart.Lines[1].Name), p.Y, p.X.Format(model.DateLayout))
	}

	if b.Visibility.Fundamentals {
		fmt.Fprintf(&sb, "📦 <b>%s</b>\n", escape(b.FundamentalsBlock.Heading))
		for _, f := range b.FundamentalsBlock.Fields {
			if f.Label == "Description" {
				continue // shown below
			}
			fmt.Fprintf(&sb, "%s: %s\n", f.Label, escape(f.Value))
		}
		sb.WriteString("\n")
	}

	if b.Visibility.Description {
		fmt.Fprintf(&sb, "<b>%s</b>\n%s\n", escape(b.DescriptionBlock.Heading), escape(truncate(b.DescriptionBlock.Body, maxDescription)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func escape(s string) string { return html.EscapeString(s) }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

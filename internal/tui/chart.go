package tui

import (
	"fmt"
	"strings"

	"github.com/tinytelemetry/bakery/internal/model"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

const chartHeight = 6

// renderCheckInChart draws one bar per day with weekday labels underneath.
func renderCheckInChart(days []model.DayCount, width int) string {
	total := 0
	for _, d := range days {
		total += d.Count
	}

	leftTitle := fmt.Sprintf("Check-ins (%dd)", len(days))
	rightStats := fmt.Sprintf("Total: %d", total)
	spacer := max(width-len(leftTitle)-len(rightStats), 1)
	title := chartTitleStyle.Render(leftTitle + strings.Repeat(" ", spacer) + rightStats)

	if len(days) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, helpStyle.Render("No data available"))
	}

	barWidth := 3
	gap := 1
	chartWidth := len(days)*(barWidth+gap) - gap

	bc := barchart.New(chartWidth, chartHeight,
		barchart.WithBarGap(gap),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
	)

	barStyle := lipgloss.NewStyle().Foreground(ColorCrust).Background(ColorCrust)
	emptyStyle := lipgloss.NewStyle().Foreground(ColorGray)
	for _, d := range days {
		style := barStyle
		if d.Count == 0 {
			style = emptyStyle
		}
		bc.Push(barchart.BarData{
			Label:  "",
			Values: []barchart.BarValue{{Name: "checkins", Value: float64(d.Count), Style: style}},
		})
	}
	bc.Draw()

	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = fmt.Sprintf("%-*s", barWidth, d.Day.Weekday().String()[:2])
	}
	axis := helpStyle.Render(strings.Join(labels, strings.Repeat(" ", gap)))

	return lipgloss.JoinVertical(lipgloss.Left, title, bc.View(), axis)
}

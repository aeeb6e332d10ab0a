package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/tinytelemetry/bakery/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
)

const (
	slotFilled = "🔥"
	slotEmpty  = "○"
)

func progressRatio(info model.BakerInfo) float64 {
	return float64(info.FilledSlots()) / model.CheckInsPerPizza
}

// progressCaption is "Pizza ready!" at four check-ins, else how many remain.
func progressCaption(info model.BakerInfo) string {
	filled := info.FilledSlots()
	if filled >= model.CheckInsPerPizza {
		return "Pizza ready!"
	}
	left := model.CheckInsPerPizza - filled
	if left == 1 {
		return "1 check-in left"
	}
	return fmt.Sprintf("%d check-ins left", left)
}

// ringSlots returns the four slot glyphs, filled ones first.
func ringSlots(info model.BakerInfo) []string {
	slots := make([]string, model.CheckInsPerPizza)
	filled := info.FilledSlots()
	for i := range slots {
		if i < filled {
			slots[i] = slotFilled
		} else {
			slots[i] = slotEmpty
		}
	}
	return slots
}

// renderRing draws the slots around a pizza: two above, two below.
func renderRing(info model.BakerInfo) string {
	s := ringSlots(info)
	lit := lipgloss.NewStyle().Foreground(ColorFlame)
	dim := lipgloss.NewStyle().Foreground(ColorGray)
	paint := func(g string) string {
		if g == slotFilled {
			return lit.Render(g)
		}
		return dim.Render(g)
	}
	top := fmt.Sprintf("  %s   %s  ", paint(s[0]), paint(s[1]))
	mid := lipgloss.NewStyle().Foreground(ColorCrust).Render("    🍕    ")
	bottom := fmt.Sprintf("  %s   %s  ", paint(s[3]), paint(s[2]))
	return lipgloss.JoinVertical(lipgloss.Center, top, mid, bottom)
}

// formatCountdown renders d as m:ss, rounding partial seconds up.
func formatCountdown(d time.Duration) string {
	if d <= 0 {
		return "0:00"
	}
	secs := int64((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// actionLabel is the text of the check-in button for the current state.
func actionLabel(info model.BakerInfo, submitting bool) string {
	switch {
	case submitting:
		return "Baking..."
	case !info.HasCheckedIn():
		return "Start Baking"
	case info.CanCheckIn():
		return "Check In"
	default:
		return "Too Early"
	}
}

func (m *BakerModel) renderProgress(width int) string {
	header := chartTitleStyle.Render("Pizza Progress")
	count := cardValueStyle.Render(fmt.Sprintf("%d/%d", m.info.FilledSlots(), model.CheckInsPerPizza))
	gap := max(width-lipgloss.Width(header)-lipgloss.Width(count), 1)

	lines := []string{
		header + strings.Repeat(" ", gap) + count,
		m.progressBar.View(),
		helpStyle.Render(progressCaption(m.info)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

const checkInReadyText = "You can check in now!"

func (m *BakerModel) renderAction() string {
	label := actionLabel(m.info, m.submitting)
	if m.submitting {
		label = spinnerFrame() + " " + label
	}
	style := buttonOffStyle
	if m.actionEnabled() {
		style = buttonStyle
	}

	parts := []string{style.Render(label)}
	if m.info.HasCheckedIn() {
		if m.info.CanCheckIn() {
			parts = append(parts, helpStyle.Render(checkInReadyText))
		} else {
			parts = append(parts, helpStyle.Render("Next check-in in "+formatCountdown(m.info.TimeLeft)))
		}
	}
	if m.submitting && m.pendingTx != (common.Hash{}) {
		parts = append(parts, helpStyle.Render("Waiting for "+shortHash(m.pendingTx.Hex())))
	}
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func shortHash(h string) string {
	if len(h) <= 14 {
		return h
	}
	return h[:8] + "..." + h[len(h)-6:]
}

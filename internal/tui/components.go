package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/tinytelemetry/bakery/internal/ethx"
	"github.com/tinytelemetry/bakery/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var rulesText = fmt.Sprintf("Check in every %d minutes • %d check-ins = 1 pizza • Earn points",
	int(model.CheckInCooldown/time.Minute), model.CheckInsPerPizza)

// renderBranding renders "Pizza Bakery" with a crust to flame gradient.
func renderBranding() string {
	colors := []string{"#F2C14E", "#EFA743", "#EC8E38", "#E9742D", "#E65B22", "#E34117"}
	words := []string{"Pi", "zz", "a ", "Ba", "ke", "ry"}

	var result string
	for i, w := range words {
		result += lipgloss.NewStyle().
			Foreground(lipgloss.Color(colors[i])).
			Bold(true).
			Render(w)
	}
	return "🍕 " + result
}

// renderHeader shows branding on the left and the account and points on the
// right.
func (m *BakerModel) renderHeader(width int) string {
	left := renderBranding()

	right := cardLabelStyle.Render(ethx.Short(m.account))
	if m.hasInfo {
		right = cardValueStyle.Render(fmt.Sprintf("%d pts", m.info.Points)) + "  " + right
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderCard renders a labeled stat box.
func renderCard(label, value string, width int) string {
	return cardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Center,
		cardLabelStyle.Render(label),
		cardValueStyle.Render(value),
	))
}

func (m *BakerModel) renderCards(width int) string {
	cardWidth := max((width-4)/2-2, 12)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard("Total Pizzas", fmt.Sprintf("%d", m.info.TotalPizzas), cardWidth),
		"  ",
		renderCard("Level", fmt.Sprintf("%d", m.info.Level()), cardWidth),
	)
}

func (m *BakerModel) renderFooter(contract string) string {
	return lipgloss.JoinVertical(lipgloss.Center,
		helpStyle.Render(rulesText),
		helpStyle.Render("Contract: "+contract),
	)
}

// renderStatusLine renders the key hints and poll health at the bottom.
func (m *BakerModel) renderStatusLine() string {
	w := m.width
	narrow := w < 80

	var leftText string
	switch {
	case m.HasModal():
		leftText = "ESC: Close"
	case !m.connected && narrow:
		leftText = "c: Connect • ?: Help • q"
	case !m.connected:
		leftText = "c/Enter: Connect wallet • ?: Help • q: Quit"
	case narrow:
		leftText = "Enter: Check in • r • H • ? • q"
	default:
		leftText = "Enter/Space: Check in • r: Refresh • H: History • ?: Help • q: Quit"
	}

	var rightText string
	if errText := m.currentError(); errText != "" {
		rightText = "⚠ " + truncate(errText, max(w/2, 10))
	} else if m.connected {
		rightText = m.pollHealth()
	}

	leftStyled := statusLineStyle.Render(" " + leftText)
	rightStyled := statusLineStyle.Render(rightText + " ")
	gap := max(w-lipgloss.Width(leftStyled)-lipgloss.Width(rightStyled), 0)
	return leftStyled + statusLineStyle.Render(strings.Repeat(" ", gap)) + rightStyled
}

func (m *BakerModel) pollHealth() string {
	var dot string
	switch {
	case m.consecutiveErrors >= 3:
		dot = lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorRed).Render("●")
	case m.consecutiveErrors > 0:
		dot = lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorOrange).Render("●")
	case m.lastTickOK:
		dot = lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorGreen).Render("●")
	default:
		return statusLineStyle.Render("waiting for first read")
	}

	ago := "never"
	if !m.lastTickAt.IsZero() {
		ago = m.now().Sub(m.lastTickAt).Truncate(time.Second).String() + " ago"
	}
	return dot + statusLineStyle.Render(" updated "+ago)
}

// truncate cuts s to n terminal cells, counting wide runes by display width.
func truncate(s string, n int) string {
	if n <= 3 {
		return s
	}
	return ansi.Truncate(s, n, "...")
}

func contractLabel(client model.BakerClient) string {
	return client.ContractAddress().Hex()
}

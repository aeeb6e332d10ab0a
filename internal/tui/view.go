package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	minWidth  = 50
	minHeight = 20
)

// View renders the dashboard
func (m *BakerModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing dashboard..."
	}

	// If a modal is on the stack, render it full-screen.
	if modal := m.TopModal(); modal != nil {
		return modal.View(m.width, m.height)
	}

	if m.width < minWidth || m.height < minHeight {
		return "Terminal too small. Resize to at least 50x20."
	}

	if !m.connected {
		return m.renderConnectPrompt()
	}
	return m.renderDashboard()
}

// renderConnectPrompt is the only screen shown without an account.
func (m *BakerModel) renderConnectPrompt() string {
	bodyHeight := m.height - 1

	if m.restoring {
		return lipgloss.JoinVertical(lipgloss.Left,
			renderLoadingPlaceholder("Looking for a wallet session...", m.width, bodyHeight),
			m.renderStatusLine(),
		)
	}

	action := buttonStyle.Render("Connect Wallet")
	if m.connecting {
		action = buttonOffStyle.Render(spinnerFrame() + " Waiting for wallet...")
	}

	block := lipgloss.JoinVertical(lipgloss.Center,
		renderBranding(),
		"",
		helpStyle.Render(rulesText),
		"",
		action,
		"",
		helpStyle.Render("press c or enter"),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, block),
		m.renderStatusLine(),
	)
}

func (m *BakerModel) renderDashboard() string {
	contentWidth := min(m.width-4, 72)
	bodyHeight := m.height - 1

	header := m.renderHeader(contentWidth)

	var body string
	if !m.hasInfo {
		body = renderLoadingPlaceholder("Reading the oven...", contentWidth, 8)
	} else {
		sections := []string{
			m.renderProgress(contentWidth),
			"",
			lipgloss.PlaceHorizontal(contentWidth, lipgloss.Center, renderRing(m.info)),
			"",
			lipgloss.PlaceHorizontal(contentWidth, lipgloss.Center, m.renderAction()),
			"",
			m.renderCards(contentWidth),
		}
		if m.history != nil {
			sections = append(sections, "", renderCheckInChart(m.days, contentWidth))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	page := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		"",
		lipgloss.PlaceHorizontal(contentWidth, lipgloss.Center, m.renderFooter(contractLabel(m.client))),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Top,
			lipgloss.NewStyle().Padding(1, 2).Render(page)),
		m.renderStatusLine(),
	)
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// scrollModal is the shared body of viewport-backed modals.
type scrollModal struct {
	viewport viewport.Model
	title    string
}

func newScrollModal(title string) scrollModal {
	return scrollModal{viewport: viewport.New(80, 20), title: title}
}

// update scrolls on keys and the wheel. It reports pop when a close key
// in closeKeys was pressed.
func (s *scrollModal) update(msg tea.Msg, closeKeys ...string) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		k := msg.String()
		for _, c := range closeKeys {
			if k == c {
				return true, nil
			}
		}
		switch k {
		case "up", "k":
			s.viewport.ScrollUp(1)
			return false, nil
		case "down", "j":
			s.viewport.ScrollDown(1)
			return false, nil
		case "pgup":
			s.viewport.HalfPageUp()
			return false, nil
		case "pgdown":
			s.viewport.HalfPageDown()
			return false, nil
		}
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		return false, cmd

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return false, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			s.viewport.ScrollUp(1)
		case tea.MouseButtonWheelDown:
			s.viewport.ScrollDown(1)
		}
	}
	return false, nil
}

// view renders content in a bordered, centered, scrollable frame.
func (s *scrollModal) view(content string, width, height int) string {
	modalWidth := max(width-8, 20)  // 4 chars margin on each side
	modalHeight := max(height-6, 8) // 3 lines margin top and bottom

	contentWidth := modalWidth - 4
	contentHeight := modalHeight - 4

	s.viewport.Width = contentWidth
	s.viewport.Height = contentHeight
	s.viewport.SetContent(content)

	contentPane := lipgloss.NewStyle().
		Width(contentWidth).
		Height(contentHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(s.viewport.View())

	header := lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(ColorBlue).
		Bold(true).
		Render(s.title)

	modal := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, renderModalStatusBar())

	finalModal := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

// renderModalStatusBar renders the status bar for modals
func renderModalStatusBar() string {
	statusItems := []string{"up/down/Wheel: Scroll", "PgUp/PgDn: Page", "ESC: Close"}
	return helpStyle.Render(strings.Join(statusItems, " | "))
}

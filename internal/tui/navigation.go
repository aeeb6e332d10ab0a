package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyPress dispatches key events: modal stack first, then the connect
// prompt or the dashboard shortcuts.
func (m *BakerModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	// Modal on stack gets the event first.
	if modal := m.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			m.PopModal()
		}
		return m, cmd
	}

	if !m.connected {
		return m.handlePromptKeys(msg)
	}
	return m.handleDashboardKeys(msg)
}

// handlePromptKeys handles the connect prompt shown while disconnected.
func (m *BakerModel) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.PushModal(NewHelpModal(m.keys))
		return m, nil

	case key.Matches(msg, k.Connect):
		if m.connecting {
			return m, nil
		}
		m.connecting = true
		return m, tea.Batch(m.connectCmd(), spinnerTick())
	}
	return m, nil
}

// handleDashboardKeys handles shortcuts once a wallet is connected.
func (m *BakerModel) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.PushModal(NewHelpModal(m.keys))
		return m, nil

	case key.Matches(msg, k.CheckIn):
		return m, m.startCheckIn()

	case key.Matches(msg, k.Refresh):
		return m, m.refreshNow()

	case key.Matches(msg, k.History):
		if m.history == nil {
			return m, nil
		}
		m.PushModal(NewHistoryModal(m))
		return m, nil
	}
	return m, nil
}

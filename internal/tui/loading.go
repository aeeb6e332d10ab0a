package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerFrame picks the frame from the wall clock so it animates on re-render.
func spinnerFrame() string {
	return spinnerFrames[time.Now().UnixMilli()/120%int64(len(spinnerFrames))]
}

// renderLoadingPlaceholder renders an animated loading indicator.
func renderLoadingPlaceholder(text string, width, height int) string {
	loadingStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		loadingStyle.Render(spinnerFrame()+" "+text))
}

// SpinnerTickMsg triggers a re-render for loading spinners.
type SpinnerTickMsg struct{}

// handleSpinnerTick re-schedules spinner ticks while anything is waiting on
// the wallet or the chain.
func (m *BakerModel) handleSpinnerTick() (tea.Model, tea.Cmd) {
	if m.busy() {
		return m, spinnerTick()
	}
	return m, nil
}

func (m *BakerModel) busy() bool {
	return m.submitting || m.connecting || m.restoring
}

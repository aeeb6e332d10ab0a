package tui

import tea "github.com/charmbracelet/bubbletea"

// Modal is a self-contained modal that owns its own Update/View lifecycle.
// Modals are managed via a stack on BakerModel; the topmost modal receives
// all input and renders full-screen.
type Modal interface {
	// ID returns a unique identifier used to deduplicate pushes.
	ID() string
	// Update processes a message. Return pop=true to close the modal.
	Update(msg tea.Msg) (pop bool, cmd tea.Cmd)
	// View renders the modal content for the given terminal dimensions.
	View(width, height int) string
}

// Refreshable is optionally implemented by modals whose content follows
// polled data while they are on top of the stack.
type Refreshable interface {
	Refresh()
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// HelpModal displays key bindings and the game rules.
type HelpModal struct {
	scrollModal
	keys KeyMap
}

func NewHelpModal(keys KeyMap) *HelpModal {
	return &HelpModal{scrollModal: newScrollModal("Help"), keys: keys}
}

func (h *HelpModal) ID() string { return "help" }

func (h *HelpModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	return h.update(msg, "?", "esc", "q")
}

func (h *HelpModal) View(width, height int) string {
	return h.view(h.content(), width, height)
}

func (h *HelpModal) content() string {
	var b strings.Builder
	b.WriteString("Pizza Bakery\n\n")
	b.WriteString("KEYS:\n")
	for _, kb := range h.keys.helpBindings() {
		hp := kb.Help()
		fmt.Fprintf(&b, "  %-14s - %s\n", hp.Key, hp.Desc)
	}
	b.WriteString("\nRULES:\n")
	b.WriteString("  Check in once every 15 minutes.\n")
	b.WriteString("  Four check-ins bake one pizza and earn points.\n")
	b.WriteString("  Every 100 points is one level.\n")
	b.WriteString("  The contract enforces the cooldown; an early check-in is rejected.\n")
	b.WriteString("\nHISTORY:\n")
	b.WriteString("  The chart and history list only show check-ins seen by this\n")
	b.WriteString("  client. Set db-path to keep them between runs.\n")
	return b.String()
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AlertModal is a blocking message box. It swallows every key until it is
// dismissed with enter or esc.
type AlertModal struct {
	id    string
	title string
	text  string
}

func NewAlertModal(id, title, text string) *AlertModal {
	return &AlertModal{id: "alert:" + id, title: title, text: text}
}

func (a *AlertModal) ID() string { return a.id }

func (a *AlertModal) Text() string { return a.text }

func (a *AlertModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter", "esc", " ":
			return true, nil
		}
	}
	return false, nil
}

func (a *AlertModal) View(width, height int) string {
	boxWidth := min(max(width-10, 20), 60)

	title := lipgloss.NewStyle().Foreground(ColorRed).Bold(true).Render(a.title)
	body := lipgloss.NewStyle().Width(boxWidth - 4).Foreground(ColorWhite).Render(a.text)
	hint := helpStyle.Render("enter: OK")

	box := lipgloss.NewStyle().
		Width(boxWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorRed).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", hint))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

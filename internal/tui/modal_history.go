package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/tinytelemetry/bakery/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// HistoryModal lists recorded check-ins, newest first. It follows the
// dashboard's polled data while open.
type HistoryModal struct {
	scrollModal
	source  func() []model.CheckInRecord
	records []model.CheckInRecord
}

func NewHistoryModal(m *BakerModel) *HistoryModal {
	h := &HistoryModal{
		scrollModal: newScrollModal("Check-in History"),
		source:      func() []model.CheckInRecord { return m.recent },
	}
	h.Refresh()
	return h
}

func (h *HistoryModal) ID() string { return "history" }

func (h *HistoryModal) Refresh() {
	h.records = append(h.records[:0], h.source()...)
}

func (h *HistoryModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	return h.update(msg, "H", "esc", "q")
}

func (h *HistoryModal) View(width, height int) string {
	return h.view(formatHistory(h.records), width, height)
}

func formatHistory(records []model.CheckInRecord) string {
	if len(records) == 0 {
		return helpStyle.Render("No check-ins recorded yet.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-19s  %-8s  %-10s  %s\n", "TIME", "PROGRESS", "BLOCK", "TX")
	for _, r := range records {
		progress := fmt.Sprintf("%d/%d", r.Progress, model.CheckInsPerPizza)
		line := fmt.Sprintf("%-19s  %-8s  %-10d  %s",
			r.CheckedInAt.Local().Format(time.DateTime), progress, r.BlockNumber, r.TxHash.Hex())
		if r.PizzaBaked {
			line += fmt.Sprintf("  🍕 pizza #%d, %d pts", r.TotalPizzas, r.Points)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

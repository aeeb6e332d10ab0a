package tui

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/tinytelemetry/bakery/internal/baker"
	"github.com/tinytelemetry/bakery/internal/model"
	"github.com/tinytelemetry/bakery/internal/wallet"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

const (
	missingWalletText = "No wallet detected. Start a wallet provider and point -endpoint at it."
	checkInFailedText = "Check-in failed. Maybe it's too early?"
)

type restoredMsg struct {
	account common.Address
	err     error
}

type connectedMsg struct {
	account common.Address
	err     error
}

type statusLoadedMsg struct {
	info       model.BakerInfo
	err        error
	days       []model.DayCount
	recent     []model.CheckInRecord
	hasHistory bool
	historyErr error
}

type checkInSentMsg struct {
	tx  common.Hash
	err error
}

type checkInDoneMsg struct {
	receipt model.CheckInReceipt
	info    model.BakerInfo
	err     error
}

// Update handles messages
func (m *BakerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(max(msg.Width-20, 10), 60)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		if modal := m.TopModal(); modal != nil {
			pop, cmd := modal.Update(msg)
			if pop {
				m.PopModal()
			}
			return m, cmd
		}
		return m, nil

	case SpinnerTickMsg:
		return m.handleSpinnerTick()

	case progress.FrameMsg:
		pm, cmd := m.progressBar.Update(msg)
		m.progressBar = pm.(progress.Model)
		return m, cmd

	case TickMsg:
		if !m.connected || m.tickInFlight {
			return m, m.scheduleTick()
		}
		m.tickInFlight = true
		return m, tea.Batch(m.fetchStatusCmd(), m.scheduleTick())

	case restoredMsg:
		m.restoring = false
		if msg.err != nil {
			if !errors.Is(msg.err, baker.ErrNotConnected) {
				log.Printf("tui: restore session: %v", msg.err)
			}
			return m, nil
		}
		return m, m.bind(msg.account)

	case connectedMsg:
		m.connecting = false
		if msg.err != nil {
			if errors.Is(msg.err, wallet.ErrUnavailable) {
				log.Printf("tui: connect: %v", msg.err)
				m.PushModal(NewAlertModal("wallet", "Wallet", missingWalletText))
				return m, nil
			}
			m.setError("connect", msg.err)
			return m, nil
		}
		return m, m.bind(msg.account)

	case statusLoadedMsg:
		m.tickInFlight = false
		return m, m.applyStatus(msg)

	case checkInSentMsg:
		if msg.err != nil {
			m.failCheckIn(msg.err)
			return m, nil
		}
		m.pendingTx = msg.tx
		return m, m.awaitCheckInCmd(msg.tx)

	case checkInDoneMsg:
		return m, m.applyCheckIn(msg)
	}

	return m, nil
}

// bind switches the dashboard to the connected view and reads status now.
func (m *BakerModel) bind(account common.Address) tea.Cmd {
	m.account = account
	m.connected = true
	return m.refreshNow()
}

// refreshNow starts an out-of-band read unless one is already running.
func (m *BakerModel) refreshNow() tea.Cmd {
	if !m.connected || m.tickInFlight {
		return nil
	}
	m.tickInFlight = true
	return m.fetchStatusCmd()
}

func (m *BakerModel) applyStatus(msg statusLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.lastTickOK = false
		m.consecutiveErrors++
		m.setError("status", msg.err)
		return nil
	}

	m.info = msg.info
	m.hasInfo = true
	m.lastTickOK = true
	m.lastTickAt = m.now()
	m.consecutiveErrors = 0

	if msg.historyErr != nil {
		log.Printf("tui: history: %v", msg.historyErr)
	} else if msg.hasHistory {
		m.days = msg.days
		m.recent = msg.recent
	}

	if modal := m.TopModal(); modal != nil {
		if r, ok := modal.(Refreshable); ok {
			r.Refresh()
		}
	}
	return m.progressBar.SetPercent(progressRatio(m.info))
}

// startCheckIn submits checkIn() when the cached flag allows it.
func (m *BakerModel) startCheckIn() tea.Cmd {
	if !m.actionEnabled() {
		return nil
	}
	m.submitting = true
	return tea.Batch(m.submitCheckInCmd(), spinnerTick())
}

func (m *BakerModel) failCheckIn(err error) {
	log.Printf("tui: check-in: %v", err)
	m.submitting = false
	m.pendingTx = common.Hash{}
	m.PushModal(NewAlertModal("checkin-failed", "Check-in", checkInFailedText))
}

func (m *BakerModel) applyCheckIn(msg checkInDoneMsg) tea.Cmd {
	mined := msg.receipt.TxHash != (common.Hash{})
	if msg.err != nil && !mined {
		m.failCheckIn(msg.err)
		return nil
	}

	m.submitting = false
	m.pendingTx = common.Hash{}
	receipt := msg.receipt
	m.lastReceipt = &receipt

	if msg.err != nil {
		// Mined, but the follow-up read failed; the next tick catches up.
		m.setError("check-in refresh", msg.err)
		return nil
	}
	return tea.Batch(
		m.applyStatus(statusLoadedMsg{info: msg.info}),
		m.refreshNow(),
	)
}

func (m *BakerModel) readCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.requestTimeout)
}

// promptCtx bounds calls that wait on the user or on mining.
func (m *BakerModel) promptCtx() (context.Context, context.CancelFunc) {
	if m.confirmTimeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), m.confirmTimeout)
}

func (m *BakerModel) restoreCmd() tea.Cmd {
	client := m.client
	ctx, cancel := m.readCtx()
	return func() tea.Msg {
		defer cancel()
		account, err := client.Restore(ctx)
		return restoredMsg{account: account, err: err}
	}
}

func (m *BakerModel) connectCmd() tea.Cmd {
	client := m.client
	ctx, cancel := m.promptCtx()
	return func() tea.Msg {
		defer cancel()
		account, err := client.Connect(ctx)
		return connectedMsg{account: account, err: err}
	}
}

// fetchStatusCmd reads getBakerInfo and, when a history store is configured,
// the chart and history data. Store errors never fail the poll.
func (m *BakerModel) fetchStatusCmd() tea.Cmd {
	client := m.client
	history := m.history
	account := m.account
	days := m.historyDays
	now := m.now
	ctx, cancel := m.readCtx()

	return func() tea.Msg {
		defer cancel()
		info, err := client.Status(ctx)
		if err != nil {
			return statusLoadedMsg{err: err}
		}
		msg := statusLoadedMsg{info: info}
		if history == nil {
			return msg
		}

		var errs []error
		collectErr := func(err error) {
			if err != nil {
				errs = append(errs, err)
			}
		}
		counts, err := history.CheckInsByDay(account, days, now())
		collectErr(err)
		recent, err := history.RecentCheckIns(account, recentLimit)
		collectErr(err)

		if len(errs) > 0 {
			msg.historyErr = errors.Join(errs...)
			return msg
		}
		msg.days = counts
		msg.recent = recent
		msg.hasHistory = true
		return msg
	}
}

func (m *BakerModel) submitCheckInCmd() tea.Cmd {
	client := m.client
	ctx, cancel := m.promptCtx()
	return func() tea.Msg {
		defer cancel()
		tx, err := client.SubmitCheckIn(ctx)
		return checkInSentMsg{tx: tx, err: err}
	}
}

func (m *BakerModel) awaitCheckInCmd(tx common.Hash) tea.Cmd {
	client := m.client
	ctx, cancel := m.promptCtx()
	return func() tea.Msg {
		defer cancel()
		receipt, info, err := client.AwaitCheckIn(ctx, tx)
		return checkInDoneMsg{receipt: receipt, info: info, err: err}
	}
}

// spinnerTick schedules the next spinner frame.
func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(_ time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}

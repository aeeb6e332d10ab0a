package tui

import (
	"log"
	"time"

	"github.com/tinytelemetry/bakery/internal/model"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

const (
	defaultHistoryDays = 7
	recentLimit        = 50
	errorDisplayTTL    = 30 * time.Second
)

// SessionState tracks the wallet connection.
type SessionState struct {
	account    common.Address
	connected  bool
	restoring  bool // silent eth_accounts lookup on startup
	connecting bool // eth_requestAccounts prompt open in the wallet
}

// BakerState holds the latest values read from the contract and the
// locally recorded history. It is replaced wholesale on every poll.
type BakerState struct {
	info    model.BakerInfo
	hasInfo bool
	days    []model.DayCount
	recent  []model.CheckInRecord
}

// CheckInState tracks a submission from send to confirmation.
type CheckInState struct {
	submitting  bool
	pendingTx   common.Hash
	lastReceipt *model.CheckInReceipt
}

// ModalStackState holds the modal stack; the top modal owns all input.
type ModalStackState struct {
	modalStack []Modal
}

// Options configures timing for the dashboard.
type Options struct {
	UpdateInterval time.Duration
	RequestTimeout time.Duration // bound for each read
	ConfirmTimeout time.Duration // bound for wallet prompts and mining; 0 disables
	HistoryDays    int
}

// BakerModel is the bakery dashboard.
type BakerModel struct {
	SessionState
	BakerState
	CheckInState
	ModalStackState

	width  int
	height int

	client  model.BakerClient
	history model.HistoryQuerier // nil disables the chart and history modal
	keys    KeyMap

	updateInterval time.Duration
	requestTimeout time.Duration
	confirmTimeout time.Duration
	historyDays    int

	progressBar progress.Model

	// Last poll or connect error for the status line (auto-clears after 30s).
	lastError   string
	lastErrorAt time.Time

	// Async tick guard to avoid overlapping reads.
	tickInFlight bool

	lastTickOK        bool
	lastTickAt        time.Time
	consecutiveErrors int

	now func() time.Time
}

// TickMsg drives the periodic status poll.
type TickMsg time.Time

// NewBakerModel creates the dashboard. history may be nil.
func NewBakerModel(client model.BakerClient, history model.HistoryQuerier, opts Options) *BakerModel {
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = model.DefaultUpdateInterval
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = model.DefaultRequestTimeout
	}
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = defaultHistoryDays
	}

	bar := progress.New(
		progress.WithGradient(string(ColorCrust), string(ColorFlame)),
		progress.WithoutPercentage(),
	)
	bar.Width = 40

	return &BakerModel{
		SessionState:   SessionState{restoring: true},
		client:         client,
		history:        history,
		keys:           DefaultKeyMap(),
		updateInterval: opts.UpdateInterval,
		requestTimeout: opts.RequestTimeout,
		confirmTimeout: opts.ConfirmTimeout,
		historyDays:    opts.HistoryDays,
		progressBar:    bar,
		now:            time.Now,
	}
}

// Init starts the silent session restore and the poll loop.
func (m *BakerModel) Init() tea.Cmd {
	return tea.Batch(
		m.restoreCmd(),
		m.scheduleTick(),
	)
}

func (m *BakerModel) scheduleTick() tea.Cmd {
	return tea.Tick(m.updateInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// setError records err for the status line and the log.
func (m *BakerModel) setError(context string, err error) {
	log.Printf("tui: %s: %v", context, err)
	m.lastError = err.Error()
	m.lastErrorAt = m.now()
}

func (m *BakerModel) currentError() string {
	if m.lastError == "" || m.now().Sub(m.lastErrorAt) > errorDisplayTTL {
		return ""
	}
	return m.lastError
}

// actionEnabled reports whether a check-in may be submitted right now.
func (m *BakerModel) actionEnabled() bool {
	return m.connected && m.hasInfo && m.info.CanCheckIn() && !m.submitting
}

// PushModal pushes a modal onto the stack. Deduplicates by ID.
func (m *BakerModel) PushModal(modal Modal) {
	for _, existing := range m.modalStack {
		if existing.ID() == modal.ID() {
			return
		}
	}
	m.modalStack = append(m.modalStack, modal)
}

// PopModal removes the topmost modal from the stack.
func (m *BakerModel) PopModal() {
	if len(m.modalStack) > 0 {
		m.modalStack = m.modalStack[:len(m.modalStack)-1]
	}
}

// TopModal returns the topmost modal, or nil if the stack is empty.
func (m *BakerModel) TopModal() Modal {
	if len(m.modalStack) == 0 {
		return nil
	}
	return m.modalStack[len(m.modalStack)-1]
}

// HasModal returns true if any modal is on the stack.
func (m *BakerModel) HasModal() bool {
	return len(m.modalStack) > 0
}

// BakerPage adapts BakerModel to the Page interface.
type BakerPage struct {
	Model *BakerModel
}

// NewBakerPage wraps a BakerModel as a Page.
func NewBakerPage(m *BakerModel) *BakerPage {
	return &BakerPage{Model: m}
}

func (p *BakerPage) ID() string { return "bakery" }

func (p *BakerPage) Init() tea.Cmd {
	return p.Model.Init()
}

func (p *BakerPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	_, cmd := p.Model.Update(msg)
	return cmd, nil
}

func (p *BakerPage) View(width, height int) string {
	p.Model.width = width
	p.Model.height = height
	return p.Model.View()
}

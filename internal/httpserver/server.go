package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/bakery/internal/ethx"
	"github.com/tinytelemetry/bakery/internal/model"
)

const (
	defaultDays   = 7
	maxDays       = 90
	defaultRecent = 20
	maxRecent     = 200

	eligibilityTimeout = 15 * time.Second
)

// HistoryStore is the narrow store contract required by the HTTP API.
type HistoryStore interface {
	model.HistoryQuerier
	TableRowCounts() (map[string]int64, error)
}

// EligibilityChecker answers canCheckInNow for an arbitrary account.
type EligibilityChecker interface {
	Eligible(ctx context.Context, addr common.Address) (bool, error)
}

type pollState struct {
	at  time.Time
	err error
}

// Server exposes the watcher's recorded history and live eligibility checks.
type Server struct {
	addr      string
	account   common.Address
	store     HistoryStore
	checker   EligibilityChecker
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time

	mu       sync.RWMutex
	lastPoll pollState
}

// NewServer creates a new HTTP API server for the watched account.
func NewServer(addr string, account common.Address, store HistoryStore, checker EligibilityChecker) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		account:   account,
		store:     store,
		checker:   checker,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// ReportPoll records the outcome of the watcher's latest read for /api/health.
func (s *Server) ReportPoll(at time.Time, err error) {
	s.mu.Lock()
	s.lastPoll = pollState{at: at, err: err}
	s.mu.Unlock()
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/baker", s.handleBaker)
	api.GET("/baker/:address/eligibility", s.handleEligibility)
	api.GET("/checkins", s.handleCheckInsByDay)
	api.GET("/checkins/recent", s.handleRecentCheckIns)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.routes(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	counts, err := s.store.TableRowCounts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read health metrics"})
		return
	}

	s.mu.RLock()
	poll := s.lastPoll
	s.mu.RUnlock()

	lastPoll := gin.H{"ok": poll.err == nil && !poll.at.IsZero()}
	if !poll.at.IsZero() {
		lastPoll["at"] = poll.at.UTC()
	}
	if poll.err != nil {
		lastPoll["error"] = poll.err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"uptime":     time.Since(s.startTime).String(),
		"account":    s.account.Hex(),
		"last_poll":  lastPoll,
		"row_counts": counts,
	})
}

type bakerResponse struct {
	Account         string     `json:"account"`
	PizzaProgress   uint64     `json:"pizza_progress"`
	FilledSlots     int        `json:"filled_slots"`
	LastCheckIn     *time.Time `json:"last_check_in"`
	TotalPizzas     uint64     `json:"total_pizzas"`
	Points          uint64     `json:"points"`
	Level           uint64     `json:"level"`
	TimeLeftSeconds int64      `json:"time_left_seconds"`
	CanCheckIn      bool       `json:"can_check_in"`
	FetchedAt       time.Time  `json:"fetched_at"`
}

func newBakerResponse(info model.BakerInfo) bakerResponse {
	resp := bakerResponse{
		Account:         info.Account.Hex(),
		PizzaProgress:   info.PizzaProgress,
		FilledSlots:     info.FilledSlots(),
		TotalPizzas:     info.TotalPizzas,
		Points:          info.Points,
		Level:           info.Level(),
		TimeLeftSeconds: int64(info.TimeLeft / time.Second),
		CanCheckIn:      info.CanCheckIn(),
		FetchedAt:       info.FetchedAt.UTC(),
	}
	if info.HasCheckedIn() {
		t := info.LastCheckIn.UTC()
		resp.LastCheckIn = &t
	}
	return resp
}

func (s *Server) handleBaker(c *gin.Context) {
	account, ok := s.accountParam(c)
	if !ok {
		return
	}
	info, found, err := s.store.LatestSnapshot(account)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read snapshot"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot recorded yet"})
		return
	}
	c.JSON(http.StatusOK, newBakerResponse(info))
}

func (s *Server) handleEligibility(c *gin.Context) {
	addr, err := ethx.ParseAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), eligibilityTimeout)
	defer cancel()

	eligible, err := s.checker.Eligible(ctx, addr)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"account":      addr.Hex(),
		"can_check_in": eligible,
	})
}

type dayCountResponse struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

func (s *Server) handleCheckInsByDay(c *gin.Context) {
	account, ok := s.accountParam(c)
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", defaultDays, 1, maxDays)
	if !ok {
		return
	}

	counts, err := s.store.CheckInsByDay(account, days, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read check-ins"})
		return
	}

	out := make([]dayCountResponse, len(counts))
	total := 0
	for i, dc := range counts {
		out[i] = dayCountResponse{Day: dc.Day.Format(time.DateOnly), Count: dc.Count}
		total += dc.Count
	}
	c.JSON(http.StatusOK, gin.H{
		"account": account.Hex(),
		"days":    out,
		"total":   total,
	})
}

type checkInResponse struct {
	TxHash      string    `json:"tx_hash"`
	BlockNumber uint64    `json:"block_number"`
	Progress    uint64    `json:"progress"`
	CheckedInAt time.Time `json:"checked_in_at"`
	PizzaBaked  bool      `json:"pizza_baked"`
	TotalPizzas uint64    `json:"total_pizzas,omitempty"`
	Points      uint64    `json:"points,omitempty"`
}

func (s *Server) handleRecentCheckIns(c *gin.Context) {
	account, ok := s.accountParam(c)
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", defaultRecent, 1, maxRecent)
	if !ok {
		return
	}

	recs, err := s.store.RecentCheckIns(account, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read check-ins"})
		return
	}

	out := make([]checkInResponse, len(recs))
	for i, r := range recs {
		out[i] = checkInResponse{
			TxHash:      r.TxHash.Hex(),
			BlockNumber: r.BlockNumber,
			Progress:    r.Progress,
			CheckedInAt: r.CheckedInAt.UTC(),
			PizzaBaked:  r.PizzaBaked,
			TotalPizzas: r.TotalPizzas,
			Points:      r.Points,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"account":  account.Hex(),
		"checkins": out,
	})
}

// accountParam resolves ?address=, defaulting to the watched account.
// It writes a 400 and returns false for a malformed address.
func (s *Server) accountParam(c *gin.Context) (common.Address, bool) {
	raw := c.Query("address")
	if raw == "" {
		return s.account, true
	}
	addr, err := ethx.ParseAddress(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address"})
		return common.Address{}, false
	}
	return addr, true
}

// intQuery parses an integer query parameter within [lo, hi].
func intQuery(c *gin.Context, key string, def, lo, hi int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s must be an integer between %d and %d", key, lo, hi)})
		return 0, false
	}
	return v, true
}

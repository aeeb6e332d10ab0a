package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BakerInfo mirrors one getBakerInfo read for an account.
// It is replaced wholesale on every poll; nothing merges into it.
type BakerInfo struct {
	Account       common.Address
	PizzaProgress uint64        // check-ins toward the next pizza, 0..4
	LastCheckIn   time.Time     // zero value = never checked in
	TotalPizzas   uint64
	Points        uint64
	TimeLeft      time.Duration // time until the next allowed check-in
	FetchedAt     time.Time
}

// CanCheckIn reports whether the contract's cooldown has elapsed.
func (b BakerInfo) CanCheckIn() bool {
	return b.TimeLeft <= 0
}

// HasCheckedIn reports whether the contract has any check-in on record.
func (b BakerInfo) HasCheckedIn() bool {
	return !b.LastCheckIn.IsZero()
}

// Level is points divided by PointsPerLevel, floored.
func (b BakerInfo) Level() uint64 {
	return b.Points / PointsPerLevel
}

// FilledSlots is the number of lit progress slots, clamped to 0..CheckInsPerPizza.
func (b BakerInfo) FilledSlots() int {
	if b.PizzaProgress > CheckInsPerPizza {
		return CheckInsPerPizza
	}
	return int(b.PizzaProgress)
}

// SameCounters reports whether two reads of the same account carry identical
// game counters. TimeLeft and FetchedAt are ignored; the former ticks down on
// every read during a cooldown.
func (b BakerInfo) SameCounters(o BakerInfo) bool {
	return b.Account == o.Account &&
		b.PizzaProgress == o.PizzaProgress &&
		b.LastCheckIn.Equal(o.LastCheckIn) &&
		b.TotalPizzas == o.TotalPizzas &&
		b.Points == o.Points
}

// SameState is SameCounters plus an equal TimeLeft.
func (b BakerInfo) SameState(o BakerInfo) bool {
	return b.SameCounters(o) && b.TimeLeft == o.TimeLeft
}

// NativeCurrency describes a chain's gas token for wallet_addEthereumChain.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Chain is the network definition a wallet is asked to switch to or add.
type Chain struct {
	ID             uint64
	Name           string
	NativeCurrency NativeCurrency
	RPCURLs        []string
	ExplorerURLs   []string
}

// HexID renders the chain id as a JSON-RPC quantity ("0x2105").
func (c Chain) HexID() string {
	return hexutil.EncodeUint64(c.ID)
}

// CheckInEvent is a decoded CheckedIn log.
type CheckInEvent struct {
	Baker     common.Address
	Progress  uint64
	Timestamp time.Time
}

// PizzaEvent is a decoded PizzaBaked log.
type PizzaEvent struct {
	Baker       common.Address
	TotalPizzas uint64
	Points      uint64
}

// CheckInReceipt is a mined check-in transaction with its decoded events.
type CheckInReceipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	From        common.Address
	CheckedIn   *CheckInEvent // nil if the log was not found
	Baked       *PizzaEvent   // nil unless this check-in completed a pizza
}

// CheckInRecord is a stored check-in, as listed in history views.
type CheckInRecord struct {
	TxHash      common.Hash
	Account     common.Address
	BlockNumber uint64
	Progress    uint64
	CheckedInAt time.Time
	PizzaBaked  bool
	TotalPizzas uint64
	Points      uint64
}

// DayCount is the number of check-ins observed on one calendar day (UTC).
type DayCount struct {
	Day   time.Time
	Count int
}

package model

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Requester performs one JSON-RPC request against a wallet provider or node.
// It is the Go shape of the EIP-1193 request method.
type Requester interface {
	Request(ctx context.Context, method string, params any, result any) error
}

// BakerClient is the session surface the TUI drives.
type BakerClient interface {
	Restore(ctx context.Context) (common.Address, error)
	Connect(ctx context.Context) (common.Address, error)
	Status(ctx context.Context) (BakerInfo, error)
	SubmitCheckIn(ctx context.Context) (common.Hash, error)
	AwaitCheckIn(ctx context.Context, tx common.Hash) (CheckInReceipt, BakerInfo, error)
	ContractAddress() common.Address
}

// BakerRecorder persists observations made by a session.
type BakerRecorder interface {
	RecordSnapshot(info BakerInfo) error
	RecordCheckIn(receipt CheckInReceipt) error
}

// HistoryQuerier provides read-only queries over recorded observations.
type HistoryQuerier interface {
	LatestSnapshot(account common.Address) (BakerInfo, bool, error)
	CheckInsByDay(account common.Address, days int, now time.Time) ([]DayCount, error)
	RecentCheckIns(account common.Address, limit int) ([]CheckInRecord, error)
}

// HistoryStore is the full store contract.
type HistoryStore interface {
	BakerRecorder
	HistoryQuerier
}

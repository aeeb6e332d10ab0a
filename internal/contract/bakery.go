package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tinytelemetry/bakery/internal/model"
)

// ErrReverted means the check-in transaction was mined with status 0.
var ErrReverted = errors.New("transaction reverted")

// Bakery is a binding to a deployed PizzaBakery contract.
type Bakery struct {
	req             model.Requester
	address         common.Address
	receiptInterval time.Duration
	now             func() time.Time
}

// New binds the contract at address. receiptInterval is how often WaitMined
// polls for a receipt; zero uses model.DefaultReceiptInterval.
func New(req model.Requester, address common.Address, receiptInterval time.Duration) *Bakery {
	if receiptInterval <= 0 {
		receiptInterval = model.DefaultReceiptInterval
	}
	return &Bakery{
		req:             req,
		address:         address,
		receiptInterval: receiptInterval,
		now:             time.Now,
	}
}

// Address returns the contract address.
func (b *Bakery) Address() common.Address {
	return b.address
}

type callMsg struct {
	From *common.Address `json:"from,omitempty"`
	To   common.Address  `json:"to"`
	Data hexutil.Bytes   `json:"data"`
}

func (b *Bakery) call(ctx context.Context, method string, args ...any) ([]byte, error) {
	data, err := bakeryABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	var out hexutil.Bytes
	if err := b.req.Request(ctx, "eth_call", []any{callMsg{To: b.address, Data: data}, "latest"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBakerInfo reads the aggregate view for baker.
func (b *Bakery) GetBakerInfo(ctx context.Context, baker common.Address) (model.BakerInfo, error) {
	const method = "getBakerInfo"
	out, err := b.call(ctx, method, baker)
	if err != nil {
		return model.BakerInfo{}, fmt.Errorf("getBakerInfo: %w", err)
	}
	var res bakerInfoOutput
	if err := unpack(&res, method, bakeryABI.Methods[method].Outputs, out); err != nil {
		return model.BakerInfo{}, fmt.Errorf("getBakerInfo: %w", err)
	}

	fields := []struct {
		name string
		v    *big.Int
	}{
		{"pizzaProgress", res.PizzaProgress},
		{"lastCheckIn", res.LastCheckIn},
		{"totalPizzas", res.TotalPizzas},
		{"points", res.Points},
		{"timeUntilNextCheckIn", res.TimeUntilNextCheckIn},
	}
	var vals [5]uint64
	for i, f := range fields {
		if vals[i], err = toUint64(f.name, f.v); err != nil {
			return model.BakerInfo{}, fmt.Errorf("getBakerInfo: %w", err)
		}
	}

	info := model.BakerInfo{
		Account:       baker,
		PizzaProgress: vals[0],
		TotalPizzas:   vals[2],
		Points:        vals[3],
		TimeLeft:      time.Duration(vals[4]) * time.Second,
		FetchedAt:     b.now(),
	}
	if vals[1] != 0 {
		info.LastCheckIn = time.Unix(int64(vals[1]), 0)
	}
	return info, nil
}

// CanCheckInNow asks the contract whether baker may check in.
func (b *Bakery) CanCheckInNow(ctx context.Context, baker common.Address) (bool, error) {
	const method = "canCheckInNow"
	out, err := b.call(ctx, method, baker)
	if err != nil {
		return false, fmt.Errorf("canCheckInNow: %w", err)
	}
	var ok bool
	if err := unpack(&ok, method, bakeryABI.Methods[method].Outputs, out); err != nil {
		return false, fmt.Errorf("canCheckInNow: %w", err)
	}
	return ok, nil
}

// CheckIn submits checkIn() from the given account. The wallet signs and
// broadcasts; the returned hash is not yet mined.
func (b *Bakery) CheckIn(ctx context.Context, from common.Address) (common.Hash, error) {
	data, err := bakeryABI.Pack("checkIn")
	if err != nil {
		return common.Hash{}, fmt.Errorf("checkIn: %w", err)
	}
	msg := callMsg{From: &from, To: b.address, Data: data}
	var hash common.Hash
	if err := b.req.Request(ctx, "eth_sendTransaction", []any{msg}, &hash); err != nil {
		return common.Hash{}, fmt.Errorf("checkIn: %w", err)
	}
	return hash, nil
}

// Log is one receipt log entry.
type Log struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

// Receipt is the subset of eth_getTransactionReceipt the bakery reads.
type Receipt struct {
	TxHash      common.Hash     `json:"transactionHash"`
	BlockNumber hexutil.Uint64  `json:"blockNumber"`
	From        common.Address  `json:"from"`
	Status      *hexutil.Uint64 `json:"status"`
	Logs        []Log           `json:"logs"`
}

// Succeeded reports a status of 1. Pre-Byzantium receipts have no status
// and count as success.
func (r *Receipt) Succeeded() bool {
	return r.Status == nil || *r.Status != 0
}

// WaitMined polls for the receipt of hash until it exists or ctx ends. A
// reverted transaction returns the receipt together with ErrReverted.
func (b *Bakery) WaitMined(ctx context.Context, hash common.Hash) (*Receipt, error) {
	ticker := time.NewTicker(b.receiptInterval)
	defer ticker.Stop()

	for {
		var receipt *Receipt
		if err := b.req.Request(ctx, "eth_getTransactionReceipt", []any{hash}, &receipt); err != nil {
			return nil, fmt.Errorf("receipt %s: %w", hash.Hex(), err)
		}
		if receipt != nil {
			if !receipt.Succeeded() {
				return receipt, fmt.Errorf("checkIn %s: %w", hash.Hex(), ErrReverted)
			}
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("receipt %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// ParseEvents decodes the CheckedIn and PizzaBaked logs this contract emitted
// in receipt. Logs from other contracts are ignored.
func (b *Bakery) ParseEvents(receipt *Receipt) (model.CheckInReceipt, error) {
	out := model.CheckInReceipt{
		TxHash:      receipt.TxHash,
		From:        receipt.From,
		BlockNumber: uint64(receipt.BlockNumber),
	}

	for i, lg := range receipt.Logs {
		if lg.Address != b.address || len(lg.Topics) < 2 {
			continue
		}
		baker := common.BytesToAddress(lg.Topics[1].Bytes())
		switch lg.Topics[0] {
		case topicCheckedIn:
			var ev checkedInFields
			if err := unpack(&ev, "CheckedIn", bakeryABI.Events["CheckedIn"].Inputs, lg.Data); err != nil {
				return out, fmt.Errorf("log %d CheckedIn: %w", i, err)
			}
			progress, err := toUint64("progress", ev.Progress)
			if err != nil {
				return out, fmt.Errorf("log %d CheckedIn: %w", i, err)
			}
			ts, err := toUint64("timestamp", ev.Timestamp)
			if err != nil {
				return out, fmt.Errorf("log %d CheckedIn: %w", i, err)
			}
			out.CheckedIn = &model.CheckInEvent{
				Baker:     baker,
				Progress:  progress,
				Timestamp: time.Unix(int64(ts), 0),
			}
		case topicPizzaBaked:
			var ev pizzaBakedFields
			if err := unpack(&ev, "PizzaBaked", bakeryABI.Events["PizzaBaked"].Inputs, lg.Data); err != nil {
				return out, fmt.Errorf("log %d PizzaBaked: %w", i, err)
			}
			total, err := toUint64("totalPizzas", ev.TotalPizzas)
			if err != nil {
				return out, fmt.Errorf("log %d PizzaBaked: %w", i, err)
			}
			points, err := toUint64("points", ev.Points)
			if err != nil {
				return out, fmt.Errorf("log %d PizzaBaked: %w", i, err)
			}
			out.Baked = &model.PizzaEvent{
				Baker:       baker,
				TotalPizzas: total,
				Points:      points,
			}
		}
	}
	return out, nil
}

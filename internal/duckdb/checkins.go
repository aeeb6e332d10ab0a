package duckdb

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tinytelemetry/bakery/internal/ethx"
	"github.com/tinytelemetry/bakery/internal/model"
)

// ErrNoCheckInEvent means a receipt carried no CheckedIn log to record.
var ErrNoCheckInEvent = errors.New("duckdb: receipt has no check-in event")

// RecordCheckIn stores the events decoded from a mined check-in. Recording the
// same transaction twice is a no-op.
func (s *Store) RecordCheckIn(r model.CheckInReceipt) error {
	if r.CheckedIn == nil {
		return ErrNoCheckInEvent
	}

	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	account := r.CheckedIn.Baker
	if ethx.IsZero(account) {
		account = r.From
	}

	var (
		baked       bool
		totalPizzas uint64
		points      uint64
	)
	if r.Baked != nil {
		baked = true
		totalPizzas = r.Baked.TotalPizzas
		points = r.Baked.Points
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO checkins
		(tx_hash, account, block_number, progress, checked_in_at, pizza_baked, total_pizzas, points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tx_hash) DO NOTHING`,
		r.TxHash.Hex(), ethx.Lower(account), r.BlockNumber, r.CheckedIn.Progress,
		r.CheckedIn.Timestamp.UTC(), baked, totalPizzas, points,
	)
	if err != nil {
		return fmt.Errorf("insert check-in %s: %w", r.TxHash.Hex(), err)
	}
	return nil
}

// CheckInsByDay counts check-ins per UTC day for the last `days` days ending
// at now, oldest first. Days without check-ins are present with a zero count.
// A check-in is any distinct lastCheckIn value seen in snapshots or any
// recorded CheckedIn event.
func (s *Store) CheckInsByDay(account common.Address, days int, now time.Time) ([]model.DayCount, error) {
	if days <= 0 {
		return nil, nil
	}

	today := now.UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(days - 1))

	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	addr := ethx.Lower(account)
	rows, err := s.db.QueryContext(ctx, `
		SELECT CAST(ts AS DATE) AS day, COUNT(*) AS n
		FROM (
			SELECT last_check_in AS ts FROM snapshots
			WHERE account = ? AND last_check_in IS NOT NULL AND last_check_in >= ?
			UNION
			SELECT checked_in_at AS ts FROM checkins
			WHERE account = ? AND checked_in_at >= ?
		)
		GROUP BY day
		ORDER BY day`,
		addr, start, addr, start,
	)
	if err != nil {
		return nil, fmt.Errorf("check-ins by day: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			day time.Time
			n   int
		)
		if err := rows.Scan(&day, &n); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		counts[day.UTC().Format(time.DateOnly)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.DayCount, days)
	for i := range out {
		d := start.AddDate(0, 0, i)
		out[i] = model.DayCount{Day: d, Count: counts[d.Format(time.DateOnly)]}
	}
	return out, nil
}

// RecentCheckIns returns recorded check-in events for account, newest first.
func (s *Store) RecentCheckIns(account common.Address, limit int) ([]model.CheckInRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT tx_hash, block_number, progress, checked_in_at, pizza_baked, total_pizzas, points
		FROM checkins
		WHERE account = ?
		ORDER BY checked_in_at DESC, block_number DESC
		LIMIT ?`, ethx.Lower(account), limit)
	if err != nil {
		return nil, fmt.Errorf("recent check-ins: %w", err)
	}
	defer rows.Close()

	var out []model.CheckInRecord
	for rows.Next() {
		var (
			rec    = model.CheckInRecord{Account: account}
			txHash string
		)
		if err := rows.Scan(&txHash, &rec.BlockNumber, &rec.Progress, &rec.CheckedInAt,
			&rec.PizzaBaked, &rec.TotalPizzas, &rec.Points); err != nil {
			return nil, fmt.Errorf("scan check-in: %w", err)
		}
		rec.TxHash = common.HexToHash(txHash)
		out = append(out, rec)
	}
	return out, rows.Err()
}

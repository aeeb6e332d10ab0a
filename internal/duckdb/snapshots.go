package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tinytelemetry/bakery/internal/ethx"
	"github.com/tinytelemetry/bakery/internal/model"
)

// RecordSnapshot stores info unless the latest snapshot for the same account
// carries identical counters.
func (s *Store) RecordSnapshot(info model.BakerInfo) error {
	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok, err := s.latestSnapshot(ctx, info.Account)
	if err != nil {
		return err
	}
	if ok && prev.SameCounters(info) {
		return nil
	}

	var lastCheckIn any
	if info.HasCheckedIn() {
		lastCheckIn = info.LastCheckIn.UTC()
	}
	fetchedAt := info.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO snapshots
		(account, pizza_progress, last_check_in, total_pizzas, points, time_left_seconds, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ethx.Lower(info.Account), info.PizzaProgress, lastCheckIn, info.TotalPizzas, info.Points,
		int64(info.TimeLeft/time.Second), fetchedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent snapshot for account.
func (s *Store) LatestSnapshot(account common.Address) (model.BakerInfo, bool, error) {
	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestSnapshot(ctx, account)
}

func (s *Store) latestSnapshot(ctx context.Context, account common.Address) (model.BakerInfo, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT pizza_progress, last_check_in, total_pizzas, points, time_left_seconds, fetched_at
		FROM snapshots
		WHERE account = ?
		ORDER BY fetched_at DESC
		LIMIT 1`, ethx.Lower(account))

	var (
		info        = model.BakerInfo{Account: account}
		lastCheckIn sql.NullTime
		timeLeft    int64
	)
	err := row.Scan(&info.PizzaProgress, &lastCheckIn, &info.TotalPizzas, &info.Points, &timeLeft, &info.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BakerInfo{}, false, nil
	}
	if err != nil {
		return model.BakerInfo{}, false, fmt.Errorf("latest snapshot: %w", err)
	}
	if lastCheckIn.Valid {
		info.LastCheckIn = lastCheckIn.Time
	}
	info.TimeLeft = time.Duration(timeLeft) * time.Second
	return info, true, nil
}

package duckdb

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// DeleteBefore removes snapshots fetched and check-ins made before cutoff.
// It returns the number of rows deleted across both tables.
func (s *Store) DeleteBefore(cutoff time.Time) (int64, error) {
	ctx, cancel := s.queryCtx()
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff = cutoff.UTC()
	var total int64
	for _, q := range []string{
		"DELETE FROM snapshots WHERE fetched_at < ?",
		"DELETE FROM checkins WHERE checked_in_at < ?",
	} {
		res, err := s.db.ExecContext(ctx, q, cutoff)
		if err != nil {
			return total, fmt.Errorf("retention delete: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// RetentionConfig holds configuration for the retention cleaner.
type RetentionConfig struct {
	RetentionDays int
	Interval      time.Duration
}

// RetentionCleaner periodically deletes history older than the retention period.
type RetentionCleaner struct {
	store         *Store
	retentionDays int
	interval      time.Duration
	done          chan struct{}
	wg            sync.WaitGroup
	stopOnce      sync.Once
}

// NewRetentionCleaner starts a cleaner that runs once immediately and then
// hourly. Returns nil when retention is 0 (disabled).
func NewRetentionCleaner(store *Store, conf ...RetentionConfig) *RetentionCleaner {
	days := 90
	interval := time.Hour
	if len(conf) > 0 {
		days = conf[0].RetentionDays
		if conf[0].Interval > 0 {
			interval = conf[0].Interval
		}
	}
	if days <= 0 {
		return nil
	}

	rc := &RetentionCleaner{
		store:         store,
		retentionDays: days,
		interval:      interval,
		done:          make(chan struct{}),
	}

	// Catch up after downtime.
	rc.cleanup()

	rc.wg.Add(1)
	go rc.tickLoop()

	return rc
}

func (rc *RetentionCleaner) tickLoop() {
	defer rc.wg.Done()
	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rc.cleanup()
		case <-rc.done:
			return
		}
	}
}

func (rc *RetentionCleaner) cleanup() {
	cutoff := time.Now().AddDate(0, 0, -rc.retentionDays)

	rows, err := rc.store.DeleteBefore(cutoff)
	if err != nil {
		log.Printf("duckdb: retention cleanup error: %v", err)
		return
	}
	if rows > 0 {
		log.Printf("duckdb: retention cleanup deleted %d rows (older than %d days)", rows, rc.retentionDays)
	}
}

// Stop signals the cleaner to stop and waits for it to finish. Safe on nil.
func (rc *RetentionCleaner) Stop() {
	if rc == nil {
		return
	}
	rc.stopOnce.Do(func() {
		close(rc.done)
		rc.wg.Wait()
	})
}

package duckdb

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tinytelemetry/bakery/internal/model"
)

var testAccount = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore(\"\") failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func snapshot(progress uint64, lastCheckIn time.Time, fetchedAt time.Time) model.BakerInfo {
	return model.BakerInfo{
		Account:       testAccount,
		PizzaProgress: progress,
		LastCheckIn:   lastCheckIn,
		TotalPizzas:   1,
		Points:        120,
		TimeLeft:      5 * time.Minute,
		FetchedAt:     fetchedAt,
	}
}

func checkIn(tx string, progress uint64, at time.Time, baked bool) model.CheckInReceipt {
	r := model.CheckInReceipt{
		TxHash:      crypto.Keccak256Hash([]byte(tx)),
		BlockNumber: uint64(at.Unix()),
		From:        testAccount,
		CheckedIn: &model.CheckInEvent{
			Baker:     testAccount,
			Progress:  progress,
			Timestamp: at,
		},
	}
	if baked {
		r.Baked = &model.PizzaEvent{Baker: testAccount, TotalPizzas: 3, Points: 300}
	}
	return r
}

func TestNewStore_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bakery.duckdb")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if store.DBPath() != path {
		t.Errorf("DBPath = %q", store.DBPath())
	}
	store.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file not created: %v", err)
	}

	// Reopening runs no migrations twice.
	store, err = NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	store.Close()
}

func TestLatestSnapshot_Empty(t *testing.T) {
	store := newTestStore(t)
	_, ok, err := store.LatestSnapshot(testAccount)
	if err != nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if ok {
		t.Fatal("found snapshot in empty store")
	}
}

func TestRecordSnapshot_Dedupes(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := snapshot(1, base, base.Add(time.Minute))
	if err := store.RecordSnapshot(first); err != nil {
		t.Fatalf("RecordSnapshot: %v", err)
	}

	// Only the countdown moved.
	same := first
	same.TimeLeft = 4 * time.Minute
	same.FetchedAt = base.Add(2 * time.Minute)
	if err := store.RecordSnapshot(same); err != nil {
		t.Fatalf("RecordSnapshot: %v", err)
	}

	next := snapshot(2, base.Add(20*time.Minute), base.Add(21*time.Minute))
	if err := store.RecordSnapshot(next); err != nil {
		t.Fatalf("RecordSnapshot: %v", err)
	}

	counts, err := store.TableRowCounts()
	if err != nil {
		t.Fatalf("TableRowCounts: %v", err)
	}
	if counts["snapshots"] != 2 {
		t.Fatalf("snapshots = %d, want 2", counts["snapshots"])
	}

	latest, ok, err := store.LatestSnapshot(testAccount)
	if err != nil || !ok {
		t.Fatalf("LatestSnapshot: %v %v", ok, err)
	}
	if !latest.SameState(next) {
		t.Errorf("latest = %+v\nwant %+v", latest, next)
	}
	if !latest.FetchedAt.Equal(next.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", latest.FetchedAt, next.FetchedAt)
	}
}

func TestRecordSnapshot_NeverCheckedIn(t *testing.T) {
	store := newTestStore(t)
	info := snapshot(0, time.Time{}, time.Now())
	if err := store.RecordSnapshot(info); err != nil {
		t.Fatalf("RecordSnapshot: %v", err)
	}
	got, ok, err := store.LatestSnapshot(testAccount)
	if err != nil || !ok {
		t.Fatalf("LatestSnapshot: %v %v", ok, err)
	}
	if got.HasCheckedIn() {
		t.Errorf("LastCheckIn = %v, want zero", got.LastCheckIn)
	}
}

func TestRecordCheckIn(t *testing.T) {
	store := newTestStore(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.RecordCheckIn(checkIn("a", 3, at, false)); err != nil {
		t.Fatalf("RecordCheckIn: %v", err)
	}
	if err := store.RecordCheckIn(checkIn("b", 4, at.Add(20*time.Minute), true)); err != nil {
		t.Fatalf("RecordCheckIn: %v", err)
	}
	// Duplicate transaction.
	if err := store.RecordCheckIn(checkIn("b", 4, at.Add(20*time.Minute), true)); err != nil {
		t.Fatalf("RecordCheckIn duplicate: %v", err)
	}

	recs, err := store.RecentCheckIns(testAccount, 10)
	if err != nil {
		t.Fatalf("RecentCheckIns: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[0].Progress != 4 || !recs[0].PizzaBaked || recs[0].TotalPizzas != 3 || recs[0].Points != 300 {
		t.Errorf("newest = %+v", recs[0])
	}
	if recs[0].TxHash != crypto.Keccak256Hash([]byte("b")) {
		t.Errorf("tx hash = %s", recs[0].TxHash.Hex())
	}
	if recs[1].Progress != 3 || recs[1].PizzaBaked {
		t.Errorf("oldest = %+v", recs[1])
	}

	limited, err := store.RecentCheckIns(testAccount, 1)
	if err != nil {
		t.Fatalf("RecentCheckIns: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d records", len(limited))
	}
}

func TestRecordCheckIn_NoEvent(t *testing.T) {
	store := newTestStore(t)
	err := store.RecordCheckIn(model.CheckInReceipt{TxHash: crypto.Keccak256Hash([]byte("x"))})
	if !errors.Is(err, ErrNoCheckInEvent) {
		t.Fatalf("err = %v, want ErrNoCheckInEvent", err)
	}
}

func TestCheckInsByDay(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2026, 3, 7+offset, hour, 0, 0, 0, time.UTC)
	}

	// Two check-ins today seen through snapshots, one of them also as an event.
	for _, ts := range []time.Time{day(0, 9), day(0, 10)} {
		if err := store.RecordSnapshot(snapshot(1, ts, ts.Add(time.Minute))); err != nil {
			t.Fatalf("RecordSnapshot: %v", err)
		}
	}
	if err := store.RecordCheckIn(checkIn("today", 2, day(0, 10), false)); err != nil {
		t.Fatalf("RecordCheckIn: %v", err)
	}
	// One check-in three days ago, one outside the window.
	if err := store.RecordCheckIn(checkIn("earlier", 1, day(-3, 8), false)); err != nil {
		t.Fatalf("RecordCheckIn: %v", err)
	}
	if err := store.RecordCheckIn(checkIn("old", 1, day(-10, 8), false)); err != nil {
		t.Fatalf("RecordCheckIn: %v", err)
	}

	counts, err := store.CheckInsByDay(testAccount, 7, now)
	if err != nil {
		t.Fatalf("CheckInsByDay: %v", err)
	}
	if len(counts) != 7 {
		t.Fatalf("days = %d, want 7", len(counts))
	}
	if !counts[0].Day.Equal(day(-6, 0)) {
		t.Errorf("first day = %v, want %v", counts[0].Day, day(-6, 0))
	}
	want := []int{0, 0, 0, 1, 0, 0, 2}
	for i, w := range want {
		if counts[i].Count != w {
			t.Errorf("day %s count = %d, want %d", counts[i].Day.Format(time.DateOnly), counts[i].Count, w)
		}
	}
}

func TestCheckInsByDay_OtherAccountIgnored(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	other := common.HexToAddress("0x0000000000000000000000000000000000000001")

	r := checkIn("other", 1, now.Add(-time.Hour), false)
	r.CheckedIn.Baker = other
	if err := store.RecordCheckIn(r); err != nil {
		t.Fatalf("RecordCheckIn: %v", err)
	}

	counts, err := store.CheckInsByDay(testAccount, 3, now)
	if err != nil {
		t.Fatalf("CheckInsByDay: %v", err)
	}
	for _, c := range counts {
		if c.Count != 0 {
			t.Errorf("day %v count = %d, want 0", c.Day, c.Count)
		}
	}
}

func TestDeleteBefore(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()
	old := now.AddDate(0, 0, -40)

	if err := store.RecordSnapshot(snapshot(1, old, old)); err != nil {
		t.Fatalf("RecordSnapshot: %v", err)
	}
	if err := store.RecordSnapshot(snapshot(2, now, now)); err != nil {
		t.Fatalf("RecordSnapshot: %v", err)
	}
	if err := store.RecordCheckIn(checkIn("old", 1, old, false)); err != nil {
		t.Fatalf("RecordCheckIn: %v", err)
	}

	n, err := store.DeleteBefore(now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}

	counts, err := store.TableRowCounts()
	if err != nil {
		t.Fatalf("TableRowCounts: %v", err)
	}
	if counts["snapshots"] != 1 || counts["checkins"] != 0 {
		t.Errorf("counts after delete = %v", counts)
	}
}

func TestExportTo(t *testing.T) {
	store := newTestStore(t)
	if err := store.RecordCheckIn(checkIn("a", 1, time.Now(), false)); err != nil {
		t.Fatalf("RecordCheckIn: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "export")
	if err := store.ExportTo(dir); err != nil {
		t.Fatalf("ExportTo: %v", err)
	}
	for _, name := range []string{"schema.sql", "load.sql"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

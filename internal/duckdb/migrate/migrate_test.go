package migrate

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadMigrationsOrdered(t *testing.T) {
	migs, err := loadMigrations()
	if err != nil {
		t.Fatalf("loadMigrations: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("got %d migrations, want 2", len(migs))
	}
	for i, m := range migs {
		if m.version != i+1 {
			t.Errorf("migration %d has version %d (%s)", i, m.version, m.name)
		}
	}
}

func TestRunCreatesTables(t *testing.T) {
	db := openTestDB(t)
	if err := NewRunner(db).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, table := range []string{"snapshots", "checkins", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT table_name FROM information_schema.tables WHERE table_name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	r := NewRunner(db)
	ctx := context.Background()

	if err := r.Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := r.Run(ctx); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	var applied int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
		t.Fatalf("count: %v", err)
	}
	if applied != 2 {
		t.Errorf("schema_migrations rows = %d, want 2", applied)
	}
}

func TestStatusReportsCorrectly(t *testing.T) {
	db := openTestDB(t)
	r := NewRunner(db)
	ctx := context.Background()

	cur, pending, err := r.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if cur != 0 || pending != 2 {
		t.Errorf("before run: expected version=0 pending=2, got version=%d pending=%d", cur, pending)
	}

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	cur, pending, err = r.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if cur != 2 || pending != 0 {
		t.Errorf("after run: expected version=2 pending=0, got version=%d pending=%d", cur, pending)
	}
}

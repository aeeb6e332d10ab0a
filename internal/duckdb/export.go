package duckdb

import (
	"fmt"
	"os"
	"strings"
)

// ExportTo writes the history tables to dir as Parquet files plus the schema
// and load scripts DuckDB needs to IMPORT DATABASE them again. It works for
// in-memory stores too. dir must not already contain an export.
func (s *Store) ExportTo(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	ctx, cancel := s.queryCtx()
	defer cancel()

	// Block writers so both tables come from the same point in time.
	s.mu.Lock()
	defer s.mu.Unlock()

	// EXPORT DATABASE takes no bind parameters.
	quoted := "'" + strings.ReplaceAll(dir, "'", "''") + "'"
	if _, err := s.db.ExecContext(ctx, "EXPORT DATABASE "+quoted+" (FORMAT PARQUET)"); err != nil {
		return fmt.Errorf("export database: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fitclub/internal/adapters/http/perf"
)

// TestTimedDB_Calls verifies every wrapped call reaches the database.
func TestTimedDB_Calls(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	tdb := NewTimedDB(db, perf.NewCollector(prometheus.NewRegistry()), 0)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "CREATE TABLE t (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	if _, err := tdb.ExecContext(ctx, "INSERT INTO t (id, val) VALUES (?, ?)", "1", "hello"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var val string
	if err := tdb.QueryRowContext(ctx, "SELECT val FROM t WHERE id = ?", "1").Scan(&val); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if val != "hello" {
		t.Errorf("val = %q, want hello", val)
	}

	rows, err := tdb.QueryContext(ctx, "SELECT id FROM t")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	count := 0
	for rows.Next() {
		count++
	}
	rows.Close()
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}

	tx, err := tdb.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	tx.Rollback()

	if err := tdb.PingContext(ctx); err != nil {
		t.Errorf("PingContext: %v", err)
	}
}

// TestNewTimedDB_DefaultThreshold verifies a zero threshold falls back.
func TestNewTimedDB_DefaultThreshold(t *testing.T) {
	tdb := NewTimedDB(nil, nil, 0)
	if tdb.threshold != DefaultSlowQuery {
		t.Errorf("threshold = %v, want %v", tdb.threshold, DefaultSlowQuery)
	}
	tdb = NewTimedDB(nil, nil, time.Second)
	if tdb.threshold != time.Second {
		t.Errorf("threshold = %v, want 1s", tdb.threshold)
	}
}

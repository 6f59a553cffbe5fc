package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec(`CREATE TABLE tracks (id TEXT PRIMARY KEY, title TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	return conn
}

func countRows(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM tracks`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count
}

func TestWithTx_Commit(t *testing.T) {
	conn := setupTestDB(t)

	err := WithTx(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO tracks (id, title) VALUES (?, ?)`, "a", "first"); err != nil {
			return err
		}
		_, err := tx.Exec(`INSERT INTO tracks (id, title) VALUES (?, ?)`, "b", "second")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	if got := countRows(t, conn); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	conn := setupTestDB(t)
	boom := errors.New("boom")

	err := WithTx(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO tracks (id, title) VALUES (?, ?)`, "a", "first"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx error = %v, want %v", err, boom)
	}

	if got := countRows(t, conn); got != 0 {
		t.Errorf("count = %d, want 0 (rolled back)", got)
	}
}

func TestWithTxContext_Cancelled(t *testing.T) {
	conn := setupTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithTxContext(ctx, conn, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO tracks (id, title) VALUES (?, ?)`, "a", "first")
		return err
	})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}

	if got := countRows(t, conn); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
}

func TestNullStringValue(t *testing.T) {
	tests := []struct {
		in   sql.NullString
		want string
	}{
		{sql.NullString{String: "hello", Valid: true}, "hello"},
		{sql.NullString{String: "hello", Valid: false}, ""},
		{sql.NullString{String: "", Valid: true}, ""},
	}
	for _, tt := range tests {
		if got := NullStringValue(tt.in); got != tt.want {
			t.Errorf("NullStringValue(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNullInt64Value(t *testing.T) {
	tests := []struct {
		in   sql.NullInt64
		want int64
	}{
		{sql.NullInt64{Int64: 42, Valid: true}, 42},
		{sql.NullInt64{Int64: 42, Valid: false}, 0},
		{sql.NullInt64{Int64: -7, Valid: true}, -7},
	}
	for _, tt := range tests {
		if got := NullInt64Value(tt.in); got != tt.want {
			t.Errorf("NullInt64Value(%+v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

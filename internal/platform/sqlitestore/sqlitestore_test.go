package sqlitestore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"shelfmate/internal/platform/sqlitestore"
	"shelfmate/internal/platform/tx"
)

func TestOpenAppliesMigrationsOnce(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "nested", "shelfmate.db")
	db, err := sqlitestore.Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 5 {
		t.Fatalf("expected 5 applied migrations, got %d", count)
	}
	for _, table := range []string{"users", "point_events", "books", "reviews", "memos", "reading_sessions", "daily_caps", "missions", "pending_deltas"} {
		var name string
		if err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
	var mode string
	if err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil || mode != "wal" {
		t.Fatalf("expected wal journal mode, got %q err=%v", mode, err)
	}
	_ = db.Close()

	reopened, err := sqlitestore.Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if err := reopened.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil || count != 5 {
		t.Fatalf("expected migrations to stay at 5, got %d err=%v", count, err)
	}
}

func TestApplyMigrationsSkipsDownSection(t *testing.T) {
	t.Parallel()
	db, err := sqlitestore.Open(filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	fsys := fstest.MapFS{
		"extra/0100_extra.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE extra_table (id INTEGER);\n-- +migrate Down\nDROP TABLE extra_table;\n")},
	}
	if err := sqlitestore.ApplyMigrations(db, fsys, "extra"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO extra_table (id) VALUES (1)`); err != nil {
		t.Fatalf("extra table should exist: %v", err)
	}
}

func TestSQLManagerRollsBackAndJoins(t *testing.T) {
	t.Parallel()
	db, err := sqlitestore.Open(filepath.Join(t.TempDir(), "tx.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	mgr := tx.NewSQLManager(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err = mgr.Within(ctx, func(ctx context.Context) error {
		if _, err := tx.From(ctx, db).ExecContext(ctx, `INSERT INTO pending_deltas (user_id, delta, created_at) VALUES ('u1', 5, 0)`); err != nil {
			return err
		}
		return mgr.Within(ctx, func(inner context.Context) error {
			if !tx.InTx(inner) {
				t.Fatalf("nested call must join the transaction")
			}
			return boom
		})
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	var count int
	if err := tx.From(ctx, db).QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_deltas`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback, found %d rows", count)
	}
}

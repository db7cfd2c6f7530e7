package tx_test

import (
	"context"
	"path/filepath"
	"testing"

	"shelfmate/internal/platform/sqlitestore"
	"shelfmate/internal/platform/tx"
)

func TestWithinCommitsAndNestedCallsJoin(t *testing.T) {
	t.Parallel()
	db, err := sqlitestore.Open(filepath.Join(t.TempDir(), "tx.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE counter (n INTEGER NOT NULL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	m := tx.NewSQLManager(db)
	ctx := context.Background()

	err = m.Within(ctx, func(ctx context.Context) error {
		if !tx.InTx(ctx) {
			t.Fatalf("expected transaction in ctx")
		}
		if _, err := tx.From(ctx, db).ExecContext(ctx, `INSERT INTO counter (n) VALUES (1)`); err != nil {
			return err
		}
		return m.Within(ctx, func(inner context.Context) error {
			_, err := tx.From(inner, db).ExecContext(inner, `INSERT INTO counter (n) VALUES (2)`)
			return err
		})
	})
	if err != nil {
		t.Fatalf("within: %v", err)
	}

	var sum int
	if err := db.QueryRow(`SELECT COALESCE(SUM(n), 0) FROM counter`).Scan(&sum); err != nil {
		t.Fatalf("sum: %v", err)
	}
	if sum != 3 {
		t.Fatalf("expected both rows committed, got %d", sum)
	}
	if tx.InTx(ctx) {
		t.Fatalf("background ctx must not carry a transaction")
	}
}

func TestNoopManagerRunsInline(t *testing.T) {
	t.Parallel()
	called := false
	if err := (tx.NoopManager{}).Within(context.Background(), func(context.Context) error {
		called = true
		return nil
	}); err != nil || !called {
		t.Fatalf("noop manager: called=%t err=%v", called, err)
	}
}

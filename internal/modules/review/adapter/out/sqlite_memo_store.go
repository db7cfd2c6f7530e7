package out

import (
	"context"
	"database/sql"

	"shelfmate/internal/modules/review/domain"
	reviewout "shelfmate/internal/modules/review/port/out"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/sqlitestore"
	"shelfmate/internal/platform/tx"
)

type SQLiteMemoStore struct {
	db *sql.DB
}

func NewSQLiteMemoStore(db *sql.DB) reviewout.MemoStore {
	return &SQLiteMemoStore{db: db}
}

func (s *SQLiteMemoStore) Insert(ctx context.Context, memo domain.Memo) error {
	_, err := tx.From(ctx, s.db).ExecContext(ctx, `
INSERT INTO memos (id, user_id, isbn, text, pages_at, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		memo.ID, memo.UserID, memo.ISBN, memo.Text, memo.PagesAt, sqlitestore.ToMillis(memo.CreatedAt))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "insert memo", err)
	}
	return nil
}

// List returns newest first.
func (s *SQLiteMemoStore) List(ctx context.Context, userID, isbn string) ([]domain.Memo, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, `SELECT id, user_id, isbn, text, pages_at, created_at
FROM memos WHERE user_id = ? AND isbn = ? ORDER BY created_at DESC, rowid DESC`, userID, isbn)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "list memos", err)
	}
	defer rows.Close()
	out := []domain.Memo{}
	for rows.Next() {
		var (
			m       domain.Memo
			created int64
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.ISBN, &m.Text, &m.PagesAt, &created); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "scan memo", err)
		}
		m.CreatedAt = sqlitestore.FromMillis(created)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "list memos", err)
	}
	return out, nil
}

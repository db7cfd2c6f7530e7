package out

import (
	"context"
	"database/sql"

	"shelfmate/internal/modules/mission/domain"
	missionout "shelfmate/internal/modules/mission/port/out"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/sqlitestore"
	"shelfmate/internal/platform/tx"
)

type SQLitePendingStore struct {
	db *sql.DB
}

func NewSQLitePendingStore(db *sql.DB) missionout.PendingStore {
	return &SQLitePendingStore{db: db}
}

func (s *SQLitePendingStore) Add(ctx context.Context, d domain.PendingDelta) error {
	_, err := tx.From(ctx, s.db).ExecContext(ctx, `
INSERT INTO pending_deltas (user_id, delta, origin, created_at) VALUES (?, ?, ?, ?)`,
		d.UserID, d.Delta, d.Origin, sqlitestore.ToMillis(d.CreatedAt))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "record pending delta", err)
	}
	return nil
}

// Take deletes exactly the rows it read, so a delta recorded concurrently stays queued.
func (s *SQLitePendingStore) Take(ctx context.Context, userID string) ([]domain.PendingDelta, error) {
	q := tx.From(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
SELECT seq, user_id, delta, origin, created_at FROM pending_deltas WHERE user_id = ? ORDER BY seq ASC`, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "read pending deltas", err)
	}
	out := []domain.PendingDelta{}
	for rows.Next() {
		var (
			d       domain.PendingDelta
			created int64
		)
		if err := rows.Scan(&d.Seq, &d.UserID, &d.Delta, &d.Origin, &created); err != nil {
			_ = rows.Close()
			return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "scan pending delta", err)
		}
		d.CreatedAt = sqlitestore.FromMillis(created)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "read pending deltas", err)
	}
	_ = rows.Close()
	if len(out) == 0 {
		return out, nil
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM pending_deltas WHERE user_id = ? AND seq <= ?`, userID, out[len(out)-1].Seq); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "clear pending deltas", err)
	}
	return out, nil
}

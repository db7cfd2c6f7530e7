package out

import (
	"context"
	"database/sql"

	"shelfmate/internal/modules/mission/domain"
	missionout "shelfmate/internal/modules/mission/port/out"
	"shelfmate/internal/platform/calendar"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/sqlitestore"
	"shelfmate/internal/platform/tx"
)

type SQLiteMissionStore struct {
	db *sql.DB
}

func NewSQLiteMissionStore(db *sql.DB) missionout.MissionStore {
	return &SQLiteMissionStore{db: db}
}

func (s *SQLiteMissionStore) Insert(ctx context.Context, m domain.Mission) error {
	_, err := tx.From(ctx, s.db).ExecContext(ctx, `
INSERT INTO missions (id, user_id, title, start_date, end_date, goal, progress, reward, completed, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Title, m.StartDate.String(), m.EndDate.String(), m.Goal, m.Progress, m.Reward,
		sqlitestore.Int(m.Completed), sqlitestore.ToMillis(m.CreatedAt), sqlitestore.ToMillis(m.UpdatedAt))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "insert mission", err)
	}
	return nil
}

// Update persists progress only. completed never flips back to false.
func (s *SQLiteMissionStore) Update(ctx context.Context, m domain.Mission) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `
UPDATE missions SET progress = MAX(progress, ?), completed = MAX(completed, ?), updated_at = ?
WHERE id = ? AND user_id = ?`,
		m.Progress, sqlitestore.Int(m.Completed), sqlitestore.ToMillis(m.UpdatedAt), m.ID, m.UserID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "update mission", err)
	}
	return requireOne(res, "update mission")
}

func (s *SQLiteMissionStore) Delete(ctx context.Context, userID, missionID string) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `DELETE FROM missions WHERE id = ? AND user_id = ?`, missionID, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "delete mission", err)
	}
	return requireOne(res, "delete mission")
}

func (s *SQLiteMissionStore) ListByUser(ctx context.Context, userID string) ([]domain.Mission, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, `
SELECT id, user_id, title, start_date, end_date, goal, progress, reward, completed, created_at, updated_at
FROM missions WHERE user_id = ? ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "list missions", err)
	}
	defer rows.Close()
	out := []domain.Mission{}
	for rows.Next() {
		var (
			m                domain.Mission
			start, end       string
			completed        int64
			created, updated int64
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.Title, &start, &end, &m.Goal, &m.Progress, &m.Reward, &completed, &created, &updated); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "scan mission", err)
		}
		if m.StartDate, err = calendar.Parse(start); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "scan mission", err)
		}
		if m.EndDate, err = calendar.Parse(end); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "scan mission", err)
		}
		m.Completed = sqlitestore.Bool(completed)
		m.CreatedAt = sqlitestore.FromMillis(created)
		m.UpdatedAt = sqlitestore.FromMillis(updated)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "list missions", err)
	}
	return out, nil
}

func requireOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, op, err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

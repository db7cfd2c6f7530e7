package out

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"shelfmate/internal/modules/identity/domain"
	identityout "shelfmate/internal/modules/identity/port/out"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/sqlitestore"
	"shelfmate/internal/platform/tx"
)

type SQLiteUserStore struct {
	db *sql.DB
}

func NewSQLiteUserStore(db *sql.DB) identityout.UserStore {
	return &SQLiteUserStore{db: db}
}

func (s *SQLiteUserStore) Create(ctx context.Context, user domain.User) error {
	_, err := tx.From(ctx, s.db).ExecContext(ctx, `
INSERT INTO users (id, email, nickname, password_hash, total_points, books_read_count, created_at, updated_at)
VALUES (?, ?, ?, ?, 0, 0, ?, ?)`,
		user.ID, user.Email, user.Nickname, user.PasswordHash, sqlitestore.ToMillis(user.CreatedAt), sqlitestore.ToMillis(user.UpdatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return apperrors.Invalid("email is already registered")
		}
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "create user", err)
	}
	return nil
}

func (s *SQLiteUserStore) FindByID(ctx context.Context, id string) (domain.User, error) {
	return s.findOne(ctx, `WHERE id = ?`, id)
}

func (s *SQLiteUserStore) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.findOne(ctx, `WHERE email = ?`, email)
}

func (s *SQLiteUserStore) findOne(ctx context.Context, where string, arg any) (domain.User, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, `
SELECT id, email, nickname, password_hash, total_points, books_read_count, created_at, updated_at
FROM users `+where, arg)
	var (
		user               domain.User
		created, updatedAt int64
	)
	err := row.Scan(&user.ID, &user.Email, &user.Nickname, &user.PasswordHash, &user.TotalPoints, &user.BooksReadCount, &created, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.User{}, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "load user", err)
	}
	user.CreatedAt = sqlitestore.FromMillis(created)
	user.UpdatedAt = sqlitestore.FromMillis(updatedAt)
	return user, nil
}

func (s *SQLiteUserStore) UpdateNickname(ctx context.Context, id, nickname string, at time.Time) error {
	return s.updateOne(ctx, "update nickname", `UPDATE users SET nickname = ?, updated_at = ? WHERE id = ?`, nickname, sqlitestore.ToMillis(at), id)
}

// AddPoints records the reward in point_events and bumps the total only when the event is new.
func (s *SQLiteUserStore) AddPoints(ctx context.Context, userID, missionID string, points int, at time.Time) (bool, error) {
	q := tx.From(ctx, s.db)
	res, err := q.ExecContext(ctx, `
INSERT INTO point_events (mission_id, user_id, points, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(mission_id) DO NOTHING`, missionID, userID, points, sqlitestore.ToMillis(at))
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "record point event", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "record point event", err)
	}
	if inserted == 0 {
		return false, nil
	}
	if err := s.updateOne(ctx, "add points", `UPDATE users SET total_points = total_points + ?, updated_at = ? WHERE id = ?`, points, sqlitestore.ToMillis(at), userID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteUserStore) IncrementBooksRead(ctx context.Context, userID string, at time.Time) error {
	return s.updateOne(ctx, "increment books read", `UPDATE users SET books_read_count = books_read_count + 1, updated_at = ? WHERE id = ?`, sqlitestore.ToMillis(at), userID)
}

func (s *SQLiteUserStore) updateOne(ctx context.Context, op, query string, args ...any) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, op, err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

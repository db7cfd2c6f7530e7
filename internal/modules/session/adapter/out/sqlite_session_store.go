package out

import (
	"context"
	"database/sql"

	"shelfmate/internal/modules/session/domain"
	sessionout "shelfmate/internal/modules/session/port/out"
	"shelfmate/internal/platform/calendar"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/sqlitestore"
	"shelfmate/internal/platform/tx"
)

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(db *sql.DB) sessionout.SessionStore {
	return &SQLiteSessionStore{db: db}
}

func (s *SQLiteSessionStore) Save(ctx context.Context, session domain.Session) error {
	_, err := tx.From(ctx, s.db).ExecContext(ctx, `
INSERT INTO reading_sessions (
    id, user_id, isbn, book_title, source, device, started_at, ended_at,
    start_read_pages, claimed_final_pages, total_pages, elapsed_seconds, raw_delta, accepted_delta, note
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.ISBN, session.BookTitle, session.Source, session.Device,
		sqlitestore.ToMillis(session.StartedAt), sqlitestore.ToMillis(session.EndedAt),
		session.StartReadPages, session.ClaimedFinalPages, session.TotalPages,
		session.ElapsedSeconds, session.RawDelta, session.AcceptedDelta, string(session.Note))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "save session", err)
	}
	return nil
}

// List returns the user's sessions on isbn, newest first.
func (s *SQLiteSessionStore) List(ctx context.Context, userID, isbn string) ([]domain.Session, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, `
SELECT id, user_id, isbn, book_title, source, device, started_at, ended_at,
       start_read_pages, claimed_final_pages, total_pages, elapsed_seconds, raw_delta, accepted_delta, note
FROM reading_sessions WHERE user_id = ? AND isbn = ? ORDER BY started_at DESC, id ASC`, userID, isbn)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "list sessions", err)
	}
	defer rows.Close()
	out := []domain.Session{}
	for rows.Next() {
		var (
			session        domain.Session
			started, ended int64
			note           string
		)
		if err := rows.Scan(
			&session.ID, &session.UserID, &session.ISBN, &session.BookTitle, &session.Source, &session.Device,
			&started, &ended, &session.StartReadPages, &session.ClaimedFinalPages, &session.TotalPages,
			&session.ElapsedSeconds, &session.RawDelta, &session.AcceptedDelta, &note,
		); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "scan session", err)
		}
		session.StartedAt = sqlitestore.FromMillis(started)
		session.EndedAt = sqlitestore.FromMillis(ended)
		session.Note = domain.Reason(note)
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "list sessions", err)
	}
	return out, nil
}

func (s *SQLiteSessionStore) DailyUsed(ctx context.Context, userID, isbn string, day calendar.Date) (int, error) {
	var used int
	err := tx.From(ctx, s.db).QueryRowContext(ctx,
		`SELECT used FROM daily_caps WHERE user_id = ? AND isbn = ? AND day = ?`, userID, isbn, day.String()).Scan(&used)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "read daily cap", err)
	}
	return used, nil
}

func (s *SQLiteSessionStore) AddDailyUsed(ctx context.Context, userID, isbn string, day calendar.Date, pages int) error {
	_, err := tx.From(ctx, s.db).ExecContext(ctx, `
INSERT INTO daily_caps (user_id, isbn, day, used) VALUES (?, ?, ?, ?)
ON CONFLICT(user_id, isbn, day) DO UPDATE SET used = used + excluded.used`,
		userID, isbn, day.String(), pages)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "update daily cap", err)
	}
	return nil
}

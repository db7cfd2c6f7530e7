package out

import (
	"context"
	"database/sql"
	"errors"

	"shelfmate/internal/modules/review/domain"
	reviewout "shelfmate/internal/modules/review/port/out"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/sqlitestore"
	"shelfmate/internal/platform/tx"
)

type SQLiteReviewStore struct {
	db *sql.DB
}

func NewSQLiteReviewStore(db *sql.DB) reviewout.ReviewStore {
	return &SQLiteReviewStore{db: db}
}

func (s *SQLiteReviewStore) Upsert(ctx context.Context, review domain.Review) (domain.Review, error) {
	q := tx.From(ctx, s.db)
	_, err := q.ExecContext(ctx, `
INSERT INTO reviews (isbn, user_id, nickname, rating, text, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(isbn, user_id) DO UPDATE SET
    nickname = excluded.nickname,
    rating = excluded.rating,
    text = excluded.text,
    updated_at = excluded.updated_at`,
		review.ISBN, review.UserID, review.Nickname, review.Rating, review.Text,
		sqlitestore.ToMillis(review.CreatedAt), sqlitestore.ToMillis(review.UpdatedAt))
	if err != nil {
		return domain.Review{}, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "save review", err)
	}
	row := q.QueryRowContext(ctx, `SELECT isbn, user_id, nickname, rating, text, created_at, updated_at
FROM reviews WHERE isbn = ? AND user_id = ?`, review.ISBN, review.UserID)
	saved, err := scanReview(row)
	if err != nil {
		return domain.Review{}, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "reload review", err)
	}
	return saved, nil
}

func (s *SQLiteReviewStore) Delete(ctx context.Context, isbn, userID string) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `DELETE FROM reviews WHERE isbn = ? AND user_id = ?`, isbn, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "delete review", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "delete review", err)
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *SQLiteReviewStore) ListByISBN(ctx context.Context, isbn string) ([]domain.Review, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, `SELECT isbn, user_id, nickname, rating, text, created_at, updated_at
FROM reviews WHERE isbn = ? ORDER BY created_at DESC, user_id ASC`, isbn)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "list reviews", err)
	}
	defer rows.Close()
	out := []domain.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "scan review", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "list reviews", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (domain.Review, error) {
	var (
		r                domain.Review
		created, updated int64
	)
	if err := row.Scan(&r.ISBN, &r.UserID, &r.Nickname, &r.Rating, &r.Text, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Review{}, apperrors.ErrNotFound
		}
		return domain.Review{}, err
	}
	r.CreatedAt = sqlitestore.FromMillis(created)
	r.UpdatedAt = sqlitestore.FromMillis(updated)
	return r, nil
}

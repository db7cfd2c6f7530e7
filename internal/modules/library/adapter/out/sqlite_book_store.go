package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"shelfmate/internal/modules/library/domain"
	libraryout "shelfmate/internal/modules/library/port/out"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/sqlitestore"
	"shelfmate/internal/platform/tx"
)

const bookColumns = `user_id, isbn, title, authors_json, publisher, thumbnail, contents,
total_pages, read_pages, summary, rating, favorite, finished, added_at, updated_at`

type SQLiteBookStore struct {
	db *sql.DB
}

func NewSQLiteBookStore(db *sql.DB) libraryout.BookStore {
	return &SQLiteBookStore{db: db}
}

func (s *SQLiteBookStore) Insert(ctx context.Context, book domain.Book) error {
	authors, err := json.Marshal(nonNil(book.Authors))
	if err != nil {
		return fmt.Errorf("marshal authors: %w", err)
	}
	_, err = tx.From(ctx, s.db).ExecContext(ctx, `INSERT INTO books (`+bookColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.UserID, book.ISBN, book.Title, string(authors), book.Publisher, book.Thumbnail, book.Contents,
		book.TotalPages, book.ReadPages, book.Summary, book.Rating,
		sqlitestore.Int(book.Favorite), sqlitestore.Int(book.Finished),
		sqlitestore.ToMillis(book.AddedAt), sqlitestore.ToMillis(book.UpdatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return apperrors.Invalid("book is already on the shelf")
		}
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "insert book", err)
	}
	return nil
}

func (s *SQLiteBookStore) Find(ctx context.Context, userID, isbn string) (domain.Book, error) {
	row := tx.From(ctx, s.db).QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE user_id = ? AND isbn = ?`, userID, isbn)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Book{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.Book{}, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "load book", err)
	}
	return book, nil
}

func (s *SQLiteBookStore) List(ctx context.Context, userID string, favoritesOnly bool) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE user_id = ?`
	if favoritesOnly {
		query += ` AND favorite = 1`
	}
	query += ` ORDER BY updated_at DESC, isbn ASC`
	rows, err := tx.From(ctx, s.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "list books", err)
	}
	defer rows.Close()

	out := []domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "scan book", err)
		}
		out = append(out, book)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "list books", err)
	}
	return out, nil
}

func (s *SQLiteBookStore) Update(ctx context.Context, book domain.Book) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `UPDATE books SET
total_pages = ?, read_pages = ?, summary = ?, rating = ?, favorite = ?, finished = ?, updated_at = ?
WHERE user_id = ? AND isbn = ?`,
		book.TotalPages, book.ReadPages, book.Summary, book.Rating,
		sqlitestore.Int(book.Favorite), sqlitestore.Int(book.Finished), sqlitestore.ToMillis(book.UpdatedAt),
		book.UserID, book.ISBN)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "update book", err)
	}
	return requireOne(res, "update book")
}

func (s *SQLiteBookStore) Delete(ctx context.Context, userID, isbn string) error {
	res, err := tx.From(ctx, s.db).ExecContext(ctx, `DELETE FROM books WHERE user_id = ? AND isbn = ?`, userID, isbn)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPersistenceUnavailable, "delete book", err)
	}
	return requireOne(res, "delete book")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (domain.Book, error) {
	var (
		book               domain.Book
		authors            string
		favorite, finished int64
		added, updated     int64
	)
	if err := row.Scan(&book.UserID, &book.ISBN, &book.Title, &authors, &book.Publisher, &book.Thumbnail, &book.Contents,
		&book.TotalPages, &book.ReadPages, &book.Summary, &book.Rating, &favorite, &finished, &added, &updated); err != nil {
		return domain.Book{}, err
	}
	if err := json.Unmarshal([]byte(authors), &book.Authors); err != nil {
		return domain.Book{}, fmt.Errorf("decode authors: %w", err)
	}
	book.Favorite = sqlitestore.Bool(favorite)
	book.Finished = sqlitestore.Bool(finished)
	book.AddedAt = sqlitestore.FromMillis(added)
	book.UpdatedAt = sqlitestore.FromMillis(updated)
	return book, nil
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

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

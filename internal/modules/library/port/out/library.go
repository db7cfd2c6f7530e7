package out

import (
	"context"

	"shelfmate/internal/modules/library/domain"
)

type BookStore interface {
	Insert(ctx context.Context, book domain.Book) error
	Find(ctx context.Context, userID, isbn string) (domain.Book, error)
	List(ctx context.Context, userID string, favoritesOnly bool) ([]domain.Book, error)
	Update(ctx context.Context, book domain.Book) error
	Delete(ctx context.Context, userID, isbn string) error
}

// NoteWriter mirrors a shelf entry into its markdown note and returns the note path.
type NoteWriter interface {
	WriteBook(ctx context.Context, book domain.Book) (string, error)
	NotePath(book domain.Book) string
}

type PageCounter interface {
	CountPages(ctx context.Context, path string) (int, error)
}

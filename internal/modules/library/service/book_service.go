package service

import (
	"context"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"shelfmate/internal/modules/library/domain"
	libraryout "shelfmate/internal/modules/library/port/out"
	"shelfmate/internal/platform/clock"
	apperrors "shelfmate/internal/platform/errors"
)

type BookService struct {
	clock        clock.Clock
	store        libraryout.BookStore
	notes        libraryout.NoteWriter
	pages        libraryout.PageCounter
	defaultTotal int
	log          hclog.Logger
}

func NewBookService(clock clock.Clock, store libraryout.BookStore, notes libraryout.NoteWriter, pages libraryout.PageCounter, defaultTotal int, log hclog.Logger) *BookService {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &BookService{clock: clock, store: store, notes: notes, pages: pages, defaultTotal: defaultTotal, log: log}
}

func (s *BookService) Add(ctx context.Context, userID string, draft domain.Book) (domain.Book, error) {
	book, err := domain.NewBook(userID, draft, s.defaultTotal, s.clock.Now())
	if err != nil {
		return domain.Book{}, err
	}
	if err := s.store.Insert(ctx, book); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

func (s *BookService) Get(ctx context.Context, userID, isbn string) (domain.Book, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return domain.Book{}, apperrors.Invalid("isbn is required")
	}
	return s.store.Find(ctx, userID, isbn)
}

func (s *BookService) List(ctx context.Context, userID string, favoritesOnly bool) ([]domain.Book, error) {
	return s.store.List(ctx, userID, favoritesOnly)
}

// SetReadPages reports whether the change finished the book for the first time.
func (s *BookService) SetReadPages(ctx context.Context, userID, isbn string, pages int) (domain.Book, bool, error) {
	return s.mutate(ctx, userID, isbn, func(b *domain.Book) (bool, error) {
		return b.SetReadPages(pages, s.clock.Now()), nil
	})
}

func (s *BookService) SetTotalPages(ctx context.Context, userID, isbn string, pages int) (domain.Book, bool, error) {
	return s.mutate(ctx, userID, isbn, func(b *domain.Book) (bool, error) {
		return b.SetTotalPages(pages, s.clock.Now())
	})
}

func (s *BookService) AddPages(ctx context.Context, userID, isbn string, delta int) (domain.Book, bool, error) {
	if delta <= 0 {
		return domain.Book{}, false, apperrors.Invalid("reading delta must be positive")
	}
	return s.mutate(ctx, userID, isbn, func(b *domain.Book) (bool, error) {
		return b.AddPages(delta, s.clock.Now()), nil
	})
}

func (s *BookService) SetSummary(ctx context.Context, userID, isbn, summary string) (domain.Book, error) {
	book, _, err := s.mutate(ctx, userID, isbn, func(b *domain.Book) (bool, error) {
		b.Summary = strings.TrimSpace(summary)
		b.UpdatedAt = s.clock.Now()
		return false, nil
	})
	return book, err
}

func (s *BookService) SetRating(ctx context.Context, userID, isbn string, rating int) (domain.Book, error) {
	book, _, err := s.mutate(ctx, userID, isbn, func(b *domain.Book) (bool, error) {
		return false, b.SetRating(rating, s.clock.Now())
	})
	return book, err
}

func (s *BookService) ToggleFavorite(ctx context.Context, userID, isbn string) (domain.Book, error) {
	book, _, err := s.mutate(ctx, userID, isbn, func(b *domain.Book) (bool, error) {
		b.Favorite = !b.Favorite
		b.UpdatedAt = s.clock.Now()
		return false, nil
	})
	return book, err
}

func (s *BookService) Remove(ctx context.Context, userID, isbn string) error {
	if _, err := s.Get(ctx, userID, isbn); err != nil {
		return err
	}
	return s.store.Delete(ctx, userID, strings.TrimSpace(isbn))
}

func (s *BookService) CountPages(ctx context.Context, pdfPath string) (int, error) {
	if strings.TrimSpace(pdfPath) == "" {
		return 0, apperrors.Invalid("pdf path is required")
	}
	if s.pages == nil {
		return 0, apperrors.Invalid("page counting is not configured")
	}
	n, err := s.pages.CountPages(ctx, pdfPath)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, apperrors.Invalid("pdf has no pages")
	}
	return n, nil
}

// Mirror rewrites the book note. The database stays authoritative, so a failed
// write is logged and reported as an empty path.
func (s *BookService) Mirror(ctx context.Context, book domain.Book) string {
	if s.notes == nil {
		return ""
	}
	path, err := s.notes.WriteBook(ctx, book)
	if err != nil {
		s.log.Warn("book note not written", "isbn", book.ISBN, "error", err)
		return ""
	}
	return path
}

func (s *BookService) NotePath(book domain.Book) string {
	if s.notes == nil {
		return ""
	}
	return s.notes.NotePath(book)
}

func (s *BookService) mutate(ctx context.Context, userID, isbn string, fn func(*domain.Book) (bool, error)) (domain.Book, bool, error) {
	book, err := s.Get(ctx, userID, isbn)
	if err != nil {
		return domain.Book{}, false, err
	}
	finished, err := fn(&book)
	if err != nil {
		return domain.Book{}, false, err
	}
	if err := s.store.Update(ctx, book); err != nil {
		return domain.Book{}, false, err
	}
	if finished {
		s.log.Info("book finished", "user_id", userID, "isbn", book.ISBN)
	}
	return book, finished, nil
}

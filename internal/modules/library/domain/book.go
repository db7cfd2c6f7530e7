package domain

import (
	"strings"
	"time"

	apperrors "shelfmate/internal/platform/errors"
)

const (
	SchemaVersion = 1
	MaxRating     = 5
)

// Book is one title on a user's shelf.
type Book struct {
	UserID     string
	ISBN       string
	Title      string
	Authors    []string
	Publisher  string
	Thumbnail  string
	Contents   string
	TotalPages int
	ReadPages  int
	Summary    string
	Rating     int
	Favorite   bool
	Finished   bool
	AddedAt    time.Time
	UpdatedAt  time.Time
}

func NewBook(userID string, book Book, defaultTotal int, now time.Time) (Book, error) {
	book.UserID = userID
	book.ISBN = strings.TrimSpace(book.ISBN)
	book.Title = strings.TrimSpace(book.Title)
	if book.UserID == "" {
		return Book{}, apperrors.Invalid("user id is required")
	}
	if book.ISBN == "" {
		return Book{}, apperrors.Invalid("isbn is required")
	}
	if book.Title == "" {
		return Book{}, apperrors.Invalid("title is required")
	}
	if book.TotalPages == 0 {
		book.TotalPages = defaultTotal
	}
	if book.TotalPages <= 0 {
		return Book{}, apperrors.Invalid("total pages must be positive")
	}
	book.ReadPages = 0
	book.Rating = 0
	book.Favorite = false
	book.Finished = false
	book.AddedAt = now
	book.UpdatedAt = now
	return book, nil
}

// Percent is rounded to the nearest whole percent.
func (b Book) Percent() int {
	if b.TotalPages <= 0 {
		return 0
	}
	read := min(b.ReadPages, b.TotalPages)
	return (read*100 + b.TotalPages/2) / b.TotalPages
}

func (b Book) LeftPages() int {
	return max(0, b.TotalPages-b.ReadPages)
}

// SetReadPages clamps n into [0, TotalPages] and reports whether the book was
// finished for the first time by this change.
func (b *Book) SetReadPages(n int, now time.Time) bool {
	b.ReadPages = max(0, min(n, b.TotalPages))
	b.UpdatedAt = now
	return b.markFinished()
}

// AddPages advances by delta without overshooting the book.
func (b *Book) AddPages(delta int, now time.Time) bool {
	if delta <= 0 {
		return false
	}
	return b.SetReadPages(b.ReadPages+delta, now)
}

func (b *Book) SetTotalPages(n int, now time.Time) (bool, error) {
	if n <= 0 {
		return false, apperrors.Invalid("total pages must be positive")
	}
	b.TotalPages = n
	return b.SetReadPages(b.ReadPages, now), nil
}

func (b *Book) SetRating(rating int, now time.Time) error {
	if rating < 0 || rating > MaxRating {
		return apperrors.Invalid("rating must be between 0 and 5")
	}
	b.Rating = rating
	b.UpdatedAt = now
	return nil
}

// Finished is sticky: lowering pages later never reopens a counted book.
func (b *Book) markFinished() bool {
	if b.Finished || b.ReadPages < b.TotalPages {
		return false
	}
	b.Finished = true
	return true
}

package in

import (
	"context"

	"shelfmate/internal/modules/library/dto"
)

// Usecase operates on the signed-in user's shelf.
type Usecase interface {
	// AddBook fills missing metadata from the catalog when only an ISBN is given.
	AddBook(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error)
	ListBooks(ctx context.Context) ([]dto.BookOutput, error)
	GetBook(ctx context.Context, isbn string) (dto.BookOutput, error)
	SetTotalPages(ctx context.Context, isbn string, pages int) (dto.BookOutput, error)
	// SetReadPages is a manual correction and never counts toward missions.
	SetReadPages(ctx context.Context, isbn string, pages int) (dto.BookOutput, error)
	SetSummary(ctx context.Context, isbn, summary string) (dto.BookOutput, error)
	SetRating(ctx context.Context, isbn string, rating int) (dto.BookOutput, error)
	RemoveBook(ctx context.Context, isbn string) error
	ToggleFavorite(ctx context.Context, isbn string) (dto.BookOutput, error)
	ListFavorites(ctx context.Context) ([]dto.BookOutput, error)
	ImportPageCount(ctx context.Context, isbn, pdfPath string) (dto.BookOutput, error)
	// ApplyReadingDelta adds validated session pages; it joins a transaction carried by ctx.
	ApplyReadingDelta(ctx context.Context, input dto.ReadingDeltaInput) (dto.BookOutput, error)
	// SyncNote rewrites the book's markdown note from the shelf.
	SyncNote(ctx context.Context, isbn string) (dto.BookOutput, error)
}

package in

import (
	"context"

	"shelfmate/internal/modules/library/dto"
	libraryin "shelfmate/internal/modules/library/port/in"
)

type CLIHandler struct {
	usecase libraryin.Usecase
}

func NewCLIHandler(usecase libraryin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, input dto.AddBookInput) (dto.BookOutput, error) {
	return h.usecase.AddBook(ctx, input)
}

func (h CLIHandler) List(ctx context.Context, favoritesOnly bool) ([]dto.BookOutput, error) {
	if favoritesOnly {
		return h.usecase.ListFavorites(ctx)
	}
	return h.usecase.ListBooks(ctx)
}

func (h CLIHandler) Show(ctx context.Context, isbn string) (dto.BookOutput, error) {
	return h.usecase.GetBook(ctx, isbn)
}

func (h CLIHandler) SetTotal(ctx context.Context, isbn string, pages int) (dto.BookOutput, error) {
	return h.usecase.SetTotalPages(ctx, isbn, pages)
}

func (h CLIHandler) SetRead(ctx context.Context, isbn string, pages int) (dto.BookOutput, error) {
	return h.usecase.SetReadPages(ctx, isbn, pages)
}

func (h CLIHandler) Summary(ctx context.Context, isbn, summary string) (dto.BookOutput, error) {
	return h.usecase.SetSummary(ctx, isbn, summary)
}

func (h CLIHandler) Remove(ctx context.Context, isbn string) error {
	return h.usecase.RemoveBook(ctx, isbn)
}

func (h CLIHandler) Favorite(ctx context.Context, isbn string) (dto.BookOutput, error) {
	return h.usecase.ToggleFavorite(ctx, isbn)
}

func (h CLIHandler) ImportPages(ctx context.Context, isbn, pdfPath string) (dto.BookOutput, error) {
	return h.usecase.ImportPageCount(ctx, isbn, pdfPath)
}

func (h CLIHandler) Rate(ctx context.Context, isbn string, rating int) (dto.BookOutput, error) {
	return h.usecase.SetRating(ctx, isbn, rating)
}

package usecase

import (
	"context"

	"shelfmate/internal/modules/catalog/domain"
	"shelfmate/internal/modules/catalog/dto"
	catalogin "shelfmate/internal/modules/catalog/port/in"
	"shelfmate/internal/modules/catalog/service"
)

type Interactor struct {
	svc *service.CatalogService
}

func NewInteractor(svc *service.CatalogService) catalogin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Search(ctx context.Context, input dto.SearchInput) ([]dto.BookResult, error) {
	books, provider, err := i.svc.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}
	return toResults(books, provider), nil
}

func (i *Interactor) LookupISBN(ctx context.Context, input dto.LookupInput) ([]dto.BookResult, error) {
	books, provider, err := i.svc.LookupISBN(ctx, input.ISBNs)
	if err != nil {
		return nil, err
	}
	return toResults(books, provider), nil
}

func (i *Interactor) ListPlugins(ctx context.Context) ([]dto.PluginInfo, error) {
	return i.svc.ListPlugins(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func toResults(books []domain.Book, provider string) []dto.BookResult {
	out := make([]dto.BookResult, 0, len(books))
	for _, b := range books {
		out = append(out, dto.BookResult{
			ISBN:      b.ISBN,
			Title:     b.Title,
			Authors:   append([]string(nil), b.Authors...),
			Publisher: b.Publisher,
			Thumbnail: b.Thumbnail,
			Contents:  b.Contents,
			Provider:  provider,
		})
	}
	return out
}

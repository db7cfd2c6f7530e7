package in

import (
	"context"

	"shelfmate/internal/modules/catalog/dto"
)

type Usecase interface {
	// Search and LookupISBN fail with apperrors.ErrLookupUnavailable when no provider answered.
	Search(ctx context.Context, input dto.SearchInput) ([]dto.BookResult, error)
	LookupISBN(ctx context.Context, input dto.LookupInput) ([]dto.BookResult, error)
	ListPlugins(ctx context.Context) ([]dto.PluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
}

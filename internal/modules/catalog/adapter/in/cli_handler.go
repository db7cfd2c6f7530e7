package in

import (
	"context"
	"errors"

	"shelfmate/internal/modules/catalog/dto"
	catalogin "shelfmate/internal/modules/catalog/port/in"
	apperrors "shelfmate/internal/platform/errors"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Search treats an unreachable catalog as an empty result so callers print "no results".
func (h CLIHandler) Search(ctx context.Context, query string, limit int) ([]dto.BookResult, error) {
	return emptyOnUnavailable(h.usecase.Search(ctx, dto.SearchInput{Query: query, Limit: limit}))
}

func (h CLIHandler) LookupISBN(ctx context.Context, isbns []string) ([]dto.BookResult, error) {
	return emptyOnUnavailable(h.usecase.LookupISBN(ctx, dto.LookupInput{ISBNs: isbns}))
}

func (h CLIHandler) ListPlugins(ctx context.Context) ([]dto.PluginInfo, error) {
	return h.usecase.ListPlugins(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func emptyOnUnavailable(results []dto.BookResult, err error) ([]dto.BookResult, error) {
	if errors.Is(err, apperrors.ErrLookupUnavailable) {
		return []dto.BookResult{}, nil
	}
	return results, err
}

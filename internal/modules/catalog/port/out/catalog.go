package out

import (
	"context"

	"shelfmate/internal/modules/catalog/domain"
)

// Provider is one metadata source in the lookup chain.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]domain.Book, error)
	// LookupISBN returns the books it found; unknown ISBNs are skipped, not errors.
	LookupISBN(ctx context.Context, isbns []string) ([]domain.Book, error)
}

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	Search(ctx context.Context, manifest domain.Manifest, query string, limit int) ([]domain.Book, error)
	LookupISBN(ctx context.Context, manifest domain.Manifest, isbns []string) ([]domain.Book, error)
}

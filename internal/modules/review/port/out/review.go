package out

import (
	"context"

	"shelfmate/internal/modules/review/domain"
)

type ReviewStore interface {
	// Upsert keeps the original CreatedAt of an existing review.
	Upsert(ctx context.Context, review domain.Review) (domain.Review, error)
	Delete(ctx context.Context, isbn, userID string) error
	ListByISBN(ctx context.Context, isbn string) ([]domain.Review, error)
}

type MemoStore interface {
	Insert(ctx context.Context, memo domain.Memo) error
	List(ctx context.Context, userID, isbn string) ([]domain.Memo, error)
}

// MemoNotes renders memos into the managed block of a book note.
type MemoNotes interface {
	WriteMemos(ctx context.Context, notePath string, memos []domain.Memo) error
}

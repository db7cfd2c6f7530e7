package in

import (
	"context"

	"shelfmate/internal/modules/review/dto"
)

type Usecase interface {
	// SaveReview upserts the caller's review and copies the rating onto their shelf entry.
	SaveReview(ctx context.Context, input dto.SaveReviewInput) (dto.ReviewOutput, error)
	DeleteReview(ctx context.Context, isbn string) error
	ListReviews(ctx context.Context, isbn string) (dto.ReviewListOutput, error)
	AddMemo(ctx context.Context, input dto.AddMemoInput) (dto.MemoOutput, error)
	ListMemos(ctx context.Context, isbn string) ([]dto.MemoOutput, error)
}

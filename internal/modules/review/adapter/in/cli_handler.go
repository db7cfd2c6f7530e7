package in

import (
	"context"

	"shelfmate/internal/modules/review/dto"
	reviewin "shelfmate/internal/modules/review/port/in"
)

type CLIHandler struct {
	usecase reviewin.Usecase
}

func NewCLIHandler(usecase reviewin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Save(ctx context.Context, isbn string, rating int, text string) (dto.ReviewOutput, error) {
	return h.usecase.SaveReview(ctx, dto.SaveReviewInput{ISBN: isbn, Rating: rating, Text: text})
}

func (h CLIHandler) Delete(ctx context.Context, isbn string) error {
	return h.usecase.DeleteReview(ctx, isbn)
}

func (h CLIHandler) List(ctx context.Context, isbn string) (dto.ReviewListOutput, error) {
	return h.usecase.ListReviews(ctx, isbn)
}

func (h CLIHandler) AddMemo(ctx context.Context, isbn, text string) (dto.MemoOutput, error) {
	return h.usecase.AddMemo(ctx, dto.AddMemoInput{ISBN: isbn, Text: text})
}

func (h CLIHandler) Memos(ctx context.Context, isbn string) ([]dto.MemoOutput, error) {
	return h.usecase.ListMemos(ctx, isbn)
}

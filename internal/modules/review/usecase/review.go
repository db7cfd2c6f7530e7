package usecase

import (
	"context"
	"errors"

	identityin "shelfmate/internal/modules/identity/port/in"
	libraryin "shelfmate/internal/modules/library/port/in"
	"shelfmate/internal/modules/review/domain"
	"shelfmate/internal/modules/review/dto"
	reviewin "shelfmate/internal/modules/review/port/in"
	"shelfmate/internal/modules/review/service"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/tx"
)

type Interactor struct {
	svc      *service.ReviewService
	identity identityin.Usecase
	library  libraryin.Usecase
	txm      tx.Manager
}

func NewInteractor(svc *service.ReviewService, identity identityin.Usecase, library libraryin.Usecase, txm tx.Manager) reviewin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &Interactor{svc: svc, identity: identity, library: library, txm: txm}
}

func (i *Interactor) SaveReview(ctx context.Context, input dto.SaveReviewInput) (dto.ReviewOutput, error) {
	profile, err := i.identity.Profile(ctx)
	if err != nil {
		return dto.ReviewOutput{}, err
	}
	var saved domain.Review
	err = i.txm.Within(ctx, func(ctx context.Context) error {
		var err error
		saved, err = i.svc.Save(ctx, profile.UserID, profile.Nickname, input.ISBN, input.Rating, input.Text)
		if err != nil {
			return err
		}
		// Reviews may target books that are not on the shelf.
		if _, err := i.library.SetRating(ctx, saved.ISBN, saved.Rating); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return dto.ReviewOutput{}, err
	}
	return toReview(saved, profile.UserID), nil
}

func (i *Interactor) DeleteReview(ctx context.Context, isbn string) error {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return err
	}
	return i.svc.Delete(ctx, uid, isbn)
}

// ListReviews is public; a signed-out caller just gets no Mine marker.
func (i *Interactor) ListReviews(ctx context.Context, isbn string) (dto.ReviewListOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrUnauthenticated) {
		return dto.ReviewListOutput{}, err
	}
	reviews, summary, err := i.svc.List(ctx, isbn)
	if err != nil {
		return dto.ReviewListOutput{}, err
	}
	out := dto.ReviewListOutput{Reviews: make([]dto.ReviewOutput, 0, len(reviews)), Count: summary.Count}
	if summary.Count > 0 {
		out.Average = summary.Average
		out.HasAverage = true
	}
	for _, r := range reviews {
		out.Reviews = append(out.Reviews, toReview(r, uid))
	}
	return out, nil
}

func (i *Interactor) AddMemo(ctx context.Context, input dto.AddMemoInput) (dto.MemoOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return dto.MemoOutput{}, err
	}
	book, err := i.library.GetBook(ctx, input.ISBN)
	if err != nil {
		return dto.MemoOutput{}, err
	}
	memo, err := i.svc.AddMemo(ctx, uid, book.ISBN, input.Text, book.ReadPages)
	if err != nil {
		return dto.MemoOutput{}, err
	}
	if memos, err := i.svc.Memos(ctx, uid, book.ISBN); err == nil {
		i.svc.RenderMemos(ctx, book.NotePath, memos)
	}
	return toMemo(memo), nil
}

func (i *Interactor) ListMemos(ctx context.Context, isbn string) ([]dto.MemoOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	memos, err := i.svc.Memos(ctx, uid, isbn)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MemoOutput, 0, len(memos))
	for _, m := range memos {
		out = append(out, toMemo(m))
	}
	return out, nil
}

func toReview(r domain.Review, viewer string) dto.ReviewOutput {
	return dto.ReviewOutput{
		ISBN:      r.ISBN,
		UserID:    r.UserID,
		Nickname:  r.Nickname,
		Rating:    r.Rating,
		Text:      r.Text,
		Mine:      viewer != "" && r.UserID == viewer,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toMemo(m domain.Memo) dto.MemoOutput {
	return dto.MemoOutput{ID: m.ID, ISBN: m.ISBN, Text: m.Text, PagesAt: m.PagesAt, CreatedAt: m.CreatedAt}
}

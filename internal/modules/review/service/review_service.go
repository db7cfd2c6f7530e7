package service

import (
	"context"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"shelfmate/internal/modules/review/domain"
	reviewout "shelfmate/internal/modules/review/port/out"
	"shelfmate/internal/platform/clock"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/id"
)

type ReviewService struct {
	clock   clock.Clock
	idGen   id.Generator
	reviews reviewout.ReviewStore
	memos   reviewout.MemoStore
	notes   reviewout.MemoNotes
	log     hclog.Logger
}

func NewReviewService(clock clock.Clock, idGen id.Generator, reviews reviewout.ReviewStore, memos reviewout.MemoStore, notes reviewout.MemoNotes, log hclog.Logger) *ReviewService {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &ReviewService{clock: clock, idGen: idGen, reviews: reviews, memos: memos, notes: notes, log: log}
}

func (s *ReviewService) Save(ctx context.Context, userID, nickname, isbn string, rating int, text string) (domain.Review, error) {
	isbn, err := requireISBN(isbn)
	if err != nil {
		return domain.Review{}, err
	}
	text, err = domain.ValidateReview(rating, text)
	if err != nil {
		return domain.Review{}, err
	}
	now := s.clock.Now()
	return s.reviews.Upsert(ctx, domain.Review{
		ISBN:      isbn,
		UserID:    userID,
		Nickname:  nickname,
		Rating:    rating,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *ReviewService) Delete(ctx context.Context, userID, isbn string) error {
	isbn, err := requireISBN(isbn)
	if err != nil {
		return err
	}
	return s.reviews.Delete(ctx, isbn, userID)
}

func (s *ReviewService) List(ctx context.Context, isbn string) ([]domain.Review, domain.Summary, error) {
	isbn, err := requireISBN(isbn)
	if err != nil {
		return nil, domain.Summary{}, err
	}
	reviews, err := s.reviews.ListByISBN(ctx, isbn)
	if err != nil {
		return nil, domain.Summary{}, err
	}
	return reviews, domain.Summarize(reviews), nil
}

func (s *ReviewService) AddMemo(ctx context.Context, userID, isbn, text string, pagesAt int) (domain.Memo, error) {
	isbn, err := requireISBN(isbn)
	if err != nil {
		return domain.Memo{}, err
	}
	text, err = domain.ValidateMemo(text)
	if err != nil {
		return domain.Memo{}, err
	}
	memo := domain.Memo{
		ID:        s.idGen.New(),
		UserID:    userID,
		ISBN:      isbn,
		Text:      text,
		PagesAt:   max(0, pagesAt),
		CreatedAt: s.clock.Now(),
	}
	if err := s.memos.Insert(ctx, memo); err != nil {
		return domain.Memo{}, err
	}
	return memo, nil
}

func (s *ReviewService) Memos(ctx context.Context, userID, isbn string) ([]domain.Memo, error) {
	isbn, err := requireISBN(isbn)
	if err != nil {
		return nil, err
	}
	return s.memos.List(ctx, userID, isbn)
}

// RenderMemos refreshes the memo block of the book note; failures only log.
func (s *ReviewService) RenderMemos(ctx context.Context, notePath string, memos []domain.Memo) {
	if s.notes == nil || notePath == "" {
		return
	}
	if err := s.notes.WriteMemos(ctx, notePath, memos); err != nil {
		s.log.Warn("memo block not written", "path", notePath, "error", err)
	}
}

func requireISBN(isbn string) (string, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return "", apperrors.Invalid("isbn is required")
	}
	return isbn, nil
}

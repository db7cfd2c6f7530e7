package domain_test

import (
	"errors"
	"math"
	"testing"

	"shelfmate/internal/modules/review/domain"
	apperrors "shelfmate/internal/platform/errors"
)

func TestValidateReview(t *testing.T) {
	t.Parallel()
	if text, err := domain.ValidateReview(5, "  moving  "); err != nil || text != "moving" {
		t.Fatalf("unexpected %q err=%v", text, err)
	}
	for _, rating := range []int{0, 6, -1} {
		if _, err := domain.ValidateReview(rating, "x"); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("rating %d: expected invalid input, got %v", rating, err)
		}
	}
	if _, err := domain.ValidateReview(3, "   "); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected blank text rejection, got %v", err)
	}
	if _, err := domain.ValidateMemo(""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected blank memo rejection, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	empty := domain.Summarize(nil)
	if !math.IsNaN(empty.Average) || empty.Count != 0 {
		t.Fatalf("unexpected empty summary %+v", empty)
	}
	got := domain.Summarize([]domain.Review{{Rating: 5}, {Rating: 4}, {Rating: 0}, {Rating: 3}})
	if got.Count != 3 || got.Average != 4 {
		t.Fatalf("unexpected summary %+v", got)
	}
}

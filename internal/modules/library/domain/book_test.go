package domain_test

import (
	"errors"
	"testing"
	"time"

	"shelfmate/internal/modules/library/domain"
	apperrors "shelfmate/internal/platform/errors"
)

var now = time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)

func TestNewBookDefaultsTotalPages(t *testing.T) {
	t.Parallel()
	book, err := domain.NewBook("u1", domain.Book{ISBN: " 9788936433598 ", Title: " 채식주의자 ", ReadPages: 40, Favorite: true}, 320, now)
	if err != nil {
		t.Fatalf("new book: %v", err)
	}
	if book.TotalPages != 320 || book.ReadPages != 0 || book.Favorite || book.ISBN != "9788936433598" || book.Title != "채식주의자" {
		t.Fatalf("unexpected book: %+v", book)
	}
	for name, in := range map[string]domain.Book{
		"missing isbn":   {Title: "x"},
		"missing title":  {ISBN: "1"},
		"negative total": {ISBN: "1", Title: "x", TotalPages: -3},
	} {
		if _, err := domain.NewBook("u1", in, 320, now); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", name, err)
		}
	}
}

func TestSetReadPagesClampsAndFinishesOnce(t *testing.T) {
	t.Parallel()
	book := domain.Book{TotalPages: 100, ReadPages: 10}
	if book.SetReadPages(-5, now); book.ReadPages != 0 {
		t.Fatalf("expected clamp to 0, got %d", book.ReadPages)
	}
	if finished := book.SetReadPages(150, now); !finished || book.ReadPages != 100 || !book.Finished {
		t.Fatalf("expected first finish at 100, got %+v finished=%v", book, finished)
	}
	book.SetReadPages(50, now)
	if finished := book.SetReadPages(100, now); finished {
		t.Fatalf("finishing twice must not report again")
	}
	if !book.Finished {
		t.Fatalf("finished flag must stay set")
	}
}

func TestAddPagesIgnoresNonPositiveDelta(t *testing.T) {
	t.Parallel()
	book := domain.Book{TotalPages: 100, ReadPages: 90}
	if book.AddPages(0, now) || book.ReadPages != 90 {
		t.Fatalf("zero delta must be a no-op")
	}
	if !book.AddPages(25, now) || book.ReadPages != 100 {
		t.Fatalf("expected overshoot clamped to total, got %d", book.ReadPages)
	}
}

func TestSetTotalPagesClampsRead(t *testing.T) {
	t.Parallel()
	book := domain.Book{TotalPages: 300, ReadPages: 200}
	finished, err := book.SetTotalPages(150, now)
	if err != nil || !finished || book.ReadPages != 150 {
		t.Fatalf("expected clamp and finish, got %+v finished=%v err=%v", book, finished, err)
	}
	if _, err := book.SetTotalPages(0, now); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestPercentAndRating(t *testing.T) {
	t.Parallel()
	book := domain.Book{TotalPages: 320, ReadPages: 107}
	if book.Percent() != 33 || book.LeftPages() != 213 {
		t.Fatalf("unexpected percent %d left %d", book.Percent(), book.LeftPages())
	}
	if err := book.SetRating(6, now); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected rating bound error, got %v", err)
	}
	if err := book.SetRating(4, now); err != nil || book.Rating != 4 {
		t.Fatalf("unexpected rating %d err=%v", book.Rating, err)
	}
}

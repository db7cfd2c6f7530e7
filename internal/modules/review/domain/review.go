package domain

import (
	"math"
	"strings"
	"time"

	apperrors "shelfmate/internal/platform/errors"
)

// Review is a public opinion on a book; one per user and ISBN.
type Review struct {
	ISBN      string
	UserID    string
	Nickname  string
	Rating    int
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Memo is a private note pinned to the page the reader had reached.
type Memo struct {
	ID        string
	UserID    string
	ISBN      string
	Text      string
	PagesAt   int
	CreatedAt time.Time
}

func ValidateReview(rating int, text string) (string, error) {
	if rating < 1 || rating > 5 {
		return "", apperrors.Invalid("rating must be between 1 and 5")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.Invalid("review text is required")
	}
	return text, nil
}

func ValidateMemo(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.Invalid("memo text is required")
	}
	return text, nil
}

type Summary struct {
	Average float64
	Count   int
}

// Summarize averages positive ratings; Average is NaN when none exist.
func Summarize(reviews []Review) Summary {
	total, count := 0, 0
	for _, r := range reviews {
		if r.Rating > 0 {
			total += r.Rating
			count++
		}
	}
	if count == 0 {
		return Summary{Average: math.NaN()}
	}
	return Summary{Average: float64(total) / float64(count), Count: count}
}

package domain

import (
	"strings"

	apperrors "shelfmate/internal/platform/errors"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
)

// Book is the bibliographic record returned by a lookup provider.
type Book struct {
	ISBN      string
	Title     string
	Authors   []string
	Publisher string
	Thumbnail string
	Contents  string
}

// NormalizeISBN keeps the first whitespace-separated token; providers often
// return "ISBN10 ISBN13" in one field.
func NormalizeISBN(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (b Book) Normalized() Book {
	b.ISBN = NormalizeISBN(b.ISBN)
	b.Title = strings.TrimSpace(b.Title)
	authors := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	b.Authors = authors
	return b
}

func ValidateQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", apperrors.Invalid("search query is required")
	}
	return query, nil
}

func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultSearchLimit
	case limit > MaxSearchLimit:
		return MaxSearchLimit
	default:
		return limit
	}
}

// NormalizeISBNs drops blanks and duplicates while keeping request order.
func NormalizeISBNs(raw []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		isbn := NormalizeISBN(r)
		if isbn == "" {
			continue
		}
		if _, ok := seen[isbn]; ok {
			continue
		}
		seen[isbn] = struct{}{}
		out = append(out, isbn)
	}
	return out
}

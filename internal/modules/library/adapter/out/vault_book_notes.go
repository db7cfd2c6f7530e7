package out

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shelfmate/internal/modules/library/domain"
	libraryout "shelfmate/internal/modules/library/port/out"
	"shelfmate/internal/platform/markdown"
	"shelfmate/internal/platform/vault"
)

var shelfBlock = markdown.NewBlock("shelf")

const defaultBookBody = "## Summary\n\n## Highlights\n\n## Questions\n"

// VaultBookNotes keeps one markdown note per shelf entry. Frontmatter and the
// shelf block are regenerated; everything else in the body belongs to the reader.
type VaultBookNotes struct {
	layout vault.Layout
}

func NewVaultBookNotes(dataPath string) libraryout.NoteWriter {
	return &VaultBookNotes{layout: vault.Layout{Root: dataPath}}
}

func (n *VaultBookNotes) NotePath(book domain.Book) string {
	return n.layout.BookNote(book.UserID, book.Title, book.ISBN)
}

func (n *VaultBookNotes) WriteBook(_ context.Context, book domain.Book) (string, error) {
	path := n.NotePath(book)
	_, body, err := markdown.ReadNote(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(body) == "" {
		body = fmt.Sprintf("# %s\n\n%s", book.Title, defaultBookBody)
	}
	body = shelfBlock.Replace(body, renderShelf(book))
	if err := markdown.WriteNote(path, toFrontmatter(book), body); err != nil {
		return "", err
	}
	return path, nil
}

func toFrontmatter(book domain.Book) map[string]any {
	return map[string]any{
		"schema_version": domain.SchemaVersion,
		"isbn":           book.ISBN,
		"title":          book.Title,
		"authors":        nonNil(book.Authors),
		"publisher":      book.Publisher,
		"total_pages":    book.TotalPages,
		"read_pages":     book.ReadPages,
		"rating":         book.Rating,
		"favorite":       book.Favorite,
		"finished":       book.Finished,
		"added_at":       book.AddedAt.Format(time.RFC3339),
		"updated_at":     book.UpdatedAt.Format(time.RFC3339),
	}
}

func renderShelf(book domain.Book) string {
	lines := []string{
		fmt.Sprintf("- Progress: %d/%d pages (%d%%)", book.ReadPages, book.TotalPages, book.Percent()),
	}
	if book.Rating > 0 {
		lines = append(lines, fmt.Sprintf("- Rating: %s", strings.Repeat("★", book.Rating)+strings.Repeat("☆", domain.MaxRating-book.Rating)))
	}
	if book.Finished {
		lines = append(lines, "- Finished")
	}
	if book.Summary != "" {
		lines = append(lines, "", "> "+strings.ReplaceAll(book.Summary, "\n", "\n> "))
	}
	return strings.Join(lines, "\n")
}

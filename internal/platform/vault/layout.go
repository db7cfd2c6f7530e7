// Package vault places the markdown notes shelfmate keeps next to its database.
package vault

import (
	"fmt"
	"path/filepath"
	"time"

	"shelfmate/internal/platform/slug"
)

type Layout struct {
	Root string
}

func (l Layout) userDir(userID string) string {
	return filepath.Join(l.Root, "notes", userID)
}

// BookNote is keyed by ISBN so a retitled book keeps its note.
func (l Layout) BookNote(userID, title, isbn string) string {
	return filepath.Join(l.userDir(userID), "books", fmt.Sprintf("%s-%s.md", slug.Make(title), isbn))
}

func (l Layout) SessionNote(userID string, startedAt time.Time, title string) string {
	return filepath.Join(
		l.userDir(userID), "sessions",
		startedAt.Format("2006"), startedAt.Format("01"), startedAt.Format("02"),
		fmt.Sprintf("%s-%s.md", startedAt.Format("150405"), slug.Make(title)),
	)
}

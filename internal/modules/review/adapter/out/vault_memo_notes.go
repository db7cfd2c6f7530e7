package out

import (
	"context"
	"fmt"
	"strings"

	"shelfmate/internal/modules/review/domain"
	reviewout "shelfmate/internal/modules/review/port/out"
	"shelfmate/internal/platform/markdown"
)

var memoBlock = markdown.NewBlock("memos")

type VaultMemoNotes struct{}

func NewVaultMemoNotes() reviewout.MemoNotes {
	return VaultMemoNotes{}
}

func (VaultMemoNotes) WriteMemos(_ context.Context, notePath string, memos []domain.Memo) error {
	meta, body, err := markdown.ReadNote(notePath)
	if err != nil {
		return err
	}
	if !strings.Contains(body, "## Memos") {
		body = strings.TrimRight(body, "\n") + "\n\n## Memos\n"
	}
	return markdown.WriteNote(notePath, meta, memoBlock.Replace(body, renderMemos(memos)))
}

func renderMemos(memos []domain.Memo) string {
	if len(memos) == 0 {
		return "_No memos yet._"
	}
	lines := make([]string, 0, len(memos))
	for _, m := range memos {
		text := strings.ReplaceAll(m.Text, "\n", " ")
		lines = append(lines, fmt.Sprintf("- p.%d (%s) %s", m.PagesAt, m.CreatedAt.Format("2006-01-02 15:04"), text))
	}
	return strings.Join(lines, "\n")
}

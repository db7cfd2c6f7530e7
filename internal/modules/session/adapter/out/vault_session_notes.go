package out

import (
	"context"
	"fmt"
	"time"

	"shelfmate/internal/modules/session/domain"
	sessionout "shelfmate/internal/modules/session/port/out"
	"shelfmate/internal/platform/markdown"
	"shelfmate/internal/platform/vault"
)

type VaultSessionNotes struct {
	layout vault.Layout
}

func NewVaultSessionNotes(dataPath string) sessionout.SessionNotes {
	return &VaultSessionNotes{layout: vault.Layout{Root: dataPath}}
}

func (s *VaultSessionNotes) WriteSession(_ context.Context, session domain.Session) (string, error) {
	path := s.layout.SessionNote(session.UserID, session.StartedAt, session.BookTitle)
	meta := map[string]any{
		"schema_version":      domain.SchemaVersion,
		"id":                  session.ID,
		"isbn":                session.ISBN,
		"source":              session.Source,
		"device":              session.Device,
		"started_at":          session.StartedAt.Format(time.RFC3339),
		"ended_at":            session.EndedAt.Format(time.RFC3339),
		"elapsed_seconds":     session.ElapsedSeconds,
		"start_read_pages":    session.StartReadPages,
		"claimed_final_pages": session.ClaimedFinalPages,
		"raw_delta":           session.RawDelta,
		"accepted_delta":      session.AcceptedDelta,
		"note":                string(session.Note),
	}
	body := fmt.Sprintf("# Reading session %s\n\n- Book: %s\n- Duration: %s\n- Pages: %d → %d (accepted %d of %d)\n- Result: %s\n",
		session.StartedAt.Format("2006-01-02 15:04"),
		session.BookTitle,
		(time.Duration(session.ElapsedSeconds) * time.Second).String(),
		session.StartReadPages, session.ReadPagesAfter(),
		session.AcceptedDelta, session.RawDelta,
		session.Note,
	)
	if err := markdown.WriteNote(path, meta, body); err != nil {
		return "", err
	}
	return path, nil
}

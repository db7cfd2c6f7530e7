package out

import (
	"context"

	"shelfmate/internal/modules/session/domain"
	"shelfmate/internal/platform/calendar"
)

type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	List(ctx context.Context, userID, isbn string) ([]domain.Session, error)
	DailyUsed(ctx context.Context, userID, isbn string, day calendar.Date) (int, error)
	AddDailyUsed(ctx context.Context, userID, isbn string, day calendar.Date, pages int) error
}

// ActiveSessionStore keeps at most one running session per user.
type ActiveSessionStore interface {
	// SaveActive returns apperrors.ErrActiveSessionExists when the user already has one.
	SaveActive(ctx context.Context, session domain.ActiveSession) error
	LoadActive(ctx context.Context, userID string) (domain.ActiveSession, error)
	ClearActive(ctx context.Context, userID string) error
}

type SessionNotes interface {
	WriteSession(ctx context.Context, session domain.Session) (string, error)
}

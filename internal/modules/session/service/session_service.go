package service

import (
	"context"
	"strings"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"shelfmate/internal/modules/session/domain"
	sessionout "shelfmate/internal/modules/session/port/out"
	"shelfmate/internal/platform/calendar"
	"shelfmate/internal/platform/clock"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/id"
)

type SessionService struct {
	clock    clock.Clock
	idGen    id.Generator
	rules    domain.Rules
	loc      *time.Location
	sessions sessionout.SessionStore
	notes    sessionout.SessionNotes
	log      hclog.Logger
}

// BookState is the shelf entry as seen when a session starts or ends.
type BookState struct {
	ISBN       string
	Title      string
	ReadPages  int
	TotalPages int
}

func NewSessionService(clock clock.Clock, idGen id.Generator, rules domain.Rules, loc *time.Location, sessions sessionout.SessionStore, notes sessionout.SessionNotes, log hclog.Logger) *SessionService {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &SessionService{clock: clock, idGen: idGen, rules: rules, loc: loc, sessions: sessions, notes: notes, log: log}
}

func (s *SessionService) Start(_ context.Context, userID string, book BookState, device string) (domain.ActiveSession, error) {
	if userID == "" {
		return domain.ActiveSession{}, apperrors.Invalid("user id is required")
	}
	if strings.TrimSpace(book.ISBN) == "" {
		return domain.ActiveSession{}, apperrors.Invalid("isbn is required")
	}
	if device = strings.TrimSpace(device); device == "" {
		device = domain.DefaultDevice
	}
	return domain.ActiveSession{
		SessionID:      s.idGen.New(),
		UserID:         userID,
		ISBN:           book.ISBN,
		BookTitle:      book.Title,
		StartReadPages: book.ReadPages,
		StartedAt:      s.clock.Now(),
		Device:         device,
	}, nil
}

// Close judges the claim and writes the audit row; an accepted delta is also
// added to today's cap counter. Must run inside the caller's transaction.
func (s *SessionService) Close(ctx context.Context, active domain.ActiveSession, book BookState, claimedFinal int) (domain.Session, domain.Verdict, error) {
	endedAt := s.clock.Now()
	elapsed := int(endedAt.Sub(active.StartedAt) / time.Second)
	day := calendar.FromTime(endedAt, s.loc)

	used, err := s.sessions.DailyUsed(ctx, active.UserID, active.ISBN, day)
	if err != nil {
		return domain.Session{}, domain.Verdict{}, err
	}
	final, raw := domain.ClampClaim(claimedFinal, book.ReadPages, book.TotalPages, active.StartReadPages)
	verdict := s.rules.Judge(elapsed, raw, used)

	session := domain.Session{
		ID:                active.SessionID,
		UserID:            active.UserID,
		ISBN:              active.ISBN,
		BookTitle:         book.Title,
		Source:            domain.SourceTimer,
		Device:            active.Device,
		StartedAt:         active.StartedAt,
		EndedAt:           endedAt,
		StartReadPages:    active.StartReadPages,
		ClaimedFinalPages: final,
		TotalPages:        book.TotalPages,
		ElapsedSeconds:    verdict.ElapsedSeconds,
		RawDelta:          verdict.RawDelta,
		AcceptedDelta:     verdict.Accepted,
		Note:              verdict.Reason,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, domain.Verdict{}, err
	}
	if verdict.Applied() {
		if err := s.sessions.AddDailyUsed(ctx, active.UserID, active.ISBN, day, verdict.Accepted); err != nil {
			return domain.Session{}, domain.Verdict{}, err
		}
	}
	s.log.Info("session closed",
		"user_id", active.UserID, "isbn", active.ISBN, "elapsed", verdict.ElapsedSeconds,
		"raw", verdict.RawDelta, "accepted", verdict.Accepted, "reason", verdict.Reason)
	return session, verdict, nil
}

func (s *SessionService) Elapsed(active domain.ActiveSession) time.Duration {
	return max(0, s.clock.Now().Sub(active.StartedAt))
}

func (s *SessionService) History(ctx context.Context, userID, isbn string) ([]domain.Session, error) {
	if strings.TrimSpace(isbn) == "" {
		return nil, apperrors.Invalid("isbn is required")
	}
	return s.sessions.List(ctx, userID, strings.TrimSpace(isbn))
}

// WriteNote mirrors a closed session into the vault. The audit row is authoritative, so failures only log.
func (s *SessionService) WriteNote(ctx context.Context, session domain.Session) string {
	if s.notes == nil {
		return ""
	}
	path, err := s.notes.WriteSession(ctx, session)
	if err != nil {
		s.log.Warn("session note not written", "session_id", session.ID, "error", err)
		return ""
	}
	return path
}

func (s *SessionService) Logger() hclog.Logger {
	return s.log
}

package usecase

import (
	"context"
	"errors"

	identityin "shelfmate/internal/modules/identity/port/in"
	librarydto "shelfmate/internal/modules/library/dto"
	libraryin "shelfmate/internal/modules/library/port/in"
	missiondto "shelfmate/internal/modules/mission/dto"
	missionin "shelfmate/internal/modules/mission/port/in"
	"shelfmate/internal/modules/session/domain"
	sessiondto "shelfmate/internal/modules/session/dto"
	sessionin "shelfmate/internal/modules/session/port/in"
	sessionout "shelfmate/internal/modules/session/port/out"
	"shelfmate/internal/modules/session/service"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/tx"
)

type Interactor struct {
	svc         *service.SessionService
	identity    identityin.Usecase
	library     libraryin.Usecase
	missions    missionin.Usecase
	activeStore sessionout.ActiveSessionStore
	txm         tx.Manager
}

func NewInteractor(svc *service.SessionService, identity identityin.Usecase, library libraryin.Usecase, missions missionin.Usecase, activeStore sessionout.ActiveSessionStore, txm tx.Manager) sessionin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &Interactor{svc: svc, identity: identity, library: library, missions: missions, activeStore: activeStore, txm: txm}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	if _, err := i.activeStore.LoadActive(ctx, uid); err == nil {
		return sessiondto.StartOutput{}, apperrors.ErrActiveSessionExists
	} else if !errors.Is(err, apperrors.ErrNoActiveSession) {
		return sessiondto.StartOutput{}, err
	}

	book, err := i.library.GetBook(ctx, input.ISBN)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	active, err := i.svc.Start(ctx, uid, bookState(book), input.Device)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	if err := i.activeStore.SaveActive(ctx, active); err != nil {
		return sessiondto.StartOutput{}, err
	}
	return sessiondto.StartOutput{
		SessionID:      active.SessionID,
		ISBN:           active.ISBN,
		BookTitle:      active.BookTitle,
		StartReadPages: active.StartReadPages,
		StartedAt:      active.StartedAt,
	}, nil
}

// End commits the audit row, cap counter, shelf pages and the pending mission
// delta together. Missions are applied after commit; if that fails the delta
// stays queued and is picked up by the next mission read.
func (i *Interactor) End(ctx context.Context, input sessiondto.EndInput) (sessiondto.EndOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return sessiondto.EndOutput{}, err
	}
	active, err := i.activeStore.LoadActive(ctx, uid)
	if err != nil {
		return sessiondto.EndOutput{}, err
	}

	var (
		session domain.Session
		verdict domain.Verdict
		before  librarydto.BookOutput
		after   librarydto.BookOutput
	)
	err = i.txm.Within(ctx, func(ctx context.Context) error {
		var err error
		before, err = i.library.GetBook(ctx, active.ISBN)
		if err != nil {
			return err
		}
		after = before
		session, verdict, err = i.svc.Close(ctx, active, bookState(before), input.ClaimedFinalPages)
		if err != nil {
			return err
		}
		if !verdict.Applied() {
			return nil
		}
		after, err = i.library.ApplyReadingDelta(ctx, librarydto.ReadingDeltaInput{UserID: uid, ISBN: active.ISBN, Delta: verdict.Accepted})
		if err != nil {
			return err
		}
		return i.missions.RecordDelta(ctx, missiondto.DeltaInput{UserID: uid, Delta: verdict.Accepted, Origin: session.ID})
	})
	if err != nil {
		return sessiondto.EndOutput{}, err
	}

	log := i.svc.Logger()
	if err := i.activeStore.ClearActive(ctx, uid); err != nil {
		log.Warn("active session not cleared", "session_id", session.ID, "error", err)
	}
	out := sessiondto.EndOutput{
		SessionID:       session.ID,
		ISBN:            session.ISBN,
		BookTitle:       session.BookTitle,
		ElapsedSeconds:  verdict.ElapsedSeconds,
		RawDelta:        verdict.RawDelta,
		SpeedCap:        verdict.SpeedCap,
		DailyLeft:       verdict.DailyLeft,
		AcceptedDelta:   verdict.Accepted,
		Reason:          string(verdict.Reason),
		ReadPagesBefore: before.ReadPages,
		ReadPagesAfter:  after.ReadPages,
		TotalPages:      before.TotalPages,
		NotePath:        i.svc.WriteNote(ctx, session),
	}
	if !verdict.Applied() {
		return out, nil
	}

	if _, err := i.library.SyncNote(ctx, active.ISBN); err != nil {
		log.Warn("book note not refreshed", "isbn", active.ISBN, "error", err)
	}
	applied, err := i.missions.ApplyPending(ctx, uid)
	if err != nil {
		log.Warn("mission progress deferred", "user_id", uid, "error", err)
		out.MissionsPending = true
		return out, nil
	}
	out.MissionsUpdated = len(applied.Updated)
	for _, r := range applied.Rewards {
		if r.Credited {
			out.Rewards = append(out.Rewards, sessiondto.RewardOutput{MissionID: r.MissionID, Title: r.Title, Points: r.Points})
		}
	}
	return out, nil
}

func (i *Interactor) Cancel(ctx context.Context) error {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return err
	}
	if _, err := i.activeStore.LoadActive(ctx, uid); err != nil {
		return err
	}
	return i.activeStore.ClearActive(ctx, uid)
}

func (i *Interactor) GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return sessiondto.ActiveSessionOutput{}, err
	}
	active, err := i.activeStore.LoadActive(ctx, uid)
	if err != nil {
		return sessiondto.ActiveSessionOutput{}, err
	}
	return sessiondto.ActiveSessionOutput{
		SessionID:      active.SessionID,
		ISBN:           active.ISBN,
		BookTitle:      active.BookTitle,
		StartReadPages: active.StartReadPages,
		StartedAt:      active.StartedAt,
		Elapsed:        i.svc.Elapsed(active),
	}, nil
}

func (i *Interactor) History(ctx context.Context, isbn string) ([]sessiondto.SessionOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := i.svc.History(ctx, uid, isbn)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessiondto.SessionOutput{
			SessionID:         s.ID,
			ISBN:              s.ISBN,
			BookTitle:         s.BookTitle,
			StartedAt:         s.StartedAt,
			EndedAt:           s.EndedAt,
			ElapsedSeconds:    s.ElapsedSeconds,
			StartReadPages:    s.StartReadPages,
			ClaimedFinalPages: s.ClaimedFinalPages,
			RawDelta:          s.RawDelta,
			AcceptedDelta:     s.AcceptedDelta,
			Reason:            string(s.Note),
		})
	}
	return out, nil
}

func bookState(book librarydto.BookOutput) service.BookState {
	return service.BookState{ISBN: book.ISBN, Title: book.Title, ReadPages: book.ReadPages, TotalPages: book.TotalPages}
}

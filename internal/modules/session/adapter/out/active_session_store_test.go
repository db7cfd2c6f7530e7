package out_test

import (
	"context"
	"errors"
	"testing"
	"time"

	sessionout "shelfmate/internal/modules/session/adapter/out"
	"shelfmate/internal/modules/session/domain"
	apperrors "shelfmate/internal/platform/errors"
)

func TestActiveSessionIsPerUserAndExclusive(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := sessionout.NewFileActiveSessionStore(t.TempDir())
	started := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)

	first := domain.ActiveSession{SessionID: "s1", UserID: "u1", ISBN: "9788936434120", StartReadPages: 12, StartedAt: started}
	if err := store.SaveActive(ctx, first); err != nil {
		t.Fatalf("save active: %v", err)
	}
	if err := store.SaveActive(ctx, domain.ActiveSession{SessionID: "s2", UserID: "u1", ISBN: "x"}); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected exclusive save, got %v", err)
	}
	if err := store.SaveActive(ctx, domain.ActiveSession{SessionID: "s3", UserID: "u2", ISBN: "x"}); err != nil {
		t.Fatalf("other user must be independent: %v", err)
	}

	loaded, err := store.LoadActive(ctx, "u1")
	if err != nil {
		t.Fatalf("load active: %v", err)
	}
	if loaded.SessionID != "s1" || loaded.StartReadPages != 12 || !loaded.StartedAt.Equal(started) {
		t.Fatalf("unexpected active session: %+v", loaded)
	}

	if err := store.ClearActive(ctx, "u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.ClearActive(ctx, "u1"); err != nil {
		t.Fatalf("second clear must be a no-op: %v", err)
	}
	if _, err := store.LoadActive(ctx, "u1"); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
	if err := store.SaveActive(ctx, domain.ActiveSession{SessionID: "s4", UserID: "../escape"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected path-like user id rejection, got %v", err)
	}
}

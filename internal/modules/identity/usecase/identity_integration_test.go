package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	identityout "shelfmate/internal/modules/identity/adapter/out"
	"shelfmate/internal/modules/identity/dto"
	identityin "shelfmate/internal/modules/identity/port/in"
	"shelfmate/internal/modules/identity/service"
	"shelfmate/internal/modules/identity/usecase"
	"shelfmate/internal/platform/clock"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/id"
	"shelfmate/internal/platform/sqlitestore"
)

func newIdentity(t *testing.T, now time.Time) identityin.Usecase {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlitestore.Open(filepath.Join(dir, "shelfmate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	signer, err := identityout.NewJWTSigner([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	svc := service.NewIdentityService(clock.Fixed(now), id.UUID{}, identityout.NewSQLiteUserStore(db), identityout.NewFileTokenStore(dir), signer, identityout.NewBcryptHasher(bcrypt.MinCost), nil)
	return usecase.NewInteractor(svc)
}

func TestRegisterLoginProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newIdentity(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	if _, err := uc.Current(ctx); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated before login, got %v", err)
	}
	if _, err := uc.Register(ctx, dto.RegisterInput{Email: "reader@example.com", Password: "short"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected short password rejection, got %v", err)
	}
	registered, err := uc.Register(ctx, dto.RegisterInput{Email: "Reader@Example.com", Password: "page-turner"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.Nickname != "reader" || registered.Rank != "Knocking on the Door" {
		t.Fatalf("unexpected profile: %+v", registered)
	}
	if _, err := uc.Register(ctx, dto.RegisterInput{Email: "reader@example.com", Password: "page-turner"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected duplicate email rejection, got %v", err)
	}

	var seen []string
	unsubscribe := uc.Subscribe(func(userID string) { seen = append(seen, userID) })
	if _, err := uc.Login(ctx, dto.LoginInput{Email: "reader@example.com", Password: "wrong-guess"}); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected wrong password rejection, got %v", err)
	}
	if _, err := uc.Current(ctx); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("rejected login must not sign in, got %v", err)
	}
	login, err := uc.Login(ctx, dto.LoginInput{Email: "reader@example.com", Password: "page-turner"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	current, err := uc.Current(ctx)
	if err != nil || current != login.UserID {
		t.Fatalf("expected current %s, got %s err=%v", login.UserID, current, err)
	}
	if err := uc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	unsubscribe()
	if _, err := uc.Login(ctx, dto.LoginInput{Email: "reader@example.com", Password: "page-turner"}); err != nil {
		t.Fatalf("second login: %v", err)
	}
	if len(seen) != 2 || seen[0] != login.UserID || seen[1] != "" {
		t.Fatalf("unexpected notifications: %v", seen)
	}
	if _, err := uc.Login(ctx, dto.LoginInput{Email: "ghost@example.com", Password: "page-turner"}); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for unknown email, got %v", err)
	}

	renamed, err := uc.Rename(ctx, "책벌레")
	if err != nil || renamed.Nickname != "책벌레" {
		t.Fatalf("rename: %+v err=%v", renamed, err)
	}
}

func TestCreditPointsIsIdempotentPerMission(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newIdentity(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	if _, err := uc.Register(ctx, dto.RegisterInput{Email: "a@example.com", Password: "page-turner"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	login, err := uc.Login(ctx, dto.LoginInput{Email: "a@example.com", Password: "page-turner"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	credited, err := uc.CreditPoints(ctx, dto.CreditInput{UserID: login.UserID, MissionID: "m1", Points: 1200})
	if err != nil || !credited {
		t.Fatalf("expected first credit, got %v err=%v", credited, err)
	}
	credited, err = uc.CreditPoints(ctx, dto.CreditInput{UserID: login.UserID, MissionID: "m1", Points: 1200})
	if err != nil || credited {
		t.Fatalf("expected duplicate credit to be ignored, got %v err=%v", credited, err)
	}
	if err := uc.RecordBookFinished(ctx, login.UserID); err != nil {
		t.Fatalf("record finished: %v", err)
	}

	profile, err := uc.Profile(ctx)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.TotalPoints != 1200 || profile.BooksReadCount != 1 {
		t.Fatalf("unexpected totals: %+v", profile)
	}
	if profile.Rank != "First Page Turned" || profile.NextRank != "Learning the Shelves" || profile.PointsToNext != 800 {
		t.Fatalf("unexpected rank: %+v", profile)
	}
	if _, err := uc.CreditPoints(ctx, dto.CreditInput{UserID: login.UserID, MissionID: "m2", Points: 0}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero points, got %v", err)
	}
}

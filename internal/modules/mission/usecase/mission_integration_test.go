package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	identitydto "shelfmate/internal/modules/identity/dto"
	identityin "shelfmate/internal/modules/identity/port/in"
	missionout "shelfmate/internal/modules/mission/adapter/out"
	"shelfmate/internal/modules/mission/domain"
	"shelfmate/internal/modules/mission/dto"
	missionin "shelfmate/internal/modules/mission/port/in"
	"shelfmate/internal/modules/mission/service"
	"shelfmate/internal/modules/mission/usecase"
	"shelfmate/internal/platform/calendar"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/id"
	"shelfmate/internal/platform/logging"
	"shelfmate/internal/platform/sqlitestore"
	"shelfmate/internal/platform/tx"
)

type fakeIdentity struct {
	identityin.Usecase
	mu        sync.Mutex
	uid       string
	credited  map[string]int
	creditErr error
}

func (f *fakeIdentity) Current(context.Context) (string, error) {
	if f.uid == "" {
		return "", apperrors.ErrUnauthenticated
	}
	return f.uid, nil
}

func (f *fakeIdentity) CreditPoints(_ context.Context, input identitydto.CreditInput) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.creditErr != nil {
		return false, f.creditErr
	}
	if _, ok := f.credited[input.MissionID]; ok {
		return false, nil
	}
	f.credited[input.MissionID] = input.Points
	return true, nil
}

type mutableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *mutableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mutableClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type harness struct {
	uc       missionin.Usecase
	identity *fakeIdentity
	clock    *mutableClock
}

func newHarness(t *testing.T) harness {
	t.Helper()
	db, err := sqlitestore.Open(filepath.Join(t.TempDir(), "shelfmate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	clk := &mutableClock{now: time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)}
	identity := &fakeIdentity{uid: "u1", credited: map[string]int{}}
	svc := service.NewMissionService(clk, id.UUID{}, missionout.NewSQLiteMissionStore(db), missionout.NewSQLitePendingStore(db), time.UTC, nil)
	return harness{uc: usecase.NewInteractor(svc, identity, tx.NewSQLManager(db)), identity: identity, clock: clk}
}

// accept queues pages the way a finished reading session does and applies them.
func (h harness) accept(t *testing.T, pages int) dto.ApplyOutput {
	t.Helper()
	ctx := context.Background()
	if err := h.uc.RecordDelta(ctx, dto.DeltaInput{UserID: "u1", Delta: pages, Origin: "session"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	out, err := h.uc.ApplyPending(ctx, "u1")
	if err != nil {
		t.Fatalf("apply pending: %v", err)
	}
	return out
}

func TestCreateMissionDefaultsAndValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	daily, err := h.uc.Create(ctx, dto.CreateInput{Title: "Today", Goal: 150})
	if err != nil {
		t.Fatalf("create mission: %v", err)
	}
	if daily.StartDate != calendar.New(2026, 3, 7) || daily.EndDate != daily.StartDate || daily.PeriodDays != 1 {
		t.Fatalf("unexpected default window: %+v", daily)
	}
	if daily.Reward != 150 || daily.Difficulty != "normal" || daily.Completed || daily.Progress != 0 {
		t.Fatalf("unexpected mission: %+v", daily)
	}

	weekly, err := h.uc.Create(ctx, dto.CreateInput{Title: "Week", StartDate: calendar.New(2026, 3, 7), EndDate: calendar.New(2026, 3, 13), Goal: 600, Reward: 900})
	if err != nil {
		t.Fatalf("create weekly: %v", err)
	}
	if weekly.Difficulty != "hard" || weekly.Reward != 900 {
		t.Fatalf("unexpected weekly mission: %+v", weekly)
	}

	bad := []dto.CreateInput{
		{Title: "", Goal: 10},
		{Title: "x", Goal: 0},
		{Title: "x", Goal: 10, Reward: -1},
		{Title: "x", Goal: 10, StartDate: calendar.New(2026, 3, 9), EndDate: calendar.New(2026, 3, 8)},
	}
	for _, input := range bad {
		if _, err := h.uc.Create(ctx, input); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", input, err)
		}
	}

	h.identity.uid = ""
	if _, err := h.uc.Create(ctx, dto.CreateInput{Title: "x", Goal: 1}); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestPendingDeltasApplyOnceAndRewardOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	goal, err := h.uc.Create(ctx, dto.CreateInput{Title: "Hundred", Goal: 100})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	big, err := h.uc.Create(ctx, dto.CreateInput{Title: "Thousand", EndDate: calendar.New(2026, 3, 31), Goal: 1000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	future, err := h.uc.Create(ctx, dto.CreateInput{Title: "Later", StartDate: calendar.New(2026, 4, 1), Goal: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := h.uc.RecordDelta(ctx, dto.DeltaInput{UserID: "u1", Delta: 60, Origin: "s1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	first, err := h.uc.ApplyPending(ctx, "u1")
	if err != nil {
		t.Fatalf("apply pending: %v", err)
	}
	if first.Applied != 60 || len(first.Updated) != 2 || len(first.Rewards) != 0 {
		t.Fatalf("unexpected first apply: %+v", first)
	}

	again, err := h.uc.ApplyPending(ctx, "u1")
	if err != nil {
		t.Fatalf("apply pending again: %v", err)
	}
	if again.Applied != 0 || len(again.Updated) != 0 {
		t.Fatalf("pending delta applied twice: %+v", again)
	}

	second := h.accept(t, 50)
	if len(second.Rewards) != 1 || second.Rewards[0].MissionID != goal.ID || !second.Rewards[0].Credited {
		t.Fatalf("expected one credited reward, got %+v", second.Rewards)
	}
	if h.identity.credited[goal.ID] != 100 {
		t.Fatalf("reward not credited: %v", h.identity.credited)
	}

	third := h.accept(t, 10)
	if len(third.Rewards) != 0 {
		t.Fatalf("completed mission rewarded twice: %+v", third.Rewards)
	}

	missions, err := h.uc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	byID := map[string]dto.MissionOutput{}
	for _, m := range missions {
		byID[m.ID] = m
	}
	if m := byID[goal.ID]; !m.Completed || m.Progress != 100 {
		t.Fatalf("goal mission not completed: %+v", m)
	}
	if m := byID[big.ID]; m.Progress != 12 || m.PagesRead != 120 {
		t.Fatalf("fan-out mission progress wrong: %+v", m)
	}
	if m := byID[future.ID]; m.Progress != 0 {
		t.Fatalf("future mission must not accrue: %+v", m)
	}
	if missions[len(missions)-1].ID != goal.ID {
		t.Fatalf("completed missions must sort last: %+v", missions)
	}
}

func TestFailedCreditRollsBackAndKeepsDeltaPending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	m, err := h.uc.Create(ctx, dto.CreateInput{Title: "Small", Goal: 20})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := h.uc.RecordDelta(ctx, dto.DeltaInput{UserID: "u1", Delta: 30}); err != nil {
		t.Fatalf("record: %v", err)
	}

	h.identity.creditErr = apperrors.ErrPersistenceUnavailable
	if _, err := h.uc.ApplyPending(ctx, "u1"); !errors.Is(err, apperrors.ErrPersistenceUnavailable) {
		t.Fatalf("expected credit failure, got %v", err)
	}

	h.identity.creditErr = nil
	out, err := h.uc.ApplyPending(ctx, "u1")
	if err != nil {
		t.Fatalf("retry apply: %v", err)
	}
	if out.Applied != 30 || len(out.Rewards) != 1 || out.Rewards[0].MissionID != m.ID {
		t.Fatalf("delta lost after rollback: %+v", out)
	}
}

func TestDeltaCountsOnTheDayItWasRecorded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)
	m, err := h.uc.Create(ctx, dto.CreateInput{Title: "Saturday", Goal: 40})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := h.uc.RecordDelta(ctx, dto.DeltaInput{UserID: "u1", Delta: 10}); err != nil {
		t.Fatalf("record: %v", err)
	}
	h.clock.Set(time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC))
	if err := h.uc.RecordDelta(ctx, dto.DeltaInput{UserID: "u1", Delta: 10}); err != nil {
		t.Fatalf("record: %v", err)
	}
	out, err := h.uc.ApplyPending(ctx, "u1")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(out.Updated) != 1 || out.Updated[0].ID != m.ID || out.Updated[0].Progress != 25 {
		t.Fatalf("expected only Saturday's pages to count: %+v", out.Updated)
	}
}

func TestSubscribeAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	var seen [][]dto.MissionOutput
	unsubscribe := h.uc.Subscribe("u1", func(ms []dto.MissionOutput) { seen = append(seen, ms) })

	m, err := h.uc.Create(ctx, dto.CreateInput{Title: "Watch", Goal: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	h.accept(t, 10)
	if len(seen) != 2 || !seen[1][0].Completed {
		t.Fatalf("unexpected notifications: %+v", seen)
	}

	if err := h.uc.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete completed mission: %v", err)
	}
	if len(seen) != 3 || len(seen[2]) != 0 {
		t.Fatalf("expected empty list after delete: %+v", seen)
	}
	if h.identity.credited[m.ID] != 10 {
		t.Fatalf("deleting must not revoke points: %v", h.identity.credited)
	}
	if err := h.uc.Delete(ctx, m.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	unsubscribe()
	if _, err := h.uc.Create(ctx, dto.CreateInput{Title: "Quiet", Goal: 10}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(seen) != 3 {
		t.Fatalf("unsubscribed callback still called: %d", len(seen))
	}
}

// listFailingStore accepts writes but cannot read missions back.
type listFailingStore struct {
	inserted int
}

func (s *listFailingStore) Insert(context.Context, domain.Mission) error {
	s.inserted++
	return nil
}

func (s *listFailingStore) Update(context.Context, domain.Mission) error { return nil }

func (s *listFailingStore) Delete(context.Context, string, string) error { return nil }

func (s *listFailingStore) ListByUser(context.Context, string) ([]domain.Mission, error) {
	return nil, apperrors.ErrPersistenceUnavailable
}

func TestPublishFailureIsLogged(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	store := &listFailingStore{}
	clk := &mutableClock{now: time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)}
	svc := service.NewMissionService(clk, id.UUID{}, store, nil, time.UTC, logging.New(logging.Options{Level: "warn", Output: &buf}))
	uc := usecase.NewInteractor(svc, &fakeIdentity{uid: "u1", credited: map[string]int{}}, nil)

	called := false
	defer uc.Subscribe("u1", func([]dto.MissionOutput) { called = true })()

	if _, err := uc.Create(context.Background(), dto.CreateInput{Title: "Logged", Goal: 10}); err != nil {
		t.Fatalf("create must succeed even if listeners cannot be refreshed: %v", err)
	}
	if store.inserted != 1 || called {
		t.Fatalf("unexpected state: inserted=%d called=%t", store.inserted, called)
	}
	if !bytes.Contains(buf.Bytes(), []byte("mission listeners not notified")) || !bytes.Contains(buf.Bytes(), []byte("user_id=u1")) {
		t.Fatalf("expected publish failure in the log, got %q", buf.String())
	}
}

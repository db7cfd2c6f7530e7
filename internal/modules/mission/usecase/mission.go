package usecase

import (
	"context"
	"sync"

	identitydto "shelfmate/internal/modules/identity/dto"
	identityin "shelfmate/internal/modules/identity/port/in"
	"shelfmate/internal/modules/mission/domain"
	"shelfmate/internal/modules/mission/dto"
	missionin "shelfmate/internal/modules/mission/port/in"
	"shelfmate/internal/modules/mission/service"
	"shelfmate/internal/platform/tx"
)

type Interactor struct {
	svc      *service.MissionService
	identity identityin.Usecase
	txm      tx.Manager

	locks sync.Map

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[string]map[int]func([]dto.MissionOutput)
}

func NewInteractor(svc *service.MissionService, identity identityin.Usecase, txm tx.Manager) missionin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &Interactor{
		svc:         svc,
		identity:    identity,
		txm:         txm,
		subscribers: map[string]map[int]func([]dto.MissionOutput){},
	}
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.MissionOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return dto.MissionOutput{}, err
	}
	unlock := i.lock(uid)
	mission, err := i.svc.Create(ctx, uid, domain.Draft{
		Title:     input.Title,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Goal:      input.Goal,
		Reward:    input.Reward,
	})
	unlock()
	if err != nil {
		return dto.MissionOutput{}, err
	}
	i.publish(ctx, uid)
	return toOutput(mission), nil
}

// Delete removes the mission whatever its state; granted points stay.
func (i *Interactor) Delete(ctx context.Context, missionID string) error {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return err
	}
	unlock := i.lock(uid)
	err = i.svc.Delete(ctx, uid, missionID)
	unlock()
	if err != nil {
		return err
	}
	i.publish(ctx, uid)
	return nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.MissionOutput, error) {
	uid, err := i.identity.Current(ctx)
	if err != nil {
		return nil, err
	}
	result, err := i.ApplyPending(ctx, uid)
	if err != nil {
		return nil, err
	}
	return result.Missions, nil
}

func (i *Interactor) RecordDelta(ctx context.Context, input dto.DeltaInput) error {
	return i.svc.Record(ctx, input.UserID, input.Delta, input.Origin)
}

// Subscribers are notified after the user lock is released so they may call back in.
func (i *Interactor) ApplyPending(ctx context.Context, userID string) (dto.ApplyOutput, error) {
	out, changed, err := i.applyPending(ctx, userID)
	if err != nil {
		return dto.ApplyOutput{}, err
	}
	if changed {
		i.notify(userID, out.Missions)
	}
	return out, nil
}

func (i *Interactor) applyPending(ctx context.Context, userID string) (dto.ApplyOutput, bool, error) {
	unlock := i.lock(userID)
	defer unlock()

	var (
		drained service.Drained
		rewards []dto.RewardOutput
	)
	err := i.txm.Within(ctx, func(ctx context.Context) error {
		var err error
		drained, err = i.svc.Drain(ctx, userID)
		if err != nil {
			return err
		}
		rewards = make([]dto.RewardOutput, 0, len(drained.Rewards))
		for _, r := range drained.Rewards {
			credited, err := i.identity.CreditPoints(ctx, identitydto.CreditInput{UserID: r.UserID, MissionID: r.MissionID, Points: r.Points})
			if err != nil {
				return err
			}
			rewards = append(rewards, dto.RewardOutput{MissionID: r.MissionID, Title: r.Title, Points: r.Points, Credited: credited})
		}
		return nil
	})
	if err != nil {
		return dto.ApplyOutput{}, false, err
	}
	return dto.ApplyOutput{
		Applied:  drained.Applied,
		Updated:  toOutputs(drained.Touched),
		Rewards:  rewards,
		Missions: toOutputs(drained.Missions),
	}, len(drained.Touched) > 0, nil
}

func (i *Interactor) Subscribe(userID string, fn func([]dto.MissionOutput)) func() {
	i.subMu.Lock()
	defer i.subMu.Unlock()
	key := i.nextSubID
	i.nextSubID++
	if i.subscribers[userID] == nil {
		i.subscribers[userID] = map[int]func([]dto.MissionOutput){}
	}
	i.subscribers[userID][key] = fn
	return func() {
		i.subMu.Lock()
		defer i.subMu.Unlock()
		delete(i.subscribers[userID], key)
		if len(i.subscribers[userID]) == 0 {
			delete(i.subscribers, userID)
		}
	}
}

// publish re-reads the user's missions after a committed write.
func (i *Interactor) publish(ctx context.Context, userID string) {
	if !i.hasSubscribers(userID) {
		return
	}
	missions, err := i.svc.List(ctx, userID)
	if err != nil {
		i.svc.Logger().Warn("mission listeners not notified", "user_id", userID, "error", err)
		return
	}
	i.notify(userID, toOutputs(missions))
}

func (i *Interactor) hasSubscribers(userID string) bool {
	i.subMu.Lock()
	defer i.subMu.Unlock()
	return len(i.subscribers[userID]) > 0
}

func (i *Interactor) notify(userID string, missions []dto.MissionOutput) {
	i.subMu.Lock()
	fns := make([]func([]dto.MissionOutput), 0, len(i.subscribers[userID]))
	for _, fn := range i.subscribers[userID] {
		fns = append(fns, fn)
	}
	i.subMu.Unlock()
	for _, fn := range fns {
		fn(missions)
	}
}

func (i *Interactor) lock(userID string) func() {
	mu, _ := i.locks.LoadOrStore(userID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func toOutputs(missions []domain.Mission) []dto.MissionOutput {
	out := make([]dto.MissionOutput, 0, len(missions))
	for _, m := range missions {
		out = append(out, toOutput(m))
	}
	return out
}

func toOutput(m domain.Mission) dto.MissionOutput {
	return dto.MissionOutput{
		ID:         m.ID,
		Title:      m.Title,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		PeriodDays: m.PeriodDays(),
		Goal:       m.Goal,
		Progress:   m.Progress,
		PagesRead:  m.PagesRead(),
		Reward:     m.Reward,
		Completed:  m.Completed,
		Difficulty: string(m.Difficulty()),
		UpdatedAt:  m.UpdatedAt,
	}
}

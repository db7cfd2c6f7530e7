package service

import (
	"context"
	"sort"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"shelfmate/internal/modules/mission/domain"
	missionout "shelfmate/internal/modules/mission/port/out"
	"shelfmate/internal/platform/calendar"
	"shelfmate/internal/platform/clock"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/id"
)

type MissionService struct {
	clock    clock.Clock
	idGen    id.Generator
	missions missionout.MissionStore
	pending  missionout.PendingStore
	loc      *time.Location
	log      hclog.Logger
}

// Drained is the outcome of applying a user's pending deltas.
type Drained struct {
	Applied  int
	Missions []domain.Mission
	Touched  []domain.Mission
	Rewards  []domain.Reward
}

func NewMissionService(clock clock.Clock, idGen id.Generator, missions missionout.MissionStore, pending missionout.PendingStore, loc *time.Location, log hclog.Logger) *MissionService {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &MissionService{clock: clock, idGen: idGen, missions: missions, pending: pending, loc: loc, log: log}
}

func (s *MissionService) Today() calendar.Date {
	return calendar.FromTime(s.clock.Now(), s.loc)
}

func (s *MissionService) Create(ctx context.Context, userID string, draft domain.Draft) (domain.Mission, error) {
	if draft.StartDate.IsZero() {
		draft.StartDate = s.Today()
	}
	if draft.EndDate.IsZero() {
		draft.EndDate = draft.StartDate
	}
	mission, err := domain.NewMission(s.idGen.New(), userID, draft, s.clock.Now())
	if err != nil {
		return domain.Mission{}, err
	}
	if err := s.missions.Insert(ctx, mission); err != nil {
		return domain.Mission{}, err
	}
	s.log.Info("mission created", "user_id", userID, "mission_id", mission.ID, "goal", mission.Goal, "difficulty", mission.Difficulty())
	return mission, nil
}

func (s *MissionService) Delete(ctx context.Context, userID, missionID string) error {
	if missionID == "" {
		return apperrors.Invalid("mission id is required")
	}
	return s.missions.Delete(ctx, userID, missionID)
}

// List orders open missions first, then by end date.
func (s *MissionService) List(ctx context.Context, userID string) ([]domain.Mission, error) {
	missions, err := s.missions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(missions, func(i, j int) bool {
		a, b := missions[i], missions[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.EndDate != b.EndDate {
			return a.EndDate.Before(b.EndDate)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return missions, nil
}

func (s *MissionService) Record(ctx context.Context, userID string, delta int, origin string) error {
	if userID == "" {
		return apperrors.Invalid("user id is required")
	}
	if delta <= 0 {
		return nil
	}
	return s.pending.Add(ctx, domain.PendingDelta{UserID: userID, Delta: delta, Origin: origin, CreatedAt: s.clock.Now()})
}

// Drain takes the user's pending deltas and folds them into their missions.
// Each delta counts on the calendar day it was recorded. Must run inside a transaction.
func (s *MissionService) Drain(ctx context.Context, userID string) (Drained, error) {
	deltas, err := s.pending.Take(ctx, userID)
	if err != nil {
		return Drained{}, err
	}
	missions, err := s.List(ctx, userID)
	if err != nil {
		return Drained{}, err
	}
	out := Drained{Missions: missions}
	if len(deltas) == 0 {
		return out, nil
	}

	touched := map[string]bool{}
	for _, d := range deltas {
		result := domain.ApplyDelta(calendar.FromTime(d.CreatedAt, s.loc), d.Delta, out.Missions)
		out.Missions = result.Missions
		out.Rewards = append(out.Rewards, result.Rewards...)
		for _, m := range result.Touched {
			touched[m.ID] = true
		}
		out.Applied += d.Delta
	}

	now := s.clock.Now()
	for i, m := range out.Missions {
		if !touched[m.ID] {
			continue
		}
		m.UpdatedAt = now
		out.Missions[i] = m
		if err := s.missions.Update(ctx, m); err != nil {
			return Drained{}, err
		}
		out.Touched = append(out.Touched, m)
	}
	for _, r := range out.Rewards {
		s.log.Info("mission completed", "user_id", r.UserID, "mission_id", r.MissionID, "points", r.Points)
	}
	s.log.Debug("pending deltas applied", "user_id", userID, "deltas", len(deltas), "pages", out.Applied, "touched", len(out.Touched))
	return out, nil
}

func (s *MissionService) Logger() hclog.Logger {
	return s.log
}

package in

import (
	"context"

	"shelfmate/internal/modules/mission/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateInput) (dto.MissionOutput, error)
	Delete(ctx context.Context, missionID string) error
	// List applies the caller's pending deltas before reading.
	List(ctx context.Context) ([]dto.MissionOutput, error)
	// RecordDelta queues a delta accepted by a reading session; it joins a
	// transaction carried by ctx.
	RecordDelta(ctx context.Context, input dto.DeltaInput) error
	// ApplyPending consumes every queued delta of userID exactly once.
	ApplyPending(ctx context.Context, userID string) (dto.ApplyOutput, error)
	// Subscribe calls fn with the user's missions after each committed change.
	Subscribe(userID string, fn func([]dto.MissionOutput)) (unsubscribe func())
}

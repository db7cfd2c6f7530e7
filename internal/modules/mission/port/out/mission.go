package out

import (
	"context"

	"shelfmate/internal/modules/mission/domain"
)

type MissionStore interface {
	Insert(ctx context.Context, mission domain.Mission) error
	Update(ctx context.Context, mission domain.Mission) error
	Delete(ctx context.Context, userID, missionID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Mission, error)
}

type PendingStore interface {
	Add(ctx context.Context, delta domain.PendingDelta) error
	// Take returns and deletes every pending delta of userID in insertion order.
	Take(ctx context.Context, userID string) ([]domain.PendingDelta, error)
}

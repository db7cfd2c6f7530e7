package in

import (
	"context"

	"shelfmate/internal/modules/session/dto"
)

type Usecase interface {
	// Start fails with apperrors.ErrActiveSessionExists while the user has a running timer.
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	// End validates the claimed pages and credits the accepted delta to the shelf and missions.
	End(ctx context.Context, input dto.EndInput) (dto.EndOutput, error)
	Cancel(ctx context.Context) error
	GetActive(ctx context.Context) (dto.ActiveSessionOutput, error)
	History(ctx context.Context, isbn string) ([]dto.SessionOutput, error)
}

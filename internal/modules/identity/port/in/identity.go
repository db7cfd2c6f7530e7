package in

import (
	"context"

	"shelfmate/internal/modules/identity/dto"
)

type Usecase interface {
	Register(ctx context.Context, input dto.RegisterInput) (dto.ProfileOutput, error)
	Login(ctx context.Context, input dto.LoginInput) (dto.LoginOutput, error)
	Logout(ctx context.Context) error
	// Current returns the signed-in user id or apperrors.ErrUnauthenticated.
	Current(ctx context.Context) (string, error)
	// Subscribe registers fn for identity changes; an empty id means signed out.
	Subscribe(fn func(userID string)) (unsubscribe func())
	Profile(ctx context.Context) (dto.ProfileOutput, error)
	Rename(ctx context.Context, nickname string) (dto.ProfileOutput, error)
	// CreditPoints grants a mission reward at most once per mission and reports whether it was new.
	CreditPoints(ctx context.Context, input dto.CreditInput) (bool, error)
	RecordBookFinished(ctx context.Context, userID string) error
}

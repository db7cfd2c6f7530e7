package usecase

import (
	"context"

	"shelfmate/internal/modules/identity/domain"
	"shelfmate/internal/modules/identity/dto"
	identityin "shelfmate/internal/modules/identity/port/in"
	"shelfmate/internal/modules/identity/service"
)

type Interactor struct {
	svc *service.IdentityService
}

func NewInteractor(svc *service.IdentityService) identityin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Register(ctx context.Context, input dto.RegisterInput) (dto.ProfileOutput, error) {
	user, err := i.svc.Register(ctx, input.Email, input.Nickname, input.Password)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toProfile(user), nil
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.LoginOutput, error) {
	user, claims, err := i.svc.Login(ctx, input.Email, input.Password)
	if err != nil {
		return dto.LoginOutput{}, err
	}
	return dto.LoginOutput{UserID: user.ID, Email: user.Email, Nickname: user.Nickname, ExpiresAt: claims.ExpiresAt}, nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.svc.Logout(ctx)
}

func (i *Interactor) Current(ctx context.Context) (string, error) {
	return i.svc.Current(ctx)
}

func (i *Interactor) Subscribe(fn func(userID string)) func() {
	return i.svc.Subscribe(fn)
}

func (i *Interactor) Profile(ctx context.Context) (dto.ProfileOutput, error) {
	user, err := i.svc.CurrentUser(ctx)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toProfile(user), nil
}

func (i *Interactor) Rename(ctx context.Context, nickname string) (dto.ProfileOutput, error) {
	user, err := i.svc.Rename(ctx, nickname)
	if err != nil {
		return dto.ProfileOutput{}, err
	}
	return toProfile(user), nil
}

func (i *Interactor) CreditPoints(ctx context.Context, input dto.CreditInput) (bool, error) {
	return i.svc.CreditPoints(ctx, input.UserID, input.MissionID, input.Points)
}

func (i *Interactor) RecordBookFinished(ctx context.Context, userID string) error {
	return i.svc.RecordBookFinished(ctx, userID)
}

func toProfile(user domain.User) dto.ProfileOutput {
	rank := domain.RankFor(user.TotalPoints)
	out := dto.ProfileOutput{
		UserID:         user.ID,
		Email:          user.Email,
		Nickname:       user.Nickname,
		TotalPoints:    user.TotalPoints,
		BooksReadCount: user.BooksReadCount,
		Rank:           rank.Tier.Name,
		PointsToNext:   rank.ToNext,
		PercentToNext:  rank.PercentToNext,
	}
	if rank.Next != nil {
		out.NextRank = rank.Next.Name
	}
	return out
}

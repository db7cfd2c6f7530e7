package in

import (
	"context"

	"shelfmate/internal/modules/identity/dto"
	identityin "shelfmate/internal/modules/identity/port/in"
)

type CLIHandler struct {
	usecase identityin.Usecase
}

func NewCLIHandler(usecase identityin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Register(ctx context.Context, email, nickname, password string) (dto.ProfileOutput, error) {
	return h.usecase.Register(ctx, dto.RegisterInput{Email: email, Nickname: nickname, Password: password})
}

func (h CLIHandler) Login(ctx context.Context, email, password string) (dto.LoginOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{Email: email, Password: password})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Profile(ctx context.Context) (dto.ProfileOutput, error) {
	return h.usecase.Profile(ctx)
}

func (h CLIHandler) Rename(ctx context.Context, nickname string) (dto.ProfileOutput, error) {
	return h.usecase.Rename(ctx, nickname)
}

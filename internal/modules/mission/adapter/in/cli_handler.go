package in

import (
	"context"

	"shelfmate/internal/modules/mission/dto"
	missionin "shelfmate/internal/modules/mission/port/in"
)

type CLIHandler struct {
	usecase missionin.Usecase
}

func NewCLIHandler(usecase missionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Create(ctx context.Context, input dto.CreateInput) (dto.MissionOutput, error) {
	return h.usecase.Create(ctx, input)
}

func (h CLIHandler) Delete(ctx context.Context, missionID string) error {
	return h.usecase.Delete(ctx, missionID)
}

func (h CLIHandler) List(ctx context.Context) ([]dto.MissionOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Watch(userID string, fn func([]dto.MissionOutput)) func() {
	return h.usecase.Subscribe(userID, fn)
}

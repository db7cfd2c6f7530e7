package in

import (
	"context"

	sessiondto "shelfmate/internal/modules/session/dto"
	sessionin "shelfmate/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, isbn, device string) (sessiondto.StartOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{ISBN: isbn, Device: device})
}

func (h CLIHandler) End(ctx context.Context, finalPage int) (sessiondto.EndOutput, error) {
	return h.usecase.End(ctx, sessiondto.EndInput{ClaimedFinalPages: finalPage})
}

func (h CLIHandler) Cancel(ctx context.Context) error {
	return h.usecase.Cancel(ctx)
}

func (h CLIHandler) GetActive(ctx context.Context) (sessiondto.ActiveSessionOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) History(ctx context.Context, isbn string) ([]sessiondto.SessionOutput, error) {
	return h.usecase.History(ctx, isbn)
}

package in

import (
	"context"

	"tempo/internal/modules/schedule/dto"
	schedulein "tempo/internal/modules/schedule/port/in"
)

type CLIHandler struct {
	usecase schedulein.Usecase
}

func NewCLIHandler(usecase schedulein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Week(ctx context.Context, date string, scale float64) (dto.WeekViewOutput, error) {
	return h.usecase.WeekViewFor(ctx, date, scale)
}

package usecase

import (
	"context"
	"fmt"

	"tempo/internal/modules/schedule/dto"
	schedulein "tempo/internal/modules/schedule/port/in"
	"tempo/internal/modules/schedule/service"
	apperrors "tempo/internal/platform/errors"
)

type Interactor struct {
	svc *service.WeekComposer
}

func NewInteractor(svc *service.WeekComposer) schedulein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) WeekView(ctx context.Context, scale float64) (dto.WeekViewOutput, error) {
	if scale <= 0 {
		return dto.WeekViewOutput{}, fmt.Errorf("%w: scale must be positive", apperrors.ErrInvalidInput)
	}
	return i.svc.WeekView(ctx, scale)
}

func (i *Interactor) WeekViewFor(ctx context.Context, date string, scale float64) (dto.WeekViewOutput, error) {
	if scale <= 0 {
		return dto.WeekViewOutput{}, fmt.Errorf("%w: scale must be positive", apperrors.ErrInvalidInput)
	}
	return i.svc.WeekViewFor(ctx, date, scale)
}

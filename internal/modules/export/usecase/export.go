package usecase

import (
	"context"
	"fmt"

	"tempo/internal/modules/export/dto"
	exportin "tempo/internal/modules/export/port/in"
	"tempo/internal/modules/export/service"
	apperrors "tempo/internal/platform/errors"
)

type Interactor struct {
	svc *service.ExporterService
}

func NewInteractor(svc *service.ExporterService) exportin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.ExporterInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) ExportDay(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	if input.Exporter == "" {
		return dto.ExportOutput{}, fmt.Errorf("%w: exporter name is required", apperrors.ErrInvalidInput)
	}
	if input.Format == "" {
		return dto.ExportOutput{}, fmt.Errorf("%w: format is required", apperrors.ErrInvalidInput)
	}
	if input.Date == "" {
		return dto.ExportOutput{}, fmt.Errorf("%w: date is required", apperrors.ErrInvalidInput)
	}
	return i.svc.ExportDay(ctx, input)
}

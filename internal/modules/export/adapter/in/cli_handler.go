package in

import (
	"context"

	"tempo/internal/modules/export/dto"
	exportin "tempo/internal/modules/export/port/in"
)

type CLIHandler struct {
	usecase exportin.Usecase
}

func NewCLIHandler(usecase exportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.ExporterInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return h.usecase.Doctor(ctx)
}

func (h CLIHandler) Export(ctx context.Context, exporter, format, date string, offline bool) (dto.ExportOutput, error) {
	return h.usecase.ExportDay(ctx, dto.ExportInput{Exporter: exporter, Format: format, Date: date, Offline: offline})
}

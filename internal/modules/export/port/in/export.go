package in

import (
	"context"

	"tempo/internal/modules/export/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.ExporterInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	// ExportDay renders the plan for input.Date through the named exporter.
	// With Offline set the plan comes from the local cache.
	ExportDay(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tempo/internal/modules/export/domain"
	"tempo/internal/modules/export/dto"
	exportout "tempo/internal/modules/export/port/out"
	planningdto "tempo/internal/modules/planning/dto"
	planningin "tempo/internal/modules/planning/port/in"
)

// ExporterService runs out-of-process exporters over the day plans the
// planning module holds. Binaries are checksum-verified before every launch.
type ExporterService struct {
	store    exportout.ManifestStore
	host     exportout.Host
	planning planningin.Usecase
}

func NewExporterService(store exportout.ManifestStore, host exportout.Host, planning planningin.Usecase) *ExporterService {
	return &ExporterService{store: store, host: host, planning: planning}
}

func (s *ExporterService) List(ctx context.Context) ([]dto.ExporterInfo, error) {
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExporterInfo, 0, len(manifests))
	for _, m := range manifests {
		formats := make([]string, 0, len(m.Formats))
		for _, f := range m.Formats {
			formats = append(formats, string(f))
		}
		out = append(out, dto.ExporterInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Formats: formats})
	}
	return out, nil
}

func (s *ExporterService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		binaryOK := fileExists(m.Binary)
		result.BinaryReachable = binaryOK
		checksumOK := false
		if binaryOK {
			checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
		}
		result.ChecksumValid = checksumOK
		if binaryOK && checksumOK && m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		if !binaryOK {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		}
		if binaryOK && !checksumOK {
			result.Error = "checksum mismatch"
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *ExporterService) ExportDay(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	format := domain.Format(input.Format)
	manifest, err := s.getRunnableManifest(ctx, input.Exporter, format)
	if err != nil {
		return dto.ExportOutput{}, err
	}

	plan, err := s.dayPlan(ctx, input)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	payload, err := json.Marshal(toPlanDocument(plan))
	if err != nil {
		return dto.ExportOutput{}, fmt.Errorf("encode plan: %w", err)
	}

	req := domain.RenderRequest{Format: format, Date: input.Date, PlanJSON: string(payload)}
	if err := req.Validate(); err != nil {
		return dto.ExportOutput{}, err
	}
	result, err := s.host.Render(ctx, manifest, req)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	if result.Document == "" {
		return dto.ExportOutput{}, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, manifest.Name)
	}
	return dto.ExportOutput{
		Exporter: manifest.Name,
		Format:   input.Format,
		Date:     input.Date,
		Document: result.Document,
		MimeType: result.MimeType,
	}, nil
}

func (s *ExporterService) dayPlan(ctx context.Context, input dto.ExportInput) (planningdto.DayPlanOutput, error) {
	if input.Offline {
		return s.planning.CachedPlan(ctx, input.Date)
	}
	view, err := s.planning.SelectDate(ctx, input.Date)
	if err != nil {
		return planningdto.DayPlanOutput{}, err
	}
	return view.Plan, nil
}

func (s *ExporterService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate exporter name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func (s *ExporterService) getRunnableManifest(ctx context.Context, name string, format domain.Format) (domain.Manifest, error) {
	if err := format.Validate(); err != nil {
		return domain.Manifest{}, err
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	manifest := domain.Manifest{}
	found := false
	for _, item := range manifests {
		if item.Name == name {
			manifest = item
			found = true
			break
		}
	}
	if !found {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrExporterNotFound, name)
	}
	if !manifest.Enabled {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrExporterDisabled, name)
	}
	if !manifest.Supports(format) {
		return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrFormatUnsupported, format)
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return domain.Manifest{}, err
	}
	if s.host != nil {
		if err := s.host.CheckLifecycle(ctx, manifest); err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrExporterTimeout, name)
			}
			return domain.Manifest{}, err
		}
	}
	return manifest, nil
}

// planDocument is the stable JSON shape handed to exporters; it is part of
// the exporter contract and decoupled from internal dto layouts.
type planDocument struct {
	Date            string             `json:"date"`
	Scheduled       []planItemDocument `json:"scheduled"`
	Unscheduled     []unscheduledDoc   `json:"unscheduled"`
	ModelVersion    string             `json:"model_version,omitempty"`
	ModelConfidence float64            `json:"model_confidence,omitempty"`
}

type planItemDocument struct {
	PlanItemID  int    `json:"plan_item_id"`
	TaskID      int    `json:"task_id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Explanation string `json:"explanation,omitempty"`
}

type unscheduledDoc struct {
	TaskID int    `json:"task_id"`
	Title  string `json:"title"`
	Reason string `json:"reason,omitempty"`
}

func toPlanDocument(plan planningdto.DayPlanOutput) planDocument {
	doc := planDocument{
		Date:            plan.Date,
		Scheduled:       make([]planItemDocument, 0, len(plan.Scheduled)),
		Unscheduled:     make([]unscheduledDoc, 0, len(plan.Unscheduled)),
		ModelVersion:    plan.ModelVersion,
		ModelConfidence: plan.ModelConfidence,
	}
	for _, item := range plan.Scheduled {
		doc.Scheduled = append(doc.Scheduled, planItemDocument{
			PlanItemID:  item.PlanItemID,
			TaskID:      item.TaskID,
			Title:       item.Title,
			Start:       item.Start.Format(time.RFC3339),
			End:         item.End.Format(time.RFC3339),
			Explanation: item.Explanation,
		})
	}
	for _, u := range plan.Unscheduled {
		doc.Unscheduled = append(doc.Unscheduled, unscheduledDoc{TaskID: u.TaskID, Title: u.Title, Reason: u.Reason})
	}
	return doc
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read exporter binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

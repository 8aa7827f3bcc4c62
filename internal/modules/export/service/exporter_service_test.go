package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tempo/internal/modules/export/domain"
	"tempo/internal/modules/export/dto"
	"tempo/internal/modules/export/service"
	planningdto "tempo/internal/modules/planning/dto"
)

type memStore struct {
	manifests []domain.Manifest
}

func (s *memStore) Load(context.Context) ([]domain.Manifest, error) {
	return s.manifests, nil
}

type fakeHost struct {
	lifecycleErr error
	lastRequest  domain.RenderRequest
	result       domain.RenderResult
	renderErr    error
}

func (h *fakeHost) CheckLifecycle(context.Context, domain.Manifest) error {
	return h.lifecycleErr
}

func (h *fakeHost) GetMetadata(_ context.Context, m domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: m.Name, Version: m.Version, Formats: m.Formats}, nil
}

func (h *fakeHost) Render(_ context.Context, _ domain.Manifest, req domain.RenderRequest) (domain.RenderResult, error) {
	h.lastRequest = req
	if h.renderErr != nil {
		return domain.RenderResult{}, h.renderErr
	}
	return h.result, nil
}

type fakePlanning struct {
	plan        planningdto.DayPlanOutput
	cachedCalls int
	liveCalls   int
}

func (f *fakePlanning) SelectDate(_ context.Context, date string) (planningdto.PlanViewOutput, error) {
	f.liveCalls++
	f.plan.Date = date
	return planningdto.PlanViewOutput{Date: date, Plan: f.plan}, nil
}

func (f *fakePlanning) Refresh(context.Context) (planningdto.PlanViewOutput, error) {
	return planningdto.PlanViewOutput{}, nil
}

func (f *fakePlanning) State(context.Context) (planningdto.PlanViewOutput, error) {
	return planningdto.PlanViewOutput{}, nil
}

func (f *fakePlanning) Generate(context.Context) (planningdto.PlanViewOutput, error) {
	return planningdto.PlanViewOutput{}, nil
}

func (f *fakePlanning) Reschedule(context.Context, planningdto.RescheduleInput) (planningdto.PlanViewOutput, error) {
	return planningdto.PlanViewOutput{}, nil
}

func (f *fakePlanning) Remove(context.Context, int) (planningdto.PlanViewOutput, error) {
	return planningdto.PlanViewOutput{}, nil
}

func (f *fakePlanning) RecordFeedback(context.Context, planningdto.FeedbackInput) error {
	return nil
}

func (f *fakePlanning) CachedPlan(_ context.Context, date string) (planningdto.DayPlanOutput, error) {
	f.cachedCalls++
	f.plan.Date = date
	return f.plan, nil
}

func writeBinary(t *testing.T) (path, checksum string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "reference-exporter")
	content := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
	sum := sha256.Sum256(content)
	return path, hex.EncodeToString(sum[:])
}

func manifestFor(binary, checksum string) domain.Manifest {
	return domain.Manifest{
		Name:    "reference",
		Version: "1.0.0",
		Binary:  binary,
		SHA256:  checksum,
		Enabled: true,
		Formats: []domain.Format{domain.FormatMarkdown},
	}
}

func samplePlan() planningdto.DayPlanOutput {
	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	return planningdto.DayPlanOutput{
		Scheduled: []planningdto.PlanItemOutput{
			{PlanItemID: 1, TaskID: 10, Title: "deep work", Start: start, End: start.Add(time.Hour)},
		},
		ModelVersion: "v2",
	}
}

func TestExportDayRendersFetchedPlan(t *testing.T) {
	binary, checksum := writeBinary(t)
	store := &memStore{manifests: []domain.Manifest{manifestFor(binary, checksum)}}
	host := &fakeHost{result: domain.RenderResult{Document: "# Agenda", MimeType: "text/markdown"}}
	planning := &fakePlanning{plan: samplePlan()}

	svc := service.NewExporterService(store, host, planning)
	out, err := svc.ExportDay(context.Background(), dto.ExportInput{Exporter: "reference", Format: "markdown", Date: "2025-03-03"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out.Document != "# Agenda" || out.MimeType != "text/markdown" {
		t.Fatalf("output = %+v", out)
	}
	if planning.liveCalls != 1 || planning.cachedCalls != 0 {
		t.Fatalf("live=%d cached=%d", planning.liveCalls, planning.cachedCalls)
	}

	var doc struct {
		Date      string `json:"date"`
		Scheduled []struct {
			Title string `json:"title"`
			Start string `json:"start"`
		} `json:"scheduled"`
		ModelVersion string `json:"model_version"`
	}
	if err := json.Unmarshal([]byte(host.lastRequest.PlanJSON), &doc); err != nil {
		t.Fatalf("decode render payload: %v", err)
	}
	if doc.Date != "2025-03-03" || len(doc.Scheduled) != 1 || doc.Scheduled[0].Title != "deep work" {
		t.Fatalf("render payload = %+v", doc)
	}
	if doc.ModelVersion != "v2" {
		t.Fatalf("model version = %q", doc.ModelVersion)
	}
}

func TestExportDayOfflineUsesCache(t *testing.T) {
	binary, checksum := writeBinary(t)
	store := &memStore{manifests: []domain.Manifest{manifestFor(binary, checksum)}}
	host := &fakeHost{result: domain.RenderResult{Document: "agenda", MimeType: "text/plain"}}
	planning := &fakePlanning{plan: samplePlan()}

	svc := service.NewExporterService(store, host, planning)
	_, err := svc.ExportDay(context.Background(), dto.ExportInput{Exporter: "reference", Format: "markdown", Date: "2025-03-03", Offline: true})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if planning.cachedCalls != 1 || planning.liveCalls != 0 {
		t.Fatalf("live=%d cached=%d", planning.liveCalls, planning.cachedCalls)
	}
}

func TestExportDayRejectsUnsupportedFormat(t *testing.T) {
	binary, checksum := writeBinary(t)
	store := &memStore{manifests: []domain.Manifest{manifestFor(binary, checksum)}}
	svc := service.NewExporterService(store, &fakeHost{}, &fakePlanning{})

	_, err := svc.ExportDay(context.Background(), dto.ExportInput{Exporter: "reference", Format: "ics", Date: "2025-03-03"})
	if !errors.Is(err, domain.ErrFormatUnsupported) {
		t.Fatalf("err = %v, want ErrFormatUnsupported", err)
	}
}

func TestExportDayRejectsChecksumMismatch(t *testing.T) {
	binary, _ := writeBinary(t)
	manifest := manifestFor(binary, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	store := &memStore{manifests: []domain.Manifest{manifest}}
	svc := service.NewExporterService(store, &fakeHost{}, &fakePlanning{})

	_, err := svc.ExportDay(context.Background(), dto.ExportInput{Exporter: "reference", Format: "markdown", Date: "2025-03-03"})
	if !errors.Is(err, domain.ErrChecksumMismatch) {
		t.Fatalf("err = %v, want ErrChecksumMismatch", err)
	}
}

func TestExportDayRejectsDisabledExporter(t *testing.T) {
	binary, checksum := writeBinary(t)
	manifest := manifestFor(binary, checksum)
	manifest.Enabled = false
	store := &memStore{manifests: []domain.Manifest{manifest}}
	svc := service.NewExporterService(store, &fakeHost{}, &fakePlanning{})

	_, err := svc.ExportDay(context.Background(), dto.ExportInput{Exporter: "reference", Format: "markdown", Date: "2025-03-03"})
	if !errors.Is(err, domain.ErrExporterDisabled) {
		t.Fatalf("err = %v, want ErrExporterDisabled", err)
	}
}

func TestExportDayRejectsEmptyDocument(t *testing.T) {
	binary, checksum := writeBinary(t)
	store := &memStore{manifests: []domain.Manifest{manifestFor(binary, checksum)}}
	svc := service.NewExporterService(store, &fakeHost{}, &fakePlanning{plan: samplePlan()})

	_, err := svc.ExportDay(context.Background(), dto.ExportInput{Exporter: "reference", Format: "markdown", Date: "2025-03-03"})
	if !errors.Is(err, domain.ErrEmptyDocument) {
		t.Fatalf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestExportDayUnknownExporter(t *testing.T) {
	svc := service.NewExporterService(&memStore{}, &fakeHost{}, &fakePlanning{})

	_, err := svc.ExportDay(context.Background(), dto.ExportInput{Exporter: "missing", Format: "markdown", Date: "2025-03-03"})
	if !errors.Is(err, domain.ErrExporterNotFound) {
		t.Fatalf("err = %v, want ErrExporterNotFound", err)
	}
}

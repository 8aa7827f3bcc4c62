package domain_test

import (
	"testing"

	"tempo/internal/modules/export/domain"
)

const sha = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		manifest  domain.Manifest
		shouldErr bool
	}{
		{name: "valid", manifest: domain.Manifest{Name: "e", Version: "1", Binary: "/tmp/e", SHA256: sha, Enabled: true, Formats: []domain.Format{domain.FormatMarkdown}}, shouldErr: false},
		{name: "missing name", manifest: domain.Manifest{Version: "1", Binary: "/tmp/e", SHA256: sha, Formats: []domain.Format{domain.FormatMarkdown}}, shouldErr: true},
		{name: "missing version", manifest: domain.Manifest{Name: "e", Binary: "/tmp/e", SHA256: sha, Formats: []domain.Format{domain.FormatMarkdown}}, shouldErr: true},
		{name: "missing binary", manifest: domain.Manifest{Name: "e", Version: "1", SHA256: sha, Formats: []domain.Format{domain.FormatMarkdown}}, shouldErr: true},
		{name: "bad sha", manifest: domain.Manifest{Name: "e", Version: "1", Binary: "/tmp/e", SHA256: "XYZ", Formats: []domain.Format{domain.FormatMarkdown}}, shouldErr: true},
		{name: "no formats", manifest: domain.Manifest{Name: "e", Version: "1", Binary: "/tmp/e", SHA256: sha}, shouldErr: true},
		{name: "unknown format", manifest: domain.Manifest{Name: "e", Version: "1", Binary: "/tmp/e", SHA256: sha, Formats: []domain.Format{"docx"}}, shouldErr: true},
		{name: "duplicate format", manifest: domain.Manifest{Name: "e", Version: "1", Binary: "/tmp/e", SHA256: sha, Formats: []domain.Format{domain.FormatText, domain.FormatText}}, shouldErr: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := tc.manifest.Validate()
			if tc.shouldErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.shouldErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestFormatSupportAndRequestValidation(t *testing.T) {
	t.Parallel()
	manifest := domain.Manifest{
		Name:    "e",
		Version: "1",
		Binary:  "/tmp/e",
		SHA256:  sha,
		Enabled: true,
		Formats: []domain.Format{domain.FormatMarkdown, domain.FormatText},
	}
	if !manifest.Supports(domain.FormatText) {
		t.Fatalf("expected text support")
	}
	if manifest.Supports(domain.FormatICS) {
		t.Fatalf("did not expect ics support")
	}
	if err := (domain.RenderRequest{Format: domain.FormatMarkdown, Date: "2025-03-03", PlanJSON: "{}"}).Validate(); err != nil {
		t.Fatalf("request validate: %v", err)
	}
	if err := (domain.RenderRequest{Format: domain.FormatMarkdown, PlanJSON: "{}"}).Validate(); err == nil {
		t.Fatalf("expected missing date error")
	}
	if err := (domain.RenderRequest{Format: domain.FormatMarkdown, Date: "2025-03-03"}).Validate(); err == nil {
		t.Fatalf("expected missing payload error")
	}
}

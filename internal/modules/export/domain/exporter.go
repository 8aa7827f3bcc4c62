package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// Format is a document format an exporter can render a day plan into.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatICS      Format = "ics"
)

var (
	ErrExporterDisabled  = errors.New("exporter is disabled")
	ErrChecksumMismatch  = errors.New("exporter checksum mismatch")
	ErrFormatUnsupported = errors.New("exporter format unsupported")
	ErrExporterTimeout   = errors.New("exporter timeout")
	ErrExporterNotFound  = errors.New("exporter not found")
	ErrEmptyDocument     = errors.New("exporter returned an empty document")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes one installed exporter binary. Exporters are separate
// processes; the checksum is verified before every launch.
type Manifest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Binary  string   `json:"binary"`
	SHA256  string   `json:"sha256"`
	Enabled bool     `json:"enabled"`
	Formats []Format `json:"formats"`
}

func (f Format) Validate() error {
	switch f {
	case FormatMarkdown, FormatText, FormatHTML, FormatICS:
		return nil
	default:
		return fmt.Errorf("unknown format: %s", f)
	}
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("exporter name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("exporter version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("exporter binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("exporter sha256 must be lowercase 64-char hex")
	}
	if len(m.Formats) == 0 {
		return fmt.Errorf("exporter formats are required")
	}
	seen := map[Format]struct{}{}
	for _, format := range m.Formats {
		if err := format.Validate(); err != nil {
			return err
		}
		if _, ok := seen[format]; ok {
			return fmt.Errorf("duplicate format: %s", format)
		}
		seen[format] = struct{}{}
	}
	return nil
}

func (m Manifest) Supports(format Format) bool {
	for _, f := range m.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Metadata is what a running exporter reports about itself.
type Metadata struct {
	Name    string
	Version string
	Formats []Format
}

// RenderRequest carries one day plan, already serialized, to an exporter.
type RenderRequest struct {
	Format   Format
	Date     string
	PlanJSON string
}

func (r RenderRequest) Validate() error {
	if err := r.Format.Validate(); err != nil {
		return err
	}
	if r.Date == "" {
		return fmt.Errorf("date is required")
	}
	if r.PlanJSON == "" {
		return fmt.Errorf("plan payload is required")
	}
	return nil
}

type RenderResult struct {
	Document string
	MimeType string
}

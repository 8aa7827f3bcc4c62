package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	exporterrpc "tempo/internal/modules/export/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type planDocument struct {
	Date            string     `json:"date"`
	Scheduled       []planItem `json:"scheduled"`
	Unscheduled     []backlog  `json:"unscheduled"`
	ModelVersion    string     `json:"model_version"`
	ModelConfidence float64    `json:"model_confidence"`
}

type planItem struct {
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Explanation string `json:"explanation"`
}

type backlog struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *exporterrpc.Empty) (*exporterrpc.Metadata, error) {
	return &exporterrpc.Metadata{
		Name:    "reference",
		Version: "1.0.0",
		Formats: []string{"markdown", "text"},
	}, nil
}

func (s *server) Render(_ context.Context, in *exporterrpc.RenderRequest) (*exporterrpc.RenderResponse, error) {
	var doc planDocument
	if err := json.Unmarshal([]byte(in.PlanJSON), &doc); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	switch in.Format {
	case "markdown":
		return &exporterrpc.RenderResponse{Document: renderMarkdown(in.Date, doc), MimeType: "text/markdown"}, nil
	case "text":
		return &exporterrpc.RenderResponse{Document: renderText(in.Date, doc), MimeType: "text/plain"}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", in.Format)
	}
}

func clock(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return t.Format("15:04")
}

func renderMarkdown(date string, doc planDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Agenda for %s\n\n", date)
	if len(doc.Scheduled) == 0 {
		b.WriteString("No scheduled items.\n")
	}
	for _, item := range doc.Scheduled {
		fmt.Fprintf(&b, "- **%s–%s** %s\n", clock(item.Start), clock(item.End), item.Title)
		if item.Explanation != "" {
			fmt.Fprintf(&b, "  - %s\n", item.Explanation)
		}
	}
	if len(doc.Unscheduled) > 0 {
		b.WriteString("\n## Backlog\n\n")
		for _, entry := range doc.Unscheduled {
			reason := entry.Reason
			if reason == "" {
				reason = "no available slot"
			}
			fmt.Fprintf(&b, "- %s (%s)\n", entry.Title, reason)
		}
	}
	if doc.ModelVersion != "" {
		fmt.Fprintf(&b, "\n_Planned by model %s_\n", doc.ModelVersion)
	}
	return b.String()
}

func renderText(date string, doc planDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Agenda for %s\n", date)
	if len(doc.Scheduled) == 0 {
		b.WriteString("No scheduled items.\n")
	}
	for _, item := range doc.Scheduled {
		fmt.Fprintf(&b, "%s-%s  %s\n", clock(item.Start), clock(item.End), item.Title)
	}
	for _, entry := range doc.Unscheduled {
		fmt.Fprintf(&b, "backlog: %s\n", entry.Title)
	}
	return b.String()
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: exporterrpc.HandshakeConfig,
		Plugins:         exporterrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}

package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	exporterrpc "tempo/internal/modules/export/adapter/out/rpc"
	"tempo/internal/modules/export/domain"
	exportout "tempo/internal/modules/export/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout  = 3 * time.Second
	defaultCallTimeout   = 5 * time.Second
	defaultRenderTimeout = 10 * time.Second
)

type GRPCHost struct{}

func NewGRPCHost() exportout.Host {
	return &GRPCHost{}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()
	if _, err := client.GetMetadata(callCtx); err != nil {
		return fmt.Errorf("get metadata: %w", err)
	}
	return nil
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultCallTimeout)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	formats := make([]domain.Format, 0, len(meta.Formats))
	for _, format := range meta.Formats {
		formats = append(formats, domain.Format(format))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Formats: formats}, nil
}

func (h *GRPCHost) Render(ctx context.Context, manifest domain.Manifest, req domain.RenderRequest) (domain.RenderResult, error) {
	client, closeFn, err := h.connect(manifest, defaultStartTimeout)
	if err != nil {
		return domain.RenderResult{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx, defaultRenderTimeout)
	defer cancel()
	response, err := client.Render(callCtx, &exporterrpc.RenderRequest{
		Format:   string(req.Format),
		Date:     req.Date,
		PlanJSON: req.PlanJSON,
	})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return domain.RenderResult{}, fmt.Errorf("%w: %s", domain.ErrExporterTimeout, manifest.Name)
		}
		return domain.RenderResult{}, fmt.Errorf("render: %w", err)
	}
	return domain.RenderResult{Document: response.Document, MimeType: response.MimeType}, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest, startTimeout time.Duration) (exporterrpc.TempoExporterClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  exporterrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          exporterrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start exporter client: %w", err)
	}
	raw, err := rpcClient.Dispense(exporterrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense exporter: %w", err)
	}
	typed, ok := raw.(exporterrpc.TempoExporterClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("exporter rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

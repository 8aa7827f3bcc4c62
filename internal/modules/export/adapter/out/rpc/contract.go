package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "tempo"
	serviceName       = "tempo.exporter.v1.TempoExporter"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodRender      = "/" + serviceName + "/Render"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "TEMPO_EXPORTER",
	MagicCookieValue: "tempo",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Formats []string `json:"formats"`
}

type RenderRequest struct {
	Format   string `json:"format"`
	Date     string `json:"date"`
	PlanJSON string `json:"plan_json"`
}

type RenderResponse struct {
	Document string `json:"document"`
	MimeType string `json:"mime_type"`
}

type TempoExporterServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Render(ctx context.Context, in *RenderRequest) (*RenderResponse, error)
}

type TempoExporterClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Render(ctx context.Context, in *RenderRequest) (*RenderResponse, error)
}

type tempoExporterClient struct {
	conn *grpc.ClientConn
}

func NewTempoExporterClient(conn *grpc.ClientConn) TempoExporterClient {
	return &tempoExporterClient{conn: conn}
}

func (c *tempoExporterClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tempoExporterClient) Render(ctx context.Context, in *RenderRequest) (*RenderResponse, error) {
	out := &RenderResponse{}
	if err := c.conn.Invoke(ctx, methodRender, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterTempoExporterServer(server grpc.ServiceRegistrar, impl TempoExporterServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*TempoExporterServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Render",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &RenderRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Render(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodRender}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*RenderRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Render(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/exporter-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl TempoExporterServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterTempoExporterServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewTempoExporterClient(conn), nil
}

func PluginMap(impl TempoExporterServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}

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
	PluginMapKey      = "catalog"
	serviceName       = "shelfmate.catalog.v1.CatalogPlugin"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodSearch      = "/" + serviceName + "/Search"
	methodLookupISBN  = "/" + serviceName + "/LookupISBN"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SHELFMATE_CATALOG_PLUGIN",
	MagicCookieValue: "shelfmate",
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
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

type Book struct {
	ISBN      string   `json:"isbn"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Publisher string   `json:"publisher,omitempty"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Contents  string   `json:"contents,omitempty"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int32  `json:"limit"`
}

type LookupISBNRequest struct {
	ISBNs []string `json:"isbns"`
}

type BooksResponse struct {
	Books []Book `json:"books"`
}

type CatalogPluginServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Search(ctx context.Context, in *SearchRequest) (*BooksResponse, error)
	LookupISBN(ctx context.Context, in *LookupISBNRequest) (*BooksResponse, error)
}

type CatalogPluginClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Search(ctx context.Context, in *SearchRequest) (*BooksResponse, error)
	LookupISBN(ctx context.Context, in *LookupISBNRequest) (*BooksResponse, error)
}

type catalogPluginClient struct {
	conn *grpc.ClientConn
}

func NewCatalogPluginClient(conn *grpc.ClientConn) CatalogPluginClient {
	return &catalogPluginClient{conn: conn}
}

func (c *catalogPluginClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *catalogPluginClient) Search(ctx context.Context, in *SearchRequest) (*BooksResponse, error) {
	out := &BooksResponse{}
	if err := c.conn.Invoke(ctx, methodSearch, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *catalogPluginClient) LookupISBN(ctx context.Context, in *LookupISBNRequest) (*BooksResponse, error) {
	out := &BooksResponse{}
	if err := c.conn.Invoke(ctx, methodLookupISBN, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// unary adapts a typed handler to grpc.MethodDesc, running interceptors when present.
func unary[Req any, Resp any](method string, newReq func() *Req, call func(context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterCatalogPluginServer(server grpc.ServiceRegistrar, impl CatalogPluginServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*CatalogPluginServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler:    unary(methodGetMetadata, func() *Empty { return &Empty{} }, impl.GetMetadata),
			},
			{
				MethodName: "Search",
				Handler:    unary(methodSearch, func() *SearchRequest { return &SearchRequest{} }, impl.Search),
			},
			{
				MethodName: "LookupISBN",
				Handler:    unary(methodLookupISBN, func() *LookupISBNRequest { return &LookupISBNRequest{} }, impl.LookupISBN),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/catalog-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl CatalogPluginServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterCatalogPluginServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewCatalogPluginClient(conn), nil
}

func PluginMap(impl CatalogPluginServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}

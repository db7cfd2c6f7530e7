package out

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	catalogrpc "shelfmate/internal/modules/catalog/adapter/out/rpc"
	"shelfmate/internal/modules/catalog/domain"
	catalogout "shelfmate/internal/modules/catalog/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCHost launches a catalog plugin process per call and talks to it over go-plugin's gRPC transport.
type GRPCHost struct {
	log         hclog.Logger
	callTimeout time.Duration
}

func NewGRPCHost(log hclog.Logger, callTimeout time.Duration) catalogout.Host {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	return &GRPCHost{log: log.Named("plugin"), callTimeout: callTimeout}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, h.callError(callCtx, manifest, "get metadata", err)
	}
	capabilities := make([]domain.Capability, 0, len(meta.Capabilities))
	for _, capability := range meta.Capabilities {
		capabilities = append(capabilities, domain.Capability(capability))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Capabilities: capabilities}, nil
}

func (h *GRPCHost) Search(ctx context.Context, manifest domain.Manifest, query string, limit int) ([]domain.Book, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	response, err := client.Search(callCtx, &catalogrpc.SearchRequest{Query: query, Limit: int32(limit)})
	if err != nil {
		return nil, h.callError(callCtx, manifest, "search", err)
	}
	return toBooks(response.Books), nil
}

func (h *GRPCHost) LookupISBN(ctx context.Context, manifest domain.Manifest, isbns []string) ([]domain.Book, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	response, err := client.LookupISBN(callCtx, &catalogrpc.LookupISBNRequest{ISBNs: isbns})
	if err != nil {
		return nil, h.callError(callCtx, manifest, "lookup isbn", err)
	}
	return toBooks(response.Books), nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (catalogrpc.CatalogPluginClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  catalogrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          catalogrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           h.log.Named(manifest.Name),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start plugin client: %w", err)
	}
	raw, err := rpcClient.Dispense(catalogrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense plugin: %w", err)
	}
	typed, ok := raw.(catalogrpc.CatalogPluginClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("plugin rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func (h *GRPCHost) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, h.callTimeout)
}

func (h *GRPCHost) callError(callCtx context.Context, manifest domain.Manifest, op string, err error) error {
	if callCtx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%w: %s %s", domain.ErrPluginTimeout, manifest.Name, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func toBooks(in []catalogrpc.Book) []domain.Book {
	out := make([]domain.Book, 0, len(in))
	for _, b := range in {
		out = append(out, domain.Book{
			ISBN:      b.ISBN,
			Title:     b.Title,
			Authors:   b.Authors,
			Publisher: b.Publisher,
			Thumbnail: b.Thumbnail,
			Contents:  b.Contents,
		}.Normalized())
	}
	return out
}

// Command jsoncatalog is a catalog plugin that answers lookups from a local JSON file.
//
// The file is read from $SHELFMATE_CATALOG_FILE, falling back to catalog.json next to the binary.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-plugin"

	catalogrpc "shelfmate/internal/modules/catalog/adapter/out/rpc"
)

const catalogFileEnv = "SHELFMATE_CATALOG_FILE"

type server struct {
	path string
}

func (s *server) GetMetadata(_ context.Context, _ *catalogrpc.Empty) (*catalogrpc.Metadata, error) {
	return &catalogrpc.Metadata{
		Name:         "jsoncatalog",
		Version:      "1.0.0",
		Capabilities: []string{"search", "isbn"},
	}, nil
}

func (s *server) Search(_ context.Context, in *catalogrpc.SearchRequest) (*catalogrpc.BooksResponse, error) {
	books, err := s.load()
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(strings.TrimSpace(in.Query))
	out := []catalogrpc.Book{}
	for _, b := range books {
		if query != "" && !strings.Contains(strings.ToLower(b.Title), query) {
			continue
		}
		out = append(out, b)
		if in.Limit > 0 && len(out) == int(in.Limit) {
			break
		}
	}
	return &catalogrpc.BooksResponse{Books: out}, nil
}

func (s *server) LookupISBN(_ context.Context, in *catalogrpc.LookupISBNRequest) (*catalogrpc.BooksResponse, error) {
	books, err := s.load()
	if err != nil {
		return nil, err
	}
	byISBN := map[string]catalogrpc.Book{}
	for _, b := range books {
		for _, isbn := range strings.Fields(b.ISBN) {
			byISBN[isbn] = b
		}
	}
	out := []catalogrpc.Book{}
	for _, isbn := range in.ISBNs {
		if b, ok := byISBN[isbn]; ok {
			b.ISBN = isbn
			out = append(out, b)
		}
	}
	return &catalogrpc.BooksResponse{Books: out}, nil
}

func (s *server) load() ([]catalogrpc.Book, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var books []catalogrpc.Book
	if err := json.Unmarshal(raw, &books); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return books, nil
}

func catalogPath() string {
	if path := os.Getenv(catalogFileEnv); path != "" {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		return "catalog.json"
	}
	return filepath.Join(filepath.Dir(exe), "catalog.json")
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: catalogrpc.HandshakeConfig,
		Plugins:         catalogrpc.PluginMap(&server{path: catalogPath()}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}

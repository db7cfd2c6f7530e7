package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	catalogout "shelfmate/internal/modules/catalog/adapter/out"
	"shelfmate/internal/modules/catalog/domain"
	catalogport "shelfmate/internal/modules/catalog/port/out"
	"shelfmate/internal/modules/catalog/service"
	apperrors "shelfmate/internal/platform/errors"
)

type fakeProvider struct {
	name  string
	books []domain.Book
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(context.Context, string, int) ([]domain.Book, error) {
	f.calls++
	return f.books, f.err
}

func (f *fakeProvider) LookupISBN(_ context.Context, isbns []string) ([]domain.Book, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.Book{}
	for _, b := range f.books {
		for _, isbn := range isbns {
			if b.ISBN == isbn {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

type fakeHost struct {
	books      []domain.Book
	searched   []string
	lifecycled []string
}

func (h *fakeHost) CheckLifecycle(_ context.Context, m domain.Manifest) error {
	h.lifecycled = append(h.lifecycled, m.Name)
	return nil
}

func (h *fakeHost) GetMetadata(_ context.Context, m domain.Manifest) (domain.Metadata, error) {
	return domain.Metadata{Name: m.Name, Version: m.Version, Capabilities: m.Capabilities}, nil
}

func (h *fakeHost) Search(_ context.Context, m domain.Manifest, _ string, _ int) ([]domain.Book, error) {
	h.searched = append(h.searched, m.Name)
	return h.books, nil
}

func (h *fakeHost) LookupISBN(_ context.Context, m domain.Manifest, _ []string) ([]domain.Book, error) {
	h.searched = append(h.searched, m.Name)
	return h.books, nil
}

func TestSearchFallsThroughFailingProvider(t *testing.T) {
	t.Parallel()
	broken := &fakeProvider{name: "broken", err: errors.New("boom")}
	good := &fakeProvider{name: "good", books: []domain.Book{{ISBN: "1", Title: "One"}, {ISBN: "2", Title: "Two"}}}
	svc := service.NewCatalogService([]catalogport.Provider{broken, good}, nil, nil, nil)

	books, provider, err := svc.Search(context.Background(), "one", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if provider != "good" || len(books) != 1 || books[0].ISBN != "1" {
		t.Fatalf("unexpected result provider=%s books=%+v", provider, books)
	}
}

func TestSearchEmptyAnswerIsNotAFailure(t *testing.T) {
	t.Parallel()
	empty := &fakeProvider{name: "empty"}
	broken := &fakeProvider{name: "broken", err: errors.New("boom")}
	svc := service.NewCatalogService([]catalogport.Provider{empty, broken}, nil, nil, nil)
	books, _, err := svc.Search(context.Background(), "nothing", 5)
	if err != nil || len(books) != 0 {
		t.Fatalf("expected empty result without error, got %v err=%v", books, err)
	}
	if broken.calls != 1 {
		t.Fatalf("expected the chain to keep asking after an empty answer")
	}
}

func TestAllProvidersFailingIsLookupUnavailable(t *testing.T) {
	t.Parallel()
	svc := service.NewCatalogService([]catalogport.Provider{&fakeProvider{name: "a", err: errors.New("down")}}, nil, nil, nil)
	if _, _, err := svc.Search(context.Background(), "x", 5); !errors.Is(err, apperrors.ErrLookupUnavailable) {
		t.Fatalf("expected lookup unavailable, got %v", err)
	}
	none := service.NewCatalogService(nil, nil, nil, nil)
	if _, _, err := none.LookupISBN(context.Background(), []string{"1"}); !errors.Is(err, apperrors.ErrLookupUnavailable) {
		t.Fatalf("expected lookup unavailable without providers, got %v", err)
	}
	if _, _, err := none.Search(context.Background(), "  ", 5); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank query, got %v", err)
	}
	if _, _, err := none.LookupISBN(context.Background(), []string{" "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank isbn, got %v", err)
	}
}

func TestLookupISBNNormalizesBeforeAsking(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{name: "p", books: []domain.Book{{ISBN: "8936433598", Title: "채식주의자"}}}
	svc := service.NewCatalogService([]catalogport.Provider{p}, nil, nil, nil)
	books, _, err := svc.LookupISBN(context.Background(), []string{"8936433598 9788936433598"})
	if err != nil || len(books) != 1 {
		t.Fatalf("expected one book, got %v err=%v", books, err)
	}
}

func writePlugin(t *testing.T, dir string, payload string, checksum string, caps ...domain.Capability) string {
	t.Helper()
	binPath := filepath.Join(dir, "catalog-plugin")
	if err := os.WriteFile(binPath, []byte(payload), 0o755); err != nil {
		t.Fatalf("write plugin binary: %v", err)
	}
	if checksum == "" {
		sum := sha256.Sum256([]byte(payload))
		checksum = hex.EncodeToString(sum[:])
	}
	raw, _ := json.Marshal([]domain.Manifest{{
		Name:         "shelf",
		Version:      "1.0.0",
		Binary:       binPath,
		SHA256:       checksum,
		Enabled:      true,
		Capabilities: caps,
	}})
	path := filepath.Join(dir, "plugins.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
	return path
}

func TestVerifiedPluginJoinsTheChain(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writePlugin(t, dir, "plugin-bytes", "", domain.CapabilitySearch)
	host := &fakeHost{books: []domain.Book{{ISBN: "9", Title: "From plugin"}}}
	svc := service.NewCatalogService([]catalogport.Provider{&fakeProvider{name: "down", err: errors.New("down")}}, catalogout.NewFileManifestStore(path), host, nil)

	books, provider, err := svc.Search(context.Background(), "x", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if provider != "plugin:shelf" || len(books) != 1 {
		t.Fatalf("unexpected provider=%s books=%+v", provider, books)
	}
	if _, _, err := svc.LookupISBN(context.Background(), []string{"9"}); !errors.Is(err, apperrors.ErrLookupUnavailable) {
		t.Fatalf("plugin without isbn capability must not answer lookups, got %v", err)
	}
}

func TestChecksumMismatchKeepsPluginOut(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writePlugin(t, dir, "plugin-bytes", strings.Repeat("0", 64), domain.CapabilitySearch)
	host := &fakeHost{books: []domain.Book{{ISBN: "9"}}}
	svc := service.NewCatalogService(nil, catalogout.NewFileManifestStore(path), host, nil)
	if _, _, err := svc.Search(context.Background(), "x", 5); !errors.Is(err, apperrors.ErrLookupUnavailable) {
		t.Fatalf("expected lookup unavailable, got %v", err)
	}
	if len(host.searched) != 0 {
		t.Fatalf("unverified plugin must not be launched")
	}

	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 1 || results[0].ChecksumValid || !results[0].BinaryReachable || results[0].Error != "checksum mismatch" {
		t.Fatalf("unexpected doctor result: %+v", results)
	}
	if len(host.lifecycled) != 0 {
		t.Fatalf("lifecycle must not run on checksum mismatch")
	}
}

func TestDoctorChecksLifecycleOfHealthyPlugin(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writePlugin(t, dir, "plugin-bytes", "", domain.CapabilitySearch, domain.CapabilityISBN)
	host := &fakeHost{}
	svc := service.NewCatalogService(nil, catalogout.NewFileManifestStore(path), host, nil)
	results, err := svc.Doctor(context.Background())
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if len(results) != 1 || !results[0].LifecycleOK || results[0].Error != "" {
		t.Fatalf("unexpected doctor result: %+v", results)
	}
	plugins, err := svc.ListPlugins(context.Background())
	if err != nil || len(plugins) != 1 || len(plugins[0].Capabilities) != 2 {
		t.Fatalf("unexpected plugins %+v err=%v", plugins, err)
	}
}

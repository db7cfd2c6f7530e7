package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"

	"shelfmate/internal/modules/catalog/domain"
	"shelfmate/internal/modules/catalog/dto"
	catalogout "shelfmate/internal/modules/catalog/port/out"
	apperrors "shelfmate/internal/platform/errors"
)

// CatalogService asks each provider in order and falls through on failure or an empty answer.
// Registered plugins follow the static providers.
type CatalogService struct {
	providers []catalogout.Provider
	store     catalogout.ManifestStore
	host      catalogout.Host
	log       hclog.Logger
}

func NewCatalogService(providers []catalogout.Provider, store catalogout.ManifestStore, host catalogout.Host, log hclog.Logger) *CatalogService {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &CatalogService{providers: providers, store: store, host: host, log: log}
}

type source struct {
	name   string
	search func(ctx context.Context, query string, limit int) ([]domain.Book, error)
	lookup func(ctx context.Context, isbns []string) ([]domain.Book, error)
}

func (s *CatalogService) Search(ctx context.Context, query string, limit int) ([]domain.Book, string, error) {
	query, err := domain.ValidateQuery(query)
	if err != nil {
		return nil, "", err
	}
	limit = domain.ClampLimit(limit)
	return s.firstAnswer(ctx, "search", domain.CapabilitySearch, func(ctx context.Context, src source) ([]domain.Book, error) {
		books, err := src.search(ctx, query, limit)
		if len(books) > limit {
			books = books[:limit]
		}
		return books, err
	})
}

func (s *CatalogService) LookupISBN(ctx context.Context, raw []string) ([]domain.Book, string, error) {
	isbns := domain.NormalizeISBNs(raw)
	if len(isbns) == 0 {
		return nil, "", apperrors.Invalid("at least one isbn is required")
	}
	return s.firstAnswer(ctx, "lookup isbn", domain.CapabilityISBN, func(ctx context.Context, src source) ([]domain.Book, error) {
		return src.lookup(ctx, isbns)
	})
}

func (s *CatalogService) firstAnswer(ctx context.Context, op string, capability domain.Capability, call func(context.Context, source) ([]domain.Book, error)) ([]domain.Book, string, error) {
	sources := s.sources(ctx, capability)
	answered := false
	var failures []error
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrLookupUnavailable, op, err)
		}
		books, err := call(ctx, src)
		if err != nil {
			s.log.Debug("lookup provider failed", "provider", src.name, "op", op, "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", src.name, err))
			continue
		}
		answered = true
		if len(books) > 0 {
			return books, src.name, nil
		}
	}
	if answered {
		return []domain.Book{}, "", nil
	}
	if len(failures) == 0 {
		return nil, "", apperrors.Wrap(apperrors.ErrLookupUnavailable, op, errors.New("no lookup provider configured"))
	}
	return nil, "", apperrors.Wrap(apperrors.ErrLookupUnavailable, op, errors.Join(failures...))
}

func (s *CatalogService) sources(ctx context.Context, capability domain.Capability) []source {
	out := make([]source, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, source{name: p.Name(), search: p.Search, lookup: p.LookupISBN})
	}
	if s.store == nil || s.host == nil {
		return out
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		s.log.Warn("catalog plugins skipped", "error", err)
		return out
	}
	for _, m := range manifests {
		if !m.Enabled || !m.HasCapability(capability) {
			continue
		}
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			s.log.Warn("catalog plugin skipped", "plugin", m.Name, "error", err)
			continue
		}
		manifest := m
		out = append(out, source{
			name: "plugin:" + manifest.Name,
			search: func(ctx context.Context, query string, limit int) ([]domain.Book, error) {
				return s.host.Search(ctx, manifest, query, limit)
			},
			lookup: func(ctx context.Context, isbns []string) ([]domain.Book, error) {
				return s.host.LookupISBN(ctx, manifest, isbns)
			},
		})
	}
	return out
}

func (s *CatalogService) ListPlugins(ctx context.Context) ([]dto.PluginInfo, error) {
	if s.store == nil {
		return []dto.PluginInfo{}, nil
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PluginInfo, 0, len(manifests))
	for _, m := range manifests {
		caps := make([]string, 0, len(m.Capabilities))
		for _, c := range m.Capabilities {
			caps = append(caps, string(c))
		}
		out = append(out, dto.PluginInfo{Name: m.Name, Version: m.Version, Enabled: m.Enabled, Binary: m.Binary, Capabilities: caps})
	}
	return out, nil
}

func (s *CatalogService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	if s.store == nil {
		return []dto.DoctorResult{}, nil
	}
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.BinaryReachable = fileExists(m.Binary)
		if result.BinaryReachable {
			result.ChecksumValid = checksumMatches(m.Binary, m.SHA256) == nil
		}
		switch {
		case !result.BinaryReachable:
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
		case !result.ChecksumValid:
			result.Error = "checksum mismatch"
		case m.Enabled && s.host != nil:
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *CatalogService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate plugin name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

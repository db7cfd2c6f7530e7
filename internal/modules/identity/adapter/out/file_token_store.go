package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	identityout "shelfmate/internal/modules/identity/port/out"
	apperrors "shelfmate/internal/platform/errors"
)

type tokenFile struct {
	Token string `json:"token"`
}

type FileTokenStore struct {
	path string
}

func NewFileTokenStore(stateDir string) identityout.TokenStore {
	return &FileTokenStore{path: filepath.Join(stateDir, "identity.json")}
}

func (s *FileTokenStore) Save(_ context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create identity dir: %w", err)
	}
	payload, err := json.MarshalIndent(tokenFile{Token: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("write identity: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Load(_ context.Context) (string, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.ErrUnauthenticated
		}
		return "", fmt.Errorf("read identity: %w", err)
	}
	var stored tokenFile
	if err := json.Unmarshal(payload, &stored); err != nil {
		return "", fmt.Errorf("decode identity: %w", err)
	}
	if stored.Token == "" {
		return "", apperrors.ErrUnauthenticated
	}
	return stored.Token, nil
}

func (s *FileTokenStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}

package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"shelfmate/internal/modules/session/domain"
	sessionout "shelfmate/internal/modules/session/port/out"
	apperrors "shelfmate/internal/platform/errors"
)

// FileActiveSessionStore keeps one JSON file per user so a timer survives between CLI runs.
type FileActiveSessionStore struct {
	dir string
}

func NewFileActiveSessionStore(stateDir string) sessionout.ActiveSessionStore {
	return &FileActiveSessionStore{dir: filepath.Join(stateDir, "active")}
}

func (s *FileActiveSessionStore) path(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

func (s *FileActiveSessionStore) SaveActive(_ context.Context, session domain.ActiveSession) error {
	if session.UserID == "" || filepath.Base(session.UserID) != session.UserID {
		return apperrors.Invalid("active session needs a valid user id")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create active session dir: %w", err)
	}
	payload, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal active session: %w", err)
	}
	// O_EXCL makes the existence check and the write one step across processes.
	f, err := os.OpenFile(s.path(session.UserID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return apperrors.ErrActiveSessionExists
		}
		return fmt.Errorf("create active session: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return fmt.Errorf("write active session: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("close active session: %w", err)
	}
	return nil
}

func (s *FileActiveSessionStore) LoadActive(_ context.Context, userID string) (domain.ActiveSession, error) {
	payload, err := os.ReadFile(s.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ActiveSession{}, apperrors.ErrNoActiveSession
		}
		return domain.ActiveSession{}, fmt.Errorf("read active session: %w", err)
	}
	active := domain.ActiveSession{}
	if err := json.Unmarshal(payload, &active); err != nil {
		return domain.ActiveSession{}, fmt.Errorf("decode active session: %w", err)
	}
	if active.SessionID == "" || active.UserID != userID {
		return domain.ActiveSession{}, apperrors.ErrNoActiveSession
	}
	return active, nil
}

func (s *FileActiveSessionStore) ClearActive(_ context.Context, userID string) error {
	if err := os.Remove(s.path(userID)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}

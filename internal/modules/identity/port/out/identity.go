package out

import (
	"context"
	"time"

	"shelfmate/internal/modules/identity/domain"
)

type UserStore interface {
	Create(ctx context.Context, user domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateNickname(ctx context.Context, id, nickname string, at time.Time) error
	AddPoints(ctx context.Context, userID, missionID string, points int, at time.Time) (bool, error)
	IncrementBooksRead(ctx context.Context, userID string, at time.Time) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil only when password matches hash.
	Compare(hash, password string) error
}

type TokenStore interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

type TokenSigner interface {
	Issue(userID, email string, now time.Time) (string, time.Time, error)
	Verify(token string, now time.Time) (Claims, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"shelfmate/internal/modules/identity/domain"
	identityout "shelfmate/internal/modules/identity/port/out"
	"shelfmate/internal/platform/clock"
	apperrors "shelfmate/internal/platform/errors"
	"shelfmate/internal/platform/id"
)

var errBadCredentials = fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthenticated)

type IdentityService struct {
	clock  clock.Clock
	idGen  id.Generator
	users  identityout.UserStore
	tokens identityout.TokenStore
	signer identityout.TokenSigner
	hasher identityout.PasswordHasher
	log    hclog.Logger

	mu          sync.Mutex
	nextSubID   int
	subscribers map[int]func(string)
}

func NewIdentityService(clock clock.Clock, idGen id.Generator, users identityout.UserStore, tokens identityout.TokenStore, signer identityout.TokenSigner, hasher identityout.PasswordHasher, log hclog.Logger) *IdentityService {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &IdentityService{
		clock:       clock,
		idGen:       idGen,
		users:       users,
		tokens:      tokens,
		signer:      signer,
		hasher:      hasher,
		log:         log,
		subscribers: map[int]func(string){},
	}
}

func (s *IdentityService) Register(ctx context.Context, email, nickname, password string) (domain.User, error) {
	email, err := domain.NormalizeEmail(email)
	if err != nil {
		return domain.User{}, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return domain.User{}, err
	}
	if nickname == "" {
		nickname = domain.DefaultNickname(email)
	}
	nickname, err = domain.ValidateNickname(nickname)
	if err != nil {
		return domain.User{}, err
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.User{}, apperrors.Invalid("email is already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return domain.User{}, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}
	now := s.clock.Now()
	user := domain.User{ID: s.idGen.New(), Email: email, Nickname: nickname, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login answers an unknown email and a wrong password with the same error.
func (s *IdentityService) Login(ctx context.Context, email, password string) (domain.User, identityout.Claims, error) {
	email, err := domain.NormalizeEmail(email)
	if err != nil {
		return domain.User{}, identityout.Claims{}, err
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.User{}, identityout.Claims{}, errBadCredentials
		}
		return domain.User{}, identityout.Claims{}, err
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.log.Debug("login rejected", "user_id", user.ID, "error", err)
		return domain.User{}, identityout.Claims{}, errBadCredentials
	}
	token, expiresAt, err := s.signer.Issue(user.ID, user.Email, s.clock.Now())
	if err != nil {
		return domain.User{}, identityout.Claims{}, err
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		return domain.User{}, identityout.Claims{}, err
	}
	s.notify(user.ID)
	return user, identityout.Claims{UserID: user.ID, Email: user.Email, ExpiresAt: expiresAt}, nil
}

func (s *IdentityService) Logout(ctx context.Context) error {
	if err := s.tokens.Clear(ctx); err != nil {
		return err
	}
	s.notify("")
	return nil
}

func (s *IdentityService) Current(ctx context.Context) (string, error) {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		return "", err
	}
	claims, err := s.signer.Verify(token, s.clock.Now())
	if err != nil {
		s.log.Debug("stored token rejected", "error", err)
		return "", apperrors.ErrUnauthenticated
	}
	return claims.UserID, nil
}

func (s *IdentityService) CurrentUser(ctx context.Context) (domain.User, error) {
	uid, err := s.Current(ctx)
	if err != nil {
		return domain.User{}, err
	}
	user, err := s.users.FindByID(ctx, uid)
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.User{}, apperrors.ErrUnauthenticated
	}
	return user, err
}

func (s *IdentityService) Rename(ctx context.Context, nickname string) (domain.User, error) {
	user, err := s.CurrentUser(ctx)
	if err != nil {
		return domain.User{}, err
	}
	nickname, err = domain.ValidateNickname(nickname)
	if err != nil {
		return domain.User{}, err
	}
	now := s.clock.Now()
	if err := s.users.UpdateNickname(ctx, user.ID, nickname, now); err != nil {
		return domain.User{}, err
	}
	user.Nickname = nickname
	user.UpdatedAt = now
	return user, nil
}

func (s *IdentityService) CreditPoints(ctx context.Context, userID, missionID string, points int) (bool, error) {
	if userID == "" || missionID == "" {
		return false, apperrors.Invalid("user id and mission id are required")
	}
	if points <= 0 {
		return false, apperrors.Invalid("points must be positive")
	}
	credited, err := s.users.AddPoints(ctx, userID, missionID, points, s.clock.Now())
	if err != nil {
		return false, err
	}
	if credited {
		s.log.Info("points credited", "user_id", userID, "mission_id", missionID, "points", points)
	}
	return credited, nil
}

func (s *IdentityService) RecordBookFinished(ctx context.Context, userID string) error {
	return s.users.IncrementBooksRead(ctx, userID, s.clock.Now())
}

func (s *IdentityService) Subscribe(fn func(string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.nextSubID
	s.nextSubID++
	s.subscribers[key] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, key)
	}
}

func (s *IdentityService) notify(userID string) {
	s.mu.Lock()
	fns := make([]func(string), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(userID)
	}
}

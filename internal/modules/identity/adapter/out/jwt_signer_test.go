package out_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	identityout "shelfmate/internal/modules/identity/adapter/out"
)

func TestJWTSignerRoundTripAndExpiry(t *testing.T) {
	t.Parallel()
	signer, err := identityout.NewJWTSigner([]byte("secret"), time.Hour)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	token, expiresAt, err := signer.Issue("u1", "a@example.com", now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}
	claims, err := signer.Verify(token, now.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if _, err := signer.Verify(token, now.Add(2*time.Hour)); err == nil {
		t.Fatalf("expected expired token to fail")
	}
	other, _ := identityout.NewJWTSigner([]byte("other"), time.Hour)
	if _, err := other.Verify(token, now); err == nil {
		t.Fatalf("expected foreign key to fail")
	}
}

func TestLoadOrCreateKeyPersists(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state", "token.key")
	first, err := identityout.LoadOrCreateKey(path)
	if err != nil {
		t.Fatalf("create key: %v", err)
	}
	second, err := identityout.LoadOrCreateKey(path)
	if err != nil {
		t.Fatalf("load key: %v", err)
	}
	if string(first) != string(second) || len(first) != 64 {
		t.Fatalf("expected stable 64-char key, got %q and %q", first, second)
	}
	info, err := os.Stat(path)
	if err != nil || info.Mode().Perm() != 0o600 {
		t.Fatalf("expected private key file, got %v err=%v", info, err)
	}
}

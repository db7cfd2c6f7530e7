package out_test

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	identityout "shelfmate/internal/modules/identity/adapter/out"
	apperrors "shelfmate/internal/platform/errors"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	t.Parallel()
	h := identityout.NewBcryptHasher(bcrypt.MinCost)
	hash, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse" || !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("unexpected hash %q", hash)
	}
	if err := h.Compare(hash, "correct horse"); err != nil {
		t.Fatalf("compare matching password: %v", err)
	}
	if err := h.Compare(hash, "wrong horse"); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for wrong password, got %v", err)
	}
	if err := h.Compare("", "correct horse"); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for empty hash, got %v", err)
	}
}

package domain

import (
	"net/mail"
	"strings"
	"time"

	apperrors "shelfmate/internal/platform/errors"
)

const (
	maxNicknameRunes = 24
	minPasswordRunes = 6
	maxPasswordBytes = 72
)

type User struct {
	ID             string
	Email          string
	Nickname       string
	PasswordHash   string
	TotalPoints    int
	BooksReadCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NormalizeEmail lowercases the address and rejects anything mail.ParseAddress refuses.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperrors.Invalid("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperrors.Invalid("email is malformed")
	}
	return email, nil
}

// DefaultNickname uses the local part of the address.
func DefaultNickname(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func ValidateNickname(nickname string) (string, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return "", apperrors.Invalid("nickname is required")
	}
	if len([]rune(nickname)) > maxNicknameRunes {
		return "", apperrors.Invalid("nickname is too long")
	}
	return nickname, nil
}

// ValidatePassword enforces the length bounds; bcrypt ignores bytes past 72.
func ValidatePassword(password string) error {
	if len([]rune(password)) < minPasswordRunes {
		return apperrors.Invalid("password must be at least 6 characters")
	}
	if len(password) > maxPasswordBytes {
		return apperrors.Invalid("password is too long")
	}
	return nil
}

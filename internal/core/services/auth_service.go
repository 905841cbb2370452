package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
)

const bcryptCost = 12

type AuthService struct {
	passwordHash []byte
	tokens       *TokenService
}

func NewAuthService(passwordHash string, tokens *TokenService) *AuthService {
	return &AuthService{
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
	}
}

// Login checks the admin password and issues a token.
func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	if len(s.passwordHash) == 0 {
		log.Warn("[AUTH] Login attempted but no admin password hash is configured")
		return "", domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("auth service: failed to check password: %w", err)
	}

	return s.tokens.GenerateToken(AdminSubject)
}

// HashPassword produces the value expected in ADMIN_PASSWORD_HASH.
func HashPassword(plain string) (string, error) {
	if utf8.RuneCountInString(plain) < 8 {
		return "", domain.ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

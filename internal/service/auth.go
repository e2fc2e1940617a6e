package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPassword = errors.New("invalid password")

const (
	TokenSubject = "dashboard"
	TokenTTL     = 24 * time.Hour
)

// AuthService checks the single dashboard password and issues bearer tokens.
type AuthService struct {
	passwordHash []byte
	secret       []byte
	now          func() time.Time
}

func NewAuthService(passwordHash, secret string) *AuthService {
	return &AuthService{
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		now:          time.Now,
	}
}

func (s *AuthService) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   TokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

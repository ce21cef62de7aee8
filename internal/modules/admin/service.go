package admin

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"playhouse/internal/pkg/jwt"
)

const subject = "admin"

type tokenIssuer interface {
	GenerateToken(subject, role string) (string, error)
	TTL() time.Duration
}

// Service checks the shared admin password and issues session tokens.
type Service struct {
	hash []byte
	jwt  tokenIssuer
	log  *zap.Logger
}

// PasswordHash returns hash when set, otherwise a bcrypt hash of plain.
func PasswordHash(plain, hash string) ([]byte, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH: %w", err)
		}
		return []byte(hash), nil
	}
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

func NewService(passwordHash []byte, issuer tokenIssuer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{hash: passwordHash, jwt: issuer, log: log}
}

func (s *Service) TTL() time.Duration { return s.jwt.TTL() }

// Login returns a signed admin token when password matches.
func (s *Service) Login(_ context.Context, password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		s.log.Warn("admin login rejected")
		return "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(subject, jwt.RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	s.log.Info("admin login")
	return token, nil
}

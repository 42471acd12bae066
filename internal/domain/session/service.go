package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

const DefaultTTL = 24 * time.Hour

var ErrInvalidSession = errors.New("invalid session")

type Servicer interface {
	Create(ctx context.Context, uid string) (string, error)
	Validate(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

type Service struct {
	repo Repository
	log  *slog.Logger
	ttl  time.Duration
}

func NewService(repo Repository, log *slog.Logger, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		repo: repo,
		log:  log.With("component", "session_service"),
		ttl:  ttl,
	}
}

// Create выпускает bearer-токен для uid. В базе хранится только sha256 от токена.
func (s *Service) Create(ctx context.Context, uid string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	token := base64.URLEncoding.EncodeToString(tokenBytes)

	expiresAt := time.Now().Add(s.ttl)
	if err := s.repo.Create(ctx, uid, hashToken(token), expiresAt); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	return token, nil
}

// Validate возвращает uid владельца действующего токена.
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	uid, err := s.repo.Validate(ctx, hashToken(token))
	if err != nil {
		s.log.Debug("session rejected", "error", err)
		return "", ErrInvalidSession
	}
	return uid, nil
}

func (s *Service) Revoke(ctx context.Context, token string) error {
	return s.repo.Delete(ctx, hashToken(token))
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

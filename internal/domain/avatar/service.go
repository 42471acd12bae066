package avatar

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	Upload(ctx context.Context, uid, key, contentType string, data []byte) error
	Sign(ctx context.Context, uid, key string, ttl time.Duration) (string, error)
	Open(ctx context.Context, token string) (Object, error)
}

type Service struct {
	repo   Repository
	signer *Signer
	log    *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, signer *Signer, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		signer: signer,
		log:    log.With("component", "avatar_service"),
		now:    time.Now,
	}
}

// Upload кладет объект в бакет avatars, перезаписывая существующий.
func (s *Service) Upload(ctx context.Context, uid, key, contentType string, data []byte) error {
	if err := CheckKey(uid, key); err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrEmpty
	}
	if len(data) > MaxSize {
		return ErrTooLarge
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	err := s.repo.Put(ctx, Object{
		Bucket:      Bucket,
		Key:         key,
		ContentType: contentType,
		Data:        data,
		UpdatedAt:   s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}

	s.log.Debug("avatar uploaded", "key", key, "size", len(data))
	return nil
}

// Sign выдает токен для чтения объекта в течение ttl.
func (s *Service) Sign(ctx context.Context, uid, key string, ttl time.Duration) (string, error) {
	if err := CheckKey(uid, key); err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if ttl > MaxTTL {
		ttl = MaxTTL
	}

	ok, err := s.repo.Exists(ctx, Bucket, key)
	if err != nil {
		return "", fmt.Errorf("check object: %w", err)
	}
	if !ok {
		return "", ErrNotFound
	}

	return s.signer.Sign(Bucket+"/"+key, ttl)
}

// Open возвращает объект по токену подписанной ссылки.
func (s *Service) Open(ctx context.Context, token string) (Object, error) {
	path, err := s.signer.Verify(token)
	if err != nil {
		return Object{}, err
	}

	bucket, key, found := strings.Cut(path, "/")
	if !found || bucket != Bucket {
		return Object{}, ErrInvalidToken
	}

	return s.repo.Get(ctx, bucket, key)
}

// CheckKey проверяет, что ключ лежит в пространстве владельца: "<uid>/<file>".
func CheckKey(uid, key string) error {
	if key == "" || strings.HasSuffix(key, "/") || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	if uid == "" || !strings.HasPrefix(key, uid+"/") {
		return ErrForbiddenKey
	}
	return nil
}

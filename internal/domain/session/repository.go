package session

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, uid, tokenHash string, expiresAt time.Time) error
	Validate(ctx context.Context, tokenHash string) (string, error)
	Delete(ctx context.Context, tokenHash string) error
}

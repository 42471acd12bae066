package postgres

import (
	"context"
	"errors"
	"fmt"

	"clubmembers/internal/domain/avatar"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

// AvatarRepository хранит объекты бакетов в таблице storage_objects.
type AvatarRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewAvatarRepository(pool *pgxpool.Pool, log *slog.Logger) *AvatarRepository {
	return &AvatarRepository{
		pool: pool,
		log:  log.With("component", "avatar_repository"),
	}
}

func (r *AvatarRepository) Put(ctx context.Context, obj avatar.Object) error {
	const query = `
		INSERT INTO storage_objects (bucket, key, content_type, data, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (bucket, key) DO UPDATE SET
			content_type = EXCLUDED.content_type,
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.pool.Exec(ctx, query, obj.Bucket, obj.Key, obj.ContentType, obj.Data); err != nil {
		r.log.Error("failed to put object", "bucket", obj.Bucket, "key", obj.Key, "error", err)
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (r *AvatarRepository) Get(ctx context.Context, bucket, key string) (avatar.Object, error) {
	const query = `
		SELECT bucket, key, content_type, data, updated_at
		FROM storage_objects
		WHERE bucket = $1 AND key = $2`

	var obj avatar.Object
	err := r.pool.QueryRow(ctx, query, bucket, key).
		Scan(&obj.Bucket, &obj.Key, &obj.ContentType, &obj.Data, &obj.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return avatar.Object{}, avatar.ErrNotFound
		}
		r.log.Error("failed to get object", "bucket", bucket, "key", key, "error", err)
		return avatar.Object{}, fmt.Errorf("get object: %w", err)
	}
	return obj, nil
}

func (r *AvatarRepository) Exists(ctx context.Context, bucket, key string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM storage_objects WHERE bucket = $1 AND key = $2)`

	var ok bool
	if err := r.pool.QueryRow(ctx, query, bucket, key).Scan(&ok); err != nil {
		return false, fmt.Errorf("check object: %w", err)
	}
	return ok, nil
}

package member

import (
	"context"
	"time"
)

// Repository хранилище записей на стороне сервера.
type Repository interface {
	List(ctx context.Context, uid string, onlyLive bool) ([]Member, error)
	Get(ctx context.Context, id int64) (Member, error)
	Upsert(ctx context.Context, m Member) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
}

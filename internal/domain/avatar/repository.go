package avatar

import "context"

type Repository interface {
	Put(ctx context.Context, obj Object) error
	Get(ctx context.Context, bucket, key string) (Object, error)
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

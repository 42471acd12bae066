package payment

import "context"

// Repository хранилище оплат. Доступ ограничен записями владельца uid.
type Repository interface {
	ListByMember(ctx context.Context, uid string, memberID int64) ([]Payment, error)
	Insert(ctx context.Context, uid string, p Payment) (Payment, error)
	Upsert(ctx context.Context, uid string, p Payment) error
}

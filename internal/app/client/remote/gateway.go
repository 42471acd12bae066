package remote

import (
	"context"
	"time"

	"clubmembers/internal/domain/member"
	"clubmembers/internal/domain/payment"
)

// Snapshot удаленный набор записей владельца.
// Skipped - идентификаторы строк, которые не удалось разобрать: на сервере они есть,
// но их содержимое неизвестно.
type Snapshot struct {
	Members []member.Member
	Skipped []int64
}

// Gateway доступ к удаленному авторитетному хранилищу.
type Gateway interface {
	// FetchMembers возвращает записи владельца; onlyLive отбрасывает удаленные на стороне сервера.
	FetchMembers(ctx context.Context, onlyLive bool) (Snapshot, error)
	UpsertMember(ctx context.Context, m member.Member) error
	// DeleteMember выполняет мягкое удаление на сервере.
	DeleteMember(ctx context.Context, id int64) error

	// FetchPayments возвращает оплаты участника, новые первыми.
	FetchPayments(ctx context.Context, memberID int64) ([]payment.Payment, error)
	InsertPayment(ctx context.Context, p payment.Payment) (payment.Payment, error)
	UpsertPayment(ctx context.Context, p payment.Payment) error

	UploadAvatar(ctx context.Context, key string, data []byte, contentType string) error
	SignedAvatarURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// TokenSource отдает текущий bearer-токен; пустая строка означает отсутствие сессии.
type TokenSource interface {
	Token() string
}

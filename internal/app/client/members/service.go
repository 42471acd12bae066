package members

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"clubmembers/internal/app/client/remote"
	"clubmembers/internal/domain/member"
	"clubmembers/internal/domain/payment"

	"golang.org/x/exp/slog"
)

// AvatarURLTTL срок жизни подписанной ссылки на аватар.
const AvatarURLTTL = 30 * time.Minute

type Store interface {
	GetByID(ctx context.Context, id int64) (member.Member, error)
	Upsert(ctx context.Context, m member.Member) error
	InsertAndReturn(ctx context.Context, m member.Member) (int64, error)
	SoftDelete(ctx context.Context, id int64, ts time.Time) error
}

// Pusher отправляет одну запись на сервер.
type Pusher interface {
	Push(ctx context.Context, m member.Member) error
}

type Identity interface {
	CurrentUID() (string, bool)
}

// SaveRequest данные формы создания или изменения участника.
// ID == 0 означает новую запись.
type SaveRequest struct {
	ID            int64
	Name          string
	Email         string
	Phone         string
	Expiration    *time.Time
	PaymentAmount *float64

	Avatar            []byte
	AvatarFilename    string
	AvatarContentType string
}

// Service изменяет записи участников: сначала локально, затем на сервере.
type Service struct {
	store    Store
	pusher   Pusher
	gateway  remote.Gateway
	identity Identity
	log      *slog.Logger
	now      func() time.Time
}

func NewService(store Store, pusher Pusher, gateway remote.Gateway, identity Identity, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		pusher:   pusher,
		gateway:  gateway,
		identity: identity,
		log:      log.With("component", "members_service"),
		now:      time.Now,
	}
}

// WithClock подменяет источник текущего времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Get(ctx context.Context, id int64) (member.Member, error) {
	return s.store.GetByID(ctx, id)
}

// Save создает или обновляет запись, отправляет ее на сервер и фиксирует оплату.
// Ошибка отправки возвращается как ErrPushFailed вместе с сохраненной записью.
// Сбои аватара и оплат логируются и не прерывают сохранение.
func (s *Service) Save(ctx context.Context, req SaveRequest) (member.Member, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return member.Member{}, member.ErrNameRequired
	}
	if req.Expiration != nil {
		d := member.DateOf(*req.Expiration)
		req.Expiration = &d
	}

	if req.ID > 0 {
		return s.update(ctx, req)
	}
	return s.create(ctx, req)
}

func (s *Service) update(ctx context.Context, req SaveRequest) (member.Member, error) {
	now := member.Stamp(s.now())
	uid := s.currentUID()

	var existing *member.Member
	found, err := s.store.GetByID(ctx, req.ID)
	switch {
	case err == nil:
		existing = &found
	case !errors.Is(err, member.ErrNotFound):
		return member.Member{}, err
	}

	var (
		previousAvatar    *string
		expirationChanged = true
		paymentChanged    = req.PaymentAmount != nil
		owner             = member.StringPtr(uid)
	)
	if existing != nil {
		previousAvatar = existing.AvatarURL
		expirationChanged = !sameDate(existing.Expiration, req.Expiration)
		paymentChanged = !sameAmount(existing.PaymentAmount, req.PaymentAmount)
		if existing.UID != nil {
			owner = existing.UID
		}
	}

	avatarRef := previousAvatar
	if len(req.Avatar) > 0 {
		var key string
		if previousAvatar != nil && strings.TrimSpace(*previousAvatar) != "" {
			key = EnsureAvatarKey(*previousAvatar, uid)
		} else {
			key = EnsureAvatarKey(avatarName(req.AvatarFilename, req.ID), uid)
		}
		if ref, ok := s.uploadAvatar(ctx, key, req); ok {
			avatarRef = &ref
		}
	}

	m := member.Member{
		ID:            req.ID,
		Name:          req.Name,
		Email:         member.StringPtr(req.Email),
		Phone:         member.StringPtr(req.Phone),
		Expiration:    req.Expiration,
		AvatarURL:     avatarRef,
		PaymentAmount: req.PaymentAmount,
		UpdatedAt:     now,
		UID:           owner,
		IsDeleted:     false,
	}
	if err := s.store.Upsert(ctx, m); err != nil {
		return member.Member{}, err
	}

	if err := s.pusher.Push(ctx, m); err != nil {
		s.log.Error("Ошибка отправки записи", "id", m.ID, "error", err)
		return m, fmt.Errorf("%w: %w", ErrPushFailed, err)
	}

	if req.PaymentAmount != nil {
		switch {
		case expirationChanged:
			s.recordPayment(ctx, m.ID, *req.PaymentAmount)
		case paymentChanged:
			s.updateLatestPayment(ctx, m.ID, *req.PaymentAmount)
		}
	}

	return m, nil
}

func (s *Service) create(ctx context.Context, req SaveRequest) (member.Member, error) {
	now := member.Stamp(s.now())
	uid := s.currentUID()

	m := member.Member{
		ID:            newLocalID(now),
		Name:          req.Name,
		Email:         member.StringPtr(req.Email),
		Phone:         member.StringPtr(req.Phone),
		Expiration:    req.Expiration,
		PaymentAmount: req.PaymentAmount,
		UpdatedAt:     now,
		UID:           member.StringPtr(uid),
	}

	id, err := s.store.InsertAndReturn(ctx, m)
	if err != nil {
		return member.Member{}, err
	}
	m.ID = id

	if len(req.Avatar) > 0 {
		key := EnsureAvatarKey(avatarName(req.AvatarFilename, id), uid)
		if ref, ok := s.uploadAvatar(ctx, key, req); ok {
			m.AvatarURL = &ref
			if err := s.store.Upsert(ctx, m); err != nil {
				return member.Member{}, err
			}
		}
	}

	if err := s.pusher.Push(ctx, m); err != nil {
		s.log.Error("Ошибка отправки новой записи", "id", m.ID, "error", err)
		return m, fmt.Errorf("%w: %w", ErrPushFailed, err)
	}

	if req.PaymentAmount != nil {
		s.recordPayment(ctx, m.ID, *req.PaymentAmount)
	}

	return m, nil
}

// MarkDeleted мягко удаляет запись. Если отправить запись целиком не удалось,
// удаление передается отдельным запросом. Ошибки отправки только логируются:
// запись уйдет при следующей синхронизации.
func (s *Service) MarkDeleted(ctx context.Context, id int64) error {
	if err := s.store.SoftDelete(ctx, id, s.now()); err != nil {
		return err
	}

	deleted, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.pusher.Push(ctx, deleted)
	if err == nil {
		return nil
	}
	s.log.Warn("Ошибка отправки удаленной записи", "id", id, "error", err)

	if err := s.gateway.DeleteMember(ctx, id); err != nil {
		s.log.Error("Ошибка отправки удаления", "id", id, "error", err)
	}
	return nil
}

// Renew продлевает срок участника до newExpiry. Ошибка отправки только логируется.
func (s *Service) Renew(ctx context.Context, id int64, newExpiry time.Time) (member.Member, error) {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		return member.Member{}, err
	}

	exp := member.DateOf(newExpiry)
	m.Expiration = &exp
	m.UpdatedAt = member.Stamp(s.now())

	if err := s.store.Upsert(ctx, m); err != nil {
		return member.Member{}, err
	}

	if err := s.pusher.Push(ctx, m); err != nil {
		s.log.Error("Ошибка отправки продления", "id", id, "error", err)
	}
	return m, nil
}

// Payments возвращает оплаты участника, новые первыми. При ошибке список пуст.
func (s *Service) Payments(ctx context.Context, memberID int64) []payment.Payment {
	list, err := s.gateway.FetchPayments(ctx, memberID)
	if err != nil {
		s.log.Error("Ошибка загрузки оплат", "member_id", memberID, "error", err)
		return []payment.Payment{}
	}
	return list
}

// AvatarURL возвращает ссылку для просмотра аватара.
// Абсолютные ссылки отдаются как есть; при ошибке подписи возвращается пустая строка.
func (s *Service) AvatarURL(ctx context.Context, key string) string {
	if key == "" || strings.Contains(key, "://") {
		return key
	}
	signed, err := s.gateway.SignedAvatarURL(ctx, key, AvatarURLTTL)
	if err != nil {
		s.log.Error("Ошибка подписи ссылки на аватар", "key", key, "error", err)
		return ""
	}
	return signed
}

func (s *Service) uploadAvatar(ctx context.Context, key string, req SaveRequest) (string, bool) {
	if err := s.gateway.UploadAvatar(ctx, key, req.Avatar, req.AvatarContentType); err != nil {
		s.log.Error("Ошибка загрузки аватара", "key", key, "error", err)
		return "", false
	}
	return key, true
}

func (s *Service) recordPayment(ctx context.Context, memberID int64, amount float64) {
	_, err := s.gateway.InsertPayment(ctx, payment.Payment{
		CreatedAt: s.now().UTC(),
		Amount:    amount,
		MemberID:  memberID,
	})
	if err != nil {
		s.log.Error("Ошибка записи оплаты", "member_id", memberID, "error", err)
	}
}

func (s *Service) updateLatestPayment(ctx context.Context, memberID int64, amount float64) {
	list := s.Payments(ctx, memberID)
	if len(list) == 0 || list[0].ID == 0 {
		return
	}

	latest := list[0]
	latest.Amount = amount
	if err := s.gateway.UpsertPayment(ctx, latest); err != nil {
		s.log.Error("Ошибка изменения оплаты", "payment_id", latest.ID, "error", err)
	}
}

func (s *Service) currentUID() string {
	if s.identity == nil {
		return ""
	}
	uid, _ := s.identity.CurrentUID()
	return uid
}

func avatarName(filename string, id int64) string {
	if filename != "" {
		return filename
	}
	return fmt.Sprintf("%d.jpg", id)
}

// newLocalID выдает идентификатор новой записи: миллисекунды плюс случайный хвост,
// чтобы записи с разных устройств не совпадали на сервере.
func newLocalID(now time.Time) int64 {
	return now.UnixMilli()*1000 + rand.Int64N(1000)
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return member.DateOf(*a).Equal(member.DateOf(*b))
}

func sameAmount(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

package payment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/exp/slog"
)

type Servicer interface {
	ListByMember(ctx context.Context, uid string, memberID int64) ([]Remote, error)
	Insert(ctx context.Context, uid string, rec Remote) (Remote, error)
	Upsert(ctx context.Context, uid string, id int64, rec Remote) (Remote, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "payment_service"),
		now:  time.Now,
	}
}

// ListByMember возвращает оплаты участника, новые первыми.
func (s *Service) ListByMember(ctx context.Context, uid string, memberID int64) ([]Remote, error) {
	payments, err := s.repo.ListByMember(ctx, uid, memberID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	SortNewestFirst(payments)

	out := make([]Remote, 0, len(payments))
	for _, p := range payments {
		out = append(out, ToRemote(p))
	}
	return out, nil
}

func (s *Service) Insert(ctx context.Context, uid string, rec Remote) (Remote, error) {
	p, err := s.parse(rec)
	if err != nil {
		return Remote{}, err
	}
	p.ID = 0

	created, err := s.repo.Insert(ctx, uid, p)
	if err != nil {
		return Remote{}, fmt.Errorf("insert payment: %w", err)
	}

	s.log.Debug("payment recorded", "member_id", created.MemberID, "amount", created.Amount)
	return ToRemote(created), nil
}

func (s *Service) Upsert(ctx context.Context, uid string, id int64, rec Remote) (Remote, error) {
	p, err := s.parse(rec)
	if err != nil {
		return Remote{}, err
	}
	p.ID = id

	if err := s.repo.Upsert(ctx, uid, p); err != nil {
		return Remote{}, fmt.Errorf("upsert payment: %w", err)
	}
	return ToRemote(p), nil
}

func (s *Service) parse(rec Remote) (Payment, error) {
	p, err := FromRemote(rec)
	if err != nil {
		return Payment{}, err
	}
	if p.Amount <= 0 {
		return Payment{}, ErrInvalidAmount
	}
	return p.withDefaults(s.now()), nil
}

// SortNewestFirst упорядочивает оплаты по убыванию даты, при равенстве по id.
func SortNewestFirst(payments []Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		if payments[i].CreatedAt.Equal(payments[j].CreatedAt) {
			return payments[i].ID > payments[j].ID
		}
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
}

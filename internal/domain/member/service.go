package member

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

// Servicer операции сервера над таблицей members. Все операции выполняются
// от имени владельца uid.
type Servicer interface {
	List(ctx context.Context, uid string, onlyLive bool) ([]Remote, error)
	Upsert(ctx context.Context, uid string, id int64, rec Remote) (Remote, error)
	SoftDelete(ctx context.Context, uid string, id int64) error
}

type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With("component", "member_service"),
		now:  time.Now,
	}
}

func (s *Service) List(ctx context.Context, uid string, onlyLive bool) ([]Remote, error) {
	members, err := s.repo.List(ctx, uid, onlyLive)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	out := make([]Remote, 0, len(members))
	for _, m := range members {
		out = append(out, ToRemote(m))
	}
	return out, nil
}

// Upsert создает или перезаписывает запись по id. Владелец в теле записи
// должен совпадать с uid, существующая чужая запись не перезаписывается.
func (s *Service) Upsert(ctx context.Context, uid string, id int64, rec Remote) (Remote, error) {
	if rec.ID == 0 {
		rec.ID = id
	}
	if rec.ID != id {
		return Remote{}, ErrIDMismatch
	}
	if rec.UID == nil || *rec.UID != uid {
		s.log.Warn("upsert rejected: owner mismatch", "id", id, "uid", uid)
		return Remote{}, ErrForbidden
	}

	m, err := FromRemote(rec)
	if err != nil {
		return Remote{}, err
	}
	if err := m.Validate(); err != nil {
		return Remote{}, err
	}

	existing, err := s.repo.Get(ctx, id)
	switch {
	case err == nil:
		if existing.Owner() != uid {
			s.log.Warn("upsert rejected: foreign record", "id", id, "uid", uid)
			return Remote{}, ErrForbidden
		}
	case errors.Is(err, ErrNotFound):
	default:
		return Remote{}, fmt.Errorf("get member: %w", err)
	}

	if err := s.repo.Upsert(ctx, m); err != nil {
		return Remote{}, fmt.Errorf("upsert member: %w", err)
	}

	s.log.Debug("member upserted", "id", id, "deleted", m.IsDeleted)
	return ToRemote(m), nil
}

// SoftDelete помечает запись удаленной и обновляет метку изменения.
func (s *Service) SoftDelete(ctx context.Context, uid string, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.Owner() != uid {
		return ErrForbidden
	}

	if err := s.repo.SoftDelete(ctx, id, Stamp(s.now())); err != nil {
		return fmt.Errorf("soft delete member: %w", err)
	}
	return nil
}

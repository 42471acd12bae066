package store

import (
	"context"
	"fmt"
	"time"

	"clubmembers/internal/domain/member"
)

// ObserveActive доставляет неудаленные записи, упорядоченные по сроку
// (без срока в конце), сразу и после каждой записи в хранилище.
func (s *Store) ObserveActive(ctx context.Context, observer Observer) (*Subscription, error) {
	return s.bus.subscribe(ctx, s.listLiveByExpiration, observer)
}

// Search доставляет неудаленные записи, у которых имя, email или телефон
// содержат pattern без учета регистра; новые изменения первыми.
func (s *Store) Search(ctx context.Context, pattern string, observer Observer) (*Subscription, error) {
	query := func(ctx context.Context) ([]member.Member, error) {
		return s.search(ctx, pattern)
	}
	return s.bus.subscribe(ctx, query, observer)
}

func (s *Store) listLiveByExpiration(ctx context.Context) ([]member.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE is_deleted = 0
		ORDER BY expiration IS NULL, expiration, id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	return scanMembers(rows)
}

func (s *Store) search(ctx context.Context, pattern string) ([]member.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE is_deleted = 0
		ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	members, err := scanMembers(rows)
	if err != nil {
		return nil, err
	}

	// SQLite lower() работает только с ASCII, поэтому фильтр в Go
	out := members[:0]
	for _, m := range members {
		if m.Matches(pattern) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (member.Member, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id)

	m, err := scanMember(row)
	if isNoRows(err) {
		return member.Member{}, member.ErrNotFound
	}
	if err != nil {
		return member.Member{}, fmt.Errorf("ошибка получения записи %d: %w", id, err)
	}
	return m, nil
}

// GetAll возвращает все записи, включая удаленные.
func (s *Store) GetAll(ctx context.Context) ([]member.Member, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+memberColumns+` FROM members ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	return scanMembers(rows)
}

// ListLive возвращает неудаленные записи.
func (s *Store) ListLive(ctx context.Context) ([]member.Member, error) {
	return s.listLiveByExpiration(ctx)
}

// Upsert вставляет или полностью заменяет запись с m.ID.
func (s *Store) Upsert(ctx context.Context, m member.Member) error {
	if m.ID <= 0 {
		return ErrMissingID
	}

	err := s.write(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO members (id, name, email, phone, expiration, avatar_url,
			                     payment_amount, updated_at, uid, is_deleted)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				email = excluded.email,
				phone = excluded.phone,
				expiration = excluded.expiration,
				avatar_url = excluded.avatar_url,
				payment_amount = excluded.payment_amount,
				updated_at = excluded.updated_at,
				uid = excluded.uid,
				is_deleted = excluded.is_deleted
		`, append([]any{m.ID}, args(m)...)...)
		return err
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения записи %d: %w", m.ID, err)
	}
	return nil
}

// InsertAndReturn вставляет запись и возвращает назначенный id.
// Ненулевой m.ID используется как есть.
func (s *Store) InsertAndReturn(ctx context.Context, m member.Member) (int64, error) {
	var id int64
	err := s.write(ctx, func() error {
		var idArg any
		if m.ID > 0 {
			idArg = m.ID
		}
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO members (id, name, email, phone, expiration, avatar_url,
			                     payment_amount, updated_at, uid, is_deleted)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, append([]any{idArg}, args(m)...)...)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("ошибка вставки записи: %w", err)
	}
	return id, nil
}

// SoftDelete помечает запись удаленной и обновляет метку изменения.
func (s *Store) SoftDelete(ctx context.Context, id int64, ts time.Time) error {
	var affected int64
	err := s.write(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`UPDATE members SET is_deleted = 1, updated_at = ? WHERE id = ?`,
			formatTime(ts), id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления записи %d: %w", id, err)
	}
	if affected == 0 {
		return member.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	err := s.write(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления записи %d: %w", id, err)
	}
	return nil
}

// DeleteNotIn физически удаляет записи, id которых нет в ids.
// Пустой ids удаляет все записи.
func (s *Store) DeleteNotIn(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return s.DeleteAll(ctx)
	}

	list, err := idsJSON(ids)
	if err != nil {
		return fmt.Errorf("ошибка сериализации id: %w", err)
	}

	err = s.write(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM members WHERE id NOT IN (SELECT value FROM json_each(?))`, list)
		return err
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления отсутствующих записей: %w", err)
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	err := s.write(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM members`)
		return err
	})
	if err != nil {
		return fmt.Errorf("ошибка очистки записей: %w", err)
	}
	return nil
}

// Count число неудаленных записей.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members WHERE is_deleted = 0`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}
	return count, nil
}

// write выполняет изменение под мьютексом и уведомляет подписчиков после фиксации.
func (s *Store) write(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	err := fn()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.bus.Notify(ctx)
	return nil
}

package query

import (
	"context"
	"time"

	"clubmembers/internal/app/client/store"
	"clubmembers/internal/domain/member"

	"golang.org/x/exp/slog"
)

// Source локальное хранилище с наблюдаемыми выборками.
type Source interface {
	ListLive(ctx context.Context) ([]member.Member, error)
	ObserveActive(ctx context.Context, observer store.Observer) (*store.Subscription, error)
	Search(ctx context.Context, pattern string, observer store.Observer) (*store.Subscription, error)
}

// Page окно просмотра истекших записей.
type Page struct {
	Offset    int
	Limit     int // 0 - без ограничения
	SortBy    SortBy
	Ascending bool
}

// Projection строит представления активных и истекших записей целиком на клиенте.
// "Сегодня" берется из локальной календарной даты часов now.
type Projection struct {
	src Source
	now func() time.Time
	log *slog.Logger
}

func New(src Source, log *slog.Logger) *Projection {
	return &Projection{
		src: src,
		now: time.Now,
		log: log.With("component", "query"),
	}
}

// WithClock подменяет источник текущего времени.
func (p *Projection) WithClock(now func() time.Time) *Projection {
	p.now = now
	return p
}

func (p *Projection) today() time.Time {
	return member.Today(p.now())
}

// Active неудаленные записи без срока или со сроком не раньше сегодняшнего,
// по возрастанию срока, без срока в конце.
func (p *Projection) Active(ctx context.Context) ([]member.Member, error) {
	list, err := p.src.ListLive(ctx)
	if err != nil {
		return nil, err
	}
	out := filterActive(list, p.today())
	Sort(out, SortByExpiration, true)
	return out, nil
}

// Expired неудаленные записи со сроком раньше сегодняшнего.
func (p *Projection) Expired(ctx context.Context) ([]member.Member, error) {
	list, err := p.src.ListLive(ctx)
	if err != nil {
		return nil, err
	}
	return filterExpired(list, p.today()), nil
}

// ExpiredPage страница истекших записей. По умолчанию сортировка по сроку, новые первыми.
func (p *Projection) ExpiredPage(ctx context.Context, page Page) ([]member.Member, error) {
	list, err := p.Expired(ctx)
	if err != nil {
		return nil, err
	}

	by := page.SortBy
	if by == "" {
		by = SortByExpiration
	}
	Sort(list, by, page.Ascending)

	offset := max(page.Offset, 0)
	if offset >= len(list) {
		return []member.Member{}, nil
	}
	list = list[offset:]
	if page.Limit > 0 && page.Limit < len(list) {
		list = list[:page.Limit]
	}
	return list, nil
}

// ObserveActive доставляет активные записи сразу и после каждого изменения хранилища.
func (p *Projection) ObserveActive(ctx context.Context, observer store.Observer) (*store.Subscription, error) {
	return p.src.ObserveActive(ctx, func(list []member.Member) {
		observer(filterActive(list, p.today()))
	})
}

func filterActive(list []member.Member, today time.Time) []member.Member {
	out := make([]member.Member, 0, len(list))
	for _, m := range list {
		if m.IsActive(today) {
			out = append(out, m)
		}
	}
	return out
}

func filterExpired(list []member.Member, today time.Time) []member.Member {
	out := make([]member.Member, 0, len(list))
	for _, m := range list {
		if !m.IsDeleted && m.IsExpired(today) {
			out = append(out, m)
		}
	}
	return out
}

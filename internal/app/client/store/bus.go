package store

import (
	"context"
	"sync"

	"clubmembers/internal/domain/member"

	"golang.org/x/exp/slog"
)

// Observer получает актуальный снимок выборки.
type Observer func(members []member.Member)

type queryFunc func(ctx context.Context) ([]member.Member, error)

type subscriber struct {
	id       uint64
	query    queryFunc
	observer Observer
	primed   bool // первая доставка выполнена, под mu
}

// Bus рассылает подписчикам свежие снимки после каждой записи в хранилище.
// Рассылку ведет одна горутина за раз: запись, пришедшая во время рассылки,
// лишь помечает ее на повтор, и последний снимок у наблюдателя всегда свежий.
// Наблюдатели вызываются вне блокировки шины и могут сами писать в хранилище.
type Bus struct {
	mu         sync.Mutex
	nextID     uint64
	subs       map[uint64]*subscriber
	requests   uint64
	delivering bool
	pending    bool
	log        *slog.Logger
}

func NewBus(log *slog.Logger) *Bus {
	return &Bus{
		subs: make(map[uint64]*subscriber),
		log:  log.With("component", "store_bus"),
	}
}

// Subscription активная подписка; Close прекращает доставку.
type Subscription struct {
	id   uint64
	bus  *Bus
	once sync.Once
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.remove(s.id)
	})
}

func (b *Bus) subscribe(ctx context.Context, query queryFunc, observer Observer) (*Subscription, error) {
	b.mu.Lock()
	b.nextID++
	sub := &subscriber{id: b.nextID, query: query, observer: observer}
	b.subs[sub.id] = sub
	seen := b.requests
	b.mu.Unlock()

	s := &Subscription{id: sub.id, bus: b}

	members, err := query(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}
	observer(members)

	b.mu.Lock()
	sub.primed = true
	missed := b.requests != seen
	b.mu.Unlock()

	// пока шла первая доставка, рассылки пропускали подписку
	if missed {
		b.Notify(ctx)
	}
	return s, nil
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

// Len число активных подписок.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Notify перезапрашивает каждую подписку и передает результат наблюдателю.
// Если рассылка уже идет, Notify ставит повтор и возвращается сразу.
func (b *Bus) Notify(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	b.mu.Lock()
	b.requests++
	if b.delivering {
		b.pending = true
		b.mu.Unlock()
		return
	}
	b.delivering = true

	for {
		b.pending = false
		subs := make([]*subscriber, 0, len(b.subs))
		for _, s := range b.subs {
			if s.primed {
				subs = append(subs, s)
			}
		}
		b.mu.Unlock()

		b.deliver(ctx, subs)

		b.mu.Lock()
		if !b.pending {
			break
		}
	}
	b.delivering = false
	b.mu.Unlock()
}

func (b *Bus) deliver(ctx context.Context, subs []*subscriber) {
	for _, s := range subs {
		if !b.active(s.id) {
			continue
		}
		members, err := s.query(ctx)
		if err != nil {
			b.log.Error("subscription query failed", "subscription", s.id, "error", err)
			continue
		}
		s.observer(members)
	}
}

func (b *Bus) active(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.subs[id]
	return ok
}

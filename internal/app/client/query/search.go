package query

import (
	"context"
	"strings"
	"sync"

	"clubmembers/internal/app/client/store"
	"clubmembers/internal/domain/member"
)

// Searcher поиск по истекшим записям при наборе текста.
// Каждая смена строки закрывает предыдущую подписку и открывает новую.
// Наблюдатель вызывается без удержания блокировок и может сам вызывать SetTerm.
type Searcher struct {
	p        *Projection
	observer store.Observer

	mu  sync.Mutex
	gen uint64
	sub *store.Subscription
}

func (p *Projection) SearchExpired(observer store.Observer) *Searcher {
	return &Searcher{p: p, observer: observer}
}

// SetTerm меняет строку поиска. Пустая строка очищает результат.
func (s *Searcher) SetTerm(ctx context.Context, term string) error {
	gen := s.reset()

	term = strings.TrimSpace(term)
	if term == "" {
		s.observer([]member.Member{})
		return nil
	}

	sub, err := s.p.src.Search(ctx, term, func(list []member.Member) {
		if s.current(gen) {
			s.observer(filterExpired(list, s.p.today()))
		}
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.gen != gen {
		// строку успели сменить, пока шла первая доставка
		s.mu.Unlock()
		sub.Close()
		return nil
	}
	s.sub = sub
	s.mu.Unlock()
	return nil
}

func (s *Searcher) Close() {
	s.reset()
}

// reset закрывает текущую подписку и начинает новое поколение.
func (s *Searcher) reset() uint64 {
	s.mu.Lock()
	s.gen++
	gen, old := s.gen, s.sub
	s.sub = nil
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return gen
}

func (s *Searcher) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

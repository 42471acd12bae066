package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"clubmembers/internal/app/client/remote"
	"clubmembers/internal/domain/member"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

const defaultPushConcurrency = 4

// Store локальное хранилище, с которым работает движок.
type Store interface {
	GetAll(ctx context.Context) ([]member.Member, error)
	Upsert(ctx context.Context, m member.Member) error
	DeleteNotIn(ctx context.Context, ids []int64) error
	DeleteAll(ctx context.Context) error
}

// Identity источник идентификатора текущего пользователя.
type Identity interface {
	CurrentUID() (string, bool)
}

type Option func(*Engine)

// WithStatsFile сохраняет статистику между запусками в path.
func WithStatsFile(path string) Option {
	return func(e *Engine) {
		e.statsPath = path
	}
}

// WithPushConcurrency ограничивает число параллельных отправок при двусторонней синхронизации.
func WithPushConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pushConcurrency = n
		}
	}
}

// Engine синхронизирует локальное хранилище с удаленным.
// Одновременно выполняется не больше одной синхронизации, лишние запросы отбрасываются.
type Engine struct {
	store    Store
	gateway  remote.Gateway
	identity Identity
	log      *slog.Logger

	pushConcurrency int
	statsPath       string

	mu        sync.RWMutex
	isSyncing bool
	lastSync  time.Time
	stats     SyncStats
}

func NewEngine(store Store, gateway remote.Gateway, identity Identity, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:           store,
		gateway:         gateway,
		identity:        identity,
		log:             log.With("component", "sync_engine"),
		pushConcurrency: defaultPushConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.statsPath != "" {
		stats, err := loadStats(e.statsPath)
		if err != nil {
			e.log.Warn("Не удалось загрузить статистику синхронизации", "error", err)
		}
		e.stats = stats
		e.lastSync = stats.LastSuccessful
	}
	return e
}

// PullLatest забирает живые удаленные записи и вливает их в локальное хранилище.
// Ошибки не возвращаются, а логируются и попадают в SyncResult.Errors;
// при неудачной загрузке локальное состояние не меняется.
func (e *Engine) PullLatest(ctx context.Context) (*SyncResult, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	result := &SyncResult{StartTime: time.Now()}
	defer e.record(result)

	e.log.Debug("Загрузка удаленных записей")

	snap, err := e.gateway.FetchMembers(ctx, true)
	if err != nil {
		e.log.Error("Ошибка загрузки удаленных записей", "error", err)
		result.addError(0, "fetch", err)
		return result, nil
	}

	mctx := context.WithoutCancel(ctx)
	local, err := e.store.GetAll(mctx)
	if err != nil {
		e.log.Error("Ошибка чтения локальных записей", "error", err)
		result.addError(0, "read_local", err)
		return result, nil
	}

	e.merge(mctx, local, snap, nil, result)

	e.log.Info("Загрузка завершена",
		"downloaded", result.Downloaded,
		"removed", result.Removed,
		"skipped", result.Skipped,
		"errors", len(result.Errors))
	return result, nil
}

// SyncBidirectional отправляет локальные изменения, затем вливает удаленный снимок.
// В отличие от PullLatest, любая ошибка возвращается вызывающему.
func (e *Engine) SyncBidirectional(ctx context.Context) (*SyncResult, error) {
	if err := e.begin(); err != nil {
		return nil, err
	}
	defer e.end()

	result := &SyncResult{StartTime: time.Now()}
	defer e.record(result)

	e.log.Debug("Начало двусторонней синхронизации")

	var (
		snap  remote.Snapshot
		local []member.Member
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap, err = e.gateway.FetchMembers(gctx, true)
		if err != nil {
			return fmt.Errorf("fetch remote: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		local, err = e.store.GetAll(gctx)
		if err != nil {
			return fmt.Errorf("read local: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		e.log.Error("Ошибка получения снимков", "error", err)
		result.addError(0, "snapshot", err)
		return result, err
	}

	pushed, err := e.pushCandidates(ctx, local, snap, result)
	if err != nil {
		e.log.Error("Ошибка отправки локальных изменений", "error", err)
		return result, err
	}

	e.merge(context.WithoutCancel(ctx), local, snap, pushed, result)
	if len(result.Errors) > 0 {
		err := fmt.Errorf("merge: %s", result.Errors[0].Error)
		e.log.Error("Ошибка слияния", "error", err, "errors", len(result.Errors))
		return result, err
	}

	e.log.Info("Двусторонняя синхронизация завершена",
		"uploaded", result.Uploaded,
		"downloaded", result.Downloaded,
		"removed", result.Removed)
	return result, nil
}

// Push отправляет одну запись на сервер без payment_amount.
// Владелец берется из записи, иначе из текущей сессии.
func (e *Engine) Push(ctx context.Context, m member.Member) error {
	if m.Owner() == "" {
		uid, ok := e.identity.CurrentUID()
		if !ok || uid == "" {
			return ErrNoAuthUser
		}
		m.UID = &uid
	}
	m.PaymentAmount = nil

	if err := e.gateway.UpsertMember(ctx, m); err != nil {
		return fmt.Errorf("push member %d: %w", m.ID, err)
	}
	return nil
}

// LocallyModifiedCount число записей, которые двусторонняя синхронизация отправила бы сейчас.
// При любой ошибке возвращает 0.
func (e *Engine) LocallyModifiedCount(ctx context.Context) int {
	snap, err := e.gateway.FetchMembers(ctx, true)
	if err != nil {
		e.log.Debug("Не удалось получить удаленные записи", "error", err)
		return 0
	}
	local, err := e.store.GetAll(ctx)
	if err != nil {
		e.log.Debug("Не удалось прочитать локальные записи", "error", err)
		return 0
	}
	return len(candidates(local, snap))
}

// Stats возвращает копию накопленной статистики.
func (e *Engine) Stats() SyncStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

func (e *Engine) LastSync() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSync
}

func (e *Engine) IsSyncing() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.isSyncing
}

// StartAutoSync запускает двустороннюю синхронизацию по таймеру до отмены ctx.
func (e *Engine) StartAutoSync(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		e.log.Info("Автоматическая синхронизация отключена")
		return
	}

	e.log.Info("Запуск автоматической синхронизации", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("Автоматическая синхронизация остановлена")
			return
		case <-ticker.C:
			_, err := e.SyncBidirectional(ctx)
			switch {
			case errors.Is(err, ErrSyncInProgress):
				e.log.Debug("Пропуск тика: синхронизация уже идет")
			case err != nil:
				e.log.Error("Ошибка автоматической синхронизации", "error", err)
			}
		}
	}
}

func (e *Engine) begin() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isSyncing {
		return ErrSyncInProgress
	}
	e.isSyncing = true
	return nil
}

func (e *Engine) end() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.isSyncing = false
}

func (e *Engine) record(result *SyncResult) {
	result.finish()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.update(result)
	if result.Success {
		e.lastSync = result.EndTime
	}

	if e.statsPath != "" {
		if err := saveStats(e.statsPath, e.stats); err != nil {
			e.log.Warn("Не удалось сохранить статистику синхронизации", "error", err)
		}
	}
}

// pushCandidates отправляет кандидатов с ограниченной параллельностью
// и возвращает идентификаторы успешно отправленных записей.
func (e *Engine) pushCandidates(ctx context.Context, local []member.Member, snap remote.Snapshot, result *SyncResult) (map[int64]struct{}, error) {
	todo := candidates(local, snap)
	if len(todo) == 0 {
		return nil, nil
	}

	var (
		mu       sync.Mutex
		pushed   = make(map[int64]struct{}, len(todo))
		uploaded atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.pushConcurrency)
	for _, m := range todo {
		g.Go(func() error {
			if err := e.Push(gctx, m); err != nil {
				mu.Lock()
				result.addError(m.ID, "push", err)
				mu.Unlock()
				return err
			}
			uploaded.Add(1)
			mu.Lock()
			pushed[m.ID] = struct{}{}
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	result.Uploaded = int(uploaded.Load())
	return pushed, err
}

// merge вливает удаленный снимок в локальный и сверяет состав записей.
// pushed - идентификаторы, отправленные в этом проходе: их нет в снимке, но удалять их нельзя.
// Нераспознанные строки снимка тоже сохраняются локально как есть.
func (e *Engine) merge(ctx context.Context, local []member.Member, snap remote.Snapshot, pushed map[int64]struct{}, result *SyncResult) {
	byID := indexByID(local)

	keep := make(map[int64]struct{}, len(pushed)+len(snap.Skipped))
	for id := range pushed {
		keep[id] = struct{}{}
	}
	for _, id := range snap.Skipped {
		keep[id] = struct{}{}
	}
	result.Skipped = len(snap.Skipped)

	remoteIDs := make([]int64, 0, len(snap.Members)+len(keep))
	seen := make(map[int64]struct{}, len(snap.Members)+len(keep))

	for _, in := range snap.Members {
		if in.IsDeleted {
			continue
		}
		remoteIDs = append(remoteIDs, in.ID)
		seen[in.ID] = struct{}{}

		var current *member.Member
		if l, ok := byID[in.ID]; ok {
			current = &l
		}
		merged, replace := member.Merge(current, in)
		if !replace {
			continue
		}
		if err := e.store.Upsert(ctx, merged); err != nil {
			e.log.Error("Ошибка сохранения записи", "id", in.ID, "error", err)
			result.addError(in.ID, "merge", err)
			continue
		}
		result.Downloaded++
	}

	if !reconcilable(snap) {
		e.log.Warn("Снимок разобран не полностью, сверка состава пропущена", "skipped", len(snap.Skipped))
		return
	}

	for id := range keep {
		if _, ok := seen[id]; !ok {
			remoteIDs = append(remoteIDs, id)
			seen[id] = struct{}{}
		}
	}

	removed := 0
	for id := range byID {
		if _, ok := seen[id]; !ok {
			removed++
		}
	}

	// Пустой удаленный набор считается авторитетным: локально удаляется все.
	var err error
	if len(remoteIDs) == 0 {
		err = e.store.DeleteAll(ctx)
	} else {
		err = e.store.DeleteNotIn(ctx, remoteIDs)
	}
	if err != nil {
		e.log.Error("Ошибка сверки состава записей", "error", err)
		result.addError(0, "reconcile", err)
		return
	}
	result.Removed = removed
}

// candidates отбирает локальные записи для отправки: без удаленной пары или строго новее ее.
// Удаленная локально запись уходит только поверх существующей более старой версии,
// иначе она воскресла бы на сервере. Записи, чья удаленная версия не разобрана, не отправляются:
// сравнить их метки невозможно.
func candidates(local []member.Member, snap remote.Snapshot) []member.Member {
	byID := indexByID(snap.Members)
	unknown := make(map[int64]struct{}, len(snap.Skipped))
	for _, id := range snap.Skipped {
		unknown[id] = struct{}{}
	}

	var out []member.Member
	for _, l := range local {
		if _, skip := unknown[l.ID]; skip {
			continue
		}
		r, ok := byID[l.ID]
		switch {
		case l.IsDeleted:
			if ok && member.Newer(l.UpdatedAt, r.UpdatedAt) {
				out = append(out, l)
			}
		case !ok:
			out = append(out, l)
		case member.Newer(l.UpdatedAt, r.UpdatedAt):
			out = append(out, l)
		}
	}
	return out
}

// reconcilable сообщает, можно ли доверять составу снимка.
// Если не разобрана ни одна строка или у нераспознанной строки нет идентификатора,
// локальные записи не удаляются.
func reconcilable(snap remote.Snapshot) bool {
	if len(snap.Skipped) == 0 {
		return true
	}
	if len(snap.Members) == 0 {
		return false
	}
	for _, id := range snap.Skipped {
		if id <= 0 {
			return false
		}
	}
	return true
}

func indexByID(ms []member.Member) map[int64]member.Member {
	out := make(map[int64]member.Member, len(ms))
	for _, m := range ms {
		out[m.ID] = m
	}
	return out
}

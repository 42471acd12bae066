package client

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"golang.org/x/exp/slog"

	"clubmembers/internal/app/client/config"
	"clubmembers/internal/app/client/members"
	"clubmembers/internal/app/client/query"
	"clubmembers/internal/app/client/remote"
	"clubmembers/internal/app/client/session"
	"clubmembers/internal/app/client/store"
	clientsync "clubmembers/internal/app/client/sync"
)

const statsFile = "sync_stats.json"

// ErrNotAuthenticated команда требует входа.
var ErrNotAuthenticated = errors.New("not authenticated")

// App собирает компоненты клиента: хранилище, сессию, шлюз, синхронизацию и представления.
type App struct {
	config  *config.Config
	log     *slog.Logger
	store   *store.Store
	session *session.Session
	gateway *remote.HTTPGateway
	engine  *clientsync.Engine
	members *members.Service
	query   *query.Projection
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	sess, err := session.Load(cfg.SessionPath)
	if err != nil {
		log.Warn("Не удалось загрузить сессию, начинаем с пустой", "error", err)
		sess = session.New(cfg.SessionPath)
	}

	httpClient, err := remote.NewHTTPClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации HTTP клиента: %w", err)
	}
	gateway := remote.NewHTTPGateway(cfg.BaseURL(), httpClient, sess, log)

	st, err := store.Open(cfg.DataPath, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}

	engine := clientsync.NewEngine(st, gateway, sess, log,
		clientsync.WithPushConcurrency(cfg.PushConcurrency),
		clientsync.WithStatsFile(filepath.Join(cfg.ConfigDir, statsFile)))

	app := &App{
		config:  cfg,
		log:     log,
		store:   st,
		session: sess,
		gateway: gateway,
		engine:  engine,
		members: members.NewService(st, engine, gateway, sess, log),
		query:   query.New(st, log),
	}

	if sess.Authenticated() {
		log.Debug("Сессия загружена из файла", "email", sess.Email())
	}

	return app, nil
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) Config() *config.Config       { return a.config }
func (a *App) Store() *store.Store          { return a.store }
func (a *App) Engine() *clientsync.Engine   { return a.engine }
func (a *App) Members() *members.Service    { return a.members }
func (a *App) Query() *query.Projection     { return a.query }
func (a *App) Session() *session.Session    { return a.session }
func (a *App) Gateway() *remote.HTTPGateway { return a.gateway }

func (a *App) IsAuthenticated() bool {
	return a.session.Authenticated()
}

// CheckConnection проверяет доступность сервера.
func (a *App) CheckConnection(ctx context.Context) error {
	return a.gateway.HealthCheck(ctx)
}

// PullOnStart подтягивает свежие данные при открытии представлений, если есть сессия.
// Сбой не мешает показать локальные данные; возвращает true, если загрузка выполнялась.
func (a *App) PullOnStart(ctx context.Context) bool {
	if !a.session.Authenticated() {
		return false
	}

	result, err := a.engine.PullLatest(ctx)
	switch {
	case errors.Is(err, clientsync.ErrSyncInProgress):
		a.log.Debug("Загрузка при запуске пропущена: синхронизация уже идет")
		return false
	case err != nil:
		a.log.Warn("Ошибка загрузки при запуске", "error", err)
		return false
	}
	if !result.Success {
		a.log.Warn("Загрузка при запуске завершилась с ошибками", "errors", len(result.Errors))
	}
	return true
}

// Register создает пользователя на сервере и возвращает его uid.
func (a *App) Register(ctx context.Context, email, password string) (string, error) {
	uid, err := a.gateway.Register(ctx, email, password)
	if err != nil {
		return "", fmt.Errorf("ошибка регистрации: %w", err)
	}
	a.log.Info("Пользователь зарегистрирован", "uid", uid)
	return uid, nil
}

// Login выполняет вход и сохраняет сессию.
func (a *App) Login(ctx context.Context, email, password string) error {
	res, err := a.gateway.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("ошибка входа: %w", err)
	}

	if err := a.session.Save(session.Data{Token: res.Token, UID: res.UID, Email: email}); err != nil {
		return fmt.Errorf("ошибка сохранения сессии: %w", err)
	}
	a.log.Info("Вход выполнен", "uid", res.UID)
	return nil
}

// Logout отзывает токен на сервере и очищает локальную сессию.
// Недоступность сервера не мешает выйти локально.
func (a *App) Logout(ctx context.Context) error {
	if !a.session.Authenticated() {
		return ErrNotAuthenticated
	}
	if err := a.gateway.Logout(ctx); err != nil {
		a.log.Warn("Не удалось отозвать токен на сервере", "error", err)
	}
	if err := a.session.Clear(); err != nil {
		return fmt.Errorf("ошибка очистки сессии: %w", err)
	}
	return nil
}

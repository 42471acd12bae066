// GET  /api/v1/health                      # Проверка сервиса (публичный)
// POST /user/register                      # Регистрация (публичный)
// POST /user/login                         # Логин, возвращает token и uid (публичный)
// POST /user/logout                        # Завершение сессии
// GET  /api/v1/members?only_live=          # Записи владельца (auth)
// PUT  /api/v1/members/{id}                # Upsert записи (auth)
// DELETE /api/v1/members/{id}              # Мягкое удаление (auth)
// GET  /api/v1/members/{id}/payments       # Оплаты участника (auth)
// POST /api/v1/payments                    # Добавить оплату (auth)
// PUT  /api/v1/payments/{id}               # Изменить оплату (auth)
// PUT  /api/v1/storage/avatars?key=        # Загрузить аватар (auth)
// POST /api/v1/storage/avatars/sign        # Подписанная ссылка (auth)
// GET  /api/v1/storage/avatars/object      # Скачать по токену (публичный)
// GET  /metrics                            # Prometheus

package api

import (
	"clubmembers/internal/app/server/api/http/avatar"
	healthAPI "clubmembers/internal/app/server/api/http/health"
	memberAPI "clubmembers/internal/app/server/api/http/member"
	"clubmembers/internal/app/server/api/http/middleware"
	"clubmembers/internal/app/server/api/http/middleware/auth"
	"clubmembers/internal/app/server/api/http/middleware/logger"
	metricsMW "clubmembers/internal/app/server/api/http/middleware/metrics"
	paymentAPI "clubmembers/internal/app/server/api/http/payment"
	userAPI "clubmembers/internal/app/server/api/http/user"
	"clubmembers/internal/app/server/config"
	avatarDomain "clubmembers/internal/domain/avatar"
	"clubmembers/internal/domain/member"
	"clubmembers/internal/domain/payment"
	"clubmembers/internal/domain/session"
	"clubmembers/internal/domain/user"
	"clubmembers/internal/infrastructure/metrics"
	"clubmembers/internal/infrastructure/storage/postgres"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health  *healthAPI.Handler
	User    *userAPI.Handler
	Member  *memberAPI.Handler
	Payment *paymentAPI.Handler
	Avatar  *avatar.Handler
}

// Services доменные сервисы, из которых собираются обработчики.
type Services struct {
	Health  healthAPI.Pinger
	User    user.Servicer
	Session session.Servicer
	Member  member.Servicer
	Payment payment.Servicer
	Avatar  avatarDomain.Servicer
}

// New создает *chi.Mux с API поверх Postgres и /metrics на реестре reg.
func New(storage *postgres.Storage, auth config.Auth, reg *prometheus.Registry, log *slog.Logger) *chi.Mux {
	return NewWithServices(services(storage, auth, log), reg, log)
}

// NewWithServices регистрирует все операции через huma.Register.
func NewWithServices(svc Services, reg *prometheus.Registry, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	cfg := huma.DefaultConfig("Club Members API", "1.0.0")
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, cfg)

	m := metrics.New(reg)
	h := handlers(svc, m, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Member.SetupRoutes(API)
	h.Payment.SetupRoutes(API)
	h.Avatar.SetupRoutes(API)

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return mux
}

func services(storage *postgres.Storage, cfg config.Auth, log *slog.Logger) Services {
	pool := storage.Pool()
	sessionService := session.NewService(postgres.NewSessionRepository(storage, log), log, cfg.SessionTTL)

	return Services{
		Health:  storage,
		User:    user.NewService(postgres.NewUserRepository(pool, log), user.NewCredentialsValidator(), log),
		Session: sessionService,
		Member:  member.NewService(postgres.NewMemberRepository(pool, log), log),
		Payment: payment.NewService(postgres.NewPaymentRepository(pool, log), log),
		Avatar: avatarDomain.NewService(
			postgres.NewAvatarRepository(pool, log),
			avatarDomain.NewSigner(cfg.SigningSecret),
			log,
		),
	}
}

func handlers(svc Services, m *metrics.Metrics, log *slog.Logger) *Handlers {
	authMW := auth.New(svc.Session, log)
	loggerMW := logger.New(log)
	metricMW := metricsMW.New(m)
	middlewares := middleware.NewContainer(loggerMW.Middleware(), metricMW.Middleware())

	healthHandler := healthAPI.NewHandler(svc.Health, log, middlewares.GetAllAndClear())
	userHandler := userAPI.NewHandler(svc.User, svc.Session, m, log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	memberHandler := memberAPI.NewHandler(svc.Member, m, log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	paymentHandler := paymentAPI.NewHandler(svc.Payment, m, log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	authed := middlewares.GetAllAndClear()
	avatarHandler := avatar.NewHandler(svc.Avatar, m, log, authed, middlewares.GetAllAndClear())

	return &Handlers{
		Health:  healthHandler,
		User:    userHandler,
		Member:  memberHandler,
		Payment: paymentHandler,
		Avatar:  avatarHandler,
	}
}

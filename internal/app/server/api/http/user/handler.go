package user

import (
	"context"
	"errors"
	"strings"

	"clubmembers/internal/domain/session"
	"clubmembers/internal/domain/user"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Recorder считает регистрации.
type Recorder interface {
	IncrementUsersRegistered()
}

type Handler struct {
	service    user.Servicer
	session    session.Servicer
	metrics    Recorder
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service user.Servicer, session session.Servicer, metrics Recorder, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		session:    session,
		metrics:    metrics,
		log:        log.With("component", "user_handler"),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.registerOp(), h.register)
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.logoutOp(), h.logout)
}

func (h *Handler) register(ctx context.Context, input *registerInput) (*registerOutput, error) {
	u, err := h.service.Register(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrExists):
			return nil, huma.Error409Conflict("user already exists")
		case errors.Is(err, user.ErrInvalidInput):
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		h.log.Error("register failed", "error", err)
		return nil, huma.Error500InternalServerError("register failed")
	}

	if h.metrics != nil {
		h.metrics.IncrementUsersRegistered()
	}

	return &registerOutput{
		Body: RegisterResponse{UID: u.UID, Status: "Ok"},
	}, nil
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	u, err := h.service.Authenticate(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidAuth) {
			return nil, huma.Error401Unauthorized("invalid credentials")
		}
		h.log.Error("authenticate failed", "error", err)
		return nil, huma.Error500InternalServerError("login failed")
	}

	token, err := h.session.Create(ctx, u.UID)
	if err != nil {
		h.log.Error("create session failed", "uid", u.UID, "error", err)
		return nil, huma.Error500InternalServerError("create session failed")
	}

	return &loginOutput{
		Body: LoginResponse{
			Token:  token,
			UID:    u.UID,
			Status: "Ok",
		},
	}, nil
}

func (h *Handler) logout(ctx context.Context, input *logoutInput) (*struct{}, error) {
	token, ok := strings.CutPrefix(input.Authorization, "Bearer ")
	if !ok || token == "" {
		return nil, huma.Error401Unauthorized("missing bearer token")
	}
	if err := h.session.Revoke(ctx, token); err != nil {
		h.log.Error("revoke session failed", "error", err)
		return nil, huma.Error500InternalServerError("logout failed")
	}
	return nil, nil
}

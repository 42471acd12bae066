package member

import (
	"context"
	"errors"

	"clubmembers/internal/app/server/api/http/middleware/auth"
	"clubmembers/internal/domain/member"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Recorder interface {
	IncrementMembersUpserted()
	IncrementMembersDeleted()
}

type Handler struct {
	service    member.Servicer
	metrics    Recorder
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service member.Servicer, metrics Recorder, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		metrics:    metrics,
		log:        log.With("component", "member_handler"),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.upsertOp(), h.upsert)
	huma.Register(api, h.deleteOp(), h.delete)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	uid, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	members, err := h.service.List(ctx, uid, input.OnlyLive)
	if err != nil {
		h.log.Error("list members failed", "uid", uid, "error", err)
		return nil, huma.Error500InternalServerError("list members failed")
	}
	return &listOutput{Body: members}, nil
}

func (h *Handler) upsert(ctx context.Context, input *upsertInput) (*upsertOutput, error) {
	uid, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	rec, err := h.service.Upsert(ctx, uid, input.ID, input.Body)
	if err != nil {
		return nil, h.mapError(err, "upsert member", input.ID)
	}

	if h.metrics != nil {
		h.metrics.IncrementMembersUpserted()
	}
	return &upsertOutput{Body: rec}, nil
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*struct{}, error) {
	uid, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	if err := h.service.SoftDelete(ctx, uid, input.ID); err != nil {
		return nil, h.mapError(err, "delete member", input.ID)
	}

	if h.metrics != nil {
		h.metrics.IncrementMembersDeleted()
	}
	return nil, nil
}

func (h *Handler) mapError(err error, op string, id int64) error {
	switch {
	case errors.Is(err, member.ErrForbidden):
		return huma.Error403Forbidden("record belongs to another owner")
	case errors.Is(err, member.ErrNotFound):
		return huma.Error404NotFound("member not found")
	case errors.Is(err, member.ErrIDMismatch),
		errors.Is(err, member.ErrNameRequired),
		errors.Is(err, member.ErrInvalidTimestamp),
		errors.Is(err, member.ErrInvalidDate):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	h.log.Error(op+" failed", "id", id, "error", err)
	return huma.Error500InternalServerError(op + " failed")
}

package payment

import (
	"context"
	"errors"

	"clubmembers/internal/app/server/api/http/middleware/auth"
	"clubmembers/internal/domain/member"
	"clubmembers/internal/domain/payment"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Recorder interface {
	IncrementPaymentsRecorded()
}

type Handler struct {
	service    payment.Servicer
	metrics    Recorder
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service payment.Servicer, metrics Recorder, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		metrics:    metrics,
		log:        log.With("component", "payment_handler"),
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.insertOp(), h.insert)
	huma.Register(api, h.upsertOp(), h.upsert)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	uid, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	payments, err := h.service.ListByMember(ctx, uid, input.MemberID)
	if err != nil {
		return nil, h.mapError(err, "list payments")
	}
	return &listOutput{Body: payments}, nil
}

func (h *Handler) insert(ctx context.Context, input *insertInput) (*paymentOutput, error) {
	uid, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	created, err := h.service.Insert(ctx, uid, input.Body)
	if err != nil {
		return nil, h.mapError(err, "insert payment")
	}
	h.record()
	return &paymentOutput{Body: created}, nil
}

func (h *Handler) upsert(ctx context.Context, input *upsertInput) (*paymentOutput, error) {
	uid, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	saved, err := h.service.Upsert(ctx, uid, input.ID, input.Body)
	if err != nil {
		return nil, h.mapError(err, "upsert payment")
	}
	h.record()
	return &paymentOutput{Body: saved}, nil
}

func (h *Handler) record() {
	if h.metrics != nil {
		h.metrics.IncrementPaymentsRecorded()
	}
}

func (h *Handler) mapError(err error, op string) error {
	switch {
	case errors.Is(err, payment.ErrMemberNotFound), errors.Is(err, payment.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, payment.ErrInvalidAmount), errors.Is(err, member.ErrInvalidTimestamp):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	h.log.Error(op+" failed", "error", err)
	return huma.Error500InternalServerError(op + " failed")
}

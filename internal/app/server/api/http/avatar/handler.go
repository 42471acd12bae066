package avatar

import (
	"context"
	"errors"
	"net/url"
	"time"

	"clubmembers/internal/app/server/api/http/middleware/auth"
	"clubmembers/internal/domain/avatar"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// ObjectPath путь скачивания по подписанному токену.
const ObjectPath = "/api/v1/storage/avatars/object"

type Recorder interface {
	ObserveAvatarUpload(size int)
}

type Handler struct {
	service avatar.Servicer
	metrics Recorder
	log     *slog.Logger
	authed  huma.Middlewares
	public  huma.Middlewares
}

// NewHandler: authed применяется к загрузке и подписи, public к скачиванию по токену.
func NewHandler(service avatar.Servicer, metrics Recorder, log *slog.Logger, authed, public huma.Middlewares) *Handler {
	return &Handler{
		service: service,
		metrics: metrics,
		log:     log.With("component", "avatar_handler"),
		authed:  authed,
		public:  public,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.uploadOp(), h.upload)
	huma.Register(api, h.signOp(), h.sign)
	huma.Register(api, h.objectOp(), h.object)
}

func (h *Handler) upload(ctx context.Context, input *uploadInput) (*uploadOutput, error) {
	uid, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	if err := h.service.Upload(ctx, uid, input.Key, input.ContentType, input.RawBody); err != nil {
		return nil, h.mapError(err, "upload avatar")
	}

	if h.metrics != nil {
		h.metrics.ObserveAvatarUpload(len(input.RawBody))
	}
	return &uploadOutput{Body: UploadResponse{Key: input.Key, Size: len(input.RawBody)}}, nil
}

func (h *Handler) sign(ctx context.Context, input *signInput) (*signOutput, error) {
	uid, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	ttl := time.Duration(input.Body.ExpiresIn) * time.Second
	token, err := h.service.Sign(ctx, uid, input.Body.Key, ttl)
	if err != nil {
		return nil, h.mapError(err, "sign avatar")
	}

	return &signOutput{Body: SignResponse{
		SignedURL: ObjectPath + "?token=" + url.QueryEscape(token),
	}}, nil
}

func (h *Handler) object(ctx context.Context, input *objectInput) (*objectOutput, error) {
	obj, err := h.service.Open(ctx, input.Token)
	if err != nil {
		return nil, h.mapError(err, "open avatar")
	}

	return &objectOutput{
		ContentType:  obj.ContentType,
		CacheControl: "private, max-age=60",
		Body:         obj.Data,
	}, nil
}

func (h *Handler) mapError(err error, op string) error {
	switch {
	case errors.Is(err, avatar.ErrForbiddenKey):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, avatar.ErrInvalidToken):
		return huma.Error403Forbidden("invalid or expired signature")
	case errors.Is(err, avatar.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, avatar.ErrTooLarge):
		return huma.Error413RequestEntityTooLarge(err.Error())
	case errors.Is(err, avatar.ErrInvalidKey), errors.Is(err, avatar.ErrEmpty):
		return huma.Error422UnprocessableEntity(err.Error())
	}
	h.log.Error(op+" failed", "error", err)
	return huma.Error500InternalServerError(op + " failed")
}

package avatar

import (
	"net/http"

	"clubmembers/internal/domain/avatar"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) uploadOp() huma.Operation {
	return huma.Operation{
		OperationID:  "upload-avatar",
		Method:       http.MethodPut,
		Path:         "/api/v1/storage/avatars",
		Summary:      "Загрузить аватар (upsert)",
		Tags:         []string{"storage"},
		MaxBodyBytes: avatar.MaxSize,
		Security:     bearer,
		Middlewares:  h.authed,
	}
}

func (h *Handler) signOp() huma.Operation {
	return huma.Operation{
		OperationID: "sign-avatar",
		Method:      http.MethodPost,
		Path:        "/api/v1/storage/avatars/sign",
		Summary:     "Подписанная ссылка на аватар",
		Tags:        []string{"storage"},
		Security:    bearer,
		Middlewares: h.authed,
	}
}

func (h *Handler) objectOp() huma.Operation {
	return huma.Operation{
		OperationID: "get-avatar-object",
		Method:      http.MethodGet,
		Path:        "/api/v1/storage/avatars/object",
		Summary:     "Скачать аватар по подписанной ссылке",
		Tags:        []string{"storage"},
		Middlewares: h.public,
	}
}

package member

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "list-members",
		Method:      http.MethodGet,
		Path:        "/api/v1/members",
		Summary:     "Список записей владельца",
		Tags:        []string{"members"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) upsertOp() huma.Operation {
	return huma.Operation{
		OperationID: "upsert-member",
		Method:      http.MethodPut,
		Path:        "/api/v1/members/{id}",
		Summary:     "Создать или перезаписать запись",
		Tags:        []string{"members"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "delete-member",
		Method:      http.MethodDelete,
		Path:        "/api/v1/members/{id}",
		Summary:     "Пометить запись удаленной",
		Tags:        []string{"members"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

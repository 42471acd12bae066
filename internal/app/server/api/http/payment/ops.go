package payment

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

var bearer = []map[string][]string{{"bearer": {}}}

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "list-payments",
		Method:      http.MethodGet,
		Path:        "/api/v1/members/{id}/payments",
		Summary:     "Оплаты участника, новые первыми",
		Tags:        []string{"payments"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

func (h *Handler) insertOp() huma.Operation {
	return huma.Operation{
		OperationID:   "insert-payment",
		Method:        http.MethodPost,
		Path:          "/api/v1/payments",
		Summary:       "Добавить оплату",
		Tags:          []string{"payments"},
		DefaultStatus: http.StatusCreated,
		Security:      bearer,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) upsertOp() huma.Operation {
	return huma.Operation{
		OperationID: "upsert-payment",
		Method:      http.MethodPut,
		Path:        "/api/v1/payments/{id}",
		Summary:     "Изменить оплату",
		Tags:        []string{"payments"},
		Security:    bearer,
		Middlewares: h.middleware,
	}
}

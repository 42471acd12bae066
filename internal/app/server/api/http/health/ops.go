package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) healthCheckOp() huma.Operation {
	return huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Проверка сервиса",
		Description: "Доступность Postgres и текущее время сервера для оценки расхождения часов клиента",
		Tags:        []string{"health"},
		Middlewares: h.middleware,
	}
}

package metrics

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Observer принимает результат обработанного запроса.
type Observer interface {
	ObserveRequest(method, operation string, status int, d time.Duration)
}

type Metrics struct {
	observer Observer
}

func New(observer Observer) *Metrics {
	return &Metrics{observer: observer}
}

// Middleware считает запросы и их длительность по OperationID.
func (m *Metrics) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		operation := "unknown"
		if op := ctx.Operation(); op != nil && op.OperationID != "" {
			operation = op.OperationID
		}
		status := ctx.Status()
		if status == 0 {
			status = 200
		}
		m.observer.ObserveRequest(ctx.Method(), operation, status, time.Since(start))
	}
}

package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

// Func сигнатура мидлвари huma.
type Func = func(ctx huma.Context, next func(huma.Context))

// Container собирает цепочки мидлварей для групп операций.
// Общие мидлвари (логирование, метрики) добавляются в начало каждой цепочки.
type Container struct {
	common  huma.Middlewares
	pending huma.Middlewares
}

// NewContainer создает контейнер с общими мидлварями
func NewContainer(common ...Func) *Container {
	return &Container{
		common: append(huma.Middlewares{}, common...),
	}
}

// Add добавляет мидлварь в текущую цепочку
func (mc *Container) Add(middleware ...Func) {
	mc.pending = append(mc.pending, middleware...)
}

// GetAllAndClear возвращает общие мидлвари и накопленные через Add,
// после чего начинает новую цепочку
func (mc *Container) GetAllAndClear() huma.Middlewares {
	result := make(huma.Middlewares, 0, len(mc.common)+len(mc.pending))
	result = append(result, mc.common...)
	result = append(result, mc.pending...)
	mc.pending = nil
	return result
}

package metrics

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObserveRequest(method, operation string, status int, d time.Duration) {
	m.Called(method, operation, status, d)
}

func TestMetrics_Middleware(t *testing.T) {
	obs := new(MockObserver)
	obs.On("ObserveRequest", http.MethodGet, "teapot", http.StatusTeapot, mock.AnythingOfType("time.Duration")).Once()

	_, api := humatest.New(t)
	huma.Register(api, huma.Operation{
		OperationID: "teapot",
		Method:      http.MethodGet,
		Path:        "/teapot",
		Middlewares: huma.Middlewares{New(obs).Middleware()},
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		return nil, huma.NewError(http.StatusTeapot, "short and stout")
	})

	resp := api.Get("/teapot")

	assert.Equal(t, http.StatusTeapot, resp.Code)
	obs.AssertExpectations(t)
}

package health

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHandler_healthCheck(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedStatus string
		wantErr        bool
	}{
		{
			name:           "health check returns OK",
			expectedStatus: "OK",
		},
		{
			name:    "database down",
			pingErr: errors.New("connection refused"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := pingerFunc(func(context.Context) error { return tt.pingErr })
			handler := NewHandler(db, slog.Default(), huma.Middlewares{})
			handler.now = func() time.Time { return time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC) }

			output, err := handler.healthCheck(context.Background(), &Input{})

			if tt.wantErr {
				var se huma.StatusError
				assert.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusServiceUnavailable, se.GetStatus())
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, output.Body.Status)
			assert.Equal(t, "2024-05-20T10:00:00Z", output.Body.ServerTime)
		})
	}
}

func TestHandler_Route(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(nil, slog.Default(), nil).SetupRoutes(api)

	resp := api.Get("/api/v1/health")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"OK"`)
	assert.Contains(t, resp.Body.String(), `"server_time":`)
}

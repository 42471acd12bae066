package logger

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func setup(t *testing.T, buf *bytes.Buffer) humatest.TestAPI {
	_, api := humatest.New(t)
	log := slog.New(slog.NewJSONHandler(buf, nil))

	huma.Register(api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
		Middlewares: huma.Middlewares{New(log).Middleware()},
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		return nil, nil
	})
	return api
}

func TestLogger_Middleware(t *testing.T) {
	var buf bytes.Buffer
	api := setup(t, &buf)

	resp := api.Get("/ping")

	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.NotEmpty(t, resp.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"path":"/ping"`)
	assert.Contains(t, buf.String(), `"status":204`)
	assert.Contains(t, buf.String(), resp.Header().Get(RequestIDHeader))
}

func TestLogger_Middleware_KeepsRequestID(t *testing.T) {
	var buf bytes.Buffer
	api := setup(t, &buf)

	resp := api.Get("/ping", RequestIDHeader+": req-42")

	assert.Equal(t, "req-42", resp.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}

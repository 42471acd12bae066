package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clubmembers/internal/domain/avatar"
	"clubmembers/internal/domain/member"
	"clubmembers/internal/domain/payment"
	"clubmembers/internal/domain/session"
	"clubmembers/internal/domain/user"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type stubSessions struct{}

func (stubSessions) Create(context.Context, string) (string, error) { return "tok", nil }
func (stubSessions) Revoke(context.Context, string) error           { return nil }
func (stubSessions) Validate(_ context.Context, token string) (string, error) {
	if token == "tok" {
		return "uid-1", nil
	}
	return "", session.ErrInvalidSession
}

type stubMembers struct{ member.Servicer }

func (stubMembers) List(_ context.Context, uid string, _ bool) ([]member.Remote, error) {
	return []member.Remote{{ID: 1, Name: "Ann", UpdatedAt: "2024-01-01T00:00:00Z", UID: &uid}}, nil
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := Services{
		Session: stubSessions{},
		User:    user.Servicer(nil),
		Member:  stubMembers{},
		Payment: payment.Servicer(nil),
		Avatar:  avatar.Servicer(nil),
	}
	srv := httptest.NewServer(NewWithServices(svc, prometheus.NewRegistry(), slog.Default()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestAPI_Routes(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{name: "health is public", path: "/api/v1/health", wantStatus: http.StatusOK, wantBody: `"status":"OK"`},
		{name: "members need auth", path: "/api/v1/members", wantStatus: http.StatusUnauthorized},
		{name: "members with token", path: "/api/v1/members?only_live=true", token: "tok", wantStatus: http.StatusOK, wantBody: `"name":"Ann"`},
		{name: "bad token", path: "/api/v1/members", token: "nope", wantStatus: http.StatusUnauthorized},
		{name: "openapi", path: "/openapi.json", wantStatus: http.StatusOK, wantBody: "Club Members API"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, srv, http.MethodGet, tt.path, tt.token)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				assert.Contains(t, body, tt.wantBody)
			}
		})
	}
}

func TestAPI_Metrics(t *testing.T) {
	srv := newServer(t)

	do(t, srv, http.MethodGet, "/api/v1/health", "")
	resp, body := do(t, srv, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(body, `clubmembers_http_requests_total{method="GET",operation="health-check",status="200"} 1`))
}

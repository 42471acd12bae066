package user

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"clubmembers/internal/domain/user"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, email, password string) (user.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockService) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(user.User), args.Error(1)
}

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Create(ctx context.Context, uid string) (string, error) {
	args := m.Called(ctx, uid)
	return args.String(0), args.Error(1)
}

func (m *MockSession) Validate(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockSession) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

type countingRecorder struct{ n int }

func (c *countingRecorder) IncrementUsersRegistered() { c.n++ }

func setup(t *testing.T) (humatest.TestAPI, *MockService, *MockSession, *countingRecorder) {
	_, api := humatest.New(t)
	svc := new(MockService)
	sess := new(MockSession)
	rec := &countingRecorder{}
	NewHandler(svc, sess, rec, slog.Default(), nil).SetupRoutes(api)
	return api, svc, sess, rec
}

func credentials() map[string]any {
	return map[string]any{"email": "admin@club.org", "password": "secret123"}
}

func TestHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCount  int
	}{
		{name: "created", wantStatus: http.StatusCreated, wantCount: 1},
		{name: "exists", err: user.ErrExists, wantStatus: http.StatusConflict},
		{name: "invalid", err: user.ErrInvalidInput, wantStatus: http.StatusUnprocessableEntity},
		{name: "storage", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, svc, _, rec := setup(t)
			svc.On("Register", mock.Anything, "admin@club.org", "secret123").
				Return(user.User{UID: "uid-1"}, tt.err)

			resp := api.Post("/user/register", credentials())

			assert.Equal(t, tt.wantStatus, resp.Code)
			assert.Equal(t, tt.wantCount, rec.n)
			if tt.err == nil {
				assert.Contains(t, resp.Body.String(), `"uid":"uid-1"`)
			}
		})
	}
}

func TestHandler_Register_ValidatesBody(t *testing.T) {
	api, svc, _, _ := setup(t)

	resp := api.Post("/user/register", map[string]any{"email": "admin@club.org", "password": "short"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		api, svc, sess, _ := setup(t)
		svc.On("Authenticate", mock.Anything, "admin@club.org", "secret123").Return(user.User{UID: "uid-1"}, nil)
		sess.On("Create", mock.Anything, "uid-1").Return("tok", nil)

		resp := api.Post("/user/login", credentials())

		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"token":"tok"`)
		assert.Contains(t, resp.Body.String(), `"uid":"uid-1"`)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		api, svc, sess, _ := setup(t)
		svc.On("Authenticate", mock.Anything, "admin@club.org", "secret123").Return(user.User{}, user.ErrInvalidAuth)

		resp := api.Post("/user/login", credentials())

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
		sess.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("session failure", func(t *testing.T) {
		api, svc, sess, _ := setup(t)
		svc.On("Authenticate", mock.Anything, "admin@club.org", "secret123").Return(user.User{UID: "uid-1"}, nil)
		sess.On("Create", mock.Anything, "uid-1").Return("", errors.New("db down"))

		resp := api.Post("/user/login", credentials())

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

func TestHandler_Logout(t *testing.T) {
	api, _, sess, _ := setup(t)
	sess.On("Revoke", mock.Anything, "tok").Return(nil)

	resp := api.Post("/user/logout", "Authorization: Bearer tok")
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.Post("/user/logout")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	sess.AssertExpectations(t)
}

package payment

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"clubmembers/internal/app/server/api/http/middleware/auth"
	"clubmembers/internal/domain/payment"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListByMember(ctx context.Context, uid string, memberID int64) ([]payment.Remote, error) {
	args := m.Called(ctx, uid, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Remote), args.Error(1)
}

func (m *MockService) Insert(ctx context.Context, uid string, rec payment.Remote) (payment.Remote, error) {
	args := m.Called(ctx, uid, rec)
	return args.Get(0).(payment.Remote), args.Error(1)
}

func (m *MockService) Upsert(ctx context.Context, uid string, id int64, rec payment.Remote) (payment.Remote, error) {
	args := m.Called(ctx, uid, id, rec)
	return args.Get(0).(payment.Remote), args.Error(1)
}

type counter struct{ n int }

func (c *counter) IncrementPaymentsRecorded() { c.n++ }

func setup(t *testing.T) (humatest.TestAPI, *MockService, *counter) {
	_, api := humatest.New(t)
	svc := new(MockService)
	c := &counter{}
	withOwner := func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithContext(ctx, auth.WithUserID(ctx.Context(), "uid-1")))
	}
	NewHandler(svc, c, slog.Default(), huma.Middlewares{withOwner}).SetupRoutes(api)
	return api, svc, c
}

func TestHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		result     []payment.Remote
		err        error
		wantStatus int
	}{
		{
			name:       "newest first from service",
			result:     []payment.Remote{{ID: 2, Amount: 20, MemberID: 5}, {ID: 1, Amount: 10, MemberID: 5}},
			wantStatus: http.StatusOK,
		},
		{name: "foreign member", err: payment.ErrMemberNotFound, wantStatus: http.StatusNotFound},
		{name: "storage", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, svc, _ := setup(t)
			svc.On("ListByMember", mock.Anything, "uid-1", int64(5)).Return(tt.result, tt.err)

			resp := api.Get("/api/v1/members/5/payments")

			assert.Equal(t, tt.wantStatus, resp.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Insert(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		api, svc, c := setup(t)
		svc.On("Insert", mock.Anything, "uid-1", payment.Remote{Amount: 25, MemberID: 5}).
			Return(payment.Remote{ID: 9, Amount: 25, MemberID: 5, CreatedAt: "2024-01-01T00:00:00Z"}, nil)

		resp := api.Post("/api/v1/payments", map[string]any{"amount": 25, "member_id": 5})

		assert.Equal(t, http.StatusCreated, resp.Code)
		assert.Contains(t, resp.Body.String(), `"id":9`)
		assert.Equal(t, 1, c.n)
	})

	t.Run("invalid amount", func(t *testing.T) {
		api, svc, c := setup(t)
		svc.On("Insert", mock.Anything, "uid-1", mock.Anything).Return(payment.Remote{}, payment.ErrInvalidAmount)

		resp := api.Post("/api/v1/payments", map[string]any{"amount": -1, "member_id": 5})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
		assert.Zero(t, c.n)
	})
}

func TestHandler_Upsert(t *testing.T) {
	api, svc, c := setup(t)
	svc.On("Upsert", mock.Anything, "uid-1", int64(3), mock.MatchedBy(func(r payment.Remote) bool {
		return r.Amount == 30 && r.MemberID == 5
	})).Return(payment.Remote{ID: 3, Amount: 30, MemberID: 5}, nil)

	resp := api.Put("/api/v1/payments/3", map[string]any{"amount": 30, "member_id": 5})

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, c.n)
}

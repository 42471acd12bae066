package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListByMember(ctx context.Context, uid string, memberID int64) ([]Payment, error) {
	args := m.Called(ctx, uid, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Payment), args.Error(1)
}

func (m *MockRepository) Insert(ctx context.Context, uid string, p Payment) (Payment, error) {
	args := m.Called(ctx, uid, p)
	return args.Get(0).(Payment), args.Error(1)
}

func (m *MockRepository) Upsert(ctx context.Context, uid string, p Payment) error {
	args := m.Called(ctx, uid, p)
	return args.Error(0)
}

func TestService_ListByMember_NewestFirst(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mockRepo.On("ListByMember", mock.Anything, "u-1", int64(5)).Return([]Payment{
		{ID: 1, CreatedAt: base, Amount: 10, MemberID: 5},
		{ID: 3, CreatedAt: base.AddDate(0, 2, 0), Amount: 30, MemberID: 5},
		{ID: 2, CreatedAt: base.AddDate(0, 1, 0), Amount: 20, MemberID: 5},
	}, nil)

	got, err := service.ListByMember(context.Background(), "u-1", 5)
	assert.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, []int64{got[0].ID, got[1].ID, got[2].ID})
	mockRepo.AssertExpectations(t)
}

func TestService_Insert(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	mockRepo.On("Insert", mock.Anything, "u-1", Payment{CreatedAt: fixed, Amount: 50, MemberID: 5}).
		Return(Payment{ID: 11, CreatedAt: fixed, Amount: 50, MemberID: 5}, nil)

	got, err := service.Insert(context.Background(), "u-1", Remote{ID: 99, Amount: 50, MemberID: 5})
	assert.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, "2024-03-01T09:00:00Z", got.CreatedAt)
	mockRepo.AssertExpectations(t)
}

func TestService_Insert_Validation(t *testing.T) {
	tests := []struct {
		name    string
		rec     Remote
		wantErr string
	}{
		{name: "zero amount", rec: Remote{Amount: 0, MemberID: 5}, wantErr: ErrInvalidAmount.Error()},
		{name: "bad timestamp", rec: Remote{Amount: 5, MemberID: 5, CreatedAt: "?"}, wantErr: "invalid timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := NewService(mockRepo, slog.Default())

			_, err := service.Insert(context.Background(), "u-1", tt.rec)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_Upsert(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Upsert", mock.Anything, "u-1", mock.MatchedBy(func(p Payment) bool {
		return p.ID == 7 && p.Amount == 75
	})).Return(nil)

	got, err := service.Upsert(context.Background(), "u-1", 7, Remote{Amount: 75, MemberID: 5, CreatedAt: "2024-01-01T00:00:00Z"})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	mockRepo.AssertExpectations(t)
}

func TestService_Upsert_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Upsert", mock.Anything, "u-1", mock.Anything).Return(ErrMemberNotFound)

	_, err := service.Upsert(context.Background(), "u-1", 7, Remote{Amount: 75, MemberID: 5})
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestSortNewestFirst_TieBreaksByID(t *testing.T) {
	ts := time.Now()
	p := []Payment{{ID: 1, CreatedAt: ts}, {ID: 2, CreatedAt: ts}}
	SortNewestFirst(p)
	assert.Equal(t, int64(2), p[0].ID)
}

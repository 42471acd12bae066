package member

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, uid string, onlyLive bool) ([]Member, error) {
	args := m.Called(ctx, uid, onlyLive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Member), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id int64) (Member, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Member), args.Error(1)
}

func (m *MockRepository) Upsert(ctx context.Context, rec Member) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func remoteFor(id int64, uid string) Remote {
	return Remote{
		ID:        id,
		Name:      "Ann",
		UpdatedAt: "2024-01-01T10:00:00Z",
		UID:       &uid,
	}
}

func TestService_List(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	mockRepo.On("List", mock.Anything, "u-1", true).Return([]Member{{ID: 1, Name: "Ann", UpdatedAt: ts}}, nil)

	got, err := service.List(context.Background(), "u-1", true)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "2024-01-01T10:00:00Z", got[0].UpdatedAt)

	mockRepo.AssertExpectations(t)
}

func TestService_List_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("List", mock.Anything, "u-1", false).Return(nil, errors.New("database error"))

	_, err := service.List(context.Background(), "u-1", false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
}

func TestService_Upsert(t *testing.T) {
	tests := []struct {
		name      string
		id        int64
		rec       Remote
		setupMock func(*MockRepository)
		wantErr   error
	}{
		{
			name: "creates new record",
			id:   1,
			rec:  remoteFor(1, "u-1"),
			setupMock: func(m *MockRepository) {
				m.On("Get", mock.Anything, int64(1)).Return(Member{}, ErrNotFound)
				m.On("Upsert", mock.Anything, mock.MatchedBy(func(rec Member) bool {
					return rec.ID == 1 && rec.Owner() == "u-1" && rec.PaymentAmount == nil
				})).Return(nil)
			},
		},
		{
			name: "overwrites own record",
			id:   1,
			rec:  remoteFor(1, "u-1"),
			setupMock: func(m *MockRepository) {
				uid := "u-1"
				m.On("Get", mock.Anything, int64(1)).Return(Member{ID: 1, UID: &uid}, nil)
				m.On("Upsert", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name: "id taken from path when body has none",
			id:   3,
			rec:  remoteFor(0, "u-1"),
			setupMock: func(m *MockRepository) {
				m.On("Get", mock.Anything, int64(3)).Return(Member{}, ErrNotFound)
				m.On("Upsert", mock.Anything, mock.MatchedBy(func(rec Member) bool { return rec.ID == 3 })).Return(nil)
			},
		},
		{
			name:      "id mismatch",
			id:        2,
			rec:       remoteFor(1, "u-1"),
			setupMock: func(m *MockRepository) {},
			wantErr:   ErrIDMismatch,
		},
		{
			name:      "owner mismatch",
			id:        1,
			rec:       remoteFor(1, "u-2"),
			setupMock: func(m *MockRepository) {},
			wantErr:   ErrForbidden,
		},
		{
			name: "foreign existing record",
			id:   1,
			rec:  remoteFor(1, "u-1"),
			setupMock: func(m *MockRepository) {
				other := "u-2"
				m.On("Get", mock.Anything, int64(1)).Return(Member{ID: 1, UID: &other}, nil)
			},
			wantErr: ErrForbidden,
		},
		{
			name: "bad timestamp",
			id:   1,
			rec: func() Remote {
				r := remoteFor(1, "u-1")
				r.UpdatedAt = "soon"
				return r
			}(),
			setupMock: func(m *MockRepository) {},
			wantErr:   ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			tt.setupMock(mockRepo)
			service := NewService(mockRepo, slog.Default())

			_, err := service.Upsert(context.Background(), "u-1", tt.id, tt.rec)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_SoftDelete(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())
	fixed := time.Date(2024, 2, 2, 2, 2, 2, 2000, time.UTC)
	service.now = func() time.Time { return fixed }

	uid := "u-1"
	mockRepo.On("Get", mock.Anything, int64(4)).Return(Member{ID: 4, UID: &uid}, nil)
	mockRepo.On("SoftDelete", mock.Anything, int64(4), fixed).Return(nil)

	assert.NoError(t, service.SoftDelete(context.Background(), "u-1", 4))
	mockRepo.AssertExpectations(t)
}

func TestService_SoftDelete_Foreign(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	uid := "u-2"
	mockRepo.On("Get", mock.Anything, int64(4)).Return(Member{ID: 4, UID: &uid}, nil)

	err := service.SoftDelete(context.Background(), "u-1", 4)
	assert.ErrorIs(t, err, ErrForbidden)
	mockRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
}

package session

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

func (m *MockRepository) Create(ctx context.Context, uid, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, uid, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) Validate(ctx context.Context, tokenHash string) (string, error) {
	args := m.Called(ctx, tokenHash)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func TestService_Create(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), time.Hour)

	mockRepo.On("Create", mock.Anything, "u-1", mock.MatchedBy(func(hash string) bool {
		return len(hash) == 64
	}), mock.MatchedBy(func(expiresAt time.Time) bool {
		return expiresAt.After(time.Now().Add(59*time.Minute)) && expiresAt.Before(time.Now().Add(61*time.Minute))
	})).Return(nil)

	token, err := service.Create(context.Background(), "u-1")
	assert.NoError(t, err)
	// base64 от 32 байт с паддингом
	assert.Len(t, token, 44)

	mockRepo.AssertExpectations(t)
}

func TestService_Create_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), 0)

	mockRepo.On("Create", mock.Anything, "u-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(errors.New("database error"))

	_, err := service.Create(context.Background(), "u-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
}

func TestService_Validate(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), 0)

	token := "test_token_123"
	mockRepo.On("Validate", mock.Anything, hashToken(token)).Return("u-1", nil)

	uid, err := service.Validate(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, "u-1", uid)

	mockRepo.AssertExpectations(t)
}

func TestService_Validate_Invalid(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), 0)

	mockRepo.On("Validate", mock.Anything, mock.Anything).Return("", errors.New("no rows"))

	_, err := service.Validate(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestService_Revoke(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default(), 0)

	mockRepo.On("Delete", mock.Anything, hashToken("tok")).Return(nil)

	assert.NoError(t, service.Revoke(context.Background(), "tok"))
	mockRepo.AssertExpectations(t)
}

func TestHashToken_Deterministic(t *testing.T) {
	assert.Equal(t, hashToken("a"), hashToken("a"))
	assert.NotEqual(t, hashToken("a"), hashToken("b"))
}

package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func newService(repo Repository) *Service {
	return NewService(repo, NewCredentialsValidator(), slog.Default())
}

func TestService_Register(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u User) bool {
		_, err := uuid.Parse(u.UID)
		return err == nil &&
			u.Email == "admin@club.org" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret123")) == nil
	})).Return(nil)

	u, err := service.Register(context.Background(), "  Admin@Club.org ", "secret123")
	assert.NoError(t, err)
	assert.NotEmpty(t, u.UID)

	mockRepo.AssertExpectations(t)
}

func TestService_Register_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "bad email", email: "admin", password: "secret123"},
		{name: "short password", email: "admin@club.org", password: "s1"},
		{name: "no digit", email: "admin@club.org", password: "secretsecret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := newService(mockRepo)

			_, err := service.Register(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Register_RepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newService(mockRepo)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("User")).Return(ErrExists)

	_, err := service.Register(context.Background(), "admin@club.org", "secret123")
	assert.ErrorIs(t, err, ErrExists)
}

func TestService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)
	stored := User{UID: "u-1", Email: "admin@club.org", Password: string(hash)}

	tests := []struct {
		name     string
		password string
		findUser User
		findErr  error
		wantErr  error
		wantUID  string
	}{
		{name: "success", password: "secret123", findUser: stored, wantUID: "u-1"},
		{name: "wrong password", password: "nope12345", findUser: stored, wantErr: ErrInvalidAuth},
		{name: "unknown user", password: "secret123", findErr: ErrNotFound, wantErr: ErrInvalidAuth},
		{name: "storage failure", password: "secret123", findErr: errors.New("db down"), wantErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			service := newService(mockRepo)
			mockRepo.On("FindByEmail", mock.Anything, "admin@club.org").Return(tt.findUser, tt.findErr)

			u, err := service.Authenticate(context.Background(), "admin@club.org", tt.password)
			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUID, u.UID)
			case errors.Is(tt.wantErr, ErrInvalidAuth):
				assert.ErrorIs(t, err, ErrInvalidAuth)
			default:
				assert.ErrorContains(t, err, tt.wantErr.Error())
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestService_Authenticate_BadEmail(t *testing.T) {
	mockRepo := new(MockRepository)
	service := newService(mockRepo)

	_, err := service.Authenticate(context.Background(), "not-an-email", "secret123")
	assert.ErrorIs(t, err, ErrInvalidAuth)
	mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

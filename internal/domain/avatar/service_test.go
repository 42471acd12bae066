package avatar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Put(ctx context.Context, obj Object) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *MockRepository) Get(ctx context.Context, bucket, key string) (Object, error) {
	args := m.Called(ctx, bucket, key)
	return args.Get(0).(Object), args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, bucket, key string) (bool, error) {
	args := m.Called(ctx, bucket, key)
	return args.Bool(0), args.Error(1)
}

func TestCheckKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{name: "own namespace", key: "u-1/5.jpg"},
		{name: "nested file", key: "u-1/photos/5.jpg"},
		{name: "foreign namespace", key: "u-2/5.jpg", wantErr: ErrForbiddenKey},
		{name: "no namespace", key: "5.jpg", wantErr: ErrForbiddenKey},
		{name: "traversal", key: "u-1/../u-2/5.jpg", wantErr: ErrInvalidKey},
		{name: "leading slash", key: "/u-1/5.jpg", wantErr: ErrInvalidKey},
		{name: "directory", key: "u-1/", wantErr: ErrInvalidKey},
		{name: "empty", key: "", wantErr: ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckKey("u-1", tt.key)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Upload(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewSigner("secret"), slog.Default())

	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	mockRepo.On("Put", mock.Anything, mock.MatchedBy(func(obj Object) bool {
		return obj.Bucket == Bucket && obj.Key == "u-1/5.jpg" && obj.ContentType == "image/jpeg"
	})).Return(nil)

	err := service.Upload(context.Background(), "u-1", "u-1/5.jpg", "", jpeg)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_Upload_Rejects(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewSigner("secret"), slog.Default())

	assert.ErrorIs(t, service.Upload(context.Background(), "u-1", "u-1/5.jpg", "image/jpeg", nil), ErrEmpty)
	assert.ErrorIs(t, service.Upload(context.Background(), "u-1", "u-1/5.jpg", "image/jpeg", make([]byte, MaxSize+1)), ErrTooLarge)
	assert.ErrorIs(t, service.Upload(context.Background(), "u-1", "u-2/5.jpg", "image/jpeg", []byte{1}), ErrForbiddenKey)
	mockRepo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestService_SignAndOpen(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewSigner("secret"), slog.Default())

	obj := Object{Bucket: Bucket, Key: "u-1/5.jpg", ContentType: "image/jpeg", Data: []byte{1, 2, 3}}
	mockRepo.On("Exists", mock.Anything, Bucket, "u-1/5.jpg").Return(true, nil)
	mockRepo.On("Get", mock.Anything, Bucket, "u-1/5.jpg").Return(obj, nil)

	token, err := service.Sign(context.Background(), "u-1", "u-1/5.jpg", DefaultTTL)
	require.NoError(t, err)

	got, err := service.Open(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, obj, got)
	mockRepo.AssertExpectations(t)
}

func TestService_Sign_Missing(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, NewSigner("secret"), slog.Default())

	mockRepo.On("Exists", mock.Anything, Bucket, "u-1/5.jpg").Return(false, nil)

	_, err := service.Sign(context.Background(), "u-1", "u-1/5.jpg", DefaultTTL)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSigner_Expired(t *testing.T) {
	signer := NewSigner("secret")
	issued := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issued }

	token, err := signer.Sign("avatars/u-1/5.jpg", 30*time.Minute)
	require.NoError(t, err)

	signer.now = func() time.Time { return issued.Add(29 * time.Minute) }
	path, err := signer.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "avatars/u-1/5.jpg", path)

	signer.now = func() time.Time { return issued.Add(31 * time.Minute) }
	_, err = signer.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSigner_WrongSecret(t *testing.T) {
	token, err := NewSigner("secret").Sign("avatars/u-1/5.jpg", time.Minute)
	require.NoError(t, err)

	_, err = NewSigner("other").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

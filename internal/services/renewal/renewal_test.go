package renewal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) UpsertSubscription(ctx context.Context, userID int64, days int) error {
	args := m.Called(ctx, userID, days)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_HandleRenewalMessage(t *testing.T) {
	tests := []struct {
		name       string
		body       []byte
		setupMocks func(*MockRepository)
		wantErr    bool
	}{
		{
			name: "valid event renews subscription",
			body: []byte(`{"user_id": 42, "days": 30}`),
			setupMocks: func(r *MockRepository) {
				r.On("UpsertSubscription", mock.Anything, int64(42), 30).Return(nil).Once()
			},
			wantErr: false,
		},
		{
			// Мусорное сообщение подтверждается, а не крутится в очереди
			name:       "malformed json is dropped",
			body:       []byte(`not json`),
			setupMocks: func(_ *MockRepository) {},
			wantErr:    false,
		},
		{
			name:       "missing days is dropped",
			body:       []byte(`{"user_id": 42}`),
			setupMocks: func(_ *MockRepository) {},
			wantErr:    false,
		},
		{
			name:       "negative days is dropped",
			body:       []byte(`{"user_id": 42, "days": -5}`),
			setupMocks: func(_ *MockRepository) {},
			wantErr:    false,
		},
		{
			// Ошибка хранилища возвращает событие в очередь
			name: "storage error requeues the event",
			body: []byte(`{"user_id": 42, "days": 30}`),
			setupMocks: func(r *MockRepository) {
				r.On("UpsertSubscription", mock.Anything, int64(42), 30).Return(errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMocks(repo)

			service := NewService(repo, newNoopLogger())
			err := service.HandleRenewalMessage(tt.body)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

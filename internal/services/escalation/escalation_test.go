package escalation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/premium-group-bot/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) AddWarning(ctx context.Context, userID int64, reason string, adminID int64) error {
	args := m.Called(ctx, userID, reason, adminID)
	return args.Error(0)
}

func (m *MockRepository) IncrementWarning(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) SetMuted(ctx context.Context, userID int64, muted bool) error {
	args := m.Called(ctx, userID, muted)
	return args.Error(0)
}

func (m *MockRepository) SetBanned(ctx context.Context, userID int64, banned bool) error {
	args := m.Called(ctx, userID, banned)
	return args.Error(0)
}

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) SendMessage(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

func (m *MockTransport) RestrictMember(ctx context.Context, chatID, userID int64, until time.Time) error {
	args := m.Called(ctx, chatID, userID, until)
	return args.Error(0)
}

func (m *MockTransport) BanMember(ctx context.Context, chatID, userID int64) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const (
	testAdminID = int64(777)
	testChatID  = int64(-100500)
	testUserID  = int64(42)
)

func userWithWarnings(count int) *models.User {
	return &models.User{UserID: testUserID, FirstName: "Ivan", WarningCount: count}
}

func testViolation() models.Violation {
	return models.Violation{
		UserID:    testUserID,
		FirstName: "Ivan",
		Username:  "ivan",
		ChatID:    testChatID,
		Reason:    models.ReasonExternalLink,
	}
}

func TestService_RegisterViolation_Tiers(t *testing.T) {
	tests := []struct {
		name         string
		currentCount int
		setupMocks   func(*MockRepository, *MockTransport)
		wantCount    int
		wantAction   models.Action
	}{
		{
			name:         "first violation - warning",
			currentCount: 0,
			setupMocks: func(r *MockRepository, tr *MockTransport) {
				// Уведомление в группу + оповещение администратора
				tr.On("SendMessage", mock.Anything, testChatID, mock.Anything).Return(nil).Once()
				tr.On("SendMessage", mock.Anything, testAdminID, mock.Anything).Return(nil).Once()
			},
			wantCount:  1,
			wantAction: models.ActionWarning,
		},
		{
			name:         "second violation - mute",
			currentCount: 1,
			setupMocks: func(r *MockRepository, tr *MockTransport) {
				tr.On("RestrictMember", mock.Anything, testChatID, testUserID, mock.AnythingOfType("time.Time")).Return(nil).Once()
				r.On("SetMuted", mock.Anything, testUserID, true).Return(nil).Once()
				tr.On("SendMessage", mock.Anything, testChatID, mock.Anything).Return(nil).Once()
				tr.On("SendMessage", mock.Anything, testAdminID, mock.Anything).Return(nil).Once()
			},
			wantCount:  2,
			wantAction: models.ActionMute,
		},
		{
			name:         "third violation - ban",
			currentCount: 2,
			setupMocks: func(r *MockRepository, tr *MockTransport) {
				tr.On("BanMember", mock.Anything, testChatID, testUserID).Return(nil).Once()
				r.On("SetBanned", mock.Anything, testUserID, true).Return(nil).Once()
				tr.On("SendMessage", mock.Anything, testChatID, mock.Anything).Return(nil).Once()
				tr.On("SendMessage", mock.Anything, testAdminID, mock.Anything).Return(nil).Once()
			},
			wantCount:  3,
			wantAction: models.ActionBan,
		},
		{
			// Терминальный уровень идемпотентен: пятое нарушение — всё ещё бан.
			name:         "fifth violation - still ban",
			currentCount: 4,
			setupMocks: func(r *MockRepository, tr *MockTransport) {
				tr.On("BanMember", mock.Anything, testChatID, testUserID).Return(nil).Once()
				r.On("SetBanned", mock.Anything, testUserID, true).Return(nil).Once()
				tr.On("SendMessage", mock.Anything, testChatID, mock.Anything).Return(nil).Once()
				tr.On("SendMessage", mock.Anything, testAdminID, mock.Anything).Return(nil).Once()
			},
			wantCount:  5,
			wantAction: models.ActionBan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			transport := new(MockTransport)

			repo.On("GetUser", mock.Anything, testUserID).Return(userWithWarnings(tt.currentCount), nil).Once()
			repo.On("AddWarning", mock.Anything, testUserID, string(models.ReasonExternalLink), int64(0)).Return(nil).Once()
			repo.On("IncrementWarning", mock.Anything, testUserID).Return(true, nil).Once()
			tt.setupMocks(repo, transport)

			service := NewService(repo, transport, nil, testAdminID, 24*time.Hour, newNoopLogger())
			result := service.RegisterViolation(context.Background(), testViolation())

			assert.Equal(t, tt.wantCount, result.NewCount)
			assert.Equal(t, tt.wantAction, result.Action)
			repo.AssertExpectations(t)
			transport.AssertExpectations(t)
		})
	}
}

func TestService_RegisterViolation_MuteFailed(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)

	repo.On("GetUser", mock.Anything, testUserID).Return(userWithWarnings(1), nil).Once()
	repo.On("AddWarning", mock.Anything, testUserID, mock.Anything, int64(0)).Return(nil).Once()
	repo.On("IncrementWarning", mock.Anything, testUserID).Return(true, nil).Once()
	transport.On("RestrictMember", mock.Anything, testChatID, testUserID, mock.AnythingOfType("time.Time")).
		Return(errors.New("not enough rights")).Once()
	// Администратор уведомляется даже при сорвавшейся санкции
	transport.On("SendMessage", mock.Anything, testAdminID, mock.Anything).Return(nil).Once()

	service := NewService(repo, transport, nil, testAdminID, 24*time.Hour, newNoopLogger())
	result := service.RegisterViolation(context.Background(), testViolation())

	assert.Equal(t, models.ActionMuteFailed, result.Action)
	assert.Equal(t, 2, result.NewCount)
	// Флаг мута не выставлен, уведомление о муте в группу не ушло
	repo.AssertNotCalled(t, "SetMuted", mock.Anything, mock.Anything, mock.Anything)
	transport.AssertNotCalled(t, "SendMessage", mock.Anything, testChatID, mock.Anything)
	repo.AssertExpectations(t)
	transport.AssertExpectations(t)
}

func TestService_RegisterViolation_BanFailed(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)

	repo.On("GetUser", mock.Anything, testUserID).Return(userWithWarnings(2), nil).Once()
	repo.On("AddWarning", mock.Anything, testUserID, mock.Anything, int64(0)).Return(nil).Once()
	repo.On("IncrementWarning", mock.Anything, testUserID).Return(true, nil).Once()
	transport.On("BanMember", mock.Anything, testChatID, testUserID).Return(errors.New("not enough rights")).Once()
	transport.On("SendMessage", mock.Anything, testAdminID, mock.Anything).Return(nil).Once()

	service := NewService(repo, transport, nil, testAdminID, 24*time.Hour, newNoopLogger())
	result := service.RegisterViolation(context.Background(), testViolation())

	assert.Equal(t, models.ActionBanFailed, result.Action)
	repo.AssertNotCalled(t, "SetBanned", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
	transport.AssertExpectations(t)
}

func TestService_RegisterViolation_UnknownUserDefaultsToZero(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)

	repo.On("GetUser", mock.Anything, testUserID).Return(nil, nil).Once()
	repo.On("AddWarning", mock.Anything, testUserID, mock.Anything, int64(0)).Return(nil).Once()
	repo.On("IncrementWarning", mock.Anything, testUserID).Return(false, nil).Once()
	transport.On("SendMessage", mock.Anything, testChatID, mock.Anything).Return(nil).Once()
	transport.On("SendMessage", mock.Anything, testAdminID, mock.Anything).Return(nil).Once()

	service := NewService(repo, transport, nil, testAdminID, 24*time.Hour, newNoopLogger())
	result := service.RegisterViolation(context.Background(), testViolation())

	assert.Equal(t, 1, result.NewCount)
	assert.Equal(t, models.ActionWarning, result.Action)
	repo.AssertExpectations(t)
}

func TestService_RegisterViolation_StorageDownStillNotifiesAdmin(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)

	storageErr := errors.New("connection refused")
	repo.On("GetUser", mock.Anything, testUserID).Return(nil, storageErr).Once()
	repo.On("AddWarning", mock.Anything, testUserID, mock.Anything, int64(0)).Return(storageErr).Once()
	repo.On("IncrementWarning", mock.Anything, testUserID).Return(false, storageErr).Once()
	transport.On("SendMessage", mock.Anything, testChatID, mock.Anything).Return(nil).Once()
	transport.On("SendMessage", mock.Anything, testAdminID, mock.Anything).Return(nil).Once()

	service := NewService(repo, transport, nil, testAdminID, 24*time.Hour, newNoopLogger())
	result := service.RegisterViolation(context.Background(), testViolation())

	// Недоступное хранилище не роняет обработку и не отменяет уведомления
	assert.Equal(t, models.ActionWarning, result.Action)
	repo.AssertExpectations(t)
	transport.AssertExpectations(t)
}

func TestService_RegisterViolation_PublishesEvent(t *testing.T) {
	repo := new(MockRepository)
	transport := new(MockTransport)
	events := new(MockEvents)

	repo.On("GetUser", mock.Anything, testUserID).Return(userWithWarnings(0), nil).Once()
	repo.On("AddWarning", mock.Anything, testUserID, mock.Anything, int64(0)).Return(nil).Once()
	repo.On("IncrementWarning", mock.Anything, testUserID).Return(true, nil).Once()
	transport.On("SendMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	events.On("Publish", "violation", mock.AnythingOfType("*models.SanctionResult")).Return(nil).Once()

	service := NewService(repo, transport, events, testAdminID, 24*time.Hour, newNoopLogger())
	service.RegisterViolation(context.Background(), testViolation())

	events.AssertExpectations(t)
}

// lockObservingEvents проверяет из Publish, что мьютекс участника
// уже отпущен: публикация события не должна идти под блокировкой.
type lockObservingEvents struct {
	locks       *userLocks
	lockWasFree bool
}

func (e *lockObservingEvents) Publish(string, any) error {
	mu := e.locks.forUser(testUserID)
	if mu.TryLock() {
		e.lockWasFree = true
		mu.Unlock()
	}
	return nil
}

func TestService_RegisterViolation_LockReleasedBeforePublish(t *testing.T) {
	repo := &countingRepo{}
	events := &lockObservingEvents{}
	service := NewService(repo, noopTransport{}, events, testAdminID, 24*time.Hour, newNoopLogger())
	events.locks = service.locks

	service.RegisterViolation(context.Background(), testViolation())

	assert.True(t, events.lockWasFree, "event published while the user mutex was still held")
}

// countingRepo хранит счётчик в памяти, имитируя реальное хранилище
// для проверки сериализации нарушений одного участника.
type countingRepo struct {
	mu    sync.Mutex
	count int
}

func (r *countingRepo) GetUser(_ context.Context, userID int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &models.User{UserID: userID, FirstName: "Ivan", WarningCount: r.count}, nil
}

func (r *countingRepo) AddWarning(context.Context, int64, string, int64) error { return nil }

func (r *countingRepo) IncrementWarning(context.Context, int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	return true, nil
}

func (r *countingRepo) SetMuted(context.Context, int64, bool) error  { return nil }
func (r *countingRepo) SetBanned(context.Context, int64, bool) error { return nil }

type noopTransport struct{}

func (noopTransport) SendMessage(context.Context, int64, string) error              { return nil }
func (noopTransport) RestrictMember(context.Context, int64, int64, time.Time) error { return nil }
func (noopTransport) BanMember(context.Context, int64, int64) error                 { return nil }

func TestService_RegisterViolation_ConcurrentSameUser(t *testing.T) {
	repo := &countingRepo{}
	service := NewService(repo, noopTransport{}, nil, testAdminID, 24*time.Hour, newNoopLogger())

	const violations = 5
	results := make(chan *models.SanctionResult, violations)
	var wg sync.WaitGroup
	for range violations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- service.RegisterViolation(context.Background(), testViolation())
		}()
	}
	wg.Wait()
	close(results)

	// Сериализация на участнике: каждое нарушение видит свежий счётчик,
	// поэтому все новые значения различны.
	seen := make(map[int]bool)
	for r := range results {
		assert.False(t, seen[r.NewCount], "duplicate count %d means a lost update", r.NewCount)
		seen[r.NewCount] = true
	}
	assert.Len(t, seen, violations)
}

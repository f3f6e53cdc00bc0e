package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового участника группы
func (f *TestDataFactory) CreateUser(t *testing.T, userID int64, username, firstName string) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (user_id, username, first_name)
		VALUES ($1, $2, $3)`,
		userID, username, firstName)
	require.NoError(t, err)
}

// CreateUserWithFlags создает участника с заданным счетчиком предупреждений и флагами
func (f *TestDataFactory) CreateUserWithFlags(t *testing.T, userID int64, warningCount int,
	isMuted, isBanned bool) {
	_, err := f.storage.DB.Exec(`INSERT INTO users
		(user_id, username, first_name, warning_count, is_muted, is_banned)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, "testuser", "Test", warningCount, isMuted, isBanned)
	require.NoError(t, err)
}

// CreateSubscription создает тестовую подписку с заданной датой окончания
func (f *TestDataFactory) CreateSubscription(t *testing.T, userID int64, expiryDate time.Time) {
	_, err := f.storage.DB.Exec(`INSERT INTO subscriptions (user_id, expiry_date)
		VALUES ($1, $2)`,
		userID, expiryDate)
	require.NoError(t, err)
	_, err = f.storage.DB.Exec(`UPDATE users SET subscription_expiry = $2 WHERE user_id = $1`,
		userID, expiryDate)
	require.NoError(t, err)
}

// CreateWarning создает тестовое предупреждение с заданным временем фиксации
func (f *TestDataFactory) CreateWarning(t *testing.T, userID int64, reason string,
	createdAt time.Time, resolved bool) string {
	id := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO warnings (id, user_id, reason, admin_id, created_at, resolved)
		VALUES ($1, $2, $3, 0, $4, $5)`,
		id, userID, reason, createdAt, resolved)
	require.NoError(t, err)
	return id
}

// TestVerification содержит методы проверки состояния хранилища
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый верификатор тестовых данных
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyUserCount проверяет количество записей участника с данным id
func (v *TestVerification) VerifyUserCount(t *testing.T, userID int64, expected int) {
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM users WHERE user_id = $1", userID).
		Scan(&count)
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

// VerifyWarningCount проверяет значение счетчика предупреждений участника
func (v *TestVerification) VerifyWarningCount(t *testing.T, userID int64, expected int) {
	var count int
	err := v.storage.DB.QueryRow("SELECT warning_count FROM users WHERE user_id = $1", userID).
		Scan(&count)
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

// VerifySubscriptionExpiry проверяет, что дата окончания подписки близка к ожидаемой
func (v *TestVerification) VerifySubscriptionExpiry(t *testing.T, userID int64,
	expected time.Time, delta time.Duration) {
	var expiry time.Time
	err := v.storage.DB.QueryRow("SELECT expiry_date FROM subscriptions WHERE user_id = $1", userID).
		Scan(&expiry)
	require.NoError(t, err)
	require.WithinDuration(t, expected, expiry, delta)

	// Денормализованное поле должно совпадать с таблицей подписок
	var userExpiry *time.Time
	err = v.storage.DB.QueryRow("SELECT subscription_expiry FROM users WHERE user_id = $1", userID).
		Scan(&userExpiry)
	require.NoError(t, err)
	require.NotNil(t, userExpiry)
	require.WithinDuration(t, expiry, *userExpiry, time.Second)
}

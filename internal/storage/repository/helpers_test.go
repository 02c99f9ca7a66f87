package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/persona-chat/internal/migrations"
	"github.com/magabrotheeeer/persona-chat/internal/models"
)

const testSchema = "chat_test"

// setupTestDatabase поднимает контейнер PostgreSQL, применяет миграции в отдельную схему
// и возвращает подключённое хранилище.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn, testSchema)
	require.NoError(t, err, "failed to create storage")

	projectRoot, err := filepath.Abs("../../..")
	require.NoError(t, err)
	err = migrations.Run(storage.DB, filepath.Join(projectRoot, "migrations"), testSchema)
	require.NoError(t, err, "failed to apply migrations")

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

// TestDataFactory создаёт тестовые данные напрямую в базе.
type TestDataFactory struct {
	storage *Storage
}

func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создаёт пользователя и возвращает его ID.
func (f *TestDataFactory) CreateUser(t *testing.T, email string) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO users (email, password_hash, name)
		VALUES ($1, 'hash', 'Test') RETURNING id`, email).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateSubscription вставляет подписку без деактивации предыдущих.
func (f *TestDataFactory) CreateSubscription(t *testing.T, userID int64, plan models.PlanType, characterID *int,
	start time.Time, active bool) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO subscriptions
		(user_id, plan_type, character_id, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		userID, plan, characterID, start, start.Add(models.SubscriptionPeriod), active).Scan(&id)
	require.NoError(t, err)
	return id
}

// CountActive возвращает число активных подписок пользователя.
func (f *TestDataFactory) CountActive(t *testing.T, userID int64) int {
	t.Helper()
	var n int
	err := f.storage.DB.QueryRow(`SELECT COUNT(*) FROM subscriptions WHERE user_id = $1 AND is_active`, userID).Scan(&n)
	require.NoError(t, err)
	return n
}

func intPtr(v int) *int { return &v }

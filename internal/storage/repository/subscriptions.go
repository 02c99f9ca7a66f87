package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/persona-chat/internal/models"
)

// GetLatestActiveSubscription возвращает последнюю по времени создания подписку пользователя
// с флагом is_active. Срок действия не проверяется: это делает вызывающая сторона.
// Если активных подписок нет, возвращает ErrNotFound.
func (s *Storage) GetLatestActiveSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	const op = "storage.GetLatestActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_type, character_id, start_date, end_date, is_active, created_at
			  FROM subscriptions
			  WHERE user_id = $1 AND is_active = TRUE
			  ORDER BY created_at DESC, id DESC
			  LIMIT 1`
	var sub models.Subscription
	var characterID sql.NullInt32
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(&sub.ID, &sub.UserID, &sub.PlanType,
		&characterID, &sub.StartDate, &sub.EndDate, &sub.IsActive, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if characterID.Valid {
		id := int(characterID.Int32)
		sub.CharacterID = &id
	}
	return &sub, nil
}

// ReplaceActiveSubscription в одной транзакции снимает флаг активности со всех подписок
// пользователя и сохраняет sub как единственную активную.
// Конкурентные вызовы для одного пользователя сериализуются advisory-блокировкой.
func (s *Storage) ReplaceActiveSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.ReplaceActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, sub.UserID); err != nil {
		return nil, fmt.Errorf("%s: lock: %w", op, err)
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE subscriptions SET is_active = FALSE WHERE user_id = $1 AND is_active = TRUE`,
		sub.UserID); err != nil {
		return nil, fmt.Errorf("%s: deactivate: %w", op, err)
	}

	query := `INSERT INTO subscriptions (user_id, plan_type, character_id, start_date, end_date, is_active)
			  VALUES ($1, $2, $3, $4, $5, TRUE)
			  RETURNING id, created_at`
	if err = tx.QueryRowContext(ctx, query, sub.UserID, sub.PlanType, sub.CharacterID,
		sub.StartDate, sub.EndDate).Scan(&sub.ID, &sub.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub.IsActive = true
	return &sub, nil
}

// FindSubscriptionsExpiringBetween возвращает действующие подписки, срок которых
// истекает в интервале (from, to], вместе с email владельца.
func (s *Storage) FindSubscriptionsExpiringBetween(ctx context.Context, from, to time.Time) ([]models.ExpiringSubscription, error) {
	const op = "storage.FindSubscriptionsExpiringBetween"

	query := `SELECT s.id, s.user_id, u.email, s.plan_type, s.character_id, s.end_date
			  FROM subscriptions s
			  JOIN users u ON u.id = s.user_id
			  WHERE s.is_active = TRUE AND s.end_date > $1 AND s.end_date <= $2
			  ORDER BY s.end_date`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.ExpiringSubscription
	for rows.Next() {
		var item models.ExpiringSubscription
		var characterID sql.NullInt32
		if err = rows.Scan(&item.SubscriptionID, &item.UserID, &item.Email, &item.PlanType,
			&characterID, &item.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if characterID.Valid {
			id := int(characterID.Int32)
			item.CharacterID = &id
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

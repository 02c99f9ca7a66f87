package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/persona-chat/internal/models"
)

// InsertMessage добавляет сообщение в журнал и возвращает его с присвоенными ID и временем записи.
func (s *Storage) InsertMessage(ctx context.Context, msg models.Message) (*models.Message, error) {
	const op = "storage.InsertMessage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO messages (user_id, character_id, text, sender)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, timestamp`
	if err := s.DB.QueryRowContext(ctx, query, msg.UserID, msg.CharacterID, msg.Text, msg.Sender).
		Scan(&msg.ID, &msg.Timestamp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &msg, nil
}

// ListMessages возвращает переписку пользователя в хронологическом порядке.
// Если characterID не nil, возвращаются только сообщения с этим персонажем.
func (s *Storage) ListMessages(ctx context.Context, userID int64, characterID *int) ([]models.Message, error) {
	const op = "storage.ListMessages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, character_id, text, sender, timestamp
			  FROM messages
			  WHERE user_id = $1
			    AND ($2::int IS NULL OR character_id = $2)
			  ORDER BY timestamp ASC, id ASC`
	rows, err := s.DB.QueryContext(ctx, query, userID, characterID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err = rows.Scan(&m.ID, &m.UserID, &m.CharacterID, &m.Text, &m.Sender, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Package dto описывает JSON-представления доменных сущностей в ответах API.
package dto

import (
	"time"

	"github.com/magabrotheeeer/persona-chat/internal/models"
)

// Subscription подписка в ответах API.
type Subscription struct {
	ID          int64           `json:"id" example:"12"`
	PlanType    models.PlanType `json:"plan_type" example:"single"`
	CharacterID *int            `json:"character_id" example:"2"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	IsActive    bool            `json:"is_active" example:"true"`
	Price       *int            `json:"price,omitempty" example:"990"`
}

// FromSubscription строит представление подписки. Для nil возвращает nil.
func FromSubscription(sub *models.Subscription) *Subscription {
	if sub == nil {
		return nil
	}
	return &Subscription{
		ID:          sub.ID,
		PlanType:    sub.PlanType,
		CharacterID: sub.CharacterID,
		StartDate:   sub.StartDate,
		EndDate:     sub.EndDate,
		IsActive:    sub.IsActive,
	}
}

// SubscriptionEnvelope ответ {"subscription": ...}.
type SubscriptionEnvelope struct {
	Subscription *Subscription `json:"subscription"`
}

// Message сообщение переписки в ответах API.
type Message struct {
	ID          int64         `json:"id" example:"101"`
	CharacterID int           `json:"characterId" example:"2"`
	Text        string        `json:"text" example:"Привет!"`
	Sender      models.Sender `json:"sender" example:"user"`
	Timestamp   time.Time     `json:"timestamp"`
}

// FromMessages строит представления сообщений, сохраняя порядок. Результат не бывает nil.
func FromMessages(msgs []models.Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Message{
			ID:          m.ID,
			CharacterID: m.CharacterID,
			Text:        m.Text,
			Sender:      m.Sender,
			Timestamp:   m.Timestamp,
		})
	}
	return out
}

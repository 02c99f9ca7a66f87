package models

import "time"

// PlanType тариф подписки.
type PlanType string

const (
	// PlanSingle доступ к одному персонажу.
	PlanSingle PlanType = "single"
	// PlanAll доступ ко всем персонажам.
	PlanAll PlanType = "all"
)

// SubscriptionPeriod срок действия купленной подписки.
const SubscriptionPeriod = 24 * time.Hour

// Valid сообщает, что тариф известен.
func (p PlanType) Valid() bool {
	return p == PlanSingle || p == PlanAll
}

// Price возвращает стоимость тарифа. Для неизвестного тарифа возвращает 0.
func (p PlanType) Price() int {
	switch p {
	case PlanSingle:
		return 990
	case PlanAll:
		return 1490
	default:
		return 0
	}
}

// Subscription запись о подписке пользователя.
// CharacterID задан только для тарифа single.
type Subscription struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	PlanType    PlanType  `json:"plan_type"`
	CharacterID *int      `json:"character_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ValidAt сообщает, действует ли подписка в момент now.
func (s *Subscription) ValidAt(now time.Time) bool {
	return s.IsActive && s.EndDate.After(now)
}

// Covers сообщает, даёт ли тариф подписки доступ к персонажу characterID.
// Срок действия не проверяется.
func (s *Subscription) Covers(characterID int) bool {
	switch s.PlanType {
	case PlanAll:
		return true
	case PlanSingle:
		return s.CharacterID != nil && *s.CharacterID == characterID
	default:
		return false
	}
}

// PurchaseResult результат покупки: новая подписка и её стоимость.
// Стоимость не сохраняется в базе.
type PurchaseResult struct {
	Subscription Subscription
	Price        int
}

// AccessReason причина отказа в доступе.
type AccessReason string

const (
	ReasonNoSubscription AccessReason = "no_subscription"
	ReasonExpired        AccessReason = "expired"
	ReasonNoAccess       AccessReason = "no_access"
)

// AccessDecision результат проверки доступа к персонажу.
// PlanType и EndDate заполнены, если у пользователя есть действующая подписка.
type AccessDecision struct {
	HasAccess bool
	Reason    AccessReason
	PlanType  PlanType
	EndDate   *time.Time
}

// ExpiringSubscription подписка, срок которой скоро истекает, с контактом владельца.
type ExpiringSubscription struct {
	SubscriptionID int64     `json:"subscription_id"`
	UserID         int64     `json:"user_id"`
	Email          string    `json:"email"`
	PlanType       PlanType  `json:"plan_type"`
	CharacterID    *int      `json:"character_id,omitempty"`
	EndDate        time.Time `json:"end_date"`
}

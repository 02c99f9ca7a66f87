// Package jwt реализует выпуск и проверку токенов доступа пользователей.
//
// Токен состоит из трёх частей header.payload.signature в base64url без паддинга,
// подпись HMAC-SHA256 вычисляется над строкой "header.payload" общим секретом сервера.
// Отзыва токенов нет: утёкший токен действует до истечения exp.
package jwt

import (
	"errors"
	"time"
)

// DefaultTTL время жизни токена по умолчанию.
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalidToken возвращается для любого токена, не прошедшего проверку.
var ErrInvalidToken = errors.New("invalid token")

// Maker описывает выпуск и разбор токенов.
type Maker interface {
	// GenerateToken выпускает токен для пользователя.
	GenerateToken(userID int64, email string) (string, error)
	// ParseToken проверяет подпись и срок действия и возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker на секретном ключе с фиксированным TTL.
type MakerImpl struct {
	secretKey []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewJWTMaker создаёт MakerImpl. Неположительный ttl заменяется на DefaultTTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// WithClock подменяет источник времени для выпуска и проверки exp.
func (j *MakerImpl) WithClock(now func() time.Time) *MakerImpl {
	j.now = now
	return j
}

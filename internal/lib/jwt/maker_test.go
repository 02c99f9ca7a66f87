package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_1234567890"

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	maker := NewJWTMaker(testSecret, DefaultTTL)

	tests := []struct {
		name   string
		userID int64
		email  string
	}{
		{name: "regular user", userID: 1, email: "user@example.com"},
		{name: "large id", userID: 9_007_199_254_740_991, email: "big@example.com"},
		{name: "unicode email", userID: 42, email: "пользователь@пример.рф"},
		{name: "empty email", userID: 7, email: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userID, tt.email)
			require.NoError(t, err)
			assert.Len(t, strings.Split(token, "."), 3)
			assert.NotContains(t, token, "=")

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.email, claims.Email)
			assert.WithinDuration(t, time.Now().Add(DefaultTTL), claims.ExpiresAt.Time, 2*time.Second)
		})
	}
}

func TestJWTMaker_WireFormat(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	maker := NewJWTMaker(testSecret, DefaultTTL).WithClock(func() time.Time { return now })

	token, err := maker.GenerateToken(5, "a@b.c")
	require.NoError(t, err)
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	rawHeader, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	var header map[string]any
	require.NoError(t, json.Unmarshal(rawHeader, &header))
	assert.Equal(t, map[string]any{"alg": "HS256", "typ": "JWT"}, header)

	rawPayload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rawPayload, &payload))
	assert.Equal(t, map[string]any{
		"user_id": float64(5),
		"email":   "a@b.c",
		"exp":     float64(now.Add(7 * 24 * time.Hour).Unix()),
	}, payload)

	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(parts[0] + "." + parts[1]))
	assert.Equal(t, base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), parts[2])
}

// Токены, выпущенные прежней реализацией (json с пробелами после разделителей), должны приниматься.
func TestJWTMaker_AcceptsLegacyEncodedToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg": "HS256", "typ": "JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"user_id": 12, "email": "old@example.com", "exp": %d}`, exp)))
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(header + "." + payload))
	token := header + "." + payload + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	claims, err := NewJWTMaker(testSecret, DefaultTTL).ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(12), claims.UserID)
	assert.Equal(t, "old@example.com", claims.Email)
}

func TestJWTMaker_Expiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	clock := issued
	maker := NewJWTMaker(testSecret, DefaultTTL).WithClock(func() time.Time { return clock })

	token, err := maker.GenerateToken(3, "exp@example.com")
	require.NoError(t, err)

	clock = issued.Add(DefaultTTL - time.Second)
	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)

	clock = issued.Add(DefaultTTL + time.Second)
	claims, err = maker.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, err.Error(), "expired")
	assert.Nil(t, claims)
}

func TestJWTMaker_SingleCharacterTamperIsRejected(t *testing.T) {
	maker := NewJWTMaker(testSecret, DefaultTTL)
	token, err := maker.GenerateToken(77, "tamper@example.com")
	require.NoError(t, err)

	for i := range token {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		claims, err := maker.ParseToken(tampered)
		assert.Errorf(t, err, "tampered at position %d accepted", i)
		assert.Nil(t, claims)
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	maker := NewJWTMaker(testSecret, DefaultTTL)
	validToken, err := maker.GenerateToken(1, "user@example.com")
	require.NoError(t, err)
	parts := strings.Split(validToken, ".")

	noneHeader := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	noExpPayload := base64.RawURLEncoding.EncodeToString([]byte(`{"user_id":1,"email":"user@example.com"}`))
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(parts[0] + "." + noExpPayload))
	noExpToken := parts[0] + "." + noExpPayload + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "two parts", token: parts[0] + "." + parts[1]},
		{name: "four parts", token: validToken + ".extra"},
		{name: "garbage", token: "invalid.token.here"},
		{name: "alg none", token: noneHeader + "." + parts[1] + "."},
		{name: "missing exp", token: noExpToken},
		{name: "wrong secret", token: mustToken(t, NewJWTMaker("wrong_secret_key", DefaultTTL))},
		{name: "appended data", token: validToken + "tampered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestNewJWTMaker_NonPositiveTTLFallsBackToDefault(t *testing.T) {
	maker := NewJWTMaker(testSecret, 0)
	assert.Equal(t, DefaultTTL, maker.tokenTTL)
}

func mustToken(t *testing.T, maker *MakerImpl) string {
	t.Helper()
	token, err := maker.GenerateToken(1, "user@example.com")
	require.NoError(t, err)
	return token
}

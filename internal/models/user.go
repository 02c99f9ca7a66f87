// Package models содержит доменные структуры сервиса: пользователя, подписку,
// сообщение чата и результаты операций над ними.
package models

import (
	"strings"
	"time"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64      // Уникальный идентификатор пользователя
	Email        string     // Электронная почта в нижнем регистре
	Name         string     // Отображаемое имя
	PasswordHash string     // Хэш пароля пользователя
	CreatedAt    time.Time  // Дата регистрации
	LastLoginAt  *time.Time // Дата последнего входа, nil если входа ещё не было
}

// UserSummary публичное представление пользователя в ответах API.
type UserSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Summary возвращает публичное представление пользователя.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Name: u.Name}
}

// AuthResult результат регистрации или входа.
type AuthResult struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// NormalizeEmail приводит email к виду, в котором он хранится.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

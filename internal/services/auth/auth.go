// Package auth отвечает за регистрацию, вход и проверку токенов пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/magabrotheeeer/persona-chat/internal/lib/jwt"
	"github.com/magabrotheeeer/persona-chat/internal/lib/password"
	"github.com/magabrotheeeer/persona-chat/internal/lib/sl"
	"github.com/magabrotheeeer/persona-chat/internal/models"
	"github.com/magabrotheeeer/persona-chat/internal/storage/repository"
)

// MinPasswordLen минимальная длина пароля в символах.
const MinPasswordLen = 6

var (
	// ErrInvalidInput пустой email или слишком короткий пароль.
	ErrInvalidInput = errors.New("email and password of at least 6 characters are required")
	// ErrEmailTaken email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials неизвестный email или неверный пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound пользователь из токена не существует.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет пользователя; при занятом email возвращает repository.ErrUserExists.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByEmail возвращает пользователя или repository.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID возвращает пользователя или repository.ErrNotFound.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// Service реализует регистрацию, авторизацию и проверку токенов.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
	now      func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
		now:      time.Now,
	}
}

// Register создаёт пользователя и сразу выпускает для него токен.
func (s *Service) Register(ctx context.Context, email, rawPassword, name string) (*models.AuthResult, error) {
	const op = "auth.Register"

	email = models.NormalizeEmail(email)
	if email == "" || utf8.RuneCountInString(rawPassword) < MinPasswordLen {
		return nil, ErrInvalidInput
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hashed,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, repository.ErrUserExists) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.issue(op, user)
}

// Login проверяет пароль и выпускает токен. Для неизвестного email и неверного
// пароля возвращается одна и та же ошибка ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*models.AuthResult, error) {
	const op = "auth.Login"
	log := s.log.With(slog.String("op", op))

	email = models.NormalizeEmail(email)
	if email == "" || rawPassword == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err = s.users.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if password.NeedsRehash(user.PasswordHash) {
		if hashed, err := password.GetHash(rawPassword); err != nil {
			log.Warn("failed to rehash legacy password", sl.Err(err))
		} else if err = s.users.UpdatePasswordHash(ctx, user.ID, hashed); err != nil {
			log.Warn("failed to store upgraded password hash", sl.Err(err))
		} else {
			log.Info("legacy password hash upgraded", slog.Int64("user_id", user.ID))
		}
	}

	return s.issue(op, user)
}

// Verify проверяет токен и возвращает пользователя, которому он выдан.
// Недействительный токен даёт ошибку, оборачивающую jwt.ErrInvalidToken.
func (s *Service) Verify(ctx context.Context, token string) (*models.UserSummary, error) {
	const op = "auth.Verify"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	summary := user.Summary()
	return &summary, nil
}

func (s *Service) issue(op string, user *models.User) (*models.AuthResult, error) {
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.AuthResult{Token: token, User: user.Summary()}, nil
}

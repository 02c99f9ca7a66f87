package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/persona-chat/internal/lib/jwt"
	"github.com/magabrotheeeer/persona-chat/internal/lib/password"
	"github.com/magabrotheeeer/persona-chat/internal/models"
	"github.com/magabrotheeeer/persona-chat/internal/storage/repository"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *UserRepoMock) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

const testSecret = "auth_test_secret"

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(repo UserRepository) (*Service, *jwt.MakerImpl) {
	maker := jwt.NewJWTMaker(testSecret, time.Hour)
	return NewService(repo, maker, newNoopLogger()), maker
}

// expectCreate ожидает создание пользователя test@example.com с хешем пароля raw.
func expectCreate(raw string) func(r *UserRepoMock) {
	return func(r *UserRepoMock) {
		r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(nil, repository.ErrNotFound).Once()
		r.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Email == "test@example.com" && u.Name == "Тест" &&
				!password.NeedsRehash(u.PasswordHash) && password.CompareHash(u.PasswordHash, raw) == nil
		})).Return(&models.User{ID: 42, Email: "test@example.com", Name: "Тест"}, nil).Once()
	}
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		userName   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:       "successful registration",
			email:      "  Test@Example.com ",
			password:   "abcdef",
			userName:   "Тест",
			setupMocks: expectCreate("abcdef"),
		},
		{
			name:       "password longer than 72 bytes",
			email:      "test@example.com",
			password:   strings.Repeat("a", 73),
			userName:   "Тест",
			setupMocks: expectCreate(strings.Repeat("a", 73)),
		},
		{
			name:       "42 cyrillic characters",
			email:      "test@example.com",
			password:   strings.Repeat("пароль", 7),
			userName:   "Тест",
			setupMocks: expectCreate(strings.Repeat("пароль", 7)),
		},
		{
			name:       "password too short",
			email:      "test@example.com",
			password:   "abcde",
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    ErrInvalidInput,
		},
		{
			name:       "cyrillic password counted in characters",
			email:      "test@example.com",
			password:   "пароль"[:10],
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    ErrInvalidInput,
		},
		{
			name:       "empty email",
			email:      "   ",
			password:   "abcdef",
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    ErrInvalidInput,
		},
		{
			name:     "email already registered",
			email:    "taken@example.com",
			password: "abcdef",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "taken@example.com").Return(&models.User{ID: 1}, nil).Once()
			},
			wantErr: ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc, maker := newTestService(repo)

			res, err := svc.Register(context.Background(), tt.email, tt.password, tt.userName)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.UserSummary{ID: 42, Email: "test@example.com", Name: "Тест"}, res.User)

			claims, err := maker.ParseToken(res.Token)
			require.NoError(t, err)
			assert.Equal(t, int64(42), claims.UserID)
			assert.Equal(t, "test@example.com", claims.Email)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Register_UniqueViolationMapsToEmailTaken(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("GetUserByEmail", mock.Anything, "race@example.com").Return(nil, repository.ErrNotFound)
	repo.On("CreateUser", mock.Anything, mock.Anything).
		Return(nil, errors.Join(errors.New("repository.CreateUser"), repository.ErrUserExists))
	svc, _ := newTestService(repo)

	res, err := svc.Register(context.Background(), "race@example.com", "abcdef", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Nil(t, res)
}

func TestService_Login(t *testing.T) {
	hashed, err := password.GetHash("correct-password")
	require.NoError(t, err)
	user := &models.User{ID: 7, Email: "user@example.com", Name: "User", PasswordHash: hashed}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:     "successful login",
			email:    "USER@example.com",
			password: "correct-password",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "user@example.com").Return(user, nil).Once()
				r.On("UpdateLastLogin", mock.Anything, int64(7), mock.AnythingOfType("time.Time")).Return(nil).Once()
			},
		},
		{
			name:     "wrong password",
			email:    "user@example.com",
			password: "wrong-password",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "user@example.com").Return(user, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "ghost@example.com",
			password: "correct-password",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:       "empty password",
			email:      "user@example.com",
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc, maker := newTestService(repo)

			res, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				repo.AssertNotCalled(t, "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.Summary(), res.User)
			claims, err := maker.ParseToken(res.Token)
			require.NoError(t, err)
			assert.Equal(t, int64(7), claims.UserID)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Login_UpgradesLegacyHash(t *testing.T) {
	sum := sha256.Sum256([]byte("legacy-pass"))
	user := &models.User{ID: 3, Email: "old@example.com", PasswordHash: hex.EncodeToString(sum[:])}

	repo := new(UserRepoMock)
	repo.On("GetUserByEmail", mock.Anything, "old@example.com").Return(user, nil)
	repo.On("UpdateLastLogin", mock.Anything, int64(3), mock.Anything).Return(nil)
	repo.On("UpdatePasswordHash", mock.Anything, int64(3), mock.MatchedBy(func(hash string) bool {
		return !password.NeedsRehash(hash) && password.CompareHash(hash, "legacy-pass") == nil
	})).Return(nil).Once()
	svc, _ := newTestService(repo)

	res, err := svc.Login(context.Background(), "old@example.com", "legacy-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	repo.AssertExpectations(t)
}

func TestService_Login_UpgradesBcryptHash(t *testing.T) {
	raw := strings.Repeat("пароль", 7)
	legacy, err := bcrypt.GenerateFromPassword([]byte(raw[:72]), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: 4, Email: "bc@example.com", PasswordHash: string(legacy)}

	repo := new(UserRepoMock)
	repo.On("GetUserByEmail", mock.Anything, "bc@example.com").Return(user, nil)
	repo.On("UpdateLastLogin", mock.Anything, int64(4), mock.Anything).Return(nil)
	repo.On("UpdatePasswordHash", mock.Anything, int64(4), mock.MatchedBy(func(hash string) bool {
		return !password.NeedsRehash(hash) && password.CompareHash(hash, raw[:72]) == nil
	})).Return(nil).Once()
	svc, _ := newTestService(repo)

	res, err := svc.Login(context.Background(), "bc@example.com", raw[:72])
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	repo.AssertExpectations(t)
}

func TestService_Login_RehashFailureIsNotFatal(t *testing.T) {
	sum := sha256.Sum256([]byte("legacy-pass"))
	user := &models.User{ID: 3, Email: "old@example.com", PasswordHash: hex.EncodeToString(sum[:])}

	repo := new(UserRepoMock)
	repo.On("GetUserByEmail", mock.Anything, mock.Anything).Return(user, nil)
	repo.On("UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("db down"))
	svc, _ := newTestService(repo)

	_, err := svc.Login(context.Background(), "old@example.com", "legacy-pass")
	assert.NoError(t, err)
}

func TestService_Verify(t *testing.T) {
	repo := new(UserRepoMock)
	svc, maker := newTestService(repo)

	token, err := maker.GenerateToken(5, "five@example.com")
	require.NoError(t, err)
	ghostToken, err := maker.GenerateToken(6, "ghost@example.com")
	require.NoError(t, err)

	repo.On("GetUserByID", mock.Anything, int64(5)).
		Return(&models.User{ID: 5, Email: "five@example.com", Name: "Five"}, nil)
	repo.On("GetUserByID", mock.Anything, int64(6)).Return(nil, repository.ErrNotFound)

	t.Run("valid token", func(t *testing.T) {
		user, err := svc.Verify(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, &models.UserSummary{ID: 5, Email: "five@example.com", Name: "Five"}, user)
	})

	t.Run("user deleted", func(t *testing.T) {
		user, err := svc.Verify(context.Background(), ghostToken)
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, user)
	})

	t.Run("invalid token", func(t *testing.T) {
		user, err := svc.Verify(context.Background(), token+"x")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
		assert.Nil(t, user)
	})
}

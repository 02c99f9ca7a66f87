package password

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "regular password", password: "password123"},
		{name: "password with special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "cyrillic password", password: "пароль-секрет"},
		{name: "minimal length", password: "abcdef"},
		{name: "73 bytes", password: strings.Repeat("a", 73)},
		{name: "42 cyrillic characters", password: strings.Repeat("пароль", 7)},
		{name: "very long", password: strings.Repeat("секрет-", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := GetHash(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, gotHash)
			assert.NotEqual(t, tt.password, gotHash)
			assert.True(t, strings.HasPrefix(gotHash, "$argon2id$v=19$"))
			assert.False(t, NeedsRehash(gotHash))

			assert.NoError(t, CompareHash(gotHash, tt.password))
		})
	}
}

func TestGetHash_SamePasswordDifferentSalt(t *testing.T) {
	hash1, err := GetHash("password1")
	require.NoError(t, err)
	hash2, err := GetHash("password1")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestCompareHash(t *testing.T) {
	correctHash, err := GetHash("correct_password")
	require.NoError(t, err)
	anotherHash, err := GetHash("another_password")
	require.NoError(t, err)

	legacySum := sha256.Sum256([]byte("legacy_password"))
	legacyHash := hex.EncodeToString(legacySum[:])
	bcryptHash, err := bcrypt.GenerateFromPassword([]byte("bcrypt_password"), bcrypt.MinCost)
	require.NoError(t, err)
	longHash, err := GetHash(strings.Repeat("я", 80))
	require.NoError(t, err)

	tests := []struct {
		name        string
		hash        string
		password    string
		shouldMatch bool
	}{
		{name: "matching password", hash: correctHash, password: "correct_password", shouldMatch: true},
		{name: "wrong password", hash: correctHash, password: "wrong_password", shouldMatch: false},
		{name: "different hash same password", hash: anotherHash, password: "correct_password", shouldMatch: false},
		{name: "empty password", hash: correctHash, password: "", shouldMatch: false},
		{name: "legacy digest match", hash: legacyHash, password: "legacy_password", shouldMatch: true},
		{name: "legacy digest mismatch", hash: legacyHash, password: "legacy_passwor", shouldMatch: false},
		{name: "bcrypt hash match", hash: string(bcryptHash), password: "bcrypt_password", shouldMatch: true},
		{name: "bcrypt hash mismatch", hash: string(bcryptHash), password: "bcrypt_passwor", shouldMatch: false},
		{name: "long password match", hash: longHash, password: strings.Repeat("я", 80), shouldMatch: true},
		{name: "long password differs in last rune", hash: longHash, password: strings.Repeat("я", 79) + "ю", shouldMatch: false},
		{name: "truncated argon2 hash", hash: correctHash[:len(correctHash)-10], password: "correct_password", shouldMatch: false},
		{name: "argon2 with zero threads", hash: "$argon2id$v=19$m=19456,t=2,p=0$c2FsdHNhbHQ$a2V5", password: "x", shouldMatch: false},
		{name: "argon2 wrong version", hash: strings.Replace(correctHash, "v=19", "v=16", 1), password: "correct_password", shouldMatch: false},
		{name: "garbage hash", hash: "not-a-hash", password: "whatever", shouldMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareHash(tt.hash, tt.password)
			if tt.shouldMatch {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrMismatch)
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	legacySum := sha256.Sum256([]byte("x"))
	current, err := GetHash("x")
	require.NoError(t, err)

	assert.False(t, NeedsRehash(current))
	assert.True(t, NeedsRehash(hex.EncodeToString(legacySum[:])))
	assert.True(t, NeedsRehash("$2a$10$abcdefghijklmnopqrstuv"))
}

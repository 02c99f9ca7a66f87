// Package password реализует хеширование и проверку паролей.
//
// Новые пароли хешируются argon2id; хеш хранится в формате
// $argon2id$v=19$m=<KiB>,t=<проходы>,p=<потоки>$<соль>$<ключ> (base64 без выравнивания).
// Длина пароля не ограничена. Для проверки также принимаются bcrypt-хеши
// и несолёные SHA-256 дайджесты в hex из прежней системы; такие хеши следует
// перевыпустить через GetHash после успешного входа (см. NeedsRehash).
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch пароль не соответствует хешу.
var ErrMismatch = errors.New("password does not match")

const (
	argonTime    uint32 = 2
	argonMemory  uint32 = 19 * 1024
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
	saltLen             = 16

	argonPrefix     = "$argon2id$"
	legacyDigestLen = sha256.Size * 2
)

var b64 = base64.RawStdEncoding

// GetHash принимает пароль пользователя и возвращает его argon2id-хеш со случайной солью.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argonPrefix, argon2.Version, argonMemory, argonTime, argonThreads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// CompareHash сравнивает сохранённый хеш с введённым паролем.
//
// Возвращает nil при совпадении, иначе ошибку, оборачивающую ErrMismatch.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	switch {
	case strings.HasPrefix(originalHash, argonPrefix):
		if err := compareArgon(originalHash, externalPassword); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	case isLegacyDigest(originalHash):
		sum := sha256.Sum256([]byte(externalPassword))
		if subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(originalHash)) != 1 {
			return fmt.Errorf("%s: %w", op, ErrMismatch)
		}
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrMismatch, err)
	}
	return nil
}

func compareArgon(encoded, password string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return fmt.Errorf("%w: malformed argon2id hash", ErrMismatch)
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return fmt.Errorf("%w: unsupported argon2 version", ErrMismatch)
	}
	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return fmt.Errorf("%w: %w", ErrMismatch, err)
	}
	if time == 0 || threads == 0 {
		return fmt.Errorf("%w: invalid argon2 parameters", ErrMismatch)
	}
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMismatch, err)
	}
	want, err := b64.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return fmt.Errorf("%w: malformed key", ErrMismatch)
	}
	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrMismatch
	}
	return nil
}

// NeedsRehash сообщает, что хеш получен не текущей схемой и должен быть заменён.
func NeedsRehash(hash string) bool {
	return !strings.HasPrefix(hash, argonPrefix)
}

func isLegacyDigest(hash string) bool {
	if len(hash) != legacyDigestLen {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

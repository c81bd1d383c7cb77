package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidHash indicates an encoded hash that cannot be parsed or is not supported.
var ErrInvalidHash = errors.New("invalid password hash")

const argon2Version = argon2.Version

// Argon2Params управляет стоимостью Argon2id.
// MemoryKiB задается в KiB, как требует argon2.IDKey.
type Argon2Params struct {
	MemoryKiB   uint32
	Iterations  uint32
	SaltLength  uint32
	KeyLength   uint32
	Parallelism uint8
}

// DefaultArgon2Params возвращает параметры по умолчанию (64 MiB, 3 итерации).
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		MemoryKiB:   64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// PasswordHasher хеширует пароли с помощью Argon2id со случайной солью.
// Умеет проверять bcrypt хеши ($2a$, $2b$, $2y$), оставшиеся от прежнего развертывания.
type PasswordHasher struct {
	params Argon2Params
}

// NewPasswordHasher создает hasher. Нулевые поля params заменяются значениями по умолчанию.
func NewPasswordHasher(params Argon2Params) *PasswordHasher {
	def := DefaultArgon2Params()
	if params.MemoryKiB == 0 {
		params.MemoryKiB = def.MemoryKiB
	}
	if params.Iterations == 0 {
		params.Iterations = def.Iterations
	}
	if params.Parallelism == 0 {
		params.Parallelism = def.Parallelism
	}
	if params.SaltLength == 0 {
		params.SaltLength = def.SaltLength
	}
	if params.KeyLength == 0 {
		params.KeyLength = def.KeyLength
	}
	return &PasswordHasher{params: params}
}

// Params returns the parameters used for new hashes.
func (h *PasswordHasher) Params() Argon2Params {
	return h.params
}

// Hash хеширует пароль и возвращает строку формата
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<hash_b64>
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		h.params.Iterations,
		h.params.MemoryKiB,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Version,
		h.params.MemoryKiB,
		h.params.Iterations,
		h.params.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

// Verify проверяет пароль против сохраненного хеша.
// Для битого или неподдерживаемого хеша возвращает false, причина наружу не выдается.
func (h *PasswordHasher) Verify(password, encoded string) bool {
	if isBcrypt(encoded) {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	}

	params, salt, expected, err := decodeArgon2(encoded)
	if err != nil {
		return false
	}

	// параметры из хеша контролирует тот, кто пишет в БД: не даем раздуть стоимость проверки
	if !withinBounds(params, h.params) {
		return false
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		params.Iterations,
		params.MemoryKiB,
		params.Parallelism,
		uint32(len(expected)), // #nosec G115 -- bounded by withinBounds
	)

	return subtle.ConstantTimeCompare(key, expected) == 1
}

// NeedsRehash reports whether encoded should be replaced by a fresh hash:
// bcrypt hashes and Argon2id hashes weaker than the current parameters.
func (h *PasswordHasher) NeedsRehash(encoded string) bool {
	if isBcrypt(encoded) {
		return true
	}

	params, _, _, err := decodeArgon2(encoded)
	if err != nil {
		return false
	}

	return params.MemoryKiB < h.params.MemoryKiB ||
		params.Iterations < h.params.Iterations ||
		params.KeyLength < h.params.KeyLength
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

// atMostDouble считает в uint64: удвоение uint8/uint32 лимита переполняется
func atMostDouble(got, limit uint64) bool {
	return got <= 2*limit
}

func withinBounds(got, limits Argon2Params) bool {
	if !atMostDouble(uint64(got.MemoryKiB), uint64(limits.MemoryKiB)) {
		return false
	}
	if !atMostDouble(uint64(got.Iterations), uint64(limits.Iterations)) {
		return false
	}
	if !atMostDouble(uint64(got.Parallelism), uint64(limits.Parallelism)) {
		return false
	}
	if got.SaltLength < 8 || got.SaltLength > 64 {
		return false
	}
	if got.KeyLength < 16 || got.KeyLength > 128 {
		return false
	}
	return true
}

// decodeArgon2 разбирает закодированный хеш и возвращает параметры, соль и ожидаемый ключ
func decodeArgon2(encoded string) (Argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Argon2Params{}, nil, nil, ErrInvalidHash
	}

	if parts[2] != fmt.Sprintf("v=%d", argon2Version) {
		return Argon2Params{}, nil, nil, ErrInvalidHash
	}

	var mem, iter, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iter, &par); err != nil {
		return Argon2Params{}, nil, nil, ErrInvalidHash
	}
	if mem == 0 || iter == 0 || par == 0 || par > 255 {
		return Argon2Params{}, nil, nil, ErrInvalidHash
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Argon2Params{}, nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return Argon2Params{}, nil, nil, ErrInvalidHash
	}

	params := Argon2Params{
		MemoryKiB:   mem,
		Iterations:  iter,
		Parallelism: uint8(par),        // #nosec G115 -- checked above
		SaltLength:  uint32(len(salt)), // #nosec G115
		KeyLength:   uint32(len(key)),  // #nosec G115
	}

	return params, salt, key, nil
}

package jwt

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// MinSecretLen минимальная длина ключа подписи в байтах (HS256)
const MinSecretLen = 32

// Verification failures. They stay distinct inside the server and collapse into a
// single "unauthenticated" outcome at the HTTP boundary.
var (
	// ErrTokenMalformed token cannot be decoded at all
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenSignatureInvalid token decodes but the signature does not match
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	// ErrTokenExpired signature is valid but the token is at or past its expiry
	ErrTokenExpired = errors.New("token expired")
)

// Configuration errors returned by NewService.
var (
	ErrSecretMissing  = errors.New("token secret missing")
	ErrSecretTooShort = errors.New("token secret too short")
	ErrNegativeTTL    = errors.New("token ttl must not be negative")
)

// Service provides JWT token generation and validation
type Service struct {
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

// Option настраивает Service
type Option func(*Service)

// WithClock подменяет источник текущего времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new JWT service.
// secret must be a high-entropy key of at least MinSecretLen bytes.
func NewService(secret []byte, ttl time.Duration, opts ...Option) (*Service, error) {
	if len(secret) == 0 {
		return nil, ErrSecretMissing
	}
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrSecretTooShort, len(secret), MinSecretLen)
	}
	if ttl < 0 {
		return nil, ErrNegativeTTL
	}

	// копируем ключ, чтобы вызывающий код не мог его изменить
	key := make([]byte, len(secret))
	copy(key, secret)

	s := &Service{
		secret: key,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for username with {sub, iat, exp} claims.
func (s *Service) Issue(username string) (string, time.Time, error) {
	now := s.now()

	claims := jwtlib.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, claims.ExpiresAt.Time, nil
}

// Verify validates token and returns its subject.
// Подпись проверяется до разбора claims: любое изменение header или payload
// дает ErrTokenSignatureInvalid независимо от срока действия.
func (s *Service) Verify(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", ErrTokenMalformed
	}

	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: signature: %v", ErrTokenMalformed, err)
	}

	if err := jwtlib.SigningMethodHS256.Verify(parts[0]+"."+parts[1], signature, s.secret); err != nil {
		return "", ErrTokenSignatureInvalid
	}

	claims := &jwtlib.RegisteredClaims{}
	_, err = jwtlib.ParseWithClaims(token, claims,
		func(t *jwtlib.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwtlib.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwtlib.ErrTokenSignatureInvalid):
			return "", ErrTokenSignatureInvalid
		default:
			return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrTokenMalformed)
	}

	return claims.Subject, nil
}

package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// SecretSize размер генерируемого ключа подписи в байтах
const SecretSize = 32

// GenerateSecret генерирует криптографически случайный ключ подписи и возвращает его в Base64
func GenerateSecret() (string, error) {
	secret := make([]byte, SecretSize)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(secret), nil
}

// DecodeSecret декодирует ключ подписи из Base64 (стандартный или URL алфавит)
func DecodeSecret(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, fmt.Errorf("secret is empty")
	}

	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if secret, err := enc.DecodeString(encoded); err == nil {
			return secret, nil
		}
	}

	return nil, fmt.Errorf("secret is not valid base64")
}

package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidInput is wrapped by every validation failure.
// Сообщение после двоеточия безопасно показывать клиенту.
var ErrInvalidInput = errors.New("invalid input")

const (
	// MaxUsernameLen максимальная длина username (в символах)
	MaxUsernameLen = 50
	// MaxPasswordLen ограничивает стоимость хеширования заведомо огромных паролей
	MaxPasswordLen = 256
)

// ValidateUsername проверяет, что username не пустой и не превышает допустимую длину.
// Регистр учитывается, username сохраняется как есть.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return fmt.Errorf("%w: username must not exceed %d characters", ErrInvalidInput, MaxUsernameLen)
	}

	return nil
}

// ValidatePassword проверяет, что пароль не пустой и не слишком длинный
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("%w: password must not exceed %d bytes", ErrInvalidInput, MaxPasswordLen)
	}

	return nil
}

// ValidateCredentials validates a username/password pair, username first.
func ValidateCredentials(username, password string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	return ValidatePassword(password)
}

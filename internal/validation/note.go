package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTitleLen максимальная длина заголовка заметки (в символах)
const MaxTitleLen = 100

// ValidateTitle проверяет заголовок заметки: обязательный, не длиннее MaxTitleLen
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(title) > MaxTitleLen {
		return fmt.Errorf("%w: title must not exceed %d characters", ErrInvalidInput, MaxTitleLen)
	}

	return nil
}

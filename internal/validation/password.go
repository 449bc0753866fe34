package validation

import (
	"fmt"
	"unicode"
)

// ValidatePassword проверяет пароль на соответствие требованиям:
// - минимум 6 символов
// - хотя бы одна цифра
// - хотя бы одна заглавная буква
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}

	var (
		hasUpper  = false
		hasNumber = false
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasNumber {
		return fmt.Errorf("password must contain at least one digit")
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}

	return nil
}

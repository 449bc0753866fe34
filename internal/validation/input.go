package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinFullNameLength    = 2
	MaxFullNameLength    = 100
	MinTitleLength       = 3
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxBioLength         = 1000
	MaxCommentLength     = 2000
	MinMessageLength     = 1
	MaxMessageLength     = 1000
	MinRating            = 1
	MaxRating            = 5
	MaxPrice             = 100000000.0 // 100 миллионов
	OTPLength            = 6
)

var otpRegex = regexp.MustCompile(`^[0-9]{6}$`)

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters long", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters long", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("invalid email format")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("invalid email format")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 || !strings.Contains(domainPart, ".") {
		return fmt.Errorf("invalid email format")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("invalid email format")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("invalid email format")
	}

	return nil
}

// ValidateFullName проверяет имя пользователя.
func ValidateFullName(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return fmt.Errorf("full name is required")
	}
	return ValidateLength("full name", fullName, MinFullNameLength, MaxFullNameLength)
}

// ValidateOTP проверяет, что код состоит ровно из шести цифр.
func ValidateOTP(code string) error {
	if !otpRegex.MatchString(code) {
		return fmt.Errorf("verification code must be exactly %d digits", OTPLength)
	}
	return nil
}

// ValidateTitle проверяет заголовок объявления или товара.
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	return ValidateLength("title", title, MinTitleLength, MaxTitleLength)
}

// ValidateDescription проверяет необязательное описание.
func ValidateDescription(description *string) error {
	if description != nil && *description != "" {
		return ValidateLength("description", strings.TrimSpace(*description), 0, MaxDescriptionLength)
	}
	return nil
}

// ValidatePrice проверяет цену.
func ValidatePrice(price float64) error {
	if price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if price > MaxPrice {
		return fmt.Errorf("price cannot exceed %.0f", MaxPrice)
	}
	return nil
}

// ValidateRating проверяет оценку отзыва.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

// ValidateMessageText проверяет текст сообщения чата.
func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("message text cannot be empty")
	}
	return ValidateLength("message text", text, MinMessageLength, MaxMessageLength)
}

// ValidateBio проверяет необязательную биографию профиля.
func ValidateBio(bio *string) error {
	if bio != nil && *bio != "" {
		return ValidateLength("bio", strings.TrimSpace(*bio), 0, MaxBioLength)
	}
	return nil
}

// ValidateComment проверяет необязательный комментарий отзыва.
func ValidateComment(comment *string) error {
	if comment != nil && *comment != "" {
		return ValidateLength("comment", strings.TrimSpace(*comment), 0, MaxCommentLength)
	}
	return nil
}

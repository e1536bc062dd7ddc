// ABOUTME: Validates and normalizes consultation contact details
// ABOUTME: Accepts email, phone, or Telegram handle; typed error otherwise
package contact

import (
	"regexp"
	"strings"
)

// ValidationError reports a contact string that could not be recognized.
// It is deliberately distinct from completion failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

const invalidContactMessage = "Не удалось распознать контакт. Укажите телефон, email или ник в Telegram, " +
	"например, +79991234567, user@example.com или @username."

var (
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	telegramRe = regexp.MustCompile(`^(?:https?://)?(?:t(?:elegram)?\.me/)?@?([A-Za-z][A-Za-z0-9_]{4,31})$`)
	phoneSepRe = regexp.MustCompile(`[\s().-]`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

// Normalize validates a contact string and returns its cleaned form:
// emails pass through, Telegram handles become @username, phone numbers
// lose their separators. Unrecognized input yields a *ValidationError.
func Normalize(value string) (string, error) {
	text := strings.TrimSpace(value)
	if text == "" {
		return "", &ValidationError{Message: invalidContactMessage}
	}

	if emailRe.MatchString(text) {
		return text, nil
	}
	if handle := normalizeTelegram(text); handle != "" {
		return handle, nil
	}
	if phone := normalizePhone(text); phone != "" {
		return phone, nil
	}
	return "", &ValidationError{Message: invalidContactMessage}
}

func normalizeTelegram(text string) string {
	match := telegramRe.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return "@" + match[1]
}

func normalizePhone(text string) string {
	cleaned := phoneSepRe.ReplaceAllString(text, "")
	if cleaned == "" {
		return ""
	}
	hasPlus := strings.HasPrefix(cleaned, "+")
	digits := nonDigitRe.ReplaceAllString(cleaned, "")
	if len(digits) < 10 {
		return ""
	}
	if hasPlus {
		return "+" + digits
	}
	return digits
}

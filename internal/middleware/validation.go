package middleware

import (
	"errors"
	"unicode/utf8"
)

// ValidateMessageContent validates message content.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("content cannot be empty")
	}
	if len(content) > 100000 { // ~100KB limit
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateRole validates a message role.
func ValidateRole(role string) error {
	switch role {
	case "user", "assistant":
		return nil
	default:
		return errors.New("role must be user or assistant")
	}
}

package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel business errors. The handler layer maps these to HTTP statuses
// exactly once, in respondError.
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateBarcode  = errors.New("product with this barcode already exists")
	ErrTransientStore    = errors.New("store temporarily unavailable")
	ErrExternalService   = errors.New("external service unavailable")
)

// ValidationError reports malformed or out-of-range input with a
// field-level message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports an absent referenced entity.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

func NotFound(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

// IsTransient reports whether an error looks like lock contention the
// caller may retry. Covers postgres deadlock/serialization failures and
// sqlite busy states.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransientStore) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{
		"deadlock detected",
		"could not serialize access",
		"database is locked",
		"database table is locked",
	} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

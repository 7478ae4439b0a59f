package service

import (
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrDuplicateMembership  = errors.New("recipe is already in the list")
	ErrMembershipNotFound   = errors.New("recipe is not in the list")
	ErrAlreadySubscribed    = errors.New("already subscribed to this user")
	ErrSubscriptionNotFound = errors.New("not subscribed to this user")
	ErrSelfSubscription     = errors.New("cannot subscribe to yourself")

	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrShortLinkNotFound  = errors.New("short link not found")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmailTaken         = errors.New("a user with that email already exists")
	ErrUsernameTaken      = errors.New("a user with that username already exists")
	ErrInvalidImage       = errors.New("upload a valid image")
)

// ValidationError reports malformed input. It is returned before any write.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add records the first message per field.
func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// err returns e as an error, or nil when nothing was recorded.
func (e *ValidationError) err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ErrorCode returns the machine-readable kind of err, or "internal_error".
func ErrorCode(err error) string {
	var ve *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return "validation_error"
	case errors.Is(err, ErrDuplicateMembership):
		return "duplicate_membership"
	case errors.Is(err, ErrMembershipNotFound):
		return "membership_not_found"
	case errors.Is(err, ErrAlreadySubscribed):
		return "already_subscribed"
	case errors.Is(err, ErrSubscriptionNotFound):
		return "subscription_not_found"
	case errors.Is(err, ErrSelfSubscription):
		return "self_subscription"
	case errors.Is(err, ErrRecipeNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrIngredientNotFound),
		errors.Is(err, ErrTagNotFound),
		errors.Is(err, ErrShortLinkNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrEmailTaken):
		return "email_taken"
	case errors.Is(err, ErrUsernameTaken):
		return "username_taken"
	case errors.Is(err, ErrInvalidImage):
		return "invalid_image"
	default:
		return "internal_error"
	}
}

// isUniqueViolation reports whether err came from a unique constraint.
// TranslateError covers postgres and sqlite; the string match covers
// drivers that gorm does not translate.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

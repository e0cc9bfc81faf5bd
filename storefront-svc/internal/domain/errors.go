package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrRestaurantMismatch = errors.New("cart holds items from another restaurant")
	ErrNetwork            = errors.New("network request failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAmbiguousLine      = errors.New("item has several cart lines; choose addons to continue")
	ErrStaleResponse      = errors.New("response superseded by a newer request")
	ErrCheckoutInProgress = errors.New("a checkout for this cart is already in progress")
)

const GenericErrorMessage = "Something went wrong. Please try again."

type RestaurantMismatchError struct {
	CartRestaurantID      string
	RequestedRestaurantID string
}

func (e *RestaurantMismatchError) Error() string {
	return fmt.Sprintf("cart holds items from restaurant %s, cannot add from %s",
		e.CartRestaurantID, e.RequestedRestaurantID)
}

func (e *RestaurantMismatchError) Is(target error) bool {
	return target == ErrRestaurantMismatch
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NetworkError covers transport failures (StatusCode 0) and non-2xx replies.
type NetworkError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return true
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// ClientError reports a 4xx reply, which says nothing about upstream health.
func (e *NetworkError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

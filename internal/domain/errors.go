package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingToken    = errors.New("authentication token required")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidInput    = errors.New("invalid input")
)

// Fallback messages used when the backend rejects a request without saying why.
const (
	DefaultAuthenticationMessage = "Não foi possível autenticar"
	DefaultPurchaseMessage       = "Falha ao confirmar compra"
)

// FetchError reports a non-2xx response from a read endpoint.
type FetchError struct {
	Status int
	URL    string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

// IsNotFound reports whether the backend answered 404.
func (e *FetchError) IsNotFound() bool {
	return e.Status == 404
}

// AuthenticationError is returned when the backend rejects a login.
type AuthenticationError struct {
	Status  int
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// NewAuthenticationError builds an AuthenticationError, falling back to the
// generic message when the backend supplied none.
func NewAuthenticationError(status int, message string) *AuthenticationError {
	if message == "" {
		message = DefaultAuthenticationMessage
	}
	return &AuthenticationError{Status: status, Message: message}
}

// PurchaseError is returned when the backend rejects a purchase.
type PurchaseError struct {
	Status  int
	Message string
}

func (e *PurchaseError) Error() string {
	return e.Message
}

// NewPurchaseError builds a PurchaseError, falling back to the generic
// message when the backend supplied none.
func NewPurchaseError(status int, message string) *PurchaseError {
	if message == "" {
		message = DefaultPurchaseMessage
	}
	return &PurchaseError{Status: status, Message: message}
}

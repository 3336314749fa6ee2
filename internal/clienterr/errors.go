// Package clienterr defines the error kinds surfaced to users of the client:
// validation failures caught before any request, API failures carrying the
// HTTP status, network failures, and auth failures from login/register.
package clienterr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// NetworkMessage is shown whenever a request could not reach the backend.
const NetworkMessage = "Network error. Please check your connection and try again."

// ValidationError reports a client-side field or format check failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation builds a ValidationError for field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// APIError reports a non-2xx response. Message is the server-provided text when
// one could be extracted, else the fixed message for the operation.
type APIError struct {
	Op            string
	Status        int
	Message       string
	ServerMessage string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError builds an APIError for op, preferring serverMessage over fallback.
func NewAPIError(op string, status int, fallback, serverMessage string) *APIError {
	msg := fallback
	if serverMessage != "" {
		msg = serverMessage
	}
	return &APIError{Op: op, Status: status, Message: msg, ServerMessage: serverMessage}
}

// Unauthorized reports whether the backend rejected the credentials.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// NetworkError reports that the transport failed before a response arrived.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// AuthError reports a failed login or registration.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// UserMessage maps any error to the text shown in a toast.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return NetworkMessage
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return errors.Cause(err).Error()
}

// MessageOr returns UserMessage(err) unless err is an unclassified error, in
// which case fallback is used. View handlers use it to keep their fixed texts.
func MessageOr(err error, fallback string) string {
	var (
		netErr  *NetworkError
		valErr  *ValidationError
		apiErr  *APIError
		authErr *AuthError
	)
	if errors.As(err, &netErr) || errors.As(err, &valErr) || errors.As(err, &apiErr) || errors.As(err, &authErr) {
		return UserMessage(err)
	}
	return fallback
}

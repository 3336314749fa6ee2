package clienterr

import (
	"net/http"
	"syscall"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", NewValidation("email", "Email is required"), "Email is required"},
		{"api fallback", NewAPIError("book slot", http.StatusConflict, "Failed to book slot", ""), "Failed to book slot"},
		{"api server message", NewAPIError("book slot", http.StatusConflict, "Failed to book slot", "Slot is full"), "Slot is full"},
		{"network", &NetworkError{Op: "list slots", Err: syscall.ECONNREFUSED}, NetworkMessage},
		{"wrapped network", errors.Wrap(&NetworkError{Op: "x", Err: syscall.ECONNRESET}, "load"), NetworkMessage},
		{"auth", &AuthError{Status: 401, Message: "Bad credentials"}, "Bad credentials"},
		{"plain wrapped", errors.Wrap(errors.New("boom"), "ctx"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestMessageOr(t *testing.T) {
	assert.Equal(t, "Failed to delete slot", MessageOr(errors.New("decode: eof"), "Failed to delete slot"))
	assert.Equal(t, "Slot has bookings", MessageOr(NewAPIError("delete slot", 409, "Failed to delete slot", "Slot has bookings"), "Failed to delete slot"))
}

func TestAPIErrorUnauthorized(t *testing.T) {
	assert.True(t, NewAPIError("x", http.StatusUnauthorized, "f", "").Unauthorized())
	assert.False(t, NewAPIError("x", http.StatusBadRequest, "f", "").Unauthorized())
}

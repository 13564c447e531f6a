package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{Validation("Missing tenantId"), http.StatusBadRequest},
		{Unauthorized("Invalid authentication"), http.StatusUnauthorized},
		{PaymentRequired("credits"), http.StatusPaymentRequired},
		{Forbidden("nope"), http.StatusForbidden},
		{NotFound("Project not found"), http.StatusNotFound},
		{RateLimited("slow down"), http.StatusTooManyRequests},
		{Internal("boom", errors.New("db down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("x")), http.StatusNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), "%v", tt.err)
	}
}

func TestMessageAndDetails(t *testing.T) {
	err := Internal("Failed to register user", errors.New("duplicate key"))
	assert.Equal(t, "Failed to register user", Message(err))
	assert.Equal(t, "duplicate key", Details(err))
	assert.Equal(t, "Failed to register user: duplicate key", err.Error())

	assert.Equal(t, "plain", Message(errors.New("plain")))
	assert.Empty(t, Details(Validation("x")))
	assert.Empty(t, Message(nil))
}

func TestInternalUnwrapsCause(t *testing.T) {
	cause := errors.New("cause")
	err := Internal("outer", cause)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
}

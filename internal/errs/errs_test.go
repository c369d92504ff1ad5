package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	custom := "REGISTRATION_ALREADY_EXISTS"

	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"bad request", NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"not found", NewNotFoundError("missing", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", NewConflictError("dup", true, nil), http.StatusConflict, "CONFLICT"},
		{"conflict custom code", NewConflictError("dup", true, &custom), http.StatusConflict, custom},
		{"too many requests", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestInternalServerError_HidesDetails(t *testing.T) {
	err := NewInternalServerError()
	assert.Equal(t, "Internal Server Error", err.Error())
	assert.False(t, err.Override)
}

func TestHTTPError_IsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("creating registration: %w", NewConflictError("Registration already exists", true, nil))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	var httpErr *HTTPError
	assert.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusConflict, httpErr.Status)
}

func TestWithMessage_Copies(t *testing.T) {
	base := NewNotFoundError("Row not found", true, nil)
	copied := base.WithMessage("Registration not found")

	assert.Equal(t, "Row not found", base.Message)
	assert.Equal(t, "Registration not found", copied.Message)
	assert.Equal(t, base.Status, copied.Status)
}

func TestValidationError(t *testing.T) {
	err := ValidationError(errors.New("year is required"))
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "Validation failed: year is required", err.Message)
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("post not found"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get post: %w", NotFound("missing")), http.StatusNotFound},
		{"conflict", New(KindAdminAlreadyExists, "admin exists"), http.StatusConflict},
		{"bad content type", New(KindInvalidContentType, "nope"), http.StatusBadRequest},
		{"unauthenticated", New(KindUnauthenticated, "login"), http.StatusUnauthorized},
		{"unauthorized", New(KindUnauthorized, "denied"), http.StatusForbidden},
		{"query failed", QueryFailed(errors.New("conn reset")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestToResponse_WithholdsInternalDetail(t *testing.T) {
	resp := ToResponse(QueryFailed(errors.New("pq: password authentication failed")))

	assert.Equal(t, "QueryFailed", resp.Kind)
	assert.Equal(t, "query failed", resp.Message)
	assert.NotContains(t, resp.Message, "password")

	resp = ToResponse(errors.New("secret detail"))
	assert.Equal(t, "Internal", resp.Kind)
	assert.Equal(t, "internal server error", resp.Message)
}

func TestError_UnwrapAndExtensions(t *testing.T) {
	cause := errors.New("cause")
	err := StorageFailed(cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, err.Internal())
	assert.Equal(t, map[string]interface{}{"kind": "StorageFailed"}, err.Extensions())
	assert.True(t, IsKind(fmt.Errorf("wrap: %w", err), KindStorageFailed))
	assert.False(t, NotFound("x").Internal())
}

package apperrors

import (
	"errors"
	"net/http"
	"testing"
)

func TestKinds(t *testing.T) {
	dbErr := errors.New("dial tcp: connection refused")

	tests := []struct {
		name string
		err  *AppError
		kind error
		code int
	}{
		{"not found", NotFoundError("error.code_not_found"), ErrNotFound, http.StatusNotFound},
		{"inactive", InactiveError(), ErrInactive, http.StatusGone},
		{"invalid redirect", InvalidRedirectError(errors.New("scheme")), ErrInvalidRedirect, http.StatusBadRequest},
		{"store", StoreUnavailableError(dbErr), ErrStoreUnavailable, http.StatusInternalServerError},
		{"conflict", ConflictError("error.domain_taken"), ErrConflict, http.StatusConflict},
		{"rate limited", RateLimitedError(), ErrRateLimited, http.StatusTooManyRequests},
		{"provider", ProviderUnavailableError(dbErr), ErrProviderUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error = tt.err
			if !errors.Is(err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.kind)
			}
			if tt.err.Code != tt.code {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.code)
			}
		})
	}

	if !errors.Is(StoreUnavailableError(dbErr), dbErr) {
		t.Error("store error should keep the underlying cause")
	}
}

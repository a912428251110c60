package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"hotel-backend/internal/apperr"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want apperr.Kind
	}{
		{apperr.NotFound("no account for room %d", 12), apperr.KindNotFound},
		{apperr.InvalidState("table empty"), apperr.KindInvalidState},
		{apperr.Validation("bad date"), apperr.KindValidation},
		{apperr.Conflict("version mismatch"), apperr.KindConflict},
		{apperr.Storage(errors.New("boom"), "query failed"), apperr.KindStorage},
		{apperr.Timeout(errors.New("deadline"), "slow query"), apperr.KindTimeout},
		{errors.New("plain"), apperr.KindUnknown},
		{nil, apperr.KindUnknown},
	}

	for _, tt := range tests {
		if got := apperr.KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", apperr.NotFound("missing"))
	if got := apperr.KindOf(err); got != apperr.KindNotFound {
		t.Errorf("KindOf(wrapped) = %v, want KindNotFound", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("x"), http.StatusNotFound},
		{apperr.InvalidState("x"), http.StatusBadRequest},
		{apperr.Validation("x"), http.StatusBadRequest},
		{apperr.Conflict("x"), http.StatusConflict},
		{apperr.Timeout(errors.New("t"), "x"), http.StatusGatewayTimeout},
		{apperr.Storage(errors.New("s"), "x"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := apperr.HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestStorageUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperr.Storage(cause, "saving table %d", 4)
	if !errors.Is(err, cause) {
		t.Error("Storage error should wrap its cause")
	}
}

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{NotFound("x"), http.StatusNotFound},
		{Validation("x"), http.StatusBadRequest},
		{New(KindBadRequest, "x"), http.StatusBadRequest},
		{Conflict("x"), http.StatusConflict},
		{Upstream("x", errors.New("boom")), http.StatusBadGateway},
		{Unavailable("x"), http.StatusServiceUnavailable},
		{New(KindInternal, "x"), http.StatusInternalServerError},
		{New(KindUnknown, "x"), http.StatusBadRequest},
		{Gone("x"), http.StatusGone},
	}
	for _, tt := range tests {
		if got := tt.err.HTTPStatus(); got != tt.want {
			t.Errorf("%v: HTTPStatus() = %d, want %d", tt.err.Kind, got, tt.want)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	base := Upstream("Error searching for location", errors.New("status 500"))
	wrapped := fmt.Errorf("lookup: %w", base)

	if !Is(wrapped, KindUpstream) {
		t.Errorf("GetKind() = %v, want KindUpstream", GetKind(wrapped))
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Error("plain errors must be KindUnknown")
	}
	if got := base.WithOp("maps.Lookup").Error(); got != "maps.Lookup: Error searching for location: status 500" {
		t.Errorf("Error() = %q", got)
	}
}

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: Validation("viewerId is required"), want: http.StatusBadRequest},
		{name: "bad input", err: goerrors.New("bad id", goerrors.CategoryBadInput), want: http.StatusBadRequest},
		{name: "not found", err: NotFound("user not found"), want: http.StatusNotFound},
		{name: "conflict", err: goerrors.New("taken", goerrors.CategoryConflict), want: http.StatusConflict},
		{name: "wrapped validation", err: fmt.Errorf("handler: %w", Validation("nope")), want: http.StatusBadRequest},
		{name: "plain error", err: errors.New("boom"), want: http.StatusInternalServerError},
		{name: "internal", err: Internal(errors.New("dial tcp"), "store unavailable"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMessage_HidesUncategorizedText(t *testing.T) {
	if got := Message(errors.New("pq: password authentication failed")); got != "internal server error" {
		t.Errorf("expected generic message, got %q", got)
	}

	if got := Message(Validation("text is required")); got != "text is required" {
		t.Errorf("expected validation message, got %q", got)
	}
}

func TestTextCode(t *testing.T) {
	if got := TextCode(NotFound("missing")); got != CodeNotFound {
		t.Errorf("TextCode() = %q, want %q", got, CodeNotFound)
	}
	if got := TextCode(errors.New("boom")); got != CodeInternal {
		t.Errorf("TextCode() = %q, want %q", got, CodeInternal)
	}
}

func TestIs(t *testing.T) {
	if Is(nil, goerrors.CategoryValidation) {
		t.Error("nil error must not match any category")
	}
	if !Is(Validation("x"), goerrors.CategoryValidation) {
		t.Error("expected validation category")
	}
}

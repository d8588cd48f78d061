package util

import (
	"errors"
	"net/http"
	"testing"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	t.Parallel()

	original := NewNotFound("shipment")
	converted := ToDomainError(original)
	if converted.Code != CodeNotFound || converted.HTTPStatus != http.StatusNotFound {
		t.Fatalf("unexpected conversion: %+v", converted)
	}
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	converted := ToDomainError(cause)
	if converted.Code != CodeInternalError || converted.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected conversion: %+v", converted)
	}
	if !errors.Is(converted, cause) {
		t.Fatal("cause should remain reachable via errors.Is")
	}
}

func TestForbiddenVariantsStayDistinct(t *testing.T) {
	t.Parallel()

	if CodeOf(NewUnauthorizedAccess("shipment")) == CodeOf(NewUnauthorizedUpdate("shipment")) {
		t.Fatal("access and update denials must carry different codes")
	}
	if CodeOf(NewUnauthorizedUpdate("shipment")) == CodeOf(NewUnauthorizedDelete("shipment")) {
		t.Fatal("update and delete denials must carry different codes")
	}
}

func TestCodeOfNonDomainError(t *testing.T) {
	t.Parallel()

	if code := CodeOf(errors.New("plain")); code != "" {
		t.Fatalf("got %q, want empty", code)
	}
}

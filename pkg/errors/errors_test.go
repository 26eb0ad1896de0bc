package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code        Code
		status      int
		publicMsg   string
		retryable   bool
		detailsOK   bool
		passthrough bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true, passthrough: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required", passthrough: true},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied", passthrough: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found", passthrough: true},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected", passthrough: true},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true, passthrough: true},
		{code: CodeProfileUnavailable, status: http.StatusConflict, publicMsg: "donor profile unavailable", detailsOK: true, passthrough: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded", passthrough: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
		if meta.MessagePassthrough != tt.passthrough {
			t.Fatalf("code %s expected message passthrough %v got %v", tt.code, tt.passthrough, meta.MessagePassthrough)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing review note")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing review note" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "load donor profile")
	if wrapped.Unwrap() != cause {
		t.Fatalf("expected cause to be preserved")
	}
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("errors.Is should see the cause through the wrapper")
	}

	if Wrap(CodeDependency, nil, "no cause").Unwrap() != nil {
		t.Fatalf("wrapping nil should behave like New")
	}
}

func TestAsAndHasCode(t *testing.T) {
	err := New(CodeStateConflict, "project already reviewed")
	if As(err) == nil {
		t.Fatalf("As should recover the typed error")
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatalf("As should reject untyped errors")
	}
	if !HasCode(err, CodeStateConflict) {
		t.Fatalf("HasCode should match the carried code")
	}
	if HasCode(err, CodeForbidden) {
		t.Fatalf("HasCode should not match a different code")
	}
	if HasCode(nil, CodeForbidden) {
		t.Fatalf("nil error has no code")
	}
}

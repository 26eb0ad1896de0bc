package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeStateConflict      Code = "STATE_CONFLICT"
	CodeProfileUnavailable Code = "DONOR_PROFILE_UNAVAILABLE"
	CodeRateLimit          Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal           Code = "INTERNAL_ERROR"
	CodeDependency         Code = "DEPENDENCY_ERROR"
)

// Metadata drives how a code is rendered at the HTTP boundary.
// MessagePassthrough marks codes whose caller-supplied messages are safe to
// show; internal and dependency failures always hide theirs.
type Metadata struct {
	HTTPStatus         int
	Retryable          bool
	PublicMessage      string
	DetailsAllowed     bool
	MessagePassthrough bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:         http.StatusBadRequest,
		PublicMessage:      "validation failed",
		DetailsAllowed:     true,
		MessagePassthrough: true,
	},
	CodeUnauthorized: {
		HTTPStatus:         http.StatusUnauthorized,
		PublicMessage:      "authentication required",
		MessagePassthrough: true,
	},
	CodeForbidden: {
		HTTPStatus:         http.StatusForbidden,
		PublicMessage:      "access denied",
		MessagePassthrough: true,
	},
	CodeNotFound: {
		HTTPStatus:         http.StatusNotFound,
		PublicMessage:      "resource not found",
		MessagePassthrough: true,
	},
	CodeConflict: {
		HTTPStatus:         http.StatusConflict,
		PublicMessage:      "conflict detected",
		MessagePassthrough: true,
	},
	CodeStateConflict: {
		HTTPStatus:         http.StatusUnprocessableEntity,
		PublicMessage:      "state transition disallowed",
		DetailsAllowed:     true,
		MessagePassthrough: true,
	},
	CodeProfileUnavailable: {
		HTTPStatus:         http.StatusConflict,
		PublicMessage:      "donor profile unavailable",
		DetailsAllowed:     true,
		MessagePassthrough: true,
	},
	CodeRateLimit: {
		HTTPStatus:         http.StatusTooManyRequests,
		PublicMessage:      "rate limit exceeded",
		MessagePassthrough: true,
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		Retryable:     true,
		PublicMessage: "internal server error",
	},
	CodeDependency: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Retryable:      true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether err carries the given taxonomy code.
func HasCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

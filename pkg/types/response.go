package types

// SuccessEnvelope wraps every 2xx payload so clients always unwrap "data".
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error shape. Code is a pkg/errors taxonomy value;
// Details is only populated for codes that allow it.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every non-2xx payload.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

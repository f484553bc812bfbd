package contract

import "time"

const SchemaVersion = "v1"

type ErrorCode string

const (
	ErrGeneric           ErrorCode = "GENERIC_FAILURE"
	ErrInvalidUsage      ErrorCode = "INVALID_USAGE"
	ErrNotRecognized     ErrorCode = "NOT_RECOGNIZED"
	ErrLocaleUnavailable ErrorCode = "LOCALE_UNAVAILABLE"
	ErrFormatInvalid     ErrorCode = "FORMAT_INVALID"
	ErrStateUnavailable  ErrorCode = "STATE_UNAVAILABLE"
)

type ErrorEnvelope struct {
	SchemaVersion string         `json:"schema_version"`
	Error         ErrorBody      `json:"error"`
	Meta          map[string]any `json:"meta,omitempty"`
}

type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Hint    string    `json:"hint,omitempty"`
}

type SuccessEnvelope struct {
	SchemaVersion string         `json:"schema_version"`
	Command       string         `json:"command"`
	GeneratedAt   time.Time      `json:"generated_at"`
	Data          any            `json:"data"`
	Meta          map[string]any `json:"meta"`
	Warnings      []string       `json:"warnings"`
}

// ServeRequest is one line of input to `stenotime serve`.
type ServeRequest struct {
	Op      string   `json:"op,omitempty"`
	Strokes []string `json:"strokes,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ServeResponse is one line of output from `stenotime serve`.
type ServeResponse struct {
	Found       bool      `json:"found"`
	Translation string    `json:"translation,omitempty"`
	Reverse     []string  `json:"reverse,omitempty"`
	Code        ErrorCode `json:"code,omitempty"`
	Error       string    `json:"error,omitempty"`
}

type StateInfo struct {
	Kind     string `json:"kind"`
	Path     string `json:"path,omitempty"`
	Offset   int    `json:"offset"`
	Readable bool   `json:"readable"`
}

type DoctorCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

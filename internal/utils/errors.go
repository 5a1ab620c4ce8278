package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	// Pipeline conditions.
	CodeInvalidEvent        Code = "INVALID_EVENT"
	CodeUnsupportedFormat   Code = "UNSUPPORTED_FORMAT"
	CodeTranscodeFailed     Code = "TRANSCODE_FAILED"
	CodeTranscriptionFailed Code = "TRANSCRIPTION_FAILED"
	CodeStorageFailed       Code = "STORAGE_FAILED"

	// API-level conditions.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeUnauthorized    Code = "UNAUTHORIZED"
	CodeNotFound        Code = "NOT_FOUND"
	CodeTimeout         Code = "TIMEOUT"
	CodeInternal        Code = "INTERNAL"
)

// AppError is the unified error contract across layers.
type AppError struct {
	Code    Code
	Op      string // operation name, ex: "IngestionService.Process"
	Message string // safe message
	Err     error  // wrapped error
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Op != "" && e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Op != "" && e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "error"
	}
}

func (e *AppError) Unwrap() error { return e.Err }

func E(code Code, op, msg string, err error) error {
	return &AppError{Code: code, Op: op, Message: msg, Err: err}
}

func IsCode(err error, code Code) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// CodeOf extracts the error code, defaulting to INTERNAL for foreign errors.
func CodeOf(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// Retryable reports whether a redelivery of the same event could plausibly
// succeed. Malformed events and unknown formats stay broken forever;
// everything else depends on an external service.
func Retryable(err error) bool {
	switch CodeOf(err) {
	case CodeInvalidEvent, CodeUnsupportedFormat, CodeInvalidArgument, CodeNotFound, CodeUnauthorized:
		return false
	default:
		return true
	}
}

func HTTPStatus(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		switch ae.Code {
		case CodeInvalidEvent, CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeUnsupportedFormat:
			return http.StatusUnsupportedMediaType
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeNotFound:
			return http.StatusNotFound
		case CodeTimeout:
			return http.StatusGatewayTimeout
		case CodeStorageFailed, CodeTranscriptionFailed:
			return http.StatusBadGateway
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeBadRequest     ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_005"
	ErrCodeValidation     ErrorCode = "COMMON_010"
	ErrCodeSerialization  ErrorCode = "COMMON_011"
	ErrCodeNotImplemented ErrorCode = "COMMON_016"
)

// Radial Module Error Codes
const (
	ErrCodeConfiguration      ErrorCode = "RAD_001"
	ErrCodeShapeMismatch      ErrorCode = "RAD_002"
	ErrCodeUnsupportedBackend ErrorCode = "RAD_003"
)

// Short aliases used at call sites.
const (
	CodeInternal           = ErrCodeInternal
	CodeInvalidParam       = ErrCodeBadRequest
	CodeNotFound           = ErrCodeNotFound
	CodeValidation         = ErrCodeValidation
	CodeSerialization      = ErrCodeSerialization
	CodeNotImplemented     = ErrCodeNotImplemented
	CodeConfiguration      = ErrCodeConfiguration
	CodeShapeMismatch      = ErrCodeShapeMismatch
	CodeUnsupportedBackend = ErrCodeUnsupportedBackend

	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeValidation:     http.StatusUnprocessableEntity,
	ErrCodeSerialization:  http.StatusInternalServerError,
	ErrCodeNotImplemented: http.StatusNotImplemented,

	ErrCodeConfiguration:      http.StatusBadRequest,
	ErrCodeShapeMismatch:      http.StatusBadRequest,
	ErrCodeUnsupportedBackend: http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:       "internal error",
	ErrCodeBadRequest:     "bad request",
	ErrCodeNotFound:       "resource not found",
	ErrCodeValidation:     "validation failed",
	ErrCodeSerialization:  "serialization failed",
	ErrCodeNotImplemented: "not implemented",

	ErrCodeConfiguration:      "invalid radial filter configuration",
	ErrCodeShapeMismatch:      "tensor shapes cannot be broadcast together",
	ErrCodeUnsupportedBackend: "unsupported precision or device",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending

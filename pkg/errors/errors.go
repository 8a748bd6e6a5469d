package errors

import "fmt"

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	// HTTP client errors
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"

	// Scan resolution errors
	ErrorTypeNoTargetFound        ErrorType = "no_target_found"
	ErrorTypeUnsupportedMediaType ErrorType = "unsupported_media_type"
	ErrorTypeRemoteFetchFailed    ErrorType = "remote_fetch_failed"
	ErrorTypeBlobCorrelation      ErrorType = "blob_correlation_failed"
	ErrorTypeMalformedManifest    ErrorType = "malformed_manifest"
)

// Error represents an API or scan error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates a typed error without an HTTP code
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// NoTargetFound reports that no DOM node could be classified as the
// active media root.
func NoTargetFound() *Error {
	return New(ErrorTypeNoTargetFound, "no target found")
}

// IsType reports whether err is a typed Error of the given type.
func IsType(err error, errorType ErrorType) bool {
	e, ok := err.(*Error)
	return ok && e.Type == errorType
}

// TypeForStatusCode maps a rejected HTTP status to the matching error
// type. Anything without a dedicated type is a generic fetch failure.
func TypeForStatusCode(statusCode int) ErrorType {
	switch {
	case statusCode == 429:
		return ErrorTypeRateLimit
	case statusCode == 401 || statusCode == 403:
		return ErrorTypeAuth
	case statusCode == 404:
		return ErrorTypeNotFound
	case statusCode >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeRemoteFetchFailed
	}
}

// IsSoft reports whether an error type should be logged but not surfaced
// to the user. Speculative remote lookups are expected to fail routinely,
// so every rejected-lookup type is soft; network and parse failures stay
// hard.
func IsSoft(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeRemoteFetchFailed, ErrorTypeRateLimit, ErrorTypeAuth,
		ErrorTypeNotFound, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504: // Server errors
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500 // Retry all 5xx errors
	}
}

package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError represents a single error entry returned by the ledger API.
type APIError struct {
	Code    string `json:"code"            yaml:"code"`
	Message string `json:"message"         yaml:"message"`
	Index   *int   `json:"index,omitempty" yaml:"index,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Index != nil {
		return fmt.Sprintf("%s: %s (index: %d)", e.Code, e.Message, *e.Index)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrorResponse represents the error envelope returned by the API.
type ErrorResponse struct {
	StatusCode int        `json:"-"      yaml:"-"`
	Errors     []APIError `json:"errors" yaml:"errors"`
}

// Error implements the error interface for ErrorResponse.
func (e *ErrorResponse) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("unknown error (status: %d)", e.StatusCode)
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	messages := make([]string, len(e.Errors))
	for i := range e.Errors {
		messages[i] = e.Errors[i].Error()
	}

	return "multiple errors: " + strings.Join(messages, "; ")
}

// FirstError returns the first error entry or nil.
func (e *ErrorResponse) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// FieldError identifies one invalid entry in a batch create request.
type FieldError struct {
	// Index is the zero-based position of the offending entity in the batch.
	Index   int    `json:"index"   yaml:"index"`
	Code    string `json:"code"    yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// ValidationError is returned when a batch create is rejected. The request
// had no effect: either every entity was created or none was.
type ValidationError struct {
	Entries []FieldError `json:"entries" yaml:"entries"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Entries) == 0 {
		return "validation failed"
	}

	messages := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		messages[i] = fmt.Sprintf("[%d] %s: %s", entry.Index, entry.Code, entry.Message)
	}

	return "validation failed: " + strings.Join(messages, "; ")
}

// ConfigError is returned for malformed or missing credentials or keys. It is
// raised before any network call and is never worth retrying.
type ConfigError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	}

	return "configuration error: " + e.Reason
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NetworkError wraps a transport-level failure (DNS, connection reset,
// timeout). It is kept distinct from API errors so callers can layer their
// own retry policy on top; the library itself never retries.
type NetworkError struct {
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

// Unwrap returns the underlying transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when a success response cannot be
// decoded into the expected shape. This indicates schema drift and is
// treated as a defect, not a transient condition.
type MalformedResponseError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}

	return "malformed response: " + e.Reason
}

// Unwrap returns the underlying decode error.
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Error codes commonly returned by the API.
const (
	ErrorCodeNotFound      = "resourceNotFound"
	ErrorCodeUnauthorized  = "unauthorized"
	ErrorCodeInvalidJSON   = "invalidJson"
	ErrorCodeInvalidEntity = "invalidEntity"
)

// Static errors that can be wrapped with context.
var (
	ErrCredentialRequired    = errors.New("credential is required: pass one explicitly or call SetDefaultCredential first")
	ErrAccessIDRequired      = errors.New("access ID is required")
	ErrPrivateKeyRequired    = errors.New("private key is required")
	ErrUnknownEnvironment    = errors.New("unknown environment")
	ErrStreamExhausted       = errors.New("no more items")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrCacheKeyNotFound      = errors.New("key not found")
	ErrCacheEntryExpired     = errors.New("entry expired")
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
)

// IsNotFound reports whether err is an API error for a missing resource.
func IsNotFound(err error) bool {
	errResp := &ErrorResponse{}
	if errors.As(err, &errResp) {
		if errResp.StatusCode == 404 {
			return true
		}

		first := errResp.FirstError()
		if first != nil {
			return first.Code == ErrorCodeNotFound
		}
	}

	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeNotFound
	}

	return false
}

// IsUnauthorized reports whether err means the signature or identity was
// rejected by the server.
func IsUnauthorized(err error) bool {
	errResp := &ErrorResponse{}
	if errors.As(err, &errResp) {
		if errResp.StatusCode == 401 || errResp.StatusCode == 403 {
			return true
		}

		first := errResp.FirstError()
		if first != nil {
			return first.Code == ErrorCodeUnauthorized
		}
	}

	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrorCodeUnauthorized
	}

	return false
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	netErr := &NetworkError{}

	return errors.As(err, &netErr)
}

// IsConfiguration reports whether err is a credential or key problem that no
// amount of retrying will fix.
func IsConfiguration(err error) bool {
	cfgErr := &ConfigError{}

	return errors.As(err, &cfgErr)
}

// ParseErrorResponse parses an API error envelope from JSON.
func ParseErrorResponse(statusCode int, data []byte) (*ErrorResponse, error) {
	errResp := ErrorResponse{StatusCode: statusCode}

	err := json.Unmarshal(data, &errResp)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal error response: %w", err)
	}

	return &errResp, nil
}

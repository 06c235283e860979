package providers

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrorType categorizes errors.
type ErrorType string

const (
	ErrorTypeAuth       ErrorType = "auth"       // Auth/authorization errors
	ErrorTypeRateLimit  ErrorType = "rate_limit" // Rate limit errors
	ErrorTypeNetwork    ErrorType = "network"    // Network connectivity errors
	ErrorTypeValidation ErrorType = "validation" // Request validation errors
	ErrorTypeProvider   ErrorType = "provider"   // Upstream provider errors
	ErrorTypeTimeout    ErrorType = "timeout"    // Timeout errors
	ErrorTypeQuota      ErrorType = "quota"      // Quota/billing errors
	ErrorTypeModel      ErrorType = "model"      // Model not found/unsupported errors
	ErrorTypeDecode     ErrorType = "decode"     // Response body could not be normalized
	ErrorTypeInternal   ErrorType = "internal"   // Internal library errors
)

// Decode failures of a non-streaming response. Each names the missing field.
var (
	ErrNoCompletion            = errors.New("no completion produced")
	ErrMissingText             = errors.New("missing completion text")
	ErrMissingPromptTokens     = errors.New("missing prompt tokens")
	ErrMissingCompletionTokens = errors.New("missing completion tokens")
	ErrMissingTotalTokens      = errors.New("missing total tokens")
)

// Error is a structured error with categorization and retry hints.
type Error struct {
	Type     ErrorType `json:"type"`
	Code     string    `json:"code,omitempty"`
	Message  string    `json:"message"`
	Provider string    `json:"provider,omitempty"`
	Model    string    `json:"model,omitempty"`
	Cause    error     `json:"-"`

	// HTTP details (if applicable). Body is the raw response text.
	StatusCode int    `json:"status_code,omitempty"`
	Body       string `json:"body,omitempty"`

	Retryable bool `json:"retryable"`
}

func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Provider, e.Type, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error of the same Type.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Type == t.Type
	}
	return false
}

func (e *Error) IsRetryable() bool { return e.Retryable }

func NewErrorWithCause(errorType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:      errorType,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryableByType(errorType),
	}
}

func NewProviderError(provider string, errorType ErrorType, message string) *Error {
	return &Error{
		Type:      errorType,
		Provider:  provider,
		Message:   message,
		Retryable: isRetryableByType(errorType),
	}
}

// NewHTTPError builds a transport failure from a non-2xx response. The
// message always carries the status code; Google error documents contribute
// their status string and message, anything else is quoted verbatim.
func NewHTTPError(provider string, statusCode int, body string) *Error {
	errorType := classifyHTTPError(statusCode)
	message := fmt.Sprintf("request failed with status %d: %s", statusCode, strings.TrimSpace(body))

	var code string
	if gjson.Valid(body) {
		doc := gjson.Parse(body)
		if msg := doc.Get("error.message"); msg.Exists() {
			code = doc.Get("error.status").String()
			message = fmt.Sprintf("request failed with status %d", statusCode)
			if code != "" {
				message += " " + code
			}
			message += ": " + msg.String()
		}
	}

	return &Error{
		Type:       errorType,
		Code:       code,
		Provider:   provider,
		Message:    message,
		StatusCode: statusCode,
		Body:       body,
		Retryable:  isRetryableByType(errorType),
	}
}

func NewAuthError(provider, message string, cause error) *Error {
	e := NewProviderError(provider, ErrorTypeAuth, message)
	e.Cause = cause
	return e
}

func NewValidationError(provider, message string) *Error {
	return NewProviderError(provider, ErrorTypeValidation, message)
}

// NewDecodeError wraps one of the decode sentinels (or a JSON error).
func NewDecodeError(provider string, cause error) *Error {
	return &Error{
		Type:     ErrorTypeDecode,
		Provider: provider,
		Message:  cause.Error(),
		Cause:    cause,
	}
}

func NewNetworkError(provider, message string, cause error) *Error {
	return &Error{
		Type:      ErrorTypeNetwork,
		Provider:  provider,
		Message:   message,
		Cause:     cause,
		Retryable: true,
	}
}

func NewTimeoutError(provider, message string, cause error) *Error {
	return &Error{
		Type:      ErrorTypeTimeout,
		Provider:  provider,
		Message:   message,
		Cause:     cause,
		Retryable: true,
	}
}

func classifyHTTPError(statusCode int) ErrorType {
	switch {
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return ErrorTypeAuth
	case statusCode == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case statusCode == http.StatusPaymentRequired:
		return ErrorTypeQuota
	case statusCode == http.StatusNotFound:
		return ErrorTypeModel
	case statusCode == http.StatusRequestTimeout:
		return ErrorTypeTimeout
	case statusCode == http.StatusBadRequest:
		return ErrorTypeValidation
	default:
		return ErrorTypeProvider
	}
}

func isRetryableByType(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeTimeout, ErrorTypeRateLimit, ErrorTypeProvider:
		return true
	default:
		return false
	}
}

func IsAuthError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrorTypeAuth
}

func IsRateLimitError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrorTypeRateLimit
}

func IsDecodeError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == ErrorTypeDecode
}

func IsRetryableError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.IsRetryable()
	}
	return false
}

// wrapTransportError classifies an error returned by the HTTP doer.
func wrapTransportError(provider string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		if e.Provider == "" {
			e.Provider = provider
		}
		return e
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(provider, err.Error(), err)
	}
	return NewNetworkError(provider, err.Error(), err)
}

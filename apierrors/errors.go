// Package apierrors defines the errors returned by the OAuth client and the
// CRM connection. Callers branch on them with errors.As:
//
//	var invalid *apierrors.InvalidDataError
//	if errors.As(err, &invalid) {
//		// invalid.FieldName holds the API name of the rejected field
//	}
//
// Specializations unwrap to their general kind, so an *InvalidDataError also
// matches *APIRequestError. Timeouts, connection failures and HTTP request
// errors all match ErrHTTP with errors.Is.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Tracktor/zoho-crm/token"
)

// ErrHTTP is matched by every transport and HTTP status error.
var ErrHTTP = errors.New("zoho crm: http error")

// ConfigurationError is returned for invalid configuration values.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// OAuthStateError is returned when an operation needs an authorized client
// (one holding a refresh token) and the client isn't. It is a programming
// error, not a transient failure. Token is the client's current token.
type OAuthStateError struct {
	Message string
	Token   *token.Token
}

func (e *OAuthStateError) Error() string {
	return e.Message
}

// HTTPTimeoutError is returned when a request timed out. The request may or
// may not have reached the service.
type HTTPTimeoutError struct {
	Err error
}

func (e *HTTPTimeoutError) Error() string {
	return fmt.Sprintf("request timed out: %v", e.Err)
}

func (e *HTTPTimeoutError) Unwrap() error { return e.Err }

func (e *HTTPTimeoutError) Is(target error) bool { return target == ErrHTTP }

// HTTPConnectionError is returned when the service couldn't be reached.
type HTTPConnectionError struct {
	Err error
}

func (e *HTTPConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Err)
}

func (e *HTTPConnectionError) Unwrap() error { return e.Err }

func (e *HTTPConnectionError) Is(target error) bool { return target == ErrHTTP }

// HTTPRequestError is returned for a non-success response that carries no
// structured API error. Body holds the response body, which has also been
// restored on Response.
type HTTPRequestError struct {
	Message  string
	Response *http.Response
	Body     []byte
}

func (e *HTTPRequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return reason(e.StatusCode())
}

func (e *HTTPRequestError) Is(target error) bool { return target == ErrHTTP }

func (e *HTTPRequestError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// OAuthRequestError is returned when a request to the accounts service fails.
type OAuthRequestError struct {
	*HTTPRequestError
}

func NewOAuthRequestError(message string, resp *http.Response, body []byte) *OAuthRequestError {
	return &OAuthRequestError{HTTPRequestError: &HTTPRequestError{Message: message, Response: resp, Body: body}}
}

func (e *OAuthRequestError) Unwrap() error { return e.HTTPRequestError }

// APIRequestError is an error reported by the CRM API in a structured body.
type APIRequestError struct {
	Message string
	// ErrorCode is the API error code, e.g. "MANDATORY_NOT_FOUND".
	ErrorCode string
	// Details is the "details" object of the error, never nil.
	Details    map[string]any
	StatusCode int
	Response   *http.Response
	Body       []byte
}

func (e *APIRequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	msg := e.baseMessage()
	if name, ok := e.Details[APINameKey]; ok {
		return fmt.Sprintf("%s - Field API Name: %q", msg, fmt.Sprint(name))
	}
	return msg
}

func (e *APIRequestError) baseMessage() string {
	return fmt.Sprintf("Zoho CRM API error -- code: %q - HTTP status code: %d", e.ErrorCode, e.StatusCode)
}

// Unauthorized reports whether the API rejected the access token.
func (e *APIRequestError) Unauthorized() bool {
	code, err := Code(KeyAuthorizationError)
	return err == nil && e.StatusCode == code
}

// InvalidDataError is the APIRequestError for the INVALID_DATA code. FieldName
// is empty when the API didn't name the field.
type InvalidDataError struct {
	*APIRequestError
	FieldName string
}

func (e *InvalidDataError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if _, ok := e.Details[APINameKey]; ok {
		return fmt.Sprintf("%s - Invalid data for field: %q", e.baseMessage(), e.FieldName)
	}
	return e.baseMessage()
}

func (e *InvalidDataError) Unwrap() error { return e.APIRequestError }

// DuplicateDataError is the APIRequestError for the DUPLICATE_DATA code.
type DuplicateDataError struct {
	*APIRequestError
	FieldName string
}

func (e *DuplicateDataError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Duplicate data for field: %q", e.FieldName)
}

func (e *DuplicateDataError) Unwrap() error { return e.APIRequestError }

// DetailLookupError is returned by Build when an error code requires a
// detail the payload doesn't have.
type DetailLookupError struct {
	ErrorCode string
	Key       string
}

func (e *DetailLookupError) Error() string {
	return fmt.Sprintf("%s error details: key not found: %q", e.ErrorCode, e.Key)
}

// UnknownStatusCodeError is returned by status code lookups that miss.
type UnknownStatusCodeError struct {
	StatusCode any
}

func (e *UnknownStatusCodeError) Error() string {
	if s, ok := e.StatusCode.(string); ok {
		return fmt.Sprintf("Unknown HTTP status code: %q", s)
	}
	return fmt.Sprintf("Unknown HTTP status code: %v", e.StatusCode)
}

func reason(code int) string {
	text := http.StatusText(code)
	if text == "" {
		text = fmt.Sprintf("HTTP status %d", code)
	}
	if sc, err := Lookup(code); err == nil {
		return fmt.Sprintf("%s (%s: %s)", text, sc.Meaning, sc.Description)
	}
	return text
}

package apierrors

import (
	"fmt"
	"net/http"
)

// API error codes with a dedicated error type.
const (
	InvalidDataCode   = "INVALID_DATA"
	DuplicateDataCode = "DUPLICATE_DATA"
)

// APINameKey is the details key naming the offending field.
const APINameKey = "api_name"

// ErrorPayload is the structured error the CRM API returns, either as the
// whole body or as a record of a {"data": [...]} envelope.
type ErrorPayload struct {
	Code    string         `json:"code"`
	Details map[string]any `json:"details"`
	Message string         `json:"message"`
	Status  string         `json:"status"`
}

// Build returns the error matching payload.Code: *InvalidDataError,
// *DuplicateDataError or *APIRequestError. DUPLICATE_DATA requires
// details.api_name; without it Build returns a *DetailLookupError.
// message overrides the generated error message when not empty.
func Build(message string, payload ErrorPayload, statusCode int, resp *http.Response, body []byte) error {
	details := payload.Details
	if details == nil {
		details = map[string]any{}
	}

	base := &APIRequestError{
		Message:    message,
		ErrorCode:  payload.Code,
		Details:    details,
		StatusCode: statusCode,
		Response:   resp,
		Body:       body,
	}

	switch payload.Code {
	case InvalidDataCode:
		return &InvalidDataError{APIRequestError: base, FieldName: fieldName(details)}
	case DuplicateDataCode:
		if _, ok := details[APINameKey]; !ok {
			return &DetailLookupError{ErrorCode: payload.Code, Key: APINameKey}
		}
		return &DuplicateDataError{APIRequestError: base, FieldName: fieldName(details)}
	default:
		return base
	}
}

func fieldName(details map[string]any) string {
	v, ok := details[APINameKey]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

package apierrors

import "strings"

// StatusCode describes an HTTP status code as documented by the CRM API.
type StatusCode struct {
	Key         string
	Code        int
	Meaning     string
	Description string
}

// Keys of the status code table.
const (
	KeyOK                    = "ok"
	KeyCreated               = "created"
	KeyAccepted              = "accepted"
	KeyNoContent             = "no_content"
	KeyNotModified           = "not_modified"
	KeyBadRequest            = "bad_request"
	KeyAuthorizationError    = "authorization_error"
	KeyForbidden             = "forbidden"
	KeyNotFound              = "not_found"
	KeyMethodNotAllowed      = "method_not_allowed"
	KeyRequestEntityTooLarge = "request_entity_too_large"
	KeyUnsupportedMediaType  = "unsupported_media_type"
	KeyTooManyRequests       = "too_many_requests"
	KeyInternalServerError   = "internal_server_error"
)

var statusCodes = []StatusCode{
	{KeyOK, 200, "OK", "The API request is successful."},
	{KeyCreated, 201, "CREATED", "Request fulfilled for single record insertion."},
	{KeyAccepted, 202, "ACCEPTED", "Request fulfilled for multiple records insertion."},
	{KeyNoContent, 204, "NO_CONTENT", "There is no content available for the request."},
	{KeyNotModified, 304, "NOT_MODIFIED", `The requested page has not been modified. In case "If-Modified-Since" header is used for GET APIs`},
	{KeyBadRequest, 400, "BAD_REQUEST", "The request or the authentication considered is invalid."},
	{KeyAuthorizationError, 401, "AUTHORIZATION_ERROR", "Invalid API key provided."},
	{KeyForbidden, 403, "FORBIDDEN", "No permission to do the operation."},
	{KeyNotFound, 404, "NOT_FOUND", "Invalid request."},
	{KeyMethodNotAllowed, 405, "METHOD_NOT_ALLOWED", "The specified method is not allowed."},
	{KeyRequestEntityTooLarge, 413, "REQUEST_ENTITY_TOO_LARGE", "The server did not accept the request while uploading a file, since the limited file size has exceeded."},
	{KeyUnsupportedMediaType, 415, "UNSUPPORTED_MEDIA_TYPE", "The server did not accept the request while uploading a file, since the media/ file type is not supported."},
	{KeyTooManyRequests, 429, "TOO_MANY_REQUESTS", "Number of API requests for the 24 hour period is exceeded or the concurrency limit of the user for the app is exceeded."},
	{KeyInternalServerError, 500, "INTERNAL_SERVER_ERROR", "Generic error that is encountered due to an unexpected server error."},
}

// All returns the status code table.
func All() []StatusCode {
	return append([]StatusCode(nil), statusCodes...)
}

// Lookup finds a status code by key (case insensitive) or by numeric code.
// A miss returns an *UnknownStatusCodeError.
func Lookup(keyOrCode any) (StatusCode, error) {
	switch v := keyOrCode.(type) {
	case string:
		key := strings.ToLower(v)
		for _, sc := range statusCodes {
			if sc.Key == key {
				return sc, nil
			}
		}
	case int:
		return lookupCode(v, keyOrCode)
	case int32:
		return lookupCode(int(v), keyOrCode)
	case int64:
		return lookupCode(int(v), keyOrCode)
	}
	return StatusCode{}, &UnknownStatusCodeError{StatusCode: keyOrCode}
}

func lookupCode(code int, keyOrCode any) (StatusCode, error) {
	for _, sc := range statusCodes {
		if sc.Code == code {
			return sc, nil
		}
	}
	return StatusCode{}, &UnknownStatusCodeError{StatusCode: keyOrCode}
}

// Code returns the numeric code for a key or code.
func Code(keyOrCode any) (int, error) {
	sc, err := Lookup(keyOrCode)
	return sc.Code, err
}

// Meaning returns the short label, e.g. "AUTHORIZATION_ERROR".
func Meaning(keyOrCode any) (string, error) {
	sc, err := Lookup(keyOrCode)
	return sc.Meaning, err
}

func Description(keyOrCode any) (string, error) {
	sc, err := Lookup(keyOrCode)
	return sc.Description, err
}

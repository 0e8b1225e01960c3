package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/Tracktor/zoho-crm/apierrors"
)

const notAuthorizedMessage = "Zoho API not authorized. Run `zohocrm authorize-url`, " +
	"grant access in the browser, then run `zohocrm token create <grant-token>`."

// errorView holds the fields of an error worth showing to a user.
type errorView struct {
	Kind       string
	StatusCode int
	Code       string
	Field      string
	Details    map[string]any
	Message    string
}

func describeError(err error) errorView {
	var (
		invalid    *apierrors.InvalidDataError
		duplicate  *apierrors.DuplicateDataError
		apiErr     *apierrors.APIRequestError
		oauthErr   *apierrors.OAuthRequestError
		httpErr    *apierrors.HTTPRequestError
		timeoutErr *apierrors.HTTPTimeoutError
		connErr    *apierrors.HTTPConnectionError
		configErr  *apierrors.ConfigurationError
		lookupErr  *apierrors.DetailLookupError
		unknownErr *apierrors.UnknownStatusCodeError
	)

	v := errorView{Message: err.Error()}
	switch {
	case errors.As(err, &invalid):
		v.Kind = "InvalidDataError"
		v.StatusCode, v.Code, v.Field, v.Details = invalid.StatusCode, invalid.ErrorCode, invalid.FieldName, invalid.Details
	case errors.As(err, &duplicate):
		v.Kind = "DuplicateDataError"
		v.StatusCode, v.Code, v.Field, v.Details = duplicate.StatusCode, duplicate.ErrorCode, duplicate.FieldName, duplicate.Details
	case errors.As(err, &apiErr):
		v.Kind = "APIRequestError"
		v.StatusCode, v.Code, v.Details = apiErr.StatusCode, apiErr.ErrorCode, apiErr.Details
	case errors.As(err, &oauthErr):
		v.Kind = "OAuthRequestError"
		v.StatusCode = oauthErr.StatusCode()
	case errors.As(err, &httpErr):
		v.Kind = "HTTPRequestError"
		v.StatusCode = httpErr.StatusCode()
	case errors.As(err, &timeoutErr):
		v.Kind = "HTTPTimeoutError"
	case errors.As(err, &connErr):
		v.Kind = "HTTPConnectionError"
	case errors.As(err, &configErr):
		v.Kind = "ConfigurationError"
	case errors.As(err, &lookupErr):
		v.Kind = "DetailLookupError"
		v.Code = lookupErr.ErrorCode
	case errors.As(err, &unknownErr):
		v.Kind = "UnknownStatusCodeError"
	default:
		v.Kind = "Error"
	}
	return v
}

func renderError(w io.Writer, err error) {
	var stateErr *apierrors.OAuthStateError
	if errors.As(err, &stateErr) {
		fmt.Fprintln(w, notAuthorizedMessage)
		return
	}

	v := describeError(err)
	fmt.Fprintf(w, "%s: %s\n", v.Kind, v.Message)
	if v.StatusCode != 0 {
		fmt.Fprintf(w, "  status: %d\n", v.StatusCode)
	}
	if v.Code != "" {
		fmt.Fprintf(w, "  code: %s\n", v.Code)
	}
	if v.Field != "" {
		fmt.Fprintf(w, "  field: %s\n", v.Field)
	}

	keys := make([]string, 0, len(v.Details))
	for k := range v.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  details.%s: %v\n", k, v.Details[k])
	}
}

package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Tracktor/zoho-crm/apierrors"
)

const notAuthorizedText = "Zoho API not authorized. Go to " + RouteAuthorize + ".\n" +
	"You can also register this app as a client by going to " + RouteRegister + ".\n"

func (s *Server) notAuthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprint(w, notAuthorizedText)
}

// writeError renders err as JSON with the status that best matches it.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		stateErr   *apierrors.OAuthStateError
		apiErr     *apierrors.APIRequestError
		httpErr    *apierrors.HTTPRequestError
		timeoutErr *apierrors.HTTPTimeoutError
		connErr    *apierrors.HTTPConnectionError
	)

	if errors.As(err, &stateErr) {
		s.notAuthorized(w)
		return
	}

	status := http.StatusInternalServerError
	body := map[string]any{
		"error_class": errorClass(err),
		"message":     err.Error(),
	}

	switch {
	case errors.As(err, &apiErr):
		status = apiErr.StatusCode
		body["error_code"] = apiErr.ErrorCode
		body["details"] = apiErr.Details
	case errors.As(err, &httpErr):
		status = httpErr.StatusCode()
	case errors.As(err, &timeoutErr):
		status = http.StatusGatewayTimeout
	case errors.As(err, &connErr):
		status = http.StatusBadGateway
	}
	// API errors embedded in an accepted envelope still failed.
	if status < 400 {
		status = http.StatusUnprocessableEntity
	}

	s.logger.Warn().Err(err).Int("status", status).Msg("Request failed")
	writeJSON(w, status, body)
}

func errorClass(err error) string {
	var (
		invalid   *apierrors.InvalidDataError
		duplicate *apierrors.DuplicateDataError
		apiErr    *apierrors.APIRequestError
		oauthErr  *apierrors.OAuthRequestError
		httpErr   *apierrors.HTTPRequestError
		timeout   *apierrors.HTTPTimeoutError
		connErr   *apierrors.HTTPConnectionError
		lookup    *apierrors.DetailLookupError
	)
	switch {
	case errors.As(err, &invalid):
		return "InvalidDataError"
	case errors.As(err, &duplicate):
		return "DuplicateDataError"
	case errors.As(err, &apiErr):
		return "APIRequestError"
	case errors.As(err, &oauthErr):
		return "OAuthRequestError"
	case errors.As(err, &httpErr):
		return "HTTPRequestError"
	case errors.As(err, &timeout):
		return "HTTPTimeoutError"
	case errors.As(err, &connErr):
		return "HTTPConnectionError"
	case errors.As(err, &lookup):
		return "DetailLookupError"
	default:
		return "Error"
	}
}

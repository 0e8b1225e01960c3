package crm

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/Tracktor/zoho-crm/apierrors"
)

const errorStatus = "error"

// envelope is the shape shared by CRM responses: either a bare error object
// or a {"data": [...]} list of per-record results.
type envelope struct {
	apierrors.ErrorPayload
	Data []json.RawMessage `json:"data"`
}

// classify returns the error a response stands for, or nil for a success.
func classify(resp *http.Response, body []byte) error {
	status := resp.StatusCode

	if status >= 200 && status < 300 {
		if payload, ok := firstRecordError(body); ok {
			return apierrors.Build("", payload, status, resp, body)
		}
		return nil
	}

	if payload, ok := structuredError(body); ok {
		return apierrors.Build("", payload, status, resp, body)
	}
	return &apierrors.HTTPRequestError{Response: resp, Body: body}
}

// structuredError finds an error object with a code, at the top level or as
// the first record of the data list.
func structuredError(body []byte) (apierrors.ErrorPayload, bool) {
	env, ok := decodeEnvelope(body)
	if !ok {
		return apierrors.ErrorPayload{}, false
	}
	if env.Code != "" {
		return env.ErrorPayload, true
	}
	if rec, ok := firstRecord(env); ok && rec.Code != "" {
		return rec, true
	}
	return apierrors.ErrorPayload{}, false
}

// firstRecordError reports a failed first record in a success envelope.
func firstRecordError(body []byte) (apierrors.ErrorPayload, bool) {
	env, ok := decodeEnvelope(body)
	if !ok {
		return apierrors.ErrorPayload{}, false
	}
	rec, ok := firstRecord(env)
	if !ok || rec.Status != errorStatus || rec.Code == "" {
		return apierrors.ErrorPayload{}, false
	}
	return rec, true
}

func decodeEnvelope(body []byte) (envelope, bool) {
	var env envelope
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return env, false
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return env, false
	}
	return env, true
}

func firstRecord(env envelope) (apierrors.ErrorPayload, bool) {
	if len(env.Data) == 0 {
		return apierrors.ErrorPayload{}, false
	}
	var rec apierrors.ErrorPayload
	if err := json.Unmarshal(env.Data[0], &rec); err != nil {
		return apierrors.ErrorPayload{}, false
	}
	return rec, true
}

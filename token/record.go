package token

import (
	"encoding/json"
	"fmt"
	"time"
)

// record is the stored form of a Token. It keeps the refresh time next to the
// public fields so a reloaded token knows when it expires.
type record struct {
	Token       json.RawMessage `json:"token"`
	RefreshTime any             `json:"refresh_time,omitempty"`
}

// MarshalRecord encodes t for a Repo: ToMap plus the refresh time.
func MarshalRecord(t *Token) ([]byte, error) {
	t.mu.RLock()
	attrs := map[string]any{
		AccessTokenKey:  ptrOrNil(t.accessToken),
		RefreshTokenKey: ptrOrNil(t.refreshToken),
		ExpiresInSecKey: ptrOrNil(t.expiresInSec),
		ExpiresInKey:    ptrOrNil(t.expiresIn),
		TokenTypeKey:    ptrOrNil(t.tokenType),
		APIDomainKey:    ptrOrNil(t.apiDomain),
	}
	refreshTime := t.refreshTime
	t.mu.RUnlock()

	data, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode token: %w", err)
	}
	rec := record{Token: data}
	if refreshTime != nil {
		rec.RefreshTime = refreshTime.UTC().Format(time.RFC3339Nano)
	}
	return json.Marshal(rec)
}

// UnmarshalRecord decodes data written by MarshalRecord. A bare token object
// without the record wrapper is accepted and has no refresh time.
func UnmarshalRecord(data []byte) (*Token, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode token record: %w", err)
	}
	if len(rec.Token) == 0 {
		return FromJSON(data)
	}

	t, err := FromJSON(rec.Token)
	if err != nil {
		return nil, err
	}
	if rec.RefreshTime != nil {
		if err := t.SetRefreshTime(rec.RefreshTime); err != nil {
			return nil, err
		}
	}
	return t, nil
}

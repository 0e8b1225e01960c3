package oauth2

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TokenResponse is the body returned by the token endpoint.
// The accounts service reports some failures with a 200 status and an
// "error" field, so Error must be checked even on success.
type TokenResponse struct {
	// AccessToken is the short-lived credential used on API requests.
	// Example: "1000.0f9c4a9e6a8e...."
	AccessToken *string `json:"access_token,omitempty"`

	// RefreshToken is only returned by the authorization_code grant.
	RefreshToken *string `json:"refresh_token,omitempty"`

	// ExpiresInSec is the access token lifetime in seconds.
	ExpiresInSec *json.Number `json:"expires_in_sec,omitempty"`

	// ExpiresIn is the access token lifetime in milliseconds.
	ExpiresIn *json.Number `json:"expires_in,omitempty"`

	// TokenType is usually "Bearer".
	TokenType *string `json:"token_type,omitempty"`

	// APIDomain is the API host the token is valid for.
	// Example: "https://www.zohoapis.eu"
	APIDomain *string `json:"api_domain,omitempty"`

	// Error is set when the grant was rejected, e.g. "invalid_code".
	Error string `json:"error,omitempty"`
}

// DecodeTokenResponse parses a token endpoint body.
func DecodeTokenResponse(body []byte) (*TokenResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var resp TokenResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	return &resp, nil
}

// Attributes returns the token attributes carried by the response, keyed like
// the token map. Attributes absent from the response map to nil, except the
// two lifetime fields which are only listed when present so that one of them
// can't clear the other. includeRefreshToken controls whether refresh_token
// is part of the result.
func (r *TokenResponse) Attributes(includeRefreshToken bool) map[string]any {
	attrs := map[string]any{
		"access_token": stringOrNil(r.AccessToken),
		"token_type":   stringOrNil(r.TokenType),
		"api_domain":   stringOrNil(r.APIDomain),
	}
	if includeRefreshToken {
		attrs["refresh_token"] = stringOrNil(r.RefreshToken)
	}

	switch {
	case r.ExpiresInSec == nil && r.ExpiresIn == nil:
		attrs["expires_in_sec"] = nil
	default:
		if r.ExpiresInSec != nil {
			attrs["expires_in_sec"] = *r.ExpiresInSec
		}
		if r.ExpiresIn != nil {
			attrs["expires_in"] = *r.ExpiresIn
		}
	}
	return attrs
}

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

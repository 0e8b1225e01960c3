package oauth2

import (
	"net/url"
	"strings"
)

// Credentials identify the connected app. They are sent with every request to
// the accounts service.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

func (c Credentials) addTo(form url.Values) {
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("redirect_uri", c.RedirectURI)
}

// TokenRequest holds the form parameters of a request to the token endpoint.
type TokenRequest struct {
	GrantType GrantType

	// Code is the grant token received from the authorization endpoint.
	// Required: only for authorization_code grant
	Code string

	// RefreshToken is used to obtain a new access token without re-consent.
	// Required: only for refresh_token grant
	RefreshToken string

	Credentials
}

// Form encodes the request as an application/x-www-form-urlencoded body.
func (r TokenRequest) Form() url.Values {
	form := url.Values{}
	form.Set("grant_type", string(r.GrantType))
	switch r.GrantType {
	case AuthorizationCodeGrant:
		form.Set("code", r.Code)
	case RefreshTokenGrant:
		form.Set("refresh_token", r.RefreshToken)
	}
	r.Credentials.addTo(form)
	return form
}

// RevokeRequest revokes a refresh token.
type RevokeRequest struct {
	Token string
	Credentials
}

func (r RevokeRequest) Form() url.Values {
	form := url.Values{}
	form.Set("token", r.Token)
	r.Credentials.addTo(form)
	return form
}

// AuthorizeRequest holds the query parameters of the consent-grant URL.
type AuthorizeRequest struct {
	ClientID    string
	Scopes      []string
	RedirectURI string
}

// Query encodes the parameters in a fixed order. Scopes are comma separated.
func (r AuthorizeRequest) Query() string {
	params := [][2]string{
		{"client_id", r.ClientID},
		{"scope", strings.Join(r.Scopes, ",")},
		{"response_type", string(CodeResponseType)},
		{"redirect_uri", r.RedirectURI},
		{"access_type", string(OfflineAccess)},
		{"prompt", string(ConsentPrompt)},
	}

	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}

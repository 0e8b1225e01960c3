package oauth2_test

import (
	"testing"

	"github.com/Tracktor/zoho-crm/oauth2"
	"github.com/stretchr/testify/require"
)

var testCredentials = oauth2.Credentials{
	ClientID:     "1000.CLIENTID",
	ClientSecret: "secret",
	RedirectURI:  "https://example.com/callback",
}

func TestTokenRequestForm(t *testing.T) {
	t.Run("authorization code", func(t *testing.T) {
		form := oauth2.TokenRequest{
			GrantType:   oauth2.AuthorizationCodeGrant,
			Code:        "1000.grant",
			Credentials: testCredentials,
		}.Form()

		require.Equal(t, "authorization_code", form.Get("grant_type"))
		require.Equal(t, "1000.grant", form.Get("code"))
		require.Equal(t, "1000.CLIENTID", form.Get("client_id"))
		require.Equal(t, "secret", form.Get("client_secret"))
		require.Equal(t, "https://example.com/callback", form.Get("redirect_uri"))
		require.False(t, form.Has("refresh_token"))
	})

	t.Run("refresh token", func(t *testing.T) {
		form := oauth2.TokenRequest{
			GrantType:    oauth2.RefreshTokenGrant,
			RefreshToken: "1000.refresh",
			Credentials:  testCredentials,
		}.Form()

		require.Equal(t, "refresh_token", form.Get("grant_type"))
		require.Equal(t, "1000.refresh", form.Get("refresh_token"))
		require.False(t, form.Has("code"))
	})
}

func TestRevokeRequestForm(t *testing.T) {
	form := oauth2.RevokeRequest{Token: "1000.refresh", Credentials: testCredentials}.Form()

	require.Equal(t, "1000.refresh", form.Get("token"))
	require.Equal(t, "1000.CLIENTID", form.Get("client_id"))
	require.Equal(t, "secret", form.Get("client_secret"))
	require.Equal(t, "https://example.com/callback", form.Get("redirect_uri"))
}

func TestAuthorizeRequestQuery(t *testing.T) {
	query := oauth2.AuthorizeRequest{
		ClientID:    "1000.CLIENTID",
		Scopes:      []string{"ZohoCRM.modules.ALL", "ZohoCRM.users.READ"},
		RedirectURI: "https://example.com/callback?source=cli",
	}.Query()

	require.Equal(t,
		"client_id=1000.CLIENTID"+
			"&scope=ZohoCRM.modules.ALL%2CZohoCRM.users.READ"+
			"&response_type=code"+
			"&redirect_uri=https%3A%2F%2Fexample.com%2Fcallback%3Fsource%3Dcli"+
			"&access_type=offline"+
			"&prompt=consent",
		query)
}

package oauth2_test

import (
	"encoding/json"
	"testing"

	"github.com/Tracktor/zoho-crm/oauth2"
	"github.com/stretchr/testify/require"
)

func TestDecodeTokenResponse(t *testing.T) {
	resp, err := oauth2.DecodeTokenResponse([]byte(`{
		"access_token": "1000.access",
		"refresh_token": "1000.refresh",
		"expires_in_sec": 3600,
		"expires_in": 3600000,
		"token_type": "Bearer",
		"api_domain": "https://www.zohoapis.com"
	}`))
	require.NoError(t, err)
	require.Empty(t, resp.Error)

	require.Equal(t, map[string]any{
		"access_token":   "1000.access",
		"refresh_token":  "1000.refresh",
		"expires_in_sec": json.Number("3600"),
		"expires_in":     json.Number("3600000"),
		"token_type":     "Bearer",
		"api_domain":     "https://www.zohoapis.com",
	}, resp.Attributes(true))

	attrs := resp.Attributes(false)
	require.NotContains(t, attrs, "refresh_token")
}

func TestTokenResponseAttributesPartial(t *testing.T) {
	t.Run("only seconds", func(t *testing.T) {
		resp, err := oauth2.DecodeTokenResponse([]byte(`{"access_token":"a","expires_in_sec":60}`))
		require.NoError(t, err)

		attrs := resp.Attributes(false)
		require.Equal(t, json.Number("60"), attrs["expires_in_sec"])
		require.NotContains(t, attrs, "expires_in")
		require.Contains(t, attrs, "api_domain")
		require.Nil(t, attrs["api_domain"])
	})

	t.Run("no lifetime", func(t *testing.T) {
		resp, err := oauth2.DecodeTokenResponse([]byte(`{"access_token":"a"}`))
		require.NoError(t, err)

		attrs := resp.Attributes(false)
		require.Contains(t, attrs, "expires_in_sec")
		require.Nil(t, attrs["expires_in_sec"])
	})
}

func TestDecodeTokenResponseErrors(t *testing.T) {
	resp, err := oauth2.DecodeTokenResponse([]byte(`{"error":"invalid_code"}`))
	require.NoError(t, err)
	require.Equal(t, "invalid_code", resp.Error)

	_, err = oauth2.DecodeTokenResponse([]byte(`<html></html>`))
	require.Error(t, err)
}

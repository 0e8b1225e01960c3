package token_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Tracktor/zoho-crm/token"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func freezeTime(t *testing.T, now time.Time) {
	t.Helper()
	prev := token.NowFunc
	token.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { token.NowFunc = prev })
}

func TestExpired(t *testing.T) {
	freezeTime(t, fixedNow)

	t.Run("missing fields", func(t *testing.T) {
		full := map[string]any{
			token.AccessTokenKey:  "access",
			token.ExpiresInSecKey: 3600,
			token.RefreshTimeKey:  fixedNow,
		}

		// Every subset that misses at least one of the three fields.
		keys := []string{token.AccessTokenKey, token.ExpiresInSecKey, token.RefreshTimeKey}
		for mask := 0; mask < 7; mask++ {
			attrs := map[string]any{}
			for i, key := range keys {
				if mask&(1<<i) != 0 {
					attrs[key] = full[key]
				}
			}
			tok, err := token.FromMap(attrs)
			require.NoError(t, err)
			require.True(t, tok.Expired(), "attrs %v", attrs)
		}

		tok, err := token.FromMap(full)
		require.NoError(t, err)
		require.False(t, tok.Expired())
	})

	t.Run("lifetime", func(t *testing.T) {
		tests := []struct {
			name        string
			refreshTime time.Time
			expired     bool
		}{
			{"just refreshed", fixedNow, false},
			{"almost expired", fixedNow.Add(-3599 * time.Second), false},
			{"exactly at expiry", fixedNow.Add(-3600 * time.Second), false},
			{"past expiry", fixedNow.Add(-3601 * time.Second), true},
			{"long ago", fixedNow.Add(-48 * time.Hour), true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				tok, err := token.FromMap(map[string]any{
					token.AccessTokenKey:  "access",
					token.ExpiresInSecKey: 3600,
					token.RefreshTimeKey:  tt.refreshTime,
				})
				require.NoError(t, err)
				require.Equal(t, tt.expired, tok.Expired())
			})
		}
	})
}

func TestExpiresInConsistency(t *testing.T) {
	tok := token.New()

	require.NoError(t, tok.SetExpiresInSec(3600))
	assertExpires(t, tok, 3600, 3600000)

	require.NoError(t, tok.SetExpiresIn("7200000"))
	assertExpires(t, tok, 7200, 7200000)

	require.NoError(t, tok.Set(map[string]any{token.ExpiresInSecKey: json.Number("60")}))
	assertExpires(t, tok, 60, 60000)

	// expires_in wins when both are given.
	require.NoError(t, tok.Set(map[string]any{token.ExpiresInSecKey: 10, token.ExpiresInKey: 20000}))
	assertExpires(t, tok, 20, 20000)

	require.NoError(t, tok.SetExpiresIn(nil))
	_, ok := tok.ExpiresInSec()
	require.False(t, ok)
	_, ok = tok.ExpiresIn()
	require.False(t, ok)
}

func assertExpires(t *testing.T, tok *token.Token, sec, ms int64) {
	t.Helper()
	gotSec, ok := tok.ExpiresInSec()
	require.True(t, ok)
	require.Equal(t, sec, gotSec)
	gotMs, ok := tok.ExpiresIn()
	require.True(t, ok)
	require.Equal(t, ms, gotMs)
}

func TestSetters(t *testing.T) {
	tok := token.New()

	tok.SetAccessToken("access")
	tok.SetRefreshToken("refresh")
	tok.SetTokenType("Bearer")
	tok.SetAPIDomain("https://www.zohoapis.com")
	require.Equal(t, "access", tok.AccessToken())
	require.Equal(t, "refresh", tok.RefreshToken())
	require.Equal(t, "Bearer", tok.TokenType())
	require.Equal(t, "https://www.zohoapis.com", tok.APIDomain())

	tok.SetRefreshToken("")
	require.Nil(t, tok.ToMap()[token.RefreshTokenKey])

	require.NoError(t, tok.SetRefreshTime("2024-03-01T12:00:00Z"))
	rt, ok := tok.RefreshTime()
	require.True(t, ok)
	require.Equal(t, fixedNow, rt)

	require.Error(t, tok.SetExpiresInSec("an hour"))
	require.Error(t, tok.SetRefreshTime([]int{1}))
}

func TestSetIsAtomic(t *testing.T) {
	tok, err := token.FromMap(map[string]any{
		token.AccessTokenKey:  "access",
		token.ExpiresInSecKey: 3600,
	})
	require.NoError(t, err)

	err = tok.Set(map[string]any{
		token.AccessTokenKey: "other",
		token.RefreshTimeKey: struct{}{},
	})
	var typeErr *token.TypeError
	require.ErrorAs(t, err, &typeErr)
	require.Equal(t, "access", tok.AccessToken())
}

func TestConcurrentSetKeepsEveryWrite(t *testing.T) {
	for i := 0; i < 200; i++ {
		tok := token.New()

		var wg sync.WaitGroup
		errs := make(chan error, 2)
		wg.Add(3)
		go func() {
			defer wg.Done()
			errs <- tok.Set(map[string]any{token.AccessTokenKey: "access"})
		}()
		go func() {
			defer wg.Done()
			errs <- tok.Set(map[string]any{token.APIDomainKey: "https://www.zohoapis.com"})
		}()
		go func() {
			defer wg.Done()
			tok.SetTokenType("Bearer")
		}()
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		require.Equal(t, "access", tok.AccessToken())
		require.Equal(t, "https://www.zohoapis.com", tok.APIDomain())
		require.Equal(t, "Bearer", tok.TokenType())
	}
}

func TestMapRoundTrip(t *testing.T) {
	original, err := token.FromMap(map[string]any{
		token.AccessTokenKey:  "access",
		token.RefreshTokenKey: "refresh",
		token.ExpiresInSecKey: 3600,
		token.TokenTypeKey:    "Bearer",
		token.APIDomainKey:    "https://www.zohoapis.eu",
		token.RefreshTimeKey:  fixedNow,
		"unknown":             "ignored",
	})
	require.NoError(t, err)

	copied, err := token.FromMap(original.ToMap())
	require.NoError(t, err)
	require.Equal(t, original.ToMap(), copied.ToMap())

	_, ok := copied.RefreshTime()
	require.False(t, ok)

	require.Equal(t, map[string]any{
		token.AccessTokenKey:  "access",
		token.RefreshTokenKey: "refresh",
		token.ExpiresInSecKey: int64(3600),
		token.ExpiresInKey:    int64(3600000),
		token.TokenTypeKey:    "Bearer",
		token.APIDomainKey:    "https://www.zohoapis.eu",
	}, copied.ToMap())
}

func TestEmptyMapRoundTrip(t *testing.T) {
	copied, err := token.FromMap(token.New().ToMap())
	require.NoError(t, err)
	require.Equal(t, token.New().ToMap(), copied.ToMap())
}

func TestJSONRoundTrip(t *testing.T) {
	original, err := token.FromMap(map[string]any{
		token.AccessTokenKey:  "access",
		token.RefreshTokenKey: "refresh",
		token.ExpiresInKey:    3600000,
	})
	require.NoError(t, err)

	data, err := json.Marshal(original)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"access_token": "access",
		"refresh_token": "refresh",
		"expires_in_sec": 3600,
		"expires_in": 3600000,
		"token_type": null,
		"api_domain": null
	}`, string(data))

	decoded, err := token.FromJSON(data)
	require.NoError(t, err)
	require.Equal(t, original.ToMap(), decoded.ToMap())

	_, err = token.FromJSON([]byte(`[]`))
	require.Error(t, err)
}

func TestClear(t *testing.T) {
	tok, err := token.FromMap(map[string]any{
		token.AccessTokenKey:  "access",
		token.RefreshTokenKey: "refresh",
		token.ExpiresInSecKey: 3600,
		token.RefreshTimeKey:  fixedNow,
	})
	require.NoError(t, err)

	tok.Clear()
	require.Equal(t, token.New().ToMap(), tok.ToMap())
	_, ok := tok.RefreshTime()
	require.False(t, ok)
}

func TestStringRedactsSecrets(t *testing.T) {
	tok, err := token.FromMap(map[string]any{
		token.AccessTokenKey:  "1000.secret-access",
		token.RefreshTokenKey: "1000.secret-refresh",
	})
	require.NoError(t, err)

	s := tok.String()
	require.NotContains(t, s, "secret")
	require.Contains(t, s, "[redacted]")
}

func TestExpiryAndOAuth2(t *testing.T) {
	tok, err := token.FromMap(map[string]any{
		token.AccessTokenKey:  "access",
		token.RefreshTokenKey: "refresh",
		token.ExpiresInSecKey: 3600,
		token.APIDomainKey:    "https://www.zohoapis.com",
		token.RefreshTimeKey:  fixedNow,
	})
	require.NoError(t, err)
	require.Equal(t, fixedNow.Add(time.Hour), tok.Expiry())

	o := tok.OAuth2()
	require.Equal(t, "access", o.AccessToken)
	require.Equal(t, "refresh", o.RefreshToken)
	require.Equal(t, "Zoho-oauthtoken", o.Type())
	require.Equal(t, fixedNow.Add(time.Hour), o.Expiry)
	require.Equal(t, "https://www.zohoapis.com", o.Extra(token.APIDomainKey))

	require.True(t, token.New().Expiry().IsZero())
}

package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Tracktor/zoho-crm/apierrors"
	"github.com/Tracktor/zoho-crm/config"
	"github.com/stretchr/testify/require"
	xoauth2 "golang.org/x/oauth2"
)

func TestNewDefaults(t *testing.T) {
	c := config.New("test")

	require.Equal(t, "test", c.Environment())
	require.Equal(t, config.RegionCOM, c.Region())
	require.False(t, c.Sandbox)
	require.Equal(t, 5, c.Timeout)
	require.Equal(t, 5*time.Second, c.HTTPTimeout())
	require.Empty(t, c.Scopes())
}

func TestSetRegion(t *testing.T) {
	t.Run("accepted values", func(t *testing.T) {
		c := config.New("test")
		for _, value := range []any{"eu", config.RegionIN, "com"} {
			require.NoError(t, c.SetRegion(value))
		}
		require.Equal(t, config.RegionCOM, c.Region())
	})

	t.Run("invalid value keeps the previous region", func(t *testing.T) {
		c := config.New("test")
		require.NoError(t, c.SetRegion("eu"))

		for _, value := range []any{"us", "EU", "", nil, 42, []string{"eu"}} {
			err := c.SetRegion(value)
			var configErr *apierrors.ConfigurationError
			require.True(t, errors.As(err, &configErr), "value %v", value)
			require.Equal(t, config.RegionEU, c.Region())
		}
	})

	t.Run("message", func(t *testing.T) {
		err := config.New("test").SetRegion("us")
		require.EqualError(t, err, `Invalid region: "us". Acceptable values: com, eu, in`)
	})
}

func TestScopes(t *testing.T) {
	c := config.New("test")

	require.NoError(t, c.SetScopes("ZohoCRM.modules.ALL"))
	require.Equal(t, []string{"ZohoCRM.modules.ALL"}, c.Scopes())

	require.NoError(t, c.SetScopes([]any{"ZohoCRM.modules.ALL", "ZohoCRM.settings.ALL"}))
	scopes := c.Scopes()
	require.Equal(t, []string{"ZohoCRM.modules.ALL", "ZohoCRM.settings.ALL"}, scopes)

	scopes[0] = "changed"
	require.Equal(t, "ZohoCRM.modules.ALL", c.Scopes()[0])

	require.NoError(t, c.SetScopes(nil))
	require.Empty(t, c.Scopes())
}

func TestURLs(t *testing.T) {
	tests := []struct {
		region    config.Region
		sandbox   bool
		baseURL   string
		accounts  string
		crmURL    string
		authorize string
	}{
		{
			region:    config.RegionCOM,
			baseURL:   "https://www.zohoapis.com/crm/v2",
			accounts:  "https://accounts.zoho.com",
			crmURL:    "https://crm.zoho.com/crm/",
			authorize: "https://accounts.zoho.com/oauth/v2/auth",
		},
		{
			region:    config.RegionEU,
			sandbox:   true,
			baseURL:   "https://sandbox.zohoapis.eu/crm/v2",
			accounts:  "https://accounts.zoho.eu",
			crmURL:    "https://crmsandbox.zoho.eu/crm/",
			authorize: "https://accounts.zoho.eu/oauth/v2/auth",
		},
		{
			region:    config.RegionIN,
			baseURL:   "https://www.zohoapis.in/crm/v2",
			accounts:  "https://accounts.zoho.in",
			crmURL:    "https://crm.zoho.in/crm/",
			authorize: "https://accounts.zoho.in/oauth/v2/auth",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.region), func(t *testing.T) {
			c := config.New("test")
			require.NoError(t, c.SetRegion(tt.region))
			c.Sandbox = tt.sandbox

			require.Equal(t, tt.baseURL, c.BaseURL())
			require.Equal(t, tt.accounts, c.AccountsURL())
			require.Equal(t, tt.crmURL, c.CRMURL())
			require.Equal(t, tt.accounts+"/developerconsole", c.DeveloperConsoleURL())
			require.Equal(t, tt.authorize, c.AuthorizeURL())
			require.Equal(t, tt.accounts+"/oauth/v2/token", c.TokenURL())
			require.Equal(t, tt.accounts+"/oauth/v2/token/revoke", c.RevokeURL())
		})
	}
}

func TestEndpoint(t *testing.T) {
	c := config.New("test")
	require.NoError(t, c.SetRegion("eu"))

	endpoint := c.Endpoint()
	require.Equal(t, "https://accounts.zoho.eu/oauth/v2/auth", endpoint.AuthURL)
	require.Equal(t, "https://accounts.zoho.eu/oauth/v2/token", endpoint.TokenURL)
	require.Equal(t, xoauth2.AuthStyleInParams, endpoint.AuthStyle)
}

func TestRegistry(t *testing.T) {
	r := config.NewRegistry()

	def := r.Get("")
	require.Same(t, def, r.Get(config.DefaultEnvironment))
	require.Equal(t, config.DefaultEnvironment, def.Environment())

	err := r.Configure("staging", func(c *config.Configuration) error {
		c.ClientID = "staging-client"
		return c.SetRegion("in")
	})
	require.NoError(t, err)

	staging := r.Get("staging")
	require.Equal(t, "staging-client", staging.ClientID)
	require.Equal(t, config.RegionIN, staging.Region())
	require.Empty(t, def.ClientID)
	require.Equal(t, []string{"default", "staging"}, r.Environments())

	err = r.Configure("staging", func(c *config.Configuration) error {
		return c.SetRegion("mars")
	})
	require.Error(t, err)
	require.Equal(t, config.RegionIN, r.Get("staging").Region())
}

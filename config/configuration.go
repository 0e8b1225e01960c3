package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Tracktor/zoho-crm/apierrors"
	"github.com/Tracktor/zoho-crm/oauth2"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	xoauth2 "golang.org/x/oauth2"
)

// Region is the Zoho data center a Configuration talks to.
type Region string

const (
	RegionCOM Region = "com"
	RegionEU  Region = "eu"
	RegionIN  Region = "in"
)

// Regions lists the accepted regions. The first one is the default.
var Regions = []Region{RegionCOM, RegionEU, RegionIN}

const (
	accountsURL   = "https://accounts.zoho.%s"
	crmURL        = "https://%s.zoho.%s/crm/"
	apiURL        = "https://www.zohoapis.%s/crm/v2"
	sandboxAPIURL = "https://sandbox.zohoapis.%s/crm/v2"

	// DefaultTimeout is the request timeout in seconds.
	DefaultTimeout = 5
)

// Configuration holds the settings of one environment: the region, the
// credentials of the connected app and the HTTP timeout.
type Configuration struct {
	// ClientID is the consumer key generated from the connected app.
	ClientID string
	// ClientSecret is the consumer secret generated from the connected app.
	ClientSecret string
	// RedirectURL is the callback URL specified during client registration.
	RedirectURL string
	// Sandbox selects the sandbox API host.
	Sandbox bool
	// Timeout is the request timeout in seconds.
	Timeout int
	Logger  zerolog.Logger

	region      Region
	scopes      []string
	environment string
}

// New returns a Configuration for the given environment with the defaults applied.
func New(environment string) *Configuration {
	return &Configuration{
		Timeout:     DefaultTimeout,
		Logger:      zerolog.Nop(),
		region:      Regions[0],
		scopes:      []string{},
		environment: environment,
	}
}

// Environment is the name the Configuration was registered under.
func (c *Configuration) Environment() string {
	return c.environment
}

func (c *Configuration) Region() Region {
	return c.region
}

// SetRegion accepts anything that converts to one of the known regions. On
// failure the current region is kept and a *apierrors.ConfigurationError is
// returned.
func (c *Configuration) SetRegion(value any) error {
	s, err := cast.ToStringE(value)
	if err == nil {
		for _, r := range Regions {
			if string(r) == s {
				c.region = r
				return nil
			}
		}
	}

	return &apierrors.ConfigurationError{
		Message: fmt.Sprintf("Invalid region: %s. Acceptable values: %s", inspect(value), joinRegions()),
	}
}

// Scopes returns a copy of the requested scopes.
func (c *Configuration) Scopes() []string {
	return append([]string(nil), c.scopes...)
}

// SetScopes accepts a single value or a list and stores it as a list of strings.
func (c *Configuration) SetScopes(value any) error {
	scopes, err := toStringList(value)
	if err != nil {
		return &apierrors.ConfigurationError{Message: fmt.Sprintf("Invalid scopes: %v", err)}
	}
	c.scopes = scopes
	return nil
}

// HTTPTimeout is Timeout as a time.Duration.
func (c *Configuration) HTTPTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// BaseURL is the CRM API URL, sandbox or production.
func (c *Configuration) BaseURL() string {
	if c.Sandbox {
		return fmt.Sprintf(sandboxAPIURL, c.region)
	}
	return fmt.Sprintf(apiURL, c.region)
}

// AccountsURL is the URL of the Zoho accounts (OAuth) service.
func (c *Configuration) AccountsURL() string {
	return fmt.Sprintf(accountsURL, c.region)
}

// CRMURL is the URL of the Zoho CRM web application.
func (c *Configuration) CRMURL() string {
	if c.Sandbox {
		return fmt.Sprintf(crmURL, "crmsandbox", c.region)
	}
	return fmt.Sprintf(crmURL, "crm", c.region)
}

// DeveloperConsoleURL is the URL of the Zoho developer console.
func (c *Configuration) DeveloperConsoleURL() string {
	return c.AccountsURL() + "/developerconsole"
}

func (c *Configuration) AuthorizeURL() string {
	return c.AccountsURL() + oauth2.AuthorizePath
}

func (c *Configuration) TokenURL() string {
	return c.AccountsURL() + oauth2.TokenPath
}

func (c *Configuration) RevokeURL() string {
	return c.AccountsURL() + oauth2.RevokePath
}

// Endpoint describes the accounts service for golang.org/x/oauth2 consumers.
// Zoho expects the client credentials in the form body.
func (c *Configuration) Endpoint() xoauth2.Endpoint {
	return xoauth2.Endpoint{
		AuthURL:   c.AuthorizeURL(),
		TokenURL:  c.TokenURL(),
		AuthStyle: xoauth2.AuthStyleInParams,
	}
}

func joinRegions() string {
	names := make([]string, len(Regions))
	for i, r := range Regions {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

func inspect(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", v)
	case Region:
		return fmt.Sprintf("%q", string(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toStringList(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return append([]string{}, v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, err := cast.ToStringE(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
}

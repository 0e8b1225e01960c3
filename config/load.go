package config

import (
	"fmt"

	"github.com/Tracktor/zoho-crm/internal/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const environmentsKey = "environments"

// envMappings binds keys of the default environment to environment variables.
var envMappings = map[string]string{
	"region":        "ZOHO_CRM_REGION",
	"sandbox":       "ZOHO_CRM_SANDBOX",
	"client_id":     "ZOHO_CRM_API_CLIENT_ID",
	"client_secret": "ZOHO_CRM_API_CLIENT_SECRET",
	"redirect_url":  "ZOHO_CRM_REDIRECT_URI",
	"scopes":        "ZOHO_CRM_SCOPES",
	"timeout":       "ZOHO_CRM_TIMEOUT",
}

// Load reads a YAML file with an "environments" section, one entry per
// environment, and applies the ZOHO_CRM_* environment variables on top of the
// default environment. An empty path only reads the environment variables.
func Load(path string) (*Registry, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	return LoadViper(v)
}

// LoadViper builds a Registry from an already populated viper instance.
func LoadViper(v *viper.Viper) (*Registry, error) {
	registry := NewRegistry()

	for name := range v.GetStringMap(environmentsKey) {
		sub := v.Sub(environmentsKey + "." + name)
		if sub == nil {
			continue
		}
		if err := apply(registry.Get(name), sub); err != nil {
			return nil, fmt.Errorf("environment %s: %w", name, err)
		}
	}

	env := viper.New()
	for key, envVar := range envMappings {
		if err := env.BindEnv(key, envVar); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variable %s for %s", envVar, key)
		}
	}
	if err := apply(registry.Get(DefaultEnvironment), env); err != nil {
		return nil, fmt.Errorf("environment variables: %w", err)
	}

	return registry, nil
}

func apply(c *Configuration, v *viper.Viper) error {
	if v.IsSet("region") {
		if err := c.SetRegion(v.Get("region")); err != nil {
			return err
		}
	}
	if v.IsSet("sandbox") {
		sandbox, err := cast.ToBoolE(v.Get("sandbox"))
		if err != nil {
			return fmt.Errorf("invalid sandbox flag: %w", err)
		}
		c.Sandbox = sandbox
	}
	if v.IsSet("client_id") {
		c.ClientID = v.GetString("client_id")
	}
	if v.IsSet("client_secret") {
		c.ClientSecret = v.GetString("client_secret")
	}
	if v.IsSet("redirect_url") {
		c.RedirectURL = v.GetString("redirect_url")
	}
	if v.IsSet("scopes") {
		if err := c.SetScopes(scopeList(v.Get("scopes"))); err != nil {
			return err
		}
	}
	if v.IsSet("timeout") {
		timeout, err := cast.ToIntE(v.Get("timeout"))
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		c.Timeout = timeout
	}
	return nil
}

// scopeList splits comma separated scopes coming from environment variables.
func scopeList(value any) any {
	if s, ok := value.(string); ok {
		return utils.SplitList(s)
	}
	return value
}

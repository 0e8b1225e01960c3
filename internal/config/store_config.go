package config

import (
	"os"
	"path/filepath"
)

type Store struct{}

var _ StoreConfig = Store{}

// GetTokenStore is one of "file", "redis" or "memory".
func (Store) GetTokenStore() string {
	return GetEnv("ZOHO_CRM_TOKEN_STORE", "file")
}

// GetTokenKey names the stored token. Empty means the environment name.
func (Store) GetTokenKey() string {
	return GetEnv("ZOHO_CRM_TOKEN_KEY", "")
}

func (Store) GetTokenFile() string {
	if f := GetEnv("ZOHO_CRM_TOKEN_FILE", ""); f != "" {
		return f
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zohocrm-tokens"
	}
	return filepath.Join(home, ".zohocrm", "tokens")
}

func (Store) GetTokenPassphrase() string {
	return GetEnv("ZOHO_CRM_TOKEN_PASSPHRASE", "")
}

func (Store) GetRedisURL() string {
	return GetEnv("REDIS_URL", "redis://localhost:6379/0")
}

func (Store) GetRedisPrefix() string {
	return GetEnv("ZOHO_CRM_REDIS_PREFIX", "zohocrm")
}

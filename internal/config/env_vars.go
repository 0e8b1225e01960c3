package config

import (
	"os"
	"strconv"
)

const (
	appNameVar     = "ZOHO_CRM_APP_NAME"
	environmentVar = "ZOHO_CRM_ENV"
	configFileVar  = "ZOHO_CRM_CONFIG"
	debugVar       = "ZOHO_CRM_DEBUG"
	listenAddrVar  = "ZOHO_CRM_LISTEN_ADDR"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Zoho CRM")
}

// GetEnvironment returns the name of the configuration environment to use.
func (EnvVars) GetEnvironment() string {
	return GetEnv(environmentVar, "default")
}

func (EnvVars) GetConfigFile() string {
	return GetEnv(configFileVar, "")
}

func (EnvVars) GetDebug() bool {
	debug, err := strconv.ParseBool(GetEnv(debugVar, "false"))
	return err == nil && debug
}

// GetListenAddr is the address the web front-end listens on.
func (EnvVars) GetListenAddr() string {
	return GetEnv(listenAddrVar, ":8080")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

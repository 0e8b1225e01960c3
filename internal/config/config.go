package config

type Config interface {
	EnvConfig
	StoreConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnvironment() string
	GetConfigFile() string
	GetDebug() bool
	GetListenAddr() string
}

type StoreConfig interface {
	GetTokenStore() string
	GetTokenKey() string
	GetTokenFile() string
	GetTokenPassphrase() string
	GetRedisURL() string
	GetRedisPrefix() string
}

type mainConfig struct {
	EnvVars
	Store
}

func New() Config {
	return mainConfig{}
}

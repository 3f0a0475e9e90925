package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	ServerAddress string `envconfig:"TIDEPOOL_BASAL_SERVER_ADDRESS" default:":8080" required:"true"`
	// ExclusionThreshold is the number of days that may be excluded from a total before it becomes unavailable
	ExclusionThreshold int `envconfig:"TIDEPOOL_BASAL_EXCLUSION_THRESHOLD" default:"7"`
	CacheSize          int `envconfig:"TIDEPOOL_BASAL_CACHE_SIZE" default:"128"`
}

func New() *Config {
	return &Config{}
}

func (c *Config) LoadFromEnv() error {
	return envconfig.Process("", c)
}

func NewConfig() (*Config, error) {
	cfg := New()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

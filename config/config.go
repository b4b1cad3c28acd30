// Package config loads process configuration from the environment.
//
// RESOURCE_EXPIRY_HOURS controls the registry TTL and the OPENAI_*
// variables point the SQL generator at a chat-completions endpoint.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the process configuration.
type Config struct {
	ExpiryHours   int    `envconfig:"RESOURCE_EXPIRY_HOURS" default:"24"`
	MaxResources  int    `envconfig:"RESOURCE_MAX_ENTRIES" default:"0"`
	DatabaseDSN   string `envconfig:"DATABASE_DSN" default:"./data/analytics.db"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com"`
	ListenAddr    string `envconfig:"LISTEN_ADDR" default:"localhost:8000"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// TTL returns the resource expiry as a duration.
func (c Config) TTL() time.Duration {
	return time.Duration(c.ExpiryHours) * time.Hour
}

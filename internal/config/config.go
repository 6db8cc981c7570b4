// Package config resolves the process configuration: the model provider
// credential, the MongoDB connection string and the tunables around them.
// Resolution is fail-fast — main exits before any session work when a
// required value is missing.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment variables read directly (not through the EXAMBUDDY prefix;
// these names are shared with the deployed system this replaces).
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvMongoURI     = "MONGODB_URI"
	EnvMongoURIAlt  = "MONGO_URI"
)

// Defaults applied when flags and environment are silent.
const (
	DefaultDBName      = "zenark_db"
	DefaultTemperature = 0.7
	DefaultTimeout     = 30 * time.Second
)

// LLM holds everything the model client factory needs.
type LLM struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Config is the resolved process configuration.
type Config struct {
	LLM      LLM
	MongoURI string
	DBName   string
}

// Load resolves configuration from the given viper instance (flags plus
// EXAMBUDDY-prefixed environment) and the bare credential variables.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		LLM: LLM{
			Provider:    strings.ToLower(strings.TrimSpace(v.GetString("llm-provider"))),
			BaseURL:     v.GetString("llm-base-url"),
			Model:       v.GetString("llm-model"),
			Temperature: DefaultTemperature,
			Timeout:     DefaultTimeout,
		},
		DBName: v.GetString("db-name"),
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.DBName == "" {
		cfg.DBName = DefaultDBName
	}
	if t := v.GetDuration("llm-timeout"); t > 0 {
		cfg.LLM.Timeout = t
	}

	key, err := apiKey(cfg.LLM.Provider)
	if err != nil {
		return Config{}, err
	}
	cfg.LLM.APIKey = key

	uri, err := MongoURI()
	if err != nil {
		return Config{}, err
	}
	cfg.MongoURI = uri

	return cfg, nil
}

// apiKey reads the credential for the selected provider. A whitespace-only
// value counts as missing.
func apiKey(provider string) (string, error) {
	envName := EnvOpenAIKey
	if provider == "anthropic" {
		envName = EnvAnthropicKey
	}
	key := strings.TrimSpace(os.Getenv(envName))
	if key == "" {
		return "", fmt.Errorf("%s is not set", envName)
	}
	return key, nil
}

// MongoURI resolves the store connection string: MONGODB_URI first, then
// MONGO_URI; first non-empty wins.
func MongoURI() (string, error) {
	for _, name := range []string{EnvMongoURI, EnvMongoURIAlt} {
		if uri := strings.TrimSpace(os.Getenv(name)); uri != "" {
			return uri, nil
		}
	}
	return "", fmt.Errorf("neither %s nor %s is set", EnvMongoURI, EnvMongoURIAlt)
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "LENDPILOT"

// Load reads configuration from a file and the environment. An explicit
// path wins; otherwise lendpilot.yaml is searched for in the working
// directory and ~/.lendpilot. Every key can be overridden via
// LENDPILOT_SECTION_KEY environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("lendpilot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.lendpilot")
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Missing file is fine; defaults plus env are enough.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Empty defaults register the keys so env-only values survive Unmarshal.
	v.SetDefault("service.api_key", "")
	v.SetDefault("service.endpoint", "")
	v.SetDefault("service.api_version", "2025-03-01-preview")

	v.SetDefault("assistant.vector_store_id", "")
	v.SetDefault("docs.dir", "")

	v.SetDefault("assistant.name", "Lending Copilot")
	v.SetDefault("assistant.deployment", "gpt-4o")
	v.SetDefault("assistant.instructions",
		"You answer lending questions, cite sources, and call tools as needed.")

	v.SetDefault("run.poll_interval", "750ms")
	v.SetDefault("run.max_wait", "2m")

	v.SetDefault("index.poll_interval", "1s")
	v.SetDefault("index.max_wait", "5m")
	v.SetDefault("index.upload_concurrency", 4)
}

// Validate checks the settings a session cannot start without.
func (c *Config) Validate() error {
	if c.Service.APIKey == "" {
		return errors.New("service.api_key is required (or LENDPILOT_SERVICE_API_KEY)")
	}
	if c.Assistant.Deployment == "" {
		return errors.New("assistant.deployment is required")
	}
	return nil
}

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Settings holds the web server configuration.
type Settings struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoadSettings reads settings from an optional YAML file, with environment
// variables (SERVER_HOST, SERVER_PORT, SERVER_SHUTDOWN_TIMEOUT) taking
// precedence over it.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", "8080")
	v.SetDefault("shutdown_timeout", 10*time.Second)

	v.SetEnvPrefix("server")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return &s, nil
}

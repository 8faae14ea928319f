// Package config loads the mcpgate service configuration from an optional
// yaml file with MCPGATE_* environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/interop-desk/mcpgate/pkg/apperrors"
)

// Config is the top-level configuration for both services.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Server ServerConfig `mapstructure:"server"`
	Agent  AgentConfig  `mapstructure:"agent"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// ServerConfig holds the MCP gateway listen address.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// AgentConfig holds the agent service listen address and its upstream
// gateway endpoint.
type AgentConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	GatewayURL string `mapstructure:"gateway_url"`
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("agent.host", "0.0.0.0")
	v.SetDefault("agent.port", 4000)
	v.SetDefault("agent.gateway_url", "http://localhost:3000/mcp")

	v.SetEnvPrefix("mcpgate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.New(apperrors.ErrCodeInternal, "failed to read config file", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInternal, "failed to parse configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return apperrors.New(apperrors.ErrCodeInternal,
			fmt.Sprintf("invalid server port: %d", c.Server.Port), nil)
	}
	if c.Agent.Port <= 0 || c.Agent.Port > 65535 {
		return apperrors.New(apperrors.ErrCodeInternal,
			fmt.Sprintf("invalid agent port: %d", c.Agent.Port), nil)
	}
	if c.Agent.GatewayURL == "" {
		return apperrors.New(apperrors.ErrCodeInternal, "agent.gateway_url is required", nil)
	}
	return nil
}

// ServerAddr returns the gateway listen address.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// AgentAddr returns the agent listen address.
func (c *Config) AgentAddr() string {
	return fmt.Sprintf("%s:%d", c.Agent.Host, c.Agent.Port)
}

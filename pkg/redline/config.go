package redline

import (
	"os"
	"sync"
)

// Config contains the package-wide settings.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error, off)
	LogLevel string
	// DefaultAuthor is used for tracked edits when the caller passes an
	// empty author name.
	DefaultAuthor string
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		DefaultAuthor: "Agent",
	}
}

// ConfigFromEnvironment creates a configuration from environment variables.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// REDLINE_LOG_LEVEL
	if val := os.Getenv("REDLINE_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// REDLINE_AUTHOR
	if val := os.Getenv("REDLINE_AUTHOR"); val != "" {
		config.DefaultAuthor = val
	}

	return config
}

// GetGlobalConfig returns the current global configuration.
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()
	if globalConfig == nil {
		return DefaultConfig()
	}
	c := *globalConfig
	return &c
}

// SetGlobalConfig replaces the global configuration and adjusts the
// global logger's level to match.
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	if config == nil {
		config = DefaultConfig()
	}
	c := *config
	globalConfig = &c
	globalConfigMutex.Unlock()

	GetLogger().SetLevel(parseLogLevel(config.LogLevel))
}

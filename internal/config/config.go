package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info"`
	HTTP     HTTP   `yaml:"http"`
	TUI      TUI    `yaml:"tui"`
}

type HTTP struct {
	Addr              string        `yaml:"addr" env:"TTT_HTTP_ADDR" env-default:":8080"`
	HeartbeatInterval time.Duration `yaml:"heartbeat-interval" env:"TTT_HEARTBEAT_INTERVAL" env-default:"15s"`
	SubscriberBuffer  int           `yaml:"subscriber-buffer" env:"TTT_SUBSCRIBER_BUFFER" env-default:"1"`
	ShutdownTimeout   time.Duration `yaml:"shutdown-timeout" env:"TTT_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type TUI struct {
	// LogFile receives the terminal client's logs; empty discards them.
	LogFile string `yaml:"log-file" env:"TTT_TUI_LOG_FILE" env-default:""`
}

// Load reads the YAML file at path and applies env overrides. With an empty
// path only the environment and defaults are used.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read env config: %w", err)
		}
		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// MustLoad - same as Load but panics on error.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

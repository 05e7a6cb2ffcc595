package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SYNAPSE_DATABASE_URL.
const EnvPrefix = "SYNAPSE"

var defaults = map[string]any{
	"server.port":                         8080,
	"server.log_level":                    "info",
	"server.debug_errors":                 false,
	"server.read_timeout_seconds":         15,
	"server.write_timeout_seconds":        15,
	"server.shutdown_timeout_seconds":     10,
	"database.url":                        "",
	"database.max_open_conns":             25,
	"database.max_idle_conns":             5,
	"database.conn_max_lifetime_minutes":  5,
	"database.migrate_on_start":           false,
	"auth.jwt_secret":                     "",
	"auth.refresh_secret":                 "",
	"auth.bcrypt_cost":                    10,
	"auth.token_lifetime_minutes":         60,
	"auth.refresh_token_lifetime_minutes": 10080,
	"redis.url":                           "",
	"llm.gemini_api_key":                  "",
	"llm.model_name":                      "gemini-2.0-flash",
	"llm.max_cards":                       10,
	"llm.max_retries":                     3,
	"llm.retry_delay_seconds":             2,
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"port":      "server.port",
	"log-level": "server.log_level",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a config file (default: ./config.yaml or ./config/config.yaml)")
	fs.Int("port", 8080, "HTTP listen port")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
}

// Load resolves configuration from flags, environment, config file and
// defaults, then validates it. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := ""
	if flags != nil {
		if f := flags.Lookup("config"); f != nil {
			configPath = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// readConfigFile loads an explicit config file, or searches the default
// locations. A missing file in the default locations is not an error.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = "tasktracker"
	envPrefix  = "TASKS"

	defaultStorePath      = "tasks.json"
	defaultReportInterval = 5 * time.Hour
)

// Config keeps runtime settings for the tracker.
type Config struct {
	StorePath      string `validate:"required"`
	Driver         string `validate:"oneof=json sqlite"`
	LogLevel       string `validate:"oneof=panic fatal error warn warning info debug trace"`
	ReportInterval time.Duration
	ReportAt       string
	ConfigFile     string
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"config":    "config",
	"file":      "file",
	"driver":    "driver",
	"log-level": "log_level",
}

// Load merges defaults, an optional config file, .env, environment variables
// (TASKS_*) and flags, in increasing priority.
func Load(flags *pflag.FlagSet) (Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("file", defaultStorePath)
	v.SetDefault("driver", "json")
	v.SetDefault("log_level", "info")
	v.SetDefault("report_interval_hours", 0)
	v.SetDefault("report_at", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := readConfigFile(v); err != nil {
		return Config{}, err
	}

	cfg := Config{
		StorePath:      strings.TrimSpace(v.GetString("file")),
		Driver:         strings.ToLower(strings.TrimSpace(v.GetString("driver"))),
		LogLevel:       strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		ReportInterval: parseInterval(v.GetInt("report_interval_hours")),
		ReportAt:       strings.TrimSpace(v.GetString("report_at")),
		ConfigFile:     v.ConfigFileUsed(),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper) error {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

func parseInterval(hours int) time.Duration {
	if hours <= 0 {
		return defaultReportInterval
	}
	return time.Duration(hours) * time.Hour
}

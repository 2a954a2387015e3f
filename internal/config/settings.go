package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rgehrsitz/rpkit/internal/domain"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for every setting.
const envPrefix = "RPKIT"

// Settings are the application settings, as opposed to the calculation request.
type Settings struct {
	TaxYear    int                `mapstructure:"tax_year"`
	RulesFile  string             `mapstructure:"rules_file"`
	Log        LogSettings        `mapstructure:"log"`
	Server     ServerSettings     `mapstructure:"server"`
	Output     OutputSettings     `mapstructure:"output"`
	Simulation SimulationSettings `mapstructure:"simulation"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

type ServerSettings struct {
	Addr               string        `mapstructure:"addr"`
	ReadTimeout        time.Duration `mapstructure:"read_timeout"`
	WriteTimeout       time.Duration `mapstructure:"write_timeout"`
	MaxRequestBodySize int           `mapstructure:"max_request_body_size"`
	MaxSimulationPaths int           `mapstructure:"max_simulation_paths"`
}

type OutputSettings struct {
	Format string `mapstructure:"format"`
}

type SimulationSettings struct {
	Paths   int   `mapstructure:"paths"`
	Workers int   `mapstructure:"workers"`
	Seed    int64 `mapstructure:"seed"`
}

// NewViper builds a Viper instance with YAML config, RPKIT_ env binding and the
// "." → "_" key replacer, so "server.addr" resolves to RPKIT_SERVER_ADDR.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	SetDefaults(v)
	return v
}

// SetDefaults registers the default for every key so env overrides resolve
// even when no config file is present.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("tax_year", DefaultTaxYear)
	v.SetDefault("rules_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_request_body_size", 1<<20)
	v.SetDefault("server.max_simulation_paths", 10000)
	v.SetDefault("output.format", "console")
	v.SetDefault("simulation.paths", 1000)
	v.SetDefault("simulation.workers", 8)
	v.SetDefault("simulation.seed", 0)
}

// LoadSettings reads configFile when given, otherwise looks for rpkit.yaml in the
// working directory and $HOME/.config/rpkit; a missing default file is not an error.
func LoadSettings(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("rpkit")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/rpkit")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}
	return &s, nil
}

// Validate checks the settings that have a closed set of values.
func (s *Settings) Validate() error {
	switch strings.ToLower(s.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", s.Log.Format)
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", s.Log.Level)
	}
	if s.Simulation.Paths < 0 || s.Simulation.Workers < 0 {
		return fmt.Errorf("simulation.paths and simulation.workers must not be negative")
	}
	if s.Server.MaxRequestBodySize <= 0 {
		return fmt.Errorf("server.max_request_body_size must be positive")
	}
	if s.Server.MaxSimulationPaths <= 0 || s.Server.MaxSimulationPaths > MaxSimulationPaths {
		return fmt.Errorf("server.max_simulation_paths must be between 1 and %d", MaxSimulationPaths)
	}
	return nil
}

// Rules resolves the tables the settings point at: the override file when set,
// otherwise the embedded tables for year (or the configured year when year is 0).
func (s *Settings) Rules(year int) (*domain.Rules, error) {
	if s.RulesFile != "" {
		return LoadRulesFile(s.RulesFile)
	}
	if year == 0 {
		year = s.TaxYear
	}
	if year == 0 {
		year = DefaultTaxYear
	}
	return LoadRules(year)
}

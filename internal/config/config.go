// Package config loads schemalab settings from config.yaml and SCHEMALAB_
// environment variables using Viper.
package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/schemalab/internal/logging"
	"github.com/mesh-intelligence/schemalab/internal/paths"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "SCHEMALAB"
)

// Config keys.
const (
	KeyServerHost            = "server.host"
	KeyServerPort            = "server.port"
	KeyServerAllowOrigins    = "server.allow_origins"
	KeyServerShutdownTimeout = "server.shutdown_timeout"
	KeyLogLevel              = "log.level"
	KeyLogFormat             = "log.format"
	KeyStoreTimezone         = "store.timezone"
)

// Config validation errors.
var (
	ErrInvalidPort     = errors.New("server port must be between 1 and 65535")
	ErrInvalidTimeout  = errors.New("shutdown timeout must be positive")
	ErrInvalidTimezone = errors.New("unknown timezone")
	ErrNoOrigins       = errors.New("allow_origins must not be empty")
)

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	AllowOrigins    []string      `mapstructure:"allow_origins" yaml:"allow_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// StoreConfig controls how stored timestamps are shown.
type StoreConfig struct {
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// Config is the full schemalab configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			AllowOrigins:    []string{"*"},
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
		Store: StoreConfig{
			Timezone: "Local",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyServerHost, d.Server.Host)
	v.SetDefault(KeyServerPort, d.Server.Port)
	v.SetDefault(KeyServerAllowOrigins, d.Server.AllowOrigins)
	v.SetDefault(KeyServerShutdownTimeout, d.Server.ShutdownTimeout)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
	v.SetDefault(KeyStoreTimezone, d.Store.Timezone)
}

// Load reads config.yaml from configDir, applies SCHEMALAB_ environment
// overrides, and validates the result. A missing config.yaml is not an
// error.
func Load(configDir string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration and returns a sentinel error from this
// package or from logging on failure.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.Wrapf(ErrInvalidPort, "%d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if len(c.Server.AllowOrigins) == 0 {
		return ErrNoOrigins
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return errors.Wrapf(logging.ErrInvalidFormat, "%q", c.Log.Format)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Store.Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Store.Timezone)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidTimezone, "%q", c.Store.Timezone)
	}
	return loc, nil
}

// Addr returns the host:port the API listens on.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// WriteDefault writes the default configuration to configDir/config.yaml.
// An existing file is left alone and WriteDefault reports false.
func WriteDefault(configDir string) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, errors.Wrap(err, "create config directory")
	}
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, errors.Wrap(err, "stat config file")
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return false, errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, errors.Wrap(err, "write config")
	}
	return true, nil
}

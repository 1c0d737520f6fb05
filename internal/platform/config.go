package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/NUMNIMx/noteflow/pkg/remotesync"
)

// ConfigName is the config file base name, looked up as noteflow.yaml.
const ConfigName = "noteflow"

// EnvPrefix prefixes environment overrides, e.g. NOTEFLOW_REMOTE_KIND.
const EnvPrefix = "NOTEFLOW"

// Config is the file/env configuration shared by both binaries.
type Config struct {
	DataDir  string       `mapstructure:"data_dir" yaml:"data_dir"`
	ReadOnly bool         `mapstructure:"read_only" yaml:"read_only"`
	Log      LogConfig    `mapstructure:"log" yaml:"log"`
	Sync     SyncConfig   `mapstructure:"sync" yaml:"sync"`
	Remote   RemoteConfig `mapstructure:"remote" yaml:"remote"`
	Server   ServerConfig `mapstructure:"server" yaml:"server"`
}

// LogConfig controls where logs go. An empty File logs to stderr.
type LogConfig struct {
	File       string `mapstructure:"file" yaml:"file"`
	Level      string `mapstructure:"level" yaml:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
}

// SyncConfig mirrors remotesync.Config.
type SyncConfig struct {
	Debounce    time.Duration `mapstructure:"debounce" yaml:"debounce"`
	PushTimeout time.Duration `mapstructure:"push_timeout" yaml:"push_timeout"`
	PullTimeout time.Duration `mapstructure:"pull_timeout" yaml:"pull_timeout"`
}

// Engine returns the engine timing.
func (c SyncConfig) Engine() remotesync.Config {
	return remotesync.Config{Debounce: c.Debounce, PushTimeout: c.PushTimeout, PullTimeout: c.PullTimeout}
}

// Remote kinds.
const (
	RemoteNone   = "none"
	RemoteMemory = "memory"
	RemoteSQL    = "sql"
	RemoteS3     = "s3"
	RemoteHTTP   = "http"
)

// RemoteConfig selects and configures the remote document store.
type RemoteConfig struct {
	Kind string     `mapstructure:"kind" yaml:"kind"`
	User string     `mapstructure:"user" yaml:"user"`
	SQL  SQLConfig  `mapstructure:"sql" yaml:"sql"`
	S3   S3Config   `mapstructure:"s3" yaml:"s3"`
	HTTP HTTPConfig `mapstructure:"http" yaml:"http"`
}

type SQLConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
	Region    string `mapstructure:"region" yaml:"region"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix"`
	Secure    bool   `mapstructure:"secure" yaml:"secure"`
}

type HTTPConfig struct {
	URL   string `mapstructure:"url" yaml:"url"`
	Token string `mapstructure:"token" yaml:"token"`
}

// ServerConfig configures noteflow-remote. Its backing store is Remote.
type ServerConfig struct {
	Addr      string  `mapstructure:"addr" yaml:"addr"`
	JWTSecret string  `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	RateRPS   float64 `mapstructure:"rate_rps" yaml:"rate_rps"`
	RateBurst int     `mapstructure:"rate_burst" yaml:"rate_burst"`
}

// DefaultDataDir returns $XDG_DATA_HOME/noteflow, falling back to
// ~/.local/share/noteflow.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "noteflow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".noteflow"
	}
	return filepath.Join(home, ".local", "share", "noteflow")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("read_only", false)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("sync.debounce", remotesync.DefaultDebounce)
	v.SetDefault("sync.push_timeout", remotesync.DefaultPushTimeout)
	v.SetDefault("sync.pull_timeout", remotesync.DefaultPullTimeout)

	v.SetDefault("remote.kind", RemoteNone)
	v.SetDefault("remote.user", "")
	v.SetDefault("remote.sql.driver", "sqlite3")
	v.SetDefault("remote.sql.dsn", "")
	v.SetDefault("remote.s3.endpoint", "")
	v.SetDefault("remote.s3.bucket", "noteflow")
	v.SetDefault("remote.s3.access_key", "")
	v.SetDefault("remote.s3.secret_key", "")
	v.SetDefault("remote.s3.region", "")
	v.SetDefault("remote.s3.prefix", "")
	v.SetDefault("remote.s3.secure", true)
	v.SetDefault("remote.http.url", "")
	v.SetDefault("remote.http.token", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.rate_rps", 5.0)
	v.SetDefault("server.rate_burst", 20)
}

// LoadConfig reads configuration from path, or from noteflow.yaml in the
// working directory or $HOME/.config/noteflow when path is empty. A missing
// config file is not an error unless path names it explicitly. Environment
// variables (NOTEFLOW_ prefix, "." as "_") override the file; overrides,
// typically from command-line flags, override both.
func LoadConfig(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "noteflow"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	for k, val := range overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Remote.Kind == "" {
		cfg.Remote.Kind = RemoteNone
	}
	return &cfg, nil
}

const redacted = "********"

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Remote.S3.SecretKey != "" {
		c.Remote.S3.SecretKey = redacted
	}
	if c.Remote.HTTP.Token != "" {
		c.Remote.HTTP.Token = redacted
	}
	if c.Remote.SQL.DSN != "" && strings.Contains(c.Remote.SQL.DSN, "password") {
		c.Remote.SQL.DSN = redacted
	}
	if c.Server.JWTSecret != "" {
		c.Server.JWTSecret = redacted
	}
	return c
}

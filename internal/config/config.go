package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lowaak/stamena-trainer/internal/notify"
)

// EnvPrefix is prepended to every environment override, e.g.
// STAMENA_TICK_INTERVAL=50ms or STAMENA_LOG_MAX_BACKUPS=5.
const EnvPrefix = "STAMENA"

// DirName is the per-user directory under $HOME holding data, logs and the
// optional config.yaml.
const DirName = ".stamena"

// Config is the resolved runtime configuration
type Config struct {
	DataDir           string              `mapstructure:"data_dir"`
	TickInterval      time.Duration       `mapstructure:"tick_interval"`
	Countdown         time.Duration       `mapstructure:"countdown"`
	RiskWarningAfter  time.Duration       `mapstructure:"risk_warning_after"`
	RiskWarningMargin time.Duration       `mapstructure:"risk_warning_margin"`
	Notifications     NotificationsConfig `mapstructure:"notifications"`
	Log               LogConfig           `mapstructure:"log"`
	Verbose           bool                `mapstructure:"verbose"`

	// File the values were read from, "" if none
	ConfigFile string `mapstructure:"-"`
}

type NotificationsConfig struct {
	Permission string `mapstructure:"permission"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Permission returns the parsed notification permission
func (c *Config) Permission() notify.Permission {
	p, _ := notify.ParsePermission(c.Notifications.Permission)
	return p
}

// flag name -> config key
var flagKeys = map[string]string{
	"data-dir":                "data_dir",
	"tick-interval":           "tick_interval",
	"countdown":               "countdown",
	"notification-permission": "notifications.permission",
	"log-file":                "log.file",
	"verbose":                 "verbose",
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, DirName)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", defaultDir())
	v.SetDefault("tick_interval", 30*time.Millisecond)
	v.SetDefault("countdown", 3*time.Second)
	v.SetDefault("risk_warning_after", 23*time.Hour)
	v.SetDefault("risk_warning_margin", 30*time.Second)
	v.SetDefault("notifications.permission", "prompt")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("verbose", false)
}

// RegisterFlags declares the configuration flags on fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (default $HOME/"+DirName+"/config.yaml)")
	fs.String("data-dir", "", "directory for progress, history and logs")
	fs.Duration("tick-interval", 30*time.Millisecond, "workout clock resolution")
	fs.Duration("countdown", 3*time.Second, "lead-in before the first squeeze")
	fs.String("notification-permission", "prompt", "notification permission: granted, denied or prompt")
	fs.String("log-file", "", "log file (default <data-dir>/stamena.log)")
	fs.BoolP("verbose", "v", false, "also log to stderr")
}

// Load resolves the configuration from defaults, the config file,
// STAMENA_* environment variables and the flags in fs, in increasing order
// of precedence. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	configFile, err := readConfigFile(v, explicit)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.ConfigFile = configFile
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.DataDir, "stamena.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// readConfigFile reads the explicit file, or the default one if it exists
func readConfigFile(v *viper.Viper, explicit string) (string, error) {
	path := explicit
	if path == "" {
		path = filepath.Join(defaultDir(), "config.yaml")
		if _, err := os.Stat(path); err != nil {
			return "", nil
		}
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("reading config file %s: %w", path, err)
	}
	return path, nil
}

// Validate rejects values the workout loop cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %v", c.TickInterval))
	}
	if c.Countdown <= 0 {
		errs = append(errs, fmt.Errorf("countdown must be positive, got %v", c.Countdown))
	}
	if c.RiskWarningAfter <= 0 {
		errs = append(errs, fmt.Errorf("risk_warning_after must be positive, got %v", c.RiskWarningAfter))
	}
	if c.RiskWarningMargin < 0 {
		errs = append(errs, fmt.Errorf("risk_warning_margin must not be negative, got %v", c.RiskWarningMargin))
	}
	if _, err := notify.ParsePermission(c.Notifications.Permission); err != nil {
		errs = append(errs, fmt.Errorf("notifications.permission: %w", err))
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, errors.New("log rotation limits must not be negative"))
	}
	return errors.Join(errs...)
}

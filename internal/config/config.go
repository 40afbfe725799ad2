package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable override, e.g. OCRCTL_ENGINE.
const EnvPrefix = "OCRCTL"

// ErrInvalid is returned when a loaded setting is out of range.
var ErrInvalid = errors.New("invalid configuration")

// flagKeys maps config keys to the command line flags that override them.
var flagKeys = map[string]string{
	"profiles":      "profiles",
	"profile":       "profile",
	"engine":        "engine",
	"workers":       "workers",
	"log_level":     "log-level",
	"output_format": "output-format",
}

// Options controls where settings are read from.
type Options struct {
	// ConfigFile is an explicit config file. When empty, config.yaml is
	// searched for in SearchPaths and a missing file is not an error.
	ConfigFile  string
	SearchPaths []string

	// EnvFile is a dotenv file loaded before the environment is read.
	// Defaults to ".env"; a missing file is ignored.
	EnvFile string

	// Flags, when set, override config file and environment values.
	Flags *pflag.FlagSet
}

// Manager loads configuration through a private viper instance.
type Manager struct {
	v      *viper.Viper
	config *Config
}

// NewManager creates a new config manager and loads the config.
func NewManager(opts Options) (*Manager, error) {
	cm := &Manager{v: viper.New()}

	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}
	if err := cm.initViper(opts); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg
	return cm, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error reading env file %s: %w", path, err)
	}
	return nil
}

// initViper sets up viper with defaults, environment, flags and config file.
func (cm *Manager) initViper(opts Options) error {
	v := cm.v
	defaults := DefaultConfig()
	v.SetDefault("profiles", defaults.Profiles)
	v.SetDefault("profile", defaults.Profile)
	v.SetDefault("engine", defaults.Engine)
	v.SetDefault("info_tool", defaults.InfoTool)
	v.SetDefault("text_tool", defaults.TextTool)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("output_format", defaults.OutputFormat)

	// Environment variables with OCRCTL_ prefix
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if opts.Flags != nil {
		for key, name := range flagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range opts.SearchPaths {
			v.AddConfigPath(p)
		}
	}

	// Try to read config file (not required unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the loaded configuration.
func (cm *Manager) Get() *Config {
	return cm.config
}

// ConfigFileUsed returns the config file that was read, if any.
func (cm *Manager) ConfigFileUsed() string {
	return cm.v.ConfigFileUsed()
}

// Validate checks settings that have a fixed domain.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.OutputFormat {
	case "json", "yaml":
	default:
		return fmt.Errorf("%w: output_format must be json or yaml, got %q", ErrInvalid, c.OutputFormat)
	}
	if c.Engine == "" {
		return fmt.Errorf("%w: engine must not be empty", ErrInvalid)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return level, nil
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# ocrctl configuration
# Every key can be overridden with an OCRCTL_<KEY> environment variable,
# e.g. OCRCTL_ENGINE=/opt/ocrmypdf/bin/ocrmypdf

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultLogLevel        = "info"
	defaultMaxIncludeDepth = 32
	defaultWatchInterval   = 2 * time.Second
	defaultReloadRPS       = 1.0
	defaultReloadBurst     = 1
)

// definePattern is the declaration grammar without the trailing comment:
// <type> <name> = <value>.
var definePattern = regexp.MustCompile(
	`^([A-Za-z][A-Za-z0-9_-]*) +([A-Za-z][A-Za-z0-9_-]*) *= *(.*)$`)

// Define is a single user-supplied binding, applied after all files with the
// highest precedence. Raw is handed to the value parser unchanged.
type Define struct {
	TypeName string
	Name     string
	Raw      string
}

// Config aggregates runtime settings resolved from multiple sources.
// Precedence: CLI flags > YAML settings > Environment variables > Defaults
type Config struct {
	ConfigFile      string
	ExtraFiles      []string
	Defines         []Define
	LogLevel        string
	MaxIncludeDepth int
	WatchInterval   time.Duration
	ReloadRPS       float64
	ReloadBurst     int
}

// yamlSettings represents the YAML settings file structure.
type yamlSettings struct {
	ConfigFile      string     `yaml:"config_file"`
	ExtraFiles      []string   `yaml:"extra_files"`
	LogLevel        string     `yaml:"log_level"`
	MaxIncludeDepth int        `yaml:"max_include_depth"`
	WatchInterval   string     `yaml:"watch_interval"`
	Reload          yamlReload `yaml:"reload"`
}

// yamlReload represents the reload throttle section in YAML.
type yamlReload struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	SettingsFile    string
	ConfigFile      *string
	ExtraFiles      []string
	Defines         []string
	LogLevel        *string
	MaxIncludeDepth *int
	WatchInterval   *time.Duration
}

// Load extracts settings from multiple sources with precedence:
// CLI flags > YAML settings > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.SettingsFile != "" {
		settings, err := loadFromFile(overrides.SettingsFile)
		if err != nil {
			return Config{}, fmt.Errorf("load settings file: %w", err)
		}
		applyYAMLSettings(&cfg, settings)
	}

	applyEnvConfig(&cfg)

	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ParseDefine splits a "<type> <name> = <value>" triple. The value is kept raw
// so it passes through the same parser as file declarations.
func ParseDefine(raw string) (Define, error) {
	m := definePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Define{}, fmt.Errorf("malformed define %q: want \"<type> <name> = <value>\"", raw)
	}
	return Define{TypeName: m[1], Name: m[2], Raw: strings.TrimSpace(m[3])}, nil
}

func defaultConfig() Config {
	return Config{
		LogLevel:        defaultLogLevel,
		MaxIncludeDepth: defaultMaxIncludeDepth,
		WatchInterval:   defaultWatchInterval,
		ReloadRPS:       defaultReloadRPS,
		ReloadBurst:     defaultReloadBurst,
	}
}

func loadFromFile(path string) (*yamlSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var settings yamlSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &settings, nil
}

func applyYAMLSettings(cfg *Config, settings *yamlSettings) {
	if settings.ConfigFile != "" {
		cfg.ConfigFile = settings.ConfigFile
	}

	if len(settings.ExtraFiles) > 0 {
		cfg.ExtraFiles = append([]string(nil), settings.ExtraFiles...)
	}

	if settings.LogLevel != "" {
		cfg.LogLevel = settings.LogLevel
	}

	if settings.MaxIncludeDepth > 0 {
		cfg.MaxIncludeDepth = settings.MaxIncludeDepth
	}

	if settings.WatchInterval != "" {
		if d, err := time.ParseDuration(settings.WatchInterval); err == nil {
			cfg.WatchInterval = d
		}
	}

	if settings.Reload.RPS > 0 {
		cfg.ReloadRPS = settings.Reload.RPS
	}

	if settings.Reload.Burst > 0 {
		cfg.ReloadBurst = settings.Reload.Burst
	}
}

func applyEnvConfig(cfg *Config) {
	if path := strings.TrimSpace(os.Getenv("CONFLINE_CONFIG")); path != "" {
		cfg.ConfigFile = path
	}

	if level := strings.TrimSpace(os.Getenv("CONFLINE_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if depth := strings.TrimSpace(os.Getenv("CONFLINE_MAX_INCLUDE_DEPTH")); depth != "" {
		if value, err := strconv.Atoi(depth); err == nil && value > 0 {
			cfg.MaxIncludeDepth = value
		}
	}
}

func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.ConfigFile != nil && *overrides.ConfigFile != "" {
		cfg.ConfigFile = *overrides.ConfigFile
	}

	if len(overrides.ExtraFiles) > 0 {
		cfg.ExtraFiles = append(cfg.ExtraFiles, overrides.ExtraFiles...)
	}

	for _, raw := range overrides.Defines {
		define, err := ParseDefine(raw)
		if err != nil {
			return err
		}
		cfg.Defines = append(cfg.Defines, define)
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.MaxIncludeDepth != nil && *overrides.MaxIncludeDepth > 0 {
		cfg.MaxIncludeDepth = *overrides.MaxIncludeDepth
	}

	if overrides.WatchInterval != nil && *overrides.WatchInterval > 0 {
		cfg.WatchInterval = *overrides.WatchInterval
	}

	return nil
}

func validateConfig(cfg Config) error {
	if cfg.ConfigFile == "" && len(cfg.ExtraFiles) == 0 && len(cfg.Defines) == 0 {
		return fmt.Errorf("no configuration source: set a config file, extra files, or defines")
	}
	if cfg.MaxIncludeDepth < 1 {
		return fmt.Errorf("max include depth must be >= 1")
	}
	if cfg.WatchInterval <= 0 {
		return fmt.Errorf("watch interval must be positive")
	}
	if cfg.ReloadRPS < 0 {
		return fmt.Errorf("reload rps must be >= 0")
	}
	if cfg.ReloadBurst < 0 {
		return fmt.Errorf("reload burst must be >= 0")
	}
	return nil
}

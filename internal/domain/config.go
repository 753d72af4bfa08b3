package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string       `toml:"-"`
	BD       BDConfig       `toml:"bd"`
	Fallback FallbackConfig `toml:"fallback"`
	Log      LogConfig      `toml:"log"`
}

// BDConfig holds settings for invoking bd from [bd] section.
// Durations are kept as strings so the file round-trips; use the accessors.
type BDConfig struct {
	Binary          string `toml:"binary,omitempty"`           // bd executable name or path
	ProbeTimeout    string `toml:"probe_timeout,omitempty"`    // Timeout for the availability probe
	CommandTimeout  string `toml:"command_timeout,omitempty"`  // Timeout for every other bd call
	AvailabilityTTL string `toml:"availability_ttl,omitempty"` // How long a probe result is reused per directory ("0s" disables)
}

// FallbackConfig holds settings for the in-session tracker from [fallback] section.
type FallbackConfig struct {
	Enabled *bool  `toml:"enabled,omitempty"` // Use the in-session tracker when bd is unavailable (default: true)
	Prefix  string `toml:"prefix,omitempty"`  // ID prefix for in-session issues
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
	Dir   string `toml:"dir,omitempty"`   // Log directory (empty = default state dir)
}

// Directory and file names for skillbeads.
const (
	AppDirName         = "skillbeads"
	ConfigFileName     = "config.toml"
	RootConfigFileName = ".skillbeads.toml"
	LogFileName        = "skillbeads.log"
	BeadsDirName       = ".beads"
	BeadsDirEnv        = "BEADS_DIR"
)

// Default configuration values.
const (
	DefaultBinary          = "bd"
	DefaultProbeTimeout    = 2 * time.Second
	DefaultCommandTimeout  = 5 * time.Second
	DefaultAvailabilityTTL = 10 * time.Second
	DefaultFallbackPrefix  = "TODO"
	DefaultLogLevel        = "info"
)

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	enabled := true
	return &Config{
		BD: BDConfig{
			Binary:          DefaultBinary,
			ProbeTimeout:    DefaultProbeTimeout.String(),
			CommandTimeout:  DefaultCommandTimeout.String(),
			AvailabilityTTL: DefaultAvailabilityTTL.String(),
		},
		Fallback: FallbackConfig{
			Enabled: &enabled,
			Prefix:  DefaultFallbackPrefix,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate checks values that cannot be checked while decoding.
func (c *Config) Validate() error {
	for key, v := range map[string]string{
		"bd.probe_timeout":    c.BD.ProbeTimeout,
		"bd.command_timeout":  c.BD.CommandTimeout,
		"bd.availability_ttl": c.BD.AvailabilityTTL,
	} {
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return fmt.Errorf("%s = %q: %w", key, v, ErrInvalidConfigValue)
		}
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level = %q: %w", c.Log.Level, ErrInvalidConfigValue)
	}
	return nil
}

// ProbeTimeoutDuration returns the availability probe timeout.
func (b BDConfig) ProbeTimeoutDuration() time.Duration {
	return parseDurationOr(b.ProbeTimeout, DefaultProbeTimeout)
}

// CommandTimeoutDuration returns the timeout for mutating and query calls.
func (b BDConfig) CommandTimeoutDuration() time.Duration {
	return parseDurationOr(b.CommandTimeout, DefaultCommandTimeout)
}

// AvailabilityTTLDuration returns how long a probe result stays valid.
func (b BDConfig) AvailabilityTTLDuration() time.Duration {
	return parseDurationOr(b.AvailabilityTTL, DefaultAvailabilityTTL)
}

// BinaryOrDefault returns the configured bd binary.
func (b BDConfig) BinaryOrDefault() string {
	if b.Binary == "" {
		return DefaultBinary
	}
	return b.Binary
}

// IsEnabled reports whether the in-session fallback is on.
func (f FallbackConfig) IsEnabled() bool {
	return f.Enabled == nil || *f.Enabled
}

// PrefixOrDefault returns the in-session ID prefix.
func (f FallbackConfig) PrefixOrDefault() string {
	if f.Prefix == "" {
		return DefaultFallbackPrefix
	}
	return f.Prefix
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// RepoConfigPath returns the repository config path.
func RepoConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, RootConfigFileName)
}

// GlobalAppDir returns the global skillbeads directory.
// base is typically XDG_CONFIG_HOME or XDG_STATE_HOME (resolved by caller).
func GlobalAppDir(base string) string {
	return filepath.Join(base, AppDirName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalAppDir(configHome), ConfigFileName)
}

// DefaultLogDir returns the log directory under the state home.
func DefaultLogDir(stateHome string) string {
	return filepath.Join(GlobalAppDir(stateHome), "logs")
}

// LogPath returns the log file path inside logDir.
func LogPath(logDir string) string {
	return filepath.Join(logDir, LogFileName)
}

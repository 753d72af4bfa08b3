// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/skillbeads/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	repoRoot      string // Project root holding .skillbeads.toml
	globalConfDir string // Path to global config directory (e.g., ~/.config/skillbeads)
}

// NewLoader creates a new Loader.
func NewLoader(repoRoot string) *Loader {
	return &Loader{
		repoRoot:      repoRoot,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(repoRoot, globalConfDir string) *Loader {
	return &Loader{
		repoRoot:      repoRoot,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalAppDir(configHome)
}

// Sources returns the global and repository config files in merge order.
func (l *Loader) Sources() []domain.ConfigSource {
	var paths []string
	if l.globalConfDir != "" {
		paths = append(paths, filepath.Join(l.globalConfDir, domain.ConfigFileName))
	}
	if l.repoRoot != "" {
		paths = append(paths, domain.RepoConfigPath(l.repoRoot))
	}
	sources := make([]domain.ConfigSource, 0, len(paths))
	for _, p := range paths {
		_, err := os.Stat(p)
		sources = append(sources, domain.ConfigSource{Path: p, Exists: err == nil})
	}
	return sources
}

// Load returns the merged configuration (repo + global).
// Repository config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	// Load global config first
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Load repo config
	repo, err := l.LoadRepo()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	// Merge: default <- global <- repo (later takes precedence)
	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if repo != nil {
		base = mergeConfigs(base, repo)
	}

	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// LoadRepo returns only the repository configuration.
func (l *Loader) LoadRepo() (*domain.Config, error) {
	if l.repoRoot == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(domain.RepoConfigPath(l.repoRoot))
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
// Unknown keys are reported as warnings rather than errors so that newer
// config files keep working with older binaries.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}
		switch section {
		case "bd":
			for k, v := range m {
				switch k {
				case "binary":
					res.BD.Binary = stringValue(v)
				case "probe_timeout":
					res.BD.ProbeTimeout = durationValue(v)
				case "command_timeout":
					res.BD.CommandTimeout = durationValue(v)
				case "availability_ttl":
					res.BD.AvailabilityTTL = durationValue(v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [bd]: %s", k))
				}
			}
		case "fallback":
			for k, v := range m {
				switch k {
				case "enabled":
					if b, ok := v.(bool); ok {
						res.Fallback.Enabled = &b
					}
				case "prefix":
					res.Fallback.Prefix = stringValue(v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [fallback]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					res.Log.Level = stringValue(v)
				case "dir":
					res.Log.Dir = stringValue(v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// durationValue accepts "5s" strings and bare integers (seconds).
func durationValue(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case int64:
		return (time.Duration(d) * time.Second).String()
	default:
		return fmt.Sprint(v)
	}
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := &domain.Config{
		BD:       base.BD,
		Fallback: base.Fallback,
		Log:      base.Log,
		Warnings: append(append([]string(nil), base.Warnings...), override.Warnings...),
	}

	if override.BD.Binary != "" {
		result.BD.Binary = override.BD.Binary
	}
	if override.BD.ProbeTimeout != "" {
		result.BD.ProbeTimeout = override.BD.ProbeTimeout
	}
	if override.BD.CommandTimeout != "" {
		result.BD.CommandTimeout = override.BD.CommandTimeout
	}
	if override.BD.AvailabilityTTL != "" {
		result.BD.AvailabilityTTL = override.BD.AvailabilityTTL
	}
	if override.Fallback.Enabled != nil {
		enabled := *override.Fallback.Enabled
		result.Fallback.Enabled = &enabled
	}
	if override.Fallback.Prefix != "" {
		result.Fallback.Prefix = override.Fallback.Prefix
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Log.Dir != "" {
		result.Log.Dir = override.Log.Dir
	}

	return result
}

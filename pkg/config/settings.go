package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/confguard/pkg/filesystem"
	"github.com/arthur-debert/confguard/pkg/paths"
	"github.com/arthur-debert/confguard/pkg/types"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix of environment variables mapped onto settings
const EnvPrefix = "CONFGUARD_"

// Settings are the process-wide confguard settings
type Settings struct {
	// BaseDir holds the guarded storage root and is always absolute
	BaseDir string `koanf:"base_dir" json:"baseDir" yaml:"baseDir"`

	// Relative is the default link mode for projects that do not set one
	Relative bool `koanf:"relative" json:"relative" yaml:"relative"`

	// Version is the settings schema version
	Version int `koanf:"version" json:"version" yaml:"version"`

	// Sources lists the layers that contributed, lowest priority first
	Sources []string `koanf:"-" json:"sources" yaml:"sources"`
}

// StorageRoot returns the directory holding all sentinel directories
func (s *Settings) StorageRoot() string {
	return paths.StorageRoot(s.BaseDir)
}

// Location returns the storage location for the guard engine
func (s *Settings) Location() types.StorageLocation {
	return types.StorageLocation{Root: s.StorageRoot()}
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// LoadSettings loads settings from every layer. overrides are applied last;
// nil or empty values in it are ignored.
func LoadSettings(overrides map[string]interface{}) (*Settings, error) {
	k := koanf.New(".")
	var sources []string

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	sources = append(sources, "defaults")

	// 2. Runtime defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"base_dir": paths.DefaultBaseDir(),
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load runtime defaults: %w", err)
	}

	// 3. User config file, if present. TOML wins over YAML.
	for _, candidate := range []struct {
		path   string
		parser koanf.Parser
	}{
		{paths.UserConfigPath(), toml.Parser()},
		{paths.UserConfigYAMLPath(), yaml.Parser()},
	} {
		if _, err := os.Stat(candidate.path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(candidate.path), candidate.parser); err != nil {
			return nil, fmt.Errorf("failed to load user config from %s: %w", candidate.path, err)
		}
		sources = append(sources, candidate.path)
		break
	}

	// 4. Environment
	envK := koanf.New(".")
	err := envK.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}
	if len(envK.Keys()) > 0 {
		if err := k.Merge(envK); err != nil {
			return nil, fmt.Errorf("failed to merge env vars: %w", err)
		}
		sources = append(sources, "env")
	}

	// 5. Command line overrides
	if cleaned := cleanOverrides(overrides); len(cleaned) > 0 {
		if err := k.Load(confmap.Provider(cleaned, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
		sources = append(sources, "flags")
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	s.Sources = sources

	if err := postProcessSettings(&s); err != nil {
		return nil, fmt.Errorf("failed to post-process settings: %w", err)
	}
	return &s, nil
}

func cleanOverrides(overrides map[string]interface{}) map[string]interface{} {
	cleaned := make(map[string]interface{}, len(overrides))
	for key, value := range overrides {
		if value == nil {
			continue
		}
		if str, ok := value.(string); ok && str == "" {
			continue
		}
		cleaned[key] = value
	}
	return cleaned
}

func postProcessSettings(s *Settings) error {
	if s.BaseDir == "" {
		s.BaseDir = paths.DefaultBaseDir()
	}
	abs, err := paths.ToAbsolute(s.BaseDir)
	if err != nil {
		return err
	}
	// The base dir may not exist yet; its existing ancestors are resolved
	resolved, err := filesystem.EvalSymlinks(filesystem.NewOS(), abs)
	if err != nil {
		return fmt.Errorf("failed to resolve base dir %s: %w", abs, err)
	}
	s.BaseDir = resolved
	return nil
}

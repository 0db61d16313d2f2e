// pkg/config/settings_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Environment variables, temp dirs
// PURPOSE: Test layered settings loading

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateSettingsEnv(t *testing.T) string {
	t.Helper()
	tmp, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("CONFGUARD_BASE_DIR", "")
	require.NoError(t, os.Unsetenv("CONFGUARD_BASE_DIR"))
	t.Setenv("CONFGUARD_RELATIVE", "")
	require.NoError(t, os.Unsetenv("CONFGUARD_RELATIVE"))
	return tmp
}

func writeUserConfig(t *testing.T, tmp, content string) {
	t.Helper()
	writeUserConfigFile(t, tmp, "config.toml", content)
}

func writeUserConfigFile(t *testing.T, tmp, name, content string) {
	t.Helper()
	dir := filepath.Join(tmp, "config", "confguard")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name         string
		setupFunc    func(t *testing.T, tmp string)
		overrides    map[string]interface{}
		validateFunc func(t *testing.T, tmp string, s *Settings)
	}{
		{
			name: "defaults",
			validateFunc: func(t *testing.T, tmp string, s *Settings) {
				assert.Equal(t, filepath.Join(tmp, "data", "confguard"), s.BaseDir)
				assert.Equal(t, filepath.Join(tmp, "data", "confguard", "guarded"), s.StorageRoot())
				assert.True(t, s.Relative)
				assert.Equal(t, 1, s.Version)
				assert.Equal(t, []string{"defaults"}, s.Sources)
			},
		},
		{
			name: "user config file",
			setupFunc: func(t *testing.T, tmp string) {
				writeUserConfig(t, tmp, "base_dir = \""+filepath.Join(tmp, "vault")+"\"\nrelative = false\n")
			},
			validateFunc: func(t *testing.T, tmp string, s *Settings) {
				assert.Equal(t, filepath.Join(tmp, "vault"), s.BaseDir)
				assert.False(t, s.Relative)
				assert.Len(t, s.Sources, 2)
			},
		},
		{
			name: "yaml user config file",
			setupFunc: func(t *testing.T, tmp string) {
				writeUserConfigFile(t, tmp, "config.yaml", "base_dir: "+filepath.Join(tmp, "yaml-vault")+"\nrelative: false\n")
			},
			validateFunc: func(t *testing.T, tmp string, s *Settings) {
				assert.Equal(t, filepath.Join(tmp, "yaml-vault"), s.BaseDir)
				assert.False(t, s.Relative)
				assert.Equal(t, []string{"defaults", filepath.Join(tmp, "config", "confguard", "config.yaml")}, s.Sources)
			},
		},
		{
			name: "toml wins over yaml",
			setupFunc: func(t *testing.T, tmp string) {
				writeUserConfig(t, tmp, "base_dir = \""+filepath.Join(tmp, "vault")+"\"\n")
				writeUserConfigFile(t, tmp, "config.yaml", "base_dir: "+filepath.Join(tmp, "yaml-vault")+"\n")
			},
			validateFunc: func(t *testing.T, tmp string, s *Settings) {
				assert.Equal(t, filepath.Join(tmp, "vault"), s.BaseDir)
				assert.NotContains(t, s.Sources, filepath.Join(tmp, "config", "confguard", "config.yaml"))
			},
		},
		{
			name: "environment beats user config",
			setupFunc: func(t *testing.T, tmp string) {
				writeUserConfig(t, tmp, "base_dir = \""+filepath.Join(tmp, "vault")+"\"\n")
				t.Setenv("CONFGUARD_BASE_DIR", filepath.Join(tmp, "from-env"))
				t.Setenv("CONFGUARD_RELATIVE", "false")
			},
			validateFunc: func(t *testing.T, tmp string, s *Settings) {
				assert.Equal(t, filepath.Join(tmp, "from-env"), s.BaseDir)
				assert.False(t, s.Relative)
				assert.Contains(t, s.Sources, "env")
			},
		},
		{
			name: "overrides beat environment",
			setupFunc: func(t *testing.T, tmp string) {
				t.Setenv("CONFGUARD_BASE_DIR", filepath.Join(tmp, "from-env"))
			},
			overrides: map[string]interface{}{"base_dir": "OVERRIDE", "relative": nil},
			validateFunc: func(t *testing.T, tmp string, s *Settings) {
				assert.Equal(t, filepath.Join(tmp, "from-flag"), s.BaseDir)
				assert.True(t, s.Relative)
				assert.Contains(t, s.Sources, "flags")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := isolateSettingsEnv(t)
			if tt.setupFunc != nil {
				tt.setupFunc(t, tmp)
			}
			overrides := tt.overrides
			if overrides != nil && overrides["base_dir"] == "OVERRIDE" {
				overrides["base_dir"] = filepath.Join(tmp, "from-flag")
			}

			s, err := LoadSettings(overrides)
			require.NoError(t, err)
			tt.validateFunc(t, tmp, s)
		})
	}
}

func TestLoadSettings_ExpandsHome(t *testing.T) {
	tmp := isolateSettingsEnv(t)
	t.Setenv("HOME", tmp)

	s, err := LoadSettings(map[string]interface{}{"base_dir": "~/guard-store"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "guard-store"), s.BaseDir)
	assert.Equal(t, filepath.Join(tmp, "guard-store", "guarded"), s.Location().Root)
}

func TestLoadSettings_ResolvesSymlinkedBaseDir(t *testing.T) {
	tmp := isolateSettingsEnv(t)
	realDir := filepath.Join(tmp, "volumes", "store")
	require.NoError(t, os.MkdirAll(realDir, 0755))
	require.NoError(t, os.Symlink(filepath.Join(tmp, "volumes"), filepath.Join(tmp, "alias")))

	// Only the existing part of the path can be resolved
	s, err := LoadSettings(map[string]interface{}{"base_dir": filepath.Join(tmp, "alias", "store", "not-yet")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(realDir, "not-yet"), s.BaseDir)
}

func TestLoadSettings_BadUserConfig(t *testing.T) {
	tmp := isolateSettingsEnv(t)
	writeUserConfig(t, tmp, "base_dir = [unterminated\n")

	_, err := LoadSettings(nil)
	assert.Error(t, err)
}

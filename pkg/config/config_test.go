// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/harvest/pkg/config"
)

// 🧪 validConfig returns a minimal valid config
func validConfig() *config.Config {
	return &config.Config{
		SourceRoots: []string{"/src/A", "/src/B"},
		Destination: "/dest",
		Keywords:    []string{"OF", "6.1.0"},
	}
}

// 🧪 TestValidateDefaults tests default application
func TestValidateDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{".xlsx", ".dxd", ".d7d"}, cfg.Extensions)
	assert.Equal(t, ".xlsx", cfg.SpreadsheetExt)
	assert.Equal(t, `\d+\.\d+\.\d+`, cfg.VersionPattern)
	assert.Equal(t, 20, cfg.ConfirmThreshold)
}

// 🧪 TestValidateErrors tests rejection of malformed configs
func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "no_source_roots",
			mutate:        func(c *config.Config) { c.SourceRoots = nil },
			expectedError: "at least one source root is required",
		},
		{
			name:          "blank_source_root",
			mutate:        func(c *config.Config) { c.SourceRoots = []string{"/src/A", "  "} },
			expectedError: "source root 1 is empty",
		},
		{
			name:          "missing_destination",
			mutate:        func(c *config.Config) { c.Destination = "" },
			expectedError: "destination is required",
		},
		{
			name:          "malformed_version_pattern",
			mutate:        func(c *config.Config) { c.VersionPattern = `(\d+` },
			expectedError: "malformed version_pattern",
		},
		{
			name:          "negative_threshold",
			mutate:        func(c *config.Config) { c.ConfirmThreshold = -1 },
			expectedError: "confirm_threshold must not be negative",
		},
		{
			name:          "malformed_ignore_pattern",
			mutate:        func(c *config.Config) { c.IgnorePatterns = []string{"a[b"} },
			expectedError: "malformed ignore pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

// 🧪 TestExtensionNormalization tests case and dot handling
func TestExtensionNormalization(t *testing.T) {
	cfg := validConfig()
	cfg.Extensions = []string{"XLSX", ".DxD"}
	cfg.SpreadsheetExt = "xlsx"
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{".xlsx", ".dxd"}, cfg.Extensions)
	assert.Equal(t, ".xlsx", cfg.SpreadsheetExt)
}

// 🧪 TestLoadYAML tests YAML loading
func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harvest.yaml")
	content := `
source_roots:
  - /src/A
  - /src/B
destination: /dest
keywords:
  - OF
  - 6.1.0
confirm_threshold: 5
ignore_patterns:
  - "backup/**"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/src/A", "/src/B"}, cfg.SourceRoots)
	assert.Equal(t, "/dest", cfg.Destination)
	assert.Equal(t, 5, cfg.ConfirmThreshold)
	assert.Equal(t, []string{"backup/**"}, cfg.IgnorePatterns)
}

// 🧪 TestLoadJSON tests JSON loading with unknown field rejection
func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "harvest.json")
	content := `{
  "source_roots": ["/src/A"],
  "destination": "/dest",
  "keywords": ["UF"]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"UF"}, cfg.Keywords)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"source_roots": ["/a"], "destination": "/d", "keywords": [], "nope": 1}`), 0644))
	_, err = config.Load(context.Background(), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing JSON")
}

// 🧪 TestLoadHCL tests HCL loading
func TestLoadHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harvest.hcl")
	content := `
source_roots = ["/src/A"]
destination  = "/dest"
keywords     = ["IF", "5.4.4"]
extensions   = [".xlsx"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"IF", "5.4.4"}, cfg.Keywords)
	assert.Equal(t, []string{".xlsx"}, cfg.Extensions)
}

// 🧪 TestLoadUnsupportedExtension tests dispatch failure
func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harvest.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	_, err := config.Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")
}

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

package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/harvest/pkg/match"
	"gitlab.com/tozd/go/errors"
)

// Defaults for the static configuration surface.
var (
	// DefaultExtensions are the document/data extensions eligible for copying.
	DefaultExtensions = []string{".xlsx", ".dxd", ".d7d"}

	// DefaultKeywords are the short literal tokens recognized out of the box.
	DefaultKeywords = []string{"OF", "UF", "IF"}
)

const (
	// DefaultSpreadsheetExtension is the extension matched by literal keywords.
	DefaultSpreadsheetExtension = ".xlsx"

	// DefaultConfirmThreshold is the match count above which a run pauses for
	// confirmation before copying.
	DefaultConfirmThreshold = 20
)

// 📚 Config is the static configuration for a harvest run. It is provided at
// construction; nothing is read from the environment.
type Config struct {
	SourceRoots      []string `json:"source_roots" yaml:"source_roots" hcl:"source_roots"`
	Destination      string   `json:"destination" yaml:"destination" hcl:"destination"`
	Keywords         []string `json:"keywords" yaml:"keywords" hcl:"keywords"`
	Extensions       []string `json:"extensions,omitempty" yaml:"extensions,omitempty" hcl:"extensions,optional"`
	SpreadsheetExt   string   `json:"spreadsheet_extension,omitempty" yaml:"spreadsheet_extension,omitempty" hcl:"spreadsheet_extension,optional"`
	VersionPattern   string   `json:"version_pattern,omitempty" yaml:"version_pattern,omitempty" hcl:"version_pattern,optional"`
	ConfirmThreshold int      `json:"confirm_threshold,omitempty" yaml:"confirm_threshold,omitempty" hcl:"confirm_threshold,optional"`
	IgnorePatterns   []string `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" hcl:"ignore_patterns,optional"`
}

// 🔍 Validate checks the configuration, applies defaults, and cleans paths.
// A validation failure aborts the run before any scanning starts.
func (cfg *Config) Validate() error {
	if len(cfg.SourceRoots) == 0 {
		return errors.Errorf("at least one source root is required")
	}
	for i, root := range cfg.SourceRoots {
		if strings.TrimSpace(root) == "" {
			return errors.Errorf("source root %d is empty", i)
		}
		cfg.SourceRoots[i] = filepath.Clean(root)
	}
	if cfg.Destination == "" {
		return errors.Errorf("destination is required")
	}
	cfg.Destination = filepath.Clean(cfg.Destination)

	// Defaults
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if cfg.SpreadsheetExt == "" {
		cfg.SpreadsheetExt = DefaultSpreadsheetExtension
	}
	cfg.SpreadsheetExt = match.NormalizeExt(cfg.SpreadsheetExt)
	for i, e := range cfg.Extensions {
		cfg.Extensions[i] = match.NormalizeExt(e)
	}
	if cfg.VersionPattern == "" {
		cfg.VersionPattern = match.DefaultVersionPattern
	}
	if cfg.ConfirmThreshold == 0 {
		cfg.ConfirmThreshold = DefaultConfirmThreshold
	}
	if cfg.ConfirmThreshold < 0 {
		return errors.Errorf("confirm_threshold must not be negative")
	}

	if _, err := regexp.Compile(cfg.VersionPattern); err != nil {
		return errors.Errorf("malformed version_pattern %q: %w", cfg.VersionPattern, err)
	}
	for _, pattern := range cfg.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("malformed ignore pattern %q", pattern)
		}
	}

	return nil
}

// 📝 String returns a string representation of the config.
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s (keywords: %s)",
		strings.Join(cfg.SourceRoots, ", "),
		cfg.Destination,
		strings.Join(cfg.Keywords, ", "))
}

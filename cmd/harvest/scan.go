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

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/harvest/pkg/log"
	"github.com/walteh/harvest/pkg/match"
	"github.com/walteh/harvest/pkg/scan"
	"gitlab.com/tozd/go/errors"
)

// newScanCmd builds the scan command: discovery only, nothing is copied.
func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "list files that would be copied, without copying",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context())
		},
	}
}

func runScan(ctx context.Context) error {
	cfg, err := loadRunConfig(ctx)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	consoleLogger := log.New(os.Stdout, level)
	consoleLogger.Header("scanning for matches (dry run)")

	keywords, err := match.NewKeywordSetPattern(cfg.Keywords, cfg.VersionPattern)
	if err != nil {
		return errors.Errorf("building keyword set: %w", err)
	}
	matcher := match.NewMatcher(keywords, cfg.Extensions, cfg.SpreadsheetExt)
	scanner := scan.New(matcher, cfg.IgnorePatterns)

	count := 0
	err = scanner.Scan(ctx, cfg.SourceRoots, func(m scan.Match) error {
		count++
		consoleLogger.LogMatch(ctx, m.Candidate.Path, m.Decision.Rule.String(), m.Decision.Keyword)
		return nil
	})
	if err != nil {
		return errors.Errorf("scanning: %w", err)
	}

	consoleLogger.LogNewline()
	consoleLogger.Successf("found %d matching files", count)
	return nil
}

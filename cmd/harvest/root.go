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
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/harvest/pkg/config"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile  string
	debug       bool
	sourceRoots []string
	destination string
	keywords    []string
	extensions  []string
	threshold   int
	assumeYes   bool
)

// newRootCmd builds the harvest command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "harvest",
		Short:         "discover, dedup, and copy keyword-matched files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Flags are parsed by now; the global level gates every logger.
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (.yaml, .json or .hcl)")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	root.PersistentFlags().StringSliceVarP(&sourceRoots, "source", "s", nil, "source root to scan (repeatable)")
	root.PersistentFlags().StringVar(&destination, "dest", "", "destination directory")
	root.PersistentFlags().StringSliceVarP(&keywords, "keyword", "k", nil, "keyword, literal or dotted version (repeatable)")
	root.PersistentFlags().StringSliceVar(&extensions, "ext", nil, "target extension (repeatable)")
	root.PersistentFlags().IntVar(&threshold, "threshold", 0, "confirmation threshold (0 = default)")

	root.AddCommand(newRunCmd())
	root.AddCommand(newScanCmd())

	return root
}

// Execute runs the CLI. Ctrl-C cancels the run context; the engine finishes
// the in-flight file and reports the run as cancelled.
func Execute() error {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logger.WithContext(ctx)

	return newRootCmd().ExecuteContext(ctx)
}

// loadRunConfig assembles the run configuration from the config file and
// command-line flags; flags win over file values.
func loadRunConfig(ctx context.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if configFile != "" {
		loaded, err := config.Load(ctx, configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if len(sourceRoots) > 0 {
		cfg.SourceRoots = sourceRoots
	}
	if destination != "" {
		cfg.Destination = destination
	}
	if len(keywords) > 0 {
		cfg.Keywords = keywords
	}
	if len(extensions) > 0 {
		cfg.Extensions = extensions
	}
	if threshold > 0 {
		cfg.ConfirmThreshold = threshold
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

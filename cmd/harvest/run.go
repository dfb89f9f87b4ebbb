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
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/harvest/pkg/log"
	"github.com/walteh/harvest/pkg/operation"
	"github.com/walteh/harvest/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// newRunCmd builds the run command: full scan, dedup, and copy.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "scan source roots and copy matched files to the destination",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context())
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the large-copy confirmation prompt")
	return cmd
}

func runRun(ctx context.Context) error {
	cfg, err := loadRunConfig(ctx)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	consoleLogger := log.New(os.Stdout, level)
	consoleLogger.Header("copying matched files")
	consoleLogger.StartRun(ctx, log.RunHeader{
		SourceRoots: cfg.SourceRoots,
		Destination: cfg.Destination,
		Keywords:    cfg.Keywords,
	})

	var confirm operation.ConfirmFunc
	if !assumeYes {
		confirm = promptConfirm
	}

	op, err := operation.New(operation.Options{
		Config:    cfg,
		StatusMgr: status.New(cfg.Destination),
		Logger:    consoleLogger,
		Progress:  newProgressSink(),
		Confirm:   confirm,
	})
	if err != nil {
		return errors.Errorf("creating operator: %w", err)
	}

	res, err := op.Run(ctx)
	if err != nil {
		consoleLogger.Errorf("run aborted: %v", err)
		return err
	}

	consoleLogger.LogNewline()
	summary := fmt.Sprintf("matched %d, copied %d, duplicates %d, existing %d, failed %d (in %s)",
		res.Matched, res.Copied, res.Duplicates, res.Existing, res.Failed,
		res.ScanDuration+res.CopyDuration)
	switch res.Status {
	case operation.StatusCompleted:
		consoleLogger.Success(summary)
	case operation.StatusCompletedWithFailures:
		consoleLogger.Warning(summary)
		return errors.Errorf("%d files failed", res.Failed)
	case operation.StatusCancelled:
		consoleLogger.Warningf("run cancelled: %s", summary)
	}
	return nil
}

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

package operation

import (
	"context"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/harvest/pkg/fingerprint"
	"github.com/walteh/harvest/pkg/match"
	"github.com/walteh/harvest/pkg/plan"
	"github.com/walteh/harvest/pkg/scan"
	"github.com/walteh/harvest/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// hashedMatch pairs a scan match with its content fingerprint.
type hashedMatch struct {
	m   scan.Match
	fp  fingerprint.Fingerprint
	err error
}

// 🏃 Run executes one scan-and-copy run. Cancellation is cooperative through
// ctx: it is checked before each file's copy starts, and a copy already in
// flight finishes so no partial file is left behind. The returned Result is
// always non-nil; cancellation is a status, not an error.
func (op *Operator) Run(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	res := &Result{RunID: uuid.NewString(), Status: StatusCompleted}
	logger.Info().Str("run_id", res.RunID).Msg("starting run")

	// Entries and progress belong to this run only.
	op.statusMgr.Reset(ctx)

	if err := op.validateEnvironment(ctx); err != nil {
		res.Status = StatusAbortedByConfiguration
		return res, err
	}

	keywords, err := match.NewKeywordSetPattern(op.cfg.Keywords, op.cfg.VersionPattern)
	if err != nil {
		res.Status = StatusAbortedByConfiguration
		return res, err
	}
	if keywords.Empty() {
		logger.Warn().Msg("no usable keywords configured, nothing will match")
	}

	matcher := match.NewMatcher(keywords, op.cfg.Extensions, op.cfg.SpreadsheetExt)
	scanner := scan.New(matcher, op.cfg.IgnorePatterns)
	planner := plan.New(op.cfg.Destination, op.cfg.SourceRoots)
	seen := fingerprint.NewSeenSet()

	// Phase 1: scan all source roots.
	op.progress.OnPhase(PhaseScanning)
	scanStart := time.Now()
	var matches []scan.Match
	if err := scanner.Scan(ctx, op.cfg.SourceRoots, func(m scan.Match) error {
		matches = append(matches, m)
		return nil
	}); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return op.finish(ctx, res, StatusCancelled), nil
		}
		return res, errors.Errorf("scanning source roots: %w", err)
	}
	res.Matched = len(matches)
	res.ScanDuration = time.Since(scanStart)
	logger.Info().
		Int("matched", res.Matched).
		Dur("scan_duration", res.ScanDuration).
		Msg("scan phase complete")

	if op.logger != nil {
		for _, m := range matches {
			op.logger.LogMatch(ctx, m.Candidate.Path, m.Decision.Rule.String(), m.Decision.Keyword)
		}
	}

	// Phase 2: fingerprint every match with bounded parallelism, then
	// re-sort by path so dedup decisions and the final log are
	// deterministic regardless of hashing completion order.
	hashed := make([]hashedMatch, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(op.hashWorkers)
	for i, m := range matches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fp, err := fingerprint.File(m.Candidate.Path)
			hashed[i] = hashedMatch{m: m, fp: fp, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return op.finish(ctx, res, StatusCancelled), nil
	}
	sort.Slice(hashed, func(i, j int) bool {
		return hashed[i].m.Candidate.Path < hashed[j].m.Candidate.Path
	})

	var jobs []hashedMatch
	firstSeen := make(map[fingerprint.Fingerprint]string)
	for _, h := range hashed {
		if h.err != nil {
			res.Failed++
			op.track(ctx, status.Entry{
				Source:  h.m.Candidate.Path,
				Outcome: status.OutcomeFailed,
				Rule:    h.m.Decision.Rule.String(),
				Keyword: h.m.Decision.Keyword,
				Err:     h.err,
			})
			continue
		}
		if !seen.Accept(h.fp) {
			res.Duplicates++
			op.track(ctx, status.Entry{
				Source:      h.m.Candidate.Path,
				Outcome:     status.OutcomeDuplicate,
				Rule:        h.m.Decision.Rule.String(),
				Keyword:     h.m.Decision.Keyword,
				DuplicateOf: firstSeen[h.fp],
			})
			continue
		}
		firstSeen[h.fp] = h.m.Candidate.Path
		jobs = append(jobs, h)
	}

	// Confirmation gate: a human gets the final say on large copies.
	if op.confirm != nil && len(jobs) > op.cfg.ConfirmThreshold {
		op.progress.OnPhase(PhaseAwaitingConfirmation)
		logger.Info().Int("count", len(jobs)).Msg("awaiting confirmation")
		proceed, err := op.confirm(ctx, len(jobs))
		if err != nil {
			return op.finish(ctx, res, StatusCancelled), errors.Errorf("awaiting confirmation: %w", err)
		}
		if !proceed {
			logger.Info().Msg("copy cancelled: user chose not to proceed")
			return op.finish(ctx, res, StatusCancelled), nil
		}
	}

	// Phase 3: copy sequentially. Planning happens per file right before its
	// copy so earlier copies in the same run are visible to collision checks.
	op.progress.OnPhase(PhaseCopying)
	copyStart := time.Now()
	total := len(jobs)
	op.statusMgr.StartOperation(ctx, total)

	cancelled := false
	for i, h := range jobs {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		pl, err := planner.Resolve(h.m.Candidate, h.fp)
		if err != nil {
			res.Failed++
			op.track(ctx, status.Entry{
				Source:  h.m.Candidate.Path,
				Outcome: status.OutcomeFailed,
				Rule:    h.m.Decision.Rule.String(),
				Keyword: h.m.Decision.Keyword,
				Err:     err,
			})
			op.advance(ctx, i+1, total, h.m.Candidate.Name)
			continue
		}

		if pl.ExistsIdentical {
			res.Existing++
			seen.MarkCopied(h.fp, pl.DestPath)
			op.track(ctx, status.Entry{
				Source:  h.m.Candidate.Path,
				Dest:    pl.DestPath,
				Outcome: status.OutcomeExistingIdentical,
				Rule:    h.m.Decision.Rule.String(),
				Keyword: h.m.Decision.Keyword,
			})
			op.advance(ctx, i+1, total, h.m.Candidate.Name)
			continue
		}

		if err := op.statusMgr.CopyFile(ctx, h.m.Candidate.Path, pl.DestPath); err != nil {
			res.Failed++
			op.track(ctx, status.Entry{
				Source:  h.m.Candidate.Path,
				Dest:    pl.DestPath,
				Outcome: status.OutcomeFailed,
				Rule:    h.m.Decision.Rule.String(),
				Keyword: h.m.Decision.Keyword,
				Err:     err,
			})
			op.advance(ctx, i+1, total, h.m.Candidate.Name)
			continue
		}

		res.Copied++
		seen.MarkCopied(h.fp, pl.DestPath)
		op.track(ctx, status.Entry{
			Source:  h.m.Candidate.Path,
			Dest:    pl.DestPath,
			Outcome: status.OutcomeCopied,
			Rule:    h.m.Decision.Rule.String(),
			Keyword: h.m.Decision.Keyword,
			Renamed: pl.Renamed,
		})
		op.advance(ctx, i+1, total, h.m.Candidate.Name)
	}
	res.CopyDuration = time.Since(copyStart)
	op.statusMgr.FinishOperation(ctx)

	final := StatusCompleted
	switch {
	case cancelled:
		final = StatusCancelled
	case res.Failed > 0:
		final = StatusCompletedWithFailures
	}
	return op.finish(ctx, res, final), nil
}

// track records a per-file entry through the status manager and mirrors it on
// the console logger.
func (op *Operator) track(ctx context.Context, e status.Entry) {
	op.statusMgr.Track(ctx, e)
	if op.logger != nil {
		op.logger.LogEntry(ctx, e)
	}
}

// advance reports per-file progress to the status manager and the sink.
func (op *Operator) advance(ctx context.Context, current, total int, fileName string) {
	op.statusMgr.UpdateProgress(ctx, current)
	op.progress.OnProgress(current, total, fileName)
}

// finish seals the result with its terminal status.
func (op *Operator) finish(ctx context.Context, res *Result, st RunStatus) *Result {
	res.Status = st
	res.Entries = op.statusMgr.Entries()
	op.progress.OnPhase(PhaseDone)
	zerolog.Ctx(ctx).Info().
		Str("run_id", res.RunID).
		Str("status", st.String()).
		Int("matched", res.Matched).
		Int("copied", res.Copied).
		Int("duplicates", res.Duplicates).
		Int("existing", res.Existing).
		Int("failed", res.Failed).
		Msg("run finished")
	return res
}

// validateEnvironment checks that the configured paths are usable before any
// scanning starts: every source root must be an existing directory and the
// destination must be writable.
func (op *Operator) validateEnvironment(ctx context.Context) error {
	if err := op.cfg.Validate(); err != nil {
		return errors.Errorf("validating config: %w", err)
	}
	for _, root := range op.cfg.SourceRoots {
		info, err := os.Stat(root)
		if err != nil {
			return errors.Errorf("invalid source root %s: %w", root, err)
		}
		if !info.IsDir() {
			return errors.Errorf("source root %s is not a directory", root)
		}
	}
	if err := op.statusMgr.CreateDir(ctx, op.cfg.Destination); err != nil {
		return errors.Errorf("destination not usable: %w", err)
	}
	probe, err := os.CreateTemp(op.cfg.Destination, ".harvest-probe*")
	if err != nil {
		return errors.Errorf("destination not writable: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

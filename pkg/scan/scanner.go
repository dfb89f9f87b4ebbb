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

package scan

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/harvest/pkg/match"
)

// 🎯 Match pairs an accepted candidate with the decision that accepted it.
type Match struct {
	Candidate match.Candidate
	Decision  match.Decision
	Root      string // the source root the candidate was found under
}

// 🔍 Scanner walks source trees and yields accepted candidates.
type Scanner struct {
	matcher *match.Matcher
	ignore  []string // doublestar globs, matched against root-relative paths
}

// 🏭 New creates a scanner. ignorePatterns may be nil.
func New(matcher *match.Matcher, ignorePatterns []string) *Scanner {
	return &Scanner{matcher: matcher, ignore: ignorePatterns}
}

// Scan walks each source root in order and calls yield for every accepted
// candidate. Symbolic links are never followed, so traversal cycles cannot
// occur; unreadable paths are logged and skipped rather than aborting the
// walk. Scan stops early when ctx is cancelled or yield returns an error.
// Each call restarts from the beginning; a scan is not resumable mid-stream.
func (s *Scanner) Scan(ctx context.Context, roots []string, yield func(Match) error) error {
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.scanRoot(ctx, filepath.Clean(root), yield); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) scanRoot(ctx context.Context, root string, yield func(Match) error) error {
	logger := zerolog.Ctx(ctx)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && s.ignored(root, path) {
				logger.Debug().Str("dir", path).Msg("directory ignored by pattern")
				return fs.SkipDir
			}
			return nil
		}

		// Symlinks and other specials are skipped outright.
		if !d.Type().IsRegular() {
			return nil
		}
		if s.ignored(root, path) {
			return nil
		}

		c := match.NewCandidate(path)
		if !s.matcher.TargetExtension(c.Ext) {
			return nil
		}
		dec := s.matcher.Classify(c)
		if !dec.Accepted {
			return nil
		}

		logger.Debug().
			Str("file", path).
			Str("rule", dec.Rule.String()).
			Str("keyword", dec.Keyword).
			Msg("candidate accepted")

		return yield(Match{Candidate: c, Decision: dec, Root: root})
	})
}

// ignored matches the root-relative path against the configured globs.
// Patterns are validated at config load, so compile errors are not expected
// here.
func (s *Scanner) ignored(root, path string) bool {
	if len(s.ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.ignore {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

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

package status

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 Outcome is the per-file result of a copy attempt.
type Outcome int

const (
	OutcomeUnknown           Outcome = iota
	OutcomeCopied                    // file copied to its planned destination
	OutcomeDuplicate                 // content already accepted earlier in the run
	OutcomeExistingIdentical         // identical file already present at the destination
	OutcomeFailed                    // per-file I/O failure, run continues
)

// String returns a string representation of Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCopied:
		return "copied"
	case OutcomeDuplicate:
		return "skipped-duplicate"
	case OutcomeExistingIdentical:
		return "skipped-existing-identical"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Entry is one per-file record emitted during a run. Err is set only for
// OutcomeFailed; DuplicateOf is the source path where the same content was
// first accepted during the run.
type Entry struct {
	Source      string
	Dest        string
	Outcome     Outcome
	Rule        string // match rule that accepted the file
	Keyword     string // keyword responsible for the match
	Renamed     bool   // destination carries a _N suffix
	DuplicateOf string
	Err         error
}

// 🔧 Manager tracks per-file outcomes and progress for a single run, and
// provides the file-system primitives the engine copies through. Safe for
// concurrent use.
type Manager struct {
	destRoot string

	mu        sync.RWMutex
	entries   []Entry
	total     int
	processed int
}

// 🏭 New creates a status manager rooted at the destination directory.
func New(destRoot string) *Manager {
	return &Manager{destRoot: filepath.Clean(destRoot)}
}

// DestRoot returns the destination root the manager copies under.
func (m *Manager) DestRoot() string {
	return m.destRoot
}

// 📝 Track appends a per-file entry and logs it.
func (m *Manager) Track(ctx context.Context, e Entry) {
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()

	ev := zerolog.Ctx(ctx).Info()
	if e.Outcome == OutcomeFailed {
		ev = zerolog.Ctx(ctx).Error().Err(e.Err)
	}
	ev.Str("source", e.Source).
		Str("dest", e.Dest).
		Str("outcome", e.Outcome.String()).
		Str("rule", e.Rule).
		Str("keyword", e.Keyword).
		Bool("renamed", e.Renamed).
		Msg(FormatEntry(e))
}

// Reset clears recorded entries and progress counters so the manager can
// serve a fresh run. Called by the engine at run start; entries recorded
// before the reset are not carried over.
func (m *Manager) Reset(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.total = 0
	m.processed = 0
}

// Entries returns a copy of the recorded entries in emission order.
func (m *Manager) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// StartOperation begins progress tracking for total files.
func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = total
	m.processed = 0
	zerolog.Ctx(ctx).Info().Int("total", total).Msg(FormatProgress(0, total))
}

// UpdateProgress records that processed files have completed.
func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed = processed
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(FormatProgress(processed, m.total))
}

// FinishOperation ends progress tracking.
func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	zerolog.Ctx(ctx).Info().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(FormatProgress(m.processed, m.total))
}

// Progress returns the current processed and total counts.
func (m *Manager) Progress() (processed, total int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed, m.total
}

// File system primitives

// CopyFile streams src to dst through a temp file in the destination
// directory and renames it into place, so a failed copy never leaves a
// partial file at dst. Parent directories are created as needed.
func (m *Manager) CopyFile(ctx context.Context, src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".tmp*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, srcFile); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("copying file content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// FileExists reports whether path exists.
func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

// CreateDir creates path and any missing parents.
func (m *Manager) CreateDir(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

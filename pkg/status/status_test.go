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

package status_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/harvest/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

// 🧪 TestTrackAndEntries tests entry recording order
func TestTrackAndEntries(t *testing.T) {
	ctx := testContext(t)
	m := status.New(t.TempDir())

	m.Track(ctx, status.Entry{Source: "/src/a.dxd", Dest: "/dst/a.dxd", Outcome: status.OutcomeCopied})
	m.Track(ctx, status.Entry{Source: "/src/b.dxd", Outcome: status.OutcomeDuplicate, DuplicateOf: "/dst/a.dxd"})
	m.Track(ctx, status.Entry{Source: "/src/c.dxd", Outcome: status.OutcomeFailed, Err: errors.New("disk full")})

	entries := m.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, status.OutcomeCopied, entries[0].Outcome)
	assert.Equal(t, status.OutcomeDuplicate, entries[1].Outcome)
	assert.Equal(t, status.OutcomeFailed, entries[2].Outcome)
	assert.EqualError(t, entries[2].Err, "disk full")
}

// 🧪 TestReset tests that a reset manager starts a fresh run empty
func TestReset(t *testing.T) {
	ctx := testContext(t)
	m := status.New(t.TempDir())

	m.Track(ctx, status.Entry{Source: "/src/a.dxd", Outcome: status.OutcomeCopied})
	m.StartOperation(ctx, 5)
	m.UpdateProgress(ctx, 3)

	m.Reset(ctx)

	assert.Empty(t, m.Entries())
	processed, total := m.Progress()
	assert.Zero(t, processed)
	assert.Zero(t, total)

	m.Track(ctx, status.Entry{Source: "/src/b.dxd", Outcome: status.OutcomeCopied})
	require.Len(t, m.Entries(), 1)
	assert.Equal(t, "/src/b.dxd", m.Entries()[0].Source)
}

// 🧪 TestProgress tests progress counters
func TestProgress(t *testing.T) {
	ctx := testContext(t)
	m := status.New(t.TempDir())

	m.StartOperation(ctx, 3)
	m.UpdateProgress(ctx, 1)
	m.UpdateProgress(ctx, 2)

	processed, total := m.Progress()
	assert.Equal(t, 2, processed)
	assert.Equal(t, 3, total)

	m.FinishOperation(ctx)
}

// 🧪 TestCopyFile tests streaming copy with parent creation
func TestCopyFile(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	m := status.New(dir)

	src := filepath.Join(dir, "src.dxd")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0644))

	dst := filepath.Join(dir, "out", "nested", "dst.dxd")
	require.NoError(t, m.CopyFile(ctx, src, dst))

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))

	// No temp leftovers next to the destination.
	entries, err := os.ReadDir(filepath.Dir(dst))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

// 🧪 TestCopyFileMissingSource tests the error path
func TestCopyFileMissingSource(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	m := status.New(dir)

	err := m.CopyFile(ctx, filepath.Join(dir, "nope.dxd"), filepath.Join(dir, "dst.dxd"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening source file")
}

// 🧪 TestFormatEntry tests log line rendering
func TestFormatEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry status.Entry
		want  string
	}{
		{
			name:  "copied",
			entry: status.Entry{Source: "/src/a.dxd", Dest: "/dst/a.dxd", Outcome: status.OutcomeCopied},
			want:  "copied a.dxd",
		},
		{
			name:  "copied_renamed",
			entry: status.Entry{Source: "/src/a.dxd", Dest: "/dst/a_1.dxd", Outcome: status.OutcomeCopied, Renamed: true},
			want:  "copied a.dxd as a_1.dxd",
		},
		{
			name:  "duplicate",
			entry: status.Entry{Source: "/src/b.dxd", Outcome: status.OutcomeDuplicate, DuplicateOf: "/dst/a.dxd"},
			want:  "skipped b.dxd, duplicate content of a.dxd",
		},
		{
			name:  "existing_identical",
			entry: status.Entry{Source: "/src/c.dxd", Outcome: status.OutcomeExistingIdentical},
			want:  "skipped c.dxd, identical file already at destination",
		},
		{
			name:  "failed",
			entry: status.Entry{Source: "/src/d.dxd", Outcome: status.OutcomeFailed, Err: errors.New("permission denied")},
			want:  "failed d.dxd: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.FormatEntry(tt.entry))
		})
	}
}

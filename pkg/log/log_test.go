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

package log_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/harvest/pkg/log"
	"github.com/walteh/harvest/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🧪 TestStartRun tests the run banner
func TestStartRun(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf, zerolog.InfoLevel)

	l.StartRun(context.Background(), log.RunHeader{
		SourceRoots: []string{"/src/A", "/src/B"},
		Destination: "/dest",
		Keywords:    []string{"OF", "6.1.0"},
	})

	out := buf.String()
	assert.Contains(t, out, "/dest")
	assert.Contains(t, out, "/src/A")
	assert.Contains(t, out, "6.1.0")
}

// 🧪 TestLogEntry tests per-file outcome lines
func TestLogEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry status.Entry
		want  []string
	}{
		{
			name:  "copied",
			entry: status.Entry{Source: "/src/a.dxd", Dest: "/dest/a.dxd", Outcome: status.OutcomeCopied},
			want:  []string{"a.dxd", "copied"},
		},
		{
			name:  "duplicate",
			entry: status.Entry{Source: "/src/b.dxd", Outcome: status.OutcomeDuplicate},
			want:  []string{"b.dxd", "skipped-duplicate"},
		},
		{
			name:  "failed",
			entry: status.Entry{Source: "/src/c.dxd", Outcome: status.OutcomeFailed, Err: errors.New("boom")},
			want:  []string{"c.dxd", "failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := log.New(&buf, zerolog.InfoLevel)
			l.LogEntry(context.Background(), tt.entry)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

// 🧪 TestLogMatch tests the scan-phase match line
func TestLogMatch(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf, zerolog.InfoLevel)

	l.LogMatch(context.Background(), "/src/B/6.1.0/data.dxd", "version-in-folder", "6.1.0")
	assert.Contains(t, buf.String(), "data.dxd")
	assert.Contains(t, buf.String(), "version-in-folder")
}

// 🧪 TestContextRoundTrip tests context helpers
func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf, zerolog.InfoLevel)

	ctx := log.NewContext(context.Background(), l)
	require.Same(t, l, log.FromContext(ctx))
	assert.Nil(t, log.FromContext(context.Background()))
}

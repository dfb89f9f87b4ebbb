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

package fingerprint_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/harvest/pkg/fingerprint"
)

// 🧪 TestFile tests full-content hashing
func TestFile(t *testing.T) {
	dir := t.TempDir()

	a := filepath.Join(dir, "a.dxd")
	b := filepath.Join(dir, "sub", "b.dxd")
	c := filepath.Join(dir, "c.dxd")
	require.NoError(t, os.MkdirAll(filepath.Dir(b), 0755))
	require.NoError(t, os.WriteFile(a, []byte("same content"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("same content"), 0644))
	require.NoError(t, os.WriteFile(c, []byte("other content"), 0644))

	fpA, err := fingerprint.File(a)
	require.NoError(t, err)
	fpB, err := fingerprint.File(b)
	require.NoError(t, err)
	fpC, err := fingerprint.File(c)
	require.NoError(t, err)

	assert.Equal(t, fpA, fpB, "identical content must fingerprint equally regardless of name or location")
	assert.NotEqual(t, fpA, fpC)
	assert.Equal(t, fingerprint.Bytes([]byte("same content")), fpA)
}

// 🧪 TestFileMissing tests the error path
func TestFileMissing(t *testing.T) {
	_, err := fingerprint.File(filepath.Join(t.TempDir(), "nope.dxd"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening file for hashing")
}

// 🧪 TestSeenSetAccept tests atomic test-and-insert
func TestSeenSetAccept(t *testing.T) {
	seen := fingerprint.NewSeenSet()
	fp := fingerprint.Bytes([]byte("payload"))

	assert.True(t, seen.Accept(fp), "first sighting is accepted")
	assert.False(t, seen.Accept(fp), "second sighting is a duplicate")
	assert.Equal(t, 1, seen.Len())

	// Accepting alone records no destination; only a landed copy does.
	dest, ok := seen.Original(fp)
	require.True(t, ok)
	assert.Empty(t, dest)

	seen.MarkCopied(fp, "/dest/x.dxd")
	dest, ok = seen.Original(fp)
	require.True(t, ok)
	assert.Equal(t, "/dest/x.dxd", dest)
}

// 🧪 TestSeenSetConcurrent tests that exactly one of many racers wins
func TestSeenSetConcurrent(t *testing.T) {
	seen := fingerprint.NewSeenSet()
	fp := fingerprint.Bytes([]byte("contended"))

	const racers = 32
	var wg sync.WaitGroup
	accepted := make(chan struct{}, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if seen.Accept(fp) {
				accepted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(accepted)

	count := 0
	for range accepted {
		count++
	}
	assert.Equal(t, 1, count)
}

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

package fingerprint

import "sync"

// 💾 SeenSet tracks fingerprints accepted during a single run. It is created
// empty at run start and discarded at run end; nothing is persisted across
// runs. Safe for concurrent use.
type SeenSet struct {
	mu   sync.Mutex
	seen map[Fingerprint]string // fingerprint -> destination of the first copy
}

// 🏭 NewSeenSet creates an empty set.
func NewSeenSet() *SeenSet {
	return &SeenSet{seen: make(map[Fingerprint]string)}
}

// Accept atomically records fp and reports whether it was unseen. The first
// caller for a given fingerprint gets true; every later caller gets false,
// regardless of file name or source tree.
func (s *SeenSet) Accept(fp Fingerprint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[fp]; ok {
		return false
	}
	s.seen[fp] = ""
	return true
}

// MarkCopied records where the accepted fingerprint's file landed. Only
// called once a copy (or an existing-identical hit) has actually reached the
// destination; an accepted fingerprint whose copy later fails is never
// marked.
func (s *SeenSet) MarkCopied(fp Fingerprint, dest string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[fp] = dest
}

// Original returns the destination recorded for fp. The string is empty
// until MarkCopied has run for that fingerprint.
func (s *SeenSet) Original(fp Fingerprint) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dest, ok := s.seen[fp]
	return dest, ok
}

// Len returns the number of distinct fingerprints accepted so far.
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

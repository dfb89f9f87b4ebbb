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

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"gitlab.com/tozd/go/errors"
)

// 🔑 Fingerprint is a SHA-256 digest of a file's full byte content, hex
// encoded. Two files with equal fingerprints are treated as identical
// regardless of name or location.
type Fingerprint string

// File fingerprints the complete content of the file at path. The whole file
// is read; prefix hashing would false-positive on near-identical files that
// share a header.
func File(path string) (Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening file for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Errorf("hashing %s: %w", path, err)
	}
	return Fingerprint(hex.EncodeToString(h.Sum(nil))), nil
}

// Bytes fingerprints an in-memory byte slice.
func Bytes(content []byte) Fingerprint {
	sum := sha256.Sum256(content)
	return Fingerprint(hex.EncodeToString(sum[:]))
}

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

package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/walteh/harvest/pkg/fingerprint"
	"github.com/walteh/harvest/pkg/match"
	"gitlab.com/tozd/go/errors"
)

// maxSuffixProbes caps collision disambiguation attempts per file.
const maxSuffixProbes = 1000

// 🗺️ Plan is the resolved destination for an accepted candidate.
type Plan struct {
	Candidate       match.Candidate
	Fingerprint     fingerprint.Fingerprint
	ContextFolder   string // "" when the file sits directly under a source root
	DestPath        string
	ExistsIdentical bool // identical content already present at DestPath
	Renamed         bool // DestPath carries a _N suffix
}

// 📐 Planner resolves destination paths. The immediate parent folder of a
// candidate is replicated as one level of grouping under the destination
// root, which keeps same-named files from different origins apart without
// reproducing the full source path.
type Planner struct {
	destRoot    string
	sourceRoots map[string]struct{}
}

// 🏭 New creates a planner for destRoot. sourceRoots are the selected roots;
// files found directly under one of them get no context subfolder.
func New(destRoot string, sourceRoots []string) *Planner {
	roots := make(map[string]struct{}, len(sourceRoots))
	for _, r := range sourceRoots {
		roots[filepath.Clean(r)] = struct{}{}
	}
	return &Planner{
		destRoot:    filepath.Clean(destRoot),
		sourceRoots: roots,
	}
}

// ContextFolder returns the destination subfolder for c: its immediate parent
// folder name, or "" when the parent is one of the selected source roots.
func (p *Planner) ContextFolder(c match.Candidate) string {
	if _, ok := p.sourceRoots[filepath.Clean(c.ParentDir)]; ok {
		return ""
	}
	return c.ParentName
}

// Resolve plans the destination for c:
//
//  1. Candidate path is <destRoot>/<contextFolder?>/<name>.
//  2. Nothing there: use it as-is.
//  3. Identical file already there (by fingerprint): ExistsIdentical, no copy.
//  4. Different content there: probe <name>_1, <name>_2, ... until a free
//     slot is found.
func (p *Planner) Resolve(c match.Candidate, fp fingerprint.Fingerprint) (Plan, error) {
	pl := Plan{
		Candidate:     c,
		Fingerprint:   fp,
		ContextFolder: p.ContextFolder(c),
	}

	dir := p.destRoot
	if pl.ContextFolder != "" {
		dir = filepath.Join(p.destRoot, pl.ContextFolder)
	}
	pl.DestPath = filepath.Join(dir, c.Name)

	info, err := os.Stat(pl.DestPath)
	if os.IsNotExist(err) {
		return pl, nil
	}
	if err != nil {
		return Plan{}, errors.Errorf("checking destination %s: %w", pl.DestPath, err)
	}

	// A directory squatting on the natural path cannot be hashed; treat it
	// like a differing file and disambiguate.
	if !info.IsDir() {
		existing, err := fingerprint.File(pl.DestPath)
		if err != nil {
			return Plan{}, errors.Errorf("hashing existing destination file: %w", err)
		}
		if existing == fp {
			pl.ExistsIdentical = true
			return pl, nil
		}
	}

	base := strings.TrimSuffix(c.Name, filepath.Ext(c.Name))
	ext := filepath.Ext(c.Name)
	for i := 1; i <= maxSuffixProbes; i++ {
		probe := filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
		_, err := os.Stat(probe)
		if os.IsNotExist(err) {
			pl.DestPath = probe
			pl.Renamed = true
			return pl, nil
		}
		if err != nil {
			return Plan{}, errors.Errorf("probing destination %s: %w", probe, err)
		}
	}
	return Plan{}, errors.Errorf("no free destination name for %s after %d attempts", c.Name, maxSuffixProbes)
}

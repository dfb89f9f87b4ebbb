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

package match

import (
	"path/filepath"
	"strings"
)

// 📄 Candidate describes an on-disk file under consideration.
type Candidate struct {
	Path       string // full path
	Name       string // base name
	ParentDir  string // path of the containing directory
	ParentName string // base name of the containing directory
	Ext        string // extension, lowercased, leading dot included
}

// 🏭 NewCandidate builds a Candidate from a file path.
func NewCandidate(path string) Candidate {
	dir := filepath.Dir(path)
	return Candidate{
		Path:       path,
		Name:       filepath.Base(path),
		ParentDir:  dir,
		ParentName: filepath.Base(dir),
		Ext:        strings.ToLower(filepath.Ext(path)),
	}
}

// 🎯 Rule identifies which rule accepted a candidate.
type Rule int

const (
	RuleNone          Rule = iota
	RuleLiteral            // literal keyword in the file name (spreadsheet rule)
	RuleVersionName        // versioned keyword in the file name
	RuleVersionFolder      // versioned keyword in the parent folder name
)

// String returns a string representation of Rule.
func (r Rule) String() string {
	switch r {
	case RuleLiteral:
		return "literal"
	case RuleVersionName:
		return "version-in-name"
	case RuleVersionFolder:
		return "version-in-folder"
	default:
		return "none"
	}
}

// ⚖️ Decision is the outcome of classifying a candidate. Keyword names the
// keyword responsible for acceptance, for logging.
type Decision struct {
	Accepted bool
	Rule     Rule
	Keyword  string
}

// 🔍 Matcher classifies candidates against a keyword set and a target
// extension set.
type Matcher struct {
	keywords       *KeywordSet
	extensions     map[string]struct{}
	spreadsheetExt string
}

// 🏭 NewMatcher creates a matcher. Extensions are compared case-insensitively;
// spreadsheetExt names the extension whose files are matched by literal
// keywords in addition to the versioned rule.
func NewMatcher(keywords *KeywordSet, extensions []string, spreadsheetExt string) *Matcher {
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		if n := NormalizeExt(e); n != "" {
			exts[n] = struct{}{}
		}
	}
	return &Matcher{
		keywords:       keywords,
		extensions:     exts,
		spreadsheetExt: NormalizeExt(spreadsheetExt),
	}
}

// NormalizeExt lowercases an extension and ensures a leading dot.
func NormalizeExt(e string) string {
	e = strings.ToLower(strings.TrimSpace(e))
	if e != "" && !strings.HasPrefix(e, ".") {
		e = "." + e
	}
	return e
}

// TargetExtension reports whether ext belongs to the target extension set.
func (m *Matcher) TargetExtension(ext string) bool {
	_, ok := m.extensions[NormalizeExt(ext)]
	return ok
}

// Classify applies the match rules in order, first true rule wins:
//
//  1. Extension outside the target set: reject.
//  2. Spreadsheet extension: accept iff the file name contains a literal
//     keyword. Versioned keywords never satisfy this branch.
//  3. Any target extension: accept iff the file name or the immediate parent
//     folder name contains a version-shaped substring that equals one of the
//     configured versioned keywords exactly.
//  4. Otherwise reject.
//
// A candidate satisfying both rule 2 and rule 3 is accepted once; the literal
// reason is the one reported.
func (m *Matcher) Classify(c Candidate) Decision {
	if !m.TargetExtension(c.Ext) {
		return Decision{}
	}
	if c.Ext == m.spreadsheetExt {
		if kw, ok := m.keywords.FirstLiteral(c.Name); ok {
			return Decision{Accepted: true, Rule: RuleLiteral, Keyword: kw}
		}
	}
	if v, ok := m.keywords.FirstVersionIn(c.Name); ok {
		return Decision{Accepted: true, Rule: RuleVersionName, Keyword: v}
	}
	if v, ok := m.keywords.FirstVersionIn(c.ParentName); ok {
		return Decision{Accepted: true, Rule: RuleVersionFolder, Keyword: v}
	}
	return Decision{}
}

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
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔢 DefaultVersionPattern matches three dot-separated digit groups, e.g. "6.1.0".
const DefaultVersionPattern = `\d+\.\d+\.\d+`

// Fold normalizes a string for keyword comparison: lowercased, with dotless ı
// folded to i so Turkish file names compare predictably.
func Fold(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "ı", "i")
}

// 📚 KeywordSet partitions configured keywords into literal substrings and
// versioned (dotted-number) keywords. Classification happens once at
// construction and depends only on the version pattern: a keyword that
// matches the pattern in full is always versioned, never literal.
type KeywordSet struct {
	literals  []string            // folded, in registration order
	versioned map[string]struct{} // exact match required
	classify  *regexp.Regexp      // anchored, for classifying keywords
	search    *regexp.Regexp      // unanchored, for scanning names
}

// 🏭 NewKeywordSet classifies keywords using DefaultVersionPattern.
func NewKeywordSet(keywords []string) (*KeywordSet, error) {
	return NewKeywordSetPattern(keywords, DefaultVersionPattern)
}

// 🏭 NewKeywordSetPattern classifies keywords using a custom version pattern.
// Blank keywords are dropped. A malformed pattern is a configuration error.
func NewKeywordSetPattern(keywords []string, pattern string) (*KeywordSet, error) {
	if pattern == "" {
		pattern = DefaultVersionPattern
	}
	search, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Errorf("compiling version pattern %q: %w", pattern, err)
	}
	classify, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, errors.Errorf("anchoring version pattern %q: %w", pattern, err)
	}

	ks := &KeywordSet{
		versioned: make(map[string]struct{}),
		classify:  classify,
		search:    search,
	}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if classify.MatchString(kw) {
			ks.versioned[kw] = struct{}{}
		} else {
			ks.literals = append(ks.literals, Fold(kw))
		}
	}
	return ks, nil
}

// Empty reports whether no usable keywords were configured. An empty set
// matches nothing; it is not an error.
func (ks *KeywordSet) Empty() bool {
	return len(ks.literals) == 0 && len(ks.versioned) == 0
}

// Literals returns the folded literal keywords in registration order.
func (ks *KeywordSet) Literals() []string {
	out := make([]string, len(ks.literals))
	copy(out, ks.literals)
	return out
}

// Versioned returns the configured versioned keywords.
func (ks *KeywordSet) Versioned() []string {
	out := make([]string, 0, len(ks.versioned))
	for v := range ks.versioned {
		out = append(out, v)
	}
	return out
}

// IsVersioned reports whether v is one of the configured versioned keywords.
func (ks *KeywordSet) IsVersioned(v string) bool {
	_, ok := ks.versioned[v]
	return ok
}

// FirstLiteral returns the first configured literal keyword contained in the
// folded name.
func (ks *KeywordSet) FirstLiteral(name string) (string, bool) {
	folded := Fold(name)
	for _, kw := range ks.literals {
		if strings.Contains(folded, kw) {
			return kw, true
		}
	}
	return "", false
}

// FirstVersionIn scans s for version-shaped substrings and returns the first
// one that equals a configured versioned keyword exactly. Substrings that are
// merely pattern-shaped do not match.
func (ks *KeywordSet) FirstVersionIn(s string) (string, bool) {
	if len(ks.versioned) == 0 {
		return "", false
	}
	for _, m := range ks.search.FindAllString(s, -1) {
		if _, ok := ks.versioned[m]; ok {
			return m, true
		}
	}
	return "", false
}

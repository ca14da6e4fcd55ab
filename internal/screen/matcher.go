// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/data-community-of-practice/litscreen/pkg/types"
)

// matcher holds one compiled term set. Categories are kept in sorted
// label order so matched-term reporting is deterministic.
type matcher struct {
	categories []category
}

type category struct {
	label    string
	patterns []*regexp.Regexp
}

// categoryMatch reports one category whose patterns fired, with every
// field where they did, in title, abstract, keywords priority order.
type categoryMatch struct {
	label     string
	locations []types.MatchLocation
}

// compileTerms builds a matcher from a term set. Every pattern is
// case-insensitive and word-boundary anchored: a bare term like "icd"
// will not fire inside "icdar". Patterns that already carry \b are
// compiled as written.
func compileTerms(ts types.TermSet) (*matcher, error) {
	labels := make([]string, 0, len(ts))
	for label := range ts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	m := &matcher{}
	for _, label := range labels {
		c := category{label: label}
		for _, p := range ts[label] {
			re, err := regexp.Compile(boundaryPattern(p))
			if err != nil {
				return nil, fmt.Errorf("category %q: invalid pattern %q: %w", label, p, err)
			}
			c.patterns = append(c.patterns, re)
		}
		m.categories = append(m.categories, c)
	}
	return m, nil
}

func boundaryPattern(p string) string {
	if strings.Contains(p, `\b`) {
		return "(?i)" + p
	}
	return `(?i)\b(?:` + p + `)\b`
}

// match evaluates the term set against a work's title, abstract, and
// keywords independently. A category matches when any of its patterns
// fires in any field; all matching fields are recorded, not just the
// first. Missing fields simply cannot match.
func (m *matcher) match(w *types.UniqueWork) []categoryMatch {
	r := &w.Canonical

	var out []categoryMatch
	for _, c := range m.categories {
		var locs []types.MatchLocation
		if anyMatch(c.patterns, r.Title) {
			locs = append(locs, types.LocTitle)
		}
		if anyMatch(c.patterns, r.Abstract) {
			locs = append(locs, types.LocAbstract)
		}
		for _, kw := range r.Keywords {
			if anyMatch(c.patterns, kw) {
				locs = append(locs, types.LocKeywords)
				break
			}
		}
		if len(locs) > 0 {
			out = append(out, categoryMatch{label: c.label, locations: locs})
		}
	}
	return out
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	if text == "" {
		return false
	}
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// labelsOf extracts the category labels of matches, preserving order.
func labelsOf(matches []categoryMatch) []string {
	labels := make([]string, len(matches))
	for i, m := range matches {
		labels[i] = m.label
	}
	return labels
}

// locationsOf collects the distinct match locations across matches, in
// title, abstract, keywords priority order.
func locationsOf(matches []categoryMatch) []types.MatchLocation {
	have := make(map[types.MatchLocation]bool, 3)
	for _, m := range matches {
		for _, loc := range m.locations {
			have[loc] = true
		}
	}
	var out []types.MatchLocation
	for _, loc := range []types.MatchLocation{types.LocTitle, types.LocAbstract, types.LocKeywords} {
		if have[loc] {
			out = append(out, loc)
		}
	}
	return out
}

func locationList(locs []types.MatchLocation) string {
	if len(locs) == 0 {
		return "none"
	}
	parts := make([]string, len(locs))
	for i, loc := range locs {
		parts[i] = string(loc)
	}
	return strings.Join(parts, ", ")
}

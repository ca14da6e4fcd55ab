// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/data-community-of-practice/litscreen/internal/dedup"
	"github.com/data-community-of-practice/litscreen/pkg/types"
)

// FormatTable writes the screening report as a human-readable table.
func (r Report) FormatTable(w io.Writer) {
	fmt.Fprintf(w, "%-24s  %8s  %8s  %8s  %9s\n", "Stage", "Input", "Passed", "Excluded", "Retained")
	fmt.Fprintln(w, strings.Repeat("-", 66))

	for _, s := range r.Stages {
		fmt.Fprintf(w, "%-24s  %8d  %8d  %8d  %8.1f%%\n",
			s.Stage, s.Input, s.Passed, s.Excluded, s.Retention)
	}

	fmt.Fprintln(w, strings.Repeat("-", 66))
	fmt.Fprintf(w, "%-24s  %8d\n", "identified", r.TotalInput)
	fmt.Fprintf(w, "%-24s  %8d\n", "included", r.FinalIncluded)

	for _, s := range r.Stages {
		if len(s.ByReason) == 0 {
			continue
		}
		fmt.Fprintf(w, "\nExcluded at %s:\n", s.Stage)
		for _, line := range sortedCounts(s.ByReason) {
			fmt.Fprintf(w, "  %-50s  %6d\n", line.key, line.count)
		}
	}

	if len(r.SourceOverlap) > 0 {
		fmt.Fprintln(w, "\nSource overlap:")
		for _, line := range sortedCounts(r.SourceOverlap) {
			fmt.Fprintf(w, "  %-40s  %6d works\n", line.key, line.count)
		}
	}
}

// FormatJSON writes the report as indented JSON.
func (r Report) FormatJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// FormatMergeStats writes deduplication statistics the way the merge
// command reports them.
func FormatMergeStats(s dedup.Stats, w io.Writer) {
	fmt.Fprintln(w, "Records per source:")
	for _, line := range sortedCounts(s.PerSource) {
		fmt.Fprintf(w, "  %-15s  %6d records\n", line.key, line.count)
	}

	fmt.Fprintln(w, "\nRecords per keyphrase:")
	for _, line := range sortedCounts(s.PerKeyphrase) {
		fmt.Fprintf(w, "  %-60s  %6d records\n", truncate(line.key, 60), line.count)
	}

	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "Total records:        %6d\n", s.TotalRecords)
	fmt.Fprintf(w, "  with DOI:           %6d\n", s.RecordsWithDOI)
	fmt.Fprintf(w, "  without DOI:        %6d\n", s.RecordsWithoutDOI)
	fmt.Fprintf(w, "Duplicates removed:   %6d\n", s.DuplicatesRemoved)
	fmt.Fprintf(w, "Unique works:         %6d\n", s.UniqueWorks)
	if s.TotalRecords > 0 {
		fmt.Fprintf(w, "Deduplication rate:   %5.1f%%\n",
			float64(s.DuplicatesRemoved)/float64(s.TotalRecords)*100)
	}
}

// FormatDuplicates writes the cross-source duplicate analysis: overlap
// histograms plus a sample of merged works.
func FormatDuplicates(works []types.UniqueWork, sampleLimit int, w io.Writer) {
	fmt.Fprintln(w, "Source overlap:")
	for _, line := range sortedCounts(SourceOverlap(works)) {
		fmt.Fprintf(w, "  %-40s  %6d works\n", line.key, line.count)
	}

	if overlap := KeyphraseOverlap(works); len(overlap) > 0 {
		fmt.Fprintln(w, "\nKeyphrase overlap:")
		for _, line := range sortedCounts(overlap) {
			fmt.Fprintf(w, "  %-60s  %6d works\n", truncate(line.key, 60), line.count)
		}
	}

	var shown int
	for i := range works {
		if works[i].DuplicateCount < 2 {
			continue
		}
		if shown == 0 {
			fmt.Fprintln(w, "\nSample duplicates:")
		}
		if shown >= sampleLimit {
			break
		}
		shown++
		fmt.Fprintf(w, "  %d. %s\n", shown, truncate(works[i].Canonical.Title, 70))
		fmt.Fprintf(w, "     DOI: %s  (seen %d times", dedup.NormalizeDOI(works[i].Canonical.DOI), works[i].DuplicateCount)
		names := make([]string, len(works[i].Sources))
		for j, s := range works[i].Sources {
			names[j] = string(s)
		}
		fmt.Fprintf(w, " in %s)\n", strings.Join(names, ", "))
	}
}

type countLine struct {
	key   string
	count int
}

// sortedCounts orders a histogram by descending count, then key, so
// output is stable.
func sortedCounts(m map[string]int) []countLine {
	lines := make([]countLine, 0, len(m))
	for k, v := range m {
		lines = append(lines, countLine{k, v})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].count != lines[j].count {
			return lines[i].count > lines[j].count
		}
		return lines[i].key < lines[j].key
	})
	return lines
}

// truncate caps s at max runes so multi-byte titles never get split
// mid-rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

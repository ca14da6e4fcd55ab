// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report aggregates screening and merge results into the
// counts a PRISMA flow diagram needs. It is read-only over the data it
// summarizes. Implements: prd004-report (R1-R4).
package report

import (
	"sort"
	"strings"

	"github.com/data-community-of-practice/litscreen/internal/screen"
	"github.com/data-community-of-practice/litscreen/pkg/types"
)

// StageStats summarizes one stage of a run.
type StageStats struct {
	Stage     string         `json:"stage" yaml:"stage"`
	Input     int            `json:"input" yaml:"input"`
	Passed    int            `json:"passed" yaml:"passed"`
	Excluded  int            `json:"excluded" yaml:"excluded"`
	Retention float64        `json:"retention_pct" yaml:"retention_pct"`
	ByReason  map[string]int `json:"excluded_by_reason" yaml:"excluded_by_reason"`
}

// Report is the derived summary of a full screening run.
type Report struct {
	TotalInput    int            `json:"total_input" yaml:"total_input"`
	FinalIncluded int            `json:"final_included" yaml:"final_included"`
	Stages        []StageStats   `json:"stages" yaml:"stages"`
	SourceOverlap map[string]int `json:"source_overlap" yaml:"source_overlap"`
	PerKeyphrase  map[string]int `json:"per_keyphrase" yaml:"per_keyphrase"`
}

// Build derives a report from a run's audit trail and the works that
// entered the pipeline.
func Build(works []types.UniqueWork, result screen.RunResult) Report {
	r := Report{
		FinalIncluded: len(result.Included),
		SourceOverlap: SourceOverlap(works),
		PerKeyphrase:  keyphraseCounts(works),
	}
	if len(result.Stages) > 0 {
		r.TotalInput = result.Stages[0].Input
	}

	for _, sr := range result.Stages {
		stats := StageStats{
			Stage:    sr.Stage,
			Input:    sr.Input,
			Passed:   len(sr.Passed),
			Excluded: len(sr.Excluded),
			ByReason: make(map[string]int),
		}
		if sr.Input > 0 {
			stats.Retention = float64(len(sr.Passed)) / float64(sr.Input) * 100
		}
		for _, ex := range sr.Excluded {
			stats.ByReason[reasonKey(ex.Decision.Reason)]++
		}
		r.Stages = append(r.Stages, stats)
	}
	return r
}

// reasonKey strips the variable parenthetical detail from a decision
// reason, leaving the stable rule text for grouping.
func reasonKey(reason string) string {
	if i := strings.Index(reason, " ("); i > 0 {
		return reason[:i]
	}
	return reason
}

// SourceOverlap counts works per distinct combination of contributing
// sources, keyed like "acm & pubmed".
func SourceOverlap(works []types.UniqueWork) map[string]int {
	overlap := make(map[string]int)
	for i := range works {
		names := make([]string, len(works[i].Sources))
		for j, s := range works[i].Sources {
			names[j] = string(s)
		}
		sort.Strings(names)
		overlap[strings.Join(names, " & ")]++
	}
	return overlap
}

// KeyphraseOverlap counts duplicated works per combination of
// contributing keyphrases. Works retrieved by a single keyphrase are
// skipped; the interesting signal is queries that find the same paper.
func KeyphraseOverlap(works []types.UniqueWork) map[string]int {
	overlap := make(map[string]int)
	for i := range works {
		if len(works[i].Keyphrases) < 2 {
			continue
		}
		phrases := append([]string(nil), works[i].Keyphrases...)
		sort.Strings(phrases)
		key := strings.Join(phrases[:min(3, len(phrases))], " & ")
		overlap[key]++
	}
	return overlap
}

func keyphraseCounts(works []types.UniqueWork) map[string]int {
	counts := make(map[string]int)
	for i := range works {
		for _, k := range works[i].Keyphrases {
			counts[k]++
		}
	}
	return counts
}

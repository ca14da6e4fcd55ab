// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup merges records harvested from multiple sources and
// search keyphrases into a single set of unique works, keyed by
// normalized DOI. Implements: prd002-dedup (R1-R3).
package dedup

import (
	"fmt"

	"github.com/data-community-of-practice/litscreen/pkg/types"
)

// Merge collapses records into unique works in one sequential pass.
// The input order is a contract: it decides which record becomes the
// canonical one for a work (first seen wins), so callers must
// enumerate sources, then keyphrases, then within-file order
// deterministically. Records whose DOI normalizes to "" are never
// merged; each becomes its own singleton work. The identifier index
// is local to the call, so repeated runs never share state.
//
// The sum of DuplicateCount over the output always equals len(records).
func Merge(records []types.Record) []types.UniqueWork {
	byDOI := make(map[string]int) // normalized DOI → index in works
	works := make([]types.UniqueWork, 0, len(records))

	for _, r := range records {
		doi := NormalizeDOI(r.DOI)
		if doi == "" {
			works = append(works, newWork(r, false))
			continue
		}

		idx, ok := byDOI[doi]
		if !ok {
			byDOI[doi] = len(works)
			works = append(works, newWork(r, true))
			continue
		}

		w := &works[idx]
		w.DuplicateCount++
		if !w.HasSource(r.Source) {
			w.Sources = append(w.Sources, r.Source)
		}
		if !w.HasKeyphrase(r.Keyphrase) {
			w.Keyphrases = append(w.Keyphrases, r.Keyphrase)
		}
	}

	return works
}

func newWork(r types.Record, hasDOI bool) types.UniqueWork {
	return types.UniqueWork{
		Canonical:      r,
		Sources:        []types.Source{r.Source},
		Keyphrases:     []string{r.Keyphrase},
		DuplicateCount: 1,
		HasDOI:         hasDOI,
	}
}

// ValidateRecords reports records that violate the ingestion contract.
// An empty title would corrupt every downstream report, so it is
// surfaced as an error rather than silently dropped.
// Per prd001-ingest R3.2.
func ValidateRecords(records []types.Record) error {
	for i, r := range records {
		if r.Title == "" {
			return fmt.Errorf("record %d (source %s, keyphrase %q) has an empty title", i+1, r.Source, r.Keyphrase)
		}
	}
	return nil
}

// Stats summarizes one merge pass for reporting.
type Stats struct {
	TotalRecords      int            `json:"total_records" yaml:"total_records"`
	RecordsWithDOI    int            `json:"records_with_doi" yaml:"records_with_doi"`
	RecordsWithoutDOI int            `json:"records_without_doi" yaml:"records_without_doi"`
	DuplicatesRemoved int            `json:"duplicates_removed" yaml:"duplicates_removed"`
	UniqueWorks       int            `json:"unique_works" yaml:"unique_works"`
	PerSource         map[string]int `json:"per_source" yaml:"per_source"`
	PerKeyphrase      map[string]int `json:"per_keyphrase" yaml:"per_keyphrase"`
}

// Summarize derives merge statistics from the input records and the
// merged works. It is read-only over both.
func Summarize(records []types.Record, works []types.UniqueWork) Stats {
	s := Stats{
		TotalRecords: len(records),
		UniqueWorks:  len(works),
		PerSource:    make(map[string]int),
		PerKeyphrase: make(map[string]int),
	}
	for _, r := range records {
		s.PerSource[string(r.Source)]++
		s.PerKeyphrase[r.Keyphrase]++
		if NormalizeDOI(r.DOI) != "" {
			s.RecordsWithDOI++
		} else {
			s.RecordsWithoutDOI++
		}
	}
	s.DuplicatesRemoved = len(records) - len(works)
	return s
}

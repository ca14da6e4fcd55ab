// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes screening results for downstream tools:
// decision-annotated CSV for spreadsheet review, CSL-YAML for
// reference managers. Implements: prd005-export (R1-R3).
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/data-community-of-practice/litscreen/pkg/types"
)

var csvHeader = []string{
	"Decision", "Stage", "Matched Terms", "Match Location", "Reason",
	"Title", "Authors", "Year", "Venue", "Type", "DOI",
	"Sources", "Keyphrases", "Duplicate Count", "Abstract", "Keywords",
}

// WriteCSV writes included works followed by excluded ones, each row
// carrying its screening decision. Included rows have a PASS decision
// with no stage detail; excluded rows carry the stage that removed
// them.
func WriteCSV(w io.Writer, included []types.UniqueWork, excluded []types.Excluded) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i := range included {
		row := workRow(&included[i], types.FilterDecision{
			Verdict: types.VerdictPass,
			Reason:  "passed all stages",
		})
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	for i := range excluded {
		row := workRow(&excluded[i].Work, excluded[i].Decision)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func workRow(w *types.UniqueWork, d types.FilterDecision) []string {
	r := &w.Canonical

	year := ""
	if r.Year != 0 {
		year = fmt.Sprintf("%d", r.Year)
	}
	locs := make([]string, len(d.Locations))
	for i, l := range d.Locations {
		locs[i] = string(l)
	}
	sources := make([]string, len(w.Sources))
	for i, s := range w.Sources {
		sources[i] = string(s)
	}

	return []string{
		string(d.Verdict),
		d.Stage,
		strings.Join(d.MatchedTerms, "; "),
		strings.Join(locs, "; "),
		d.Reason,
		r.Title,
		strings.Join(r.Authors, "; "),
		year,
		r.Venue,
		string(r.Type),
		r.DOI,
		strings.Join(sources, "; "),
		strings.Join(w.Keyphrases, "; "),
		fmt.Sprintf("%d", w.DuplicateCount),
		r.Abstract,
		strings.Join(r.Keywords, "; "),
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/data-community-of-practice/litscreen/pkg/types"
)

// reverse of risTypes; PubOther has no RIS tag and is written as GEN.
var pubToRIS = map[types.PubType]string{
	types.PubJournalArticle:  "JOUR",
	types.PubConferencePaper: "CONF",
	types.PubBook:            "BOOK",
	types.PubBookChapter:     "CHAP",
	types.PubOther:           "GEN",
}

// WriteRIS writes the canonical record of each work as a RIS entry,
// suitable for import into a reference manager.
func WriteRIS(w io.Writer, works []types.UniqueWork) error {
	for i := range works {
		if err := writeEntry(w, &works[i].Canonical, nil); err != nil {
			return err
		}
	}
	return nil
}

// WriteRISExcluded writes excluded works with N1 notes carrying the
// screening decision, so the archived file explains itself.
func WriteRISExcluded(w io.Writer, excluded []types.Excluded) error {
	for i := range excluded {
		d := &excluded[i].Decision
		notes := []string{
			fmt.Sprintf("[screen] stage: %s | verdict: %s", d.Stage, d.Verdict),
			fmt.Sprintf("[screen] reason: %s", d.Reason),
		}
		if len(d.MatchedTerms) > 0 {
			notes = append(notes, fmt.Sprintf("[screen] matched: %s", strings.Join(d.MatchedTerms, "; ")))
		}
		if err := writeEntry(w, &excluded[i].Work.Canonical, notes); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(w io.Writer, r *types.Record, notes []string) error {
	write := func(tag, value string) error {
		if value == "" {
			return nil
		}
		_, err := fmt.Fprintf(w, "%s%s%s\n", tag, tagSep, value)
		return err
	}

	if err := write("TY", pubToRIS[r.Type]); err != nil {
		return err
	}
	if err := write("TI", r.Title); err != nil {
		return err
	}
	for _, au := range r.Authors {
		if err := write("AU", au); err != nil {
			return err
		}
	}
	if r.Year != 0 {
		if err := write("PY", fmt.Sprintf("%d", r.Year)); err != nil {
			return err
		}
	}
	if err := write("T2", r.Venue); err != nil {
		return err
	}
	if err := write("AB", r.Abstract); err != nil {
		return err
	}
	for _, kw := range r.Keywords {
		if err := write("KW", kw); err != nil {
			return err
		}
	}
	if err := write("DO", r.DOI); err != nil {
		return err
	}
	for _, note := range notes {
		if err := write("N1", note); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "ER%s\n\n", tagSep)
	return err
}

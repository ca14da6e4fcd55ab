// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/data-community-of-practice/litscreen/internal/dedup"
	"github.com/data-community-of-practice/litscreen/pkg/types"
)

const sampleRIS = `TY  - JOUR
TI  - Automated ICD-10 coding using deep learning
AU  - Chen, Wei
AU  - Okafor, Adaeze
PY  - 2021///
T2  - Journal of Biomedical Informatics
AB  - We train a transformer to assign ICD codes
  to discharge summaries.
KW  - ICD coding
KW  - deep learning
DO  - https://doi.org/10.1016/j.jbi.2021.103728
ER  -

TY  - CONF
TI  - Label attention for medical code prediction
PY  - 2020
DO  - 10.18653/v1/2020.acl-main.282
ER  -
`

// --- parsing ---

func TestParseRIS(t *testing.T) {
	records, dropped, err := ParseRIS(strings.NewReader(sampleRIS), types.SourcePubMed, "icd_coding")
	if err != nil {
		t.Fatal(err)
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	r := records[0]
	if r.Title != "Automated ICD-10 coding using deep learning" {
		t.Errorf("Title = %q", r.Title)
	}
	if len(r.Authors) != 2 || r.Authors[0] != "Chen, Wei" {
		t.Errorf("Authors = %v", r.Authors)
	}
	if r.Year != 2021 {
		t.Errorf("Year = %d, want 2021", r.Year)
	}
	if r.Type != types.PubJournalArticle {
		t.Errorf("Type = %s, want JOUR", r.Type)
	}
	if r.Venue != "Journal of Biomedical Informatics" {
		t.Errorf("Venue = %q", r.Venue)
	}
	if want := "We train a transformer to assign ICD codes to discharge summaries."; r.Abstract != want {
		t.Errorf("Abstract = %q, want continuation folded in", r.Abstract)
	}
	if len(r.Keywords) != 2 {
		t.Errorf("Keywords = %v", r.Keywords)
	}
	if r.DOI != "https://doi.org/10.1016/j.jbi.2021.103728" {
		t.Errorf("DOI = %q, want the raw value preserved", r.DOI)
	}
	if r.Source != types.SourcePubMed || r.Keyphrase != "icd_coding" {
		t.Errorf("provenance = %s/%q", r.Source, r.Keyphrase)
	}

	if records[1].Type != types.PubConferencePaper {
		t.Errorf("records[1].Type = %s, want CONF", records[1].Type)
	}
	if records[1].Year != 2020 {
		t.Errorf("records[1].Year = %d, want 2020", records[1].Year)
	}
}

func TestParseRISDropsTitleless(t *testing.T) {
	in := "TY  - JOUR\nAU  - Nobody\nER  - \n\nTY  - JOUR\nTI  - Kept\nER  - \n"
	records, dropped, err := ParseRIS(strings.NewReader(in), types.SourceACM, "k")
	if err != nil {
		t.Fatal(err)
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if len(records) != 1 || records[0].Title != "Kept" {
		t.Errorf("records = %v", records)
	}
}

func TestParseRISUnknownType(t *testing.T) {
	in := "TY  - THES\nTI  - A thesis\nER  - \n"
	records, _, err := ParseRIS(strings.NewReader(in), types.SourceACM, "k")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Type != types.PubOther {
		t.Errorf("unknown TY should map to OTHER, got %v", records)
	}
}

func TestParseRISMissingTerminator(t *testing.T) {
	in := "TY  - JOUR\nTI  - No terminator\n"
	records, _, err := ParseRIS(strings.NewReader(in), types.SourceACM, "k")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Title != "No terminator" {
		t.Errorf("trailing record without ER should flush, got %v", records)
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		py   string
		want int
	}{
		{"2020", 2020},
		{"2020///", 2020},
		{"2020/06/15", 2020},
		{" 2019 ", 2019},
		{"", 0},
		{"n.d.", 0},
		{"85", 0},
	}
	for _, tt := range tests {
		if got := parseYear(tt.py); got != tt.want {
			t.Errorf("parseYear(%q) = %d, want %d", tt.py, got, tt.want)
		}
	}
}

// --- provenance helpers ---

func TestKeyphrase(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"icd_coding_acm.ris", "icd_coding"},
		{"clinical_nlp_pubmed.ris", "clinical_nlp"},
		{"icd-10_ALL_articles.ris", "icd-10"},
		{"medical_coding_part1.ris", "medical_coding"},
		{"medical_coding_part2.ris", "medical_coding"},
		{"plain.ris", "plain"},
		{"acm_output/icd_coding_acm.ris", "icd_coding"},
	}
	for _, tt := range tests {
		if got := Keyphrase(tt.file); got != tt.want {
			t.Errorf("Keyphrase(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func TestSourceForDir(t *testing.T) {
	tests := []struct {
		dir  string
		want types.Source
	}{
		{"acm_output", types.SourceACM},
		{"pubmed_output", types.SourcePubMed},
		{"harvest/scopus_output/", types.SourceScopus},
		{"pubmed", types.SourcePubMed},
	}
	for _, tt := range tests {
		got, err := SourceForDir(tt.dir)
		if err != nil {
			t.Errorf("SourceForDir(%q) error: %v", tt.dir, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SourceForDir(%q) = %s, want %s", tt.dir, got, tt.want)
		}
	}

	if _, err := SourceForDir("wos_output"); err == nil {
		t.Error("SourceForDir(wos_output) = nil error, want unknown source")
	}
}

func TestReadDirsOrder(t *testing.T) {
	tmp := t.TempDir()
	acm := filepath.Join(tmp, "acm_output")
	pubmed := filepath.Join(tmp, "pubmed_output")
	for _, dir := range []string{acm, pubmed} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	writeRIS := func(dir, name, title string) {
		t.Helper()
		content := "TY  - JOUR\nTI  - " + title + "\nER  - \n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeRIS(acm, "b_phrase_acm.ris", "ACM B")
	writeRIS(acm, "a_phrase_acm.ris", "ACM A")
	writeRIS(pubmed, "a_phrase_pubmed.ris", "PubMed A")

	var log bytes.Buffer
	records, err := ReadDirs([]string{pubmed, acm}, &log)
	if err != nil {
		t.Fatal(err)
	}

	// Directory argument order first, then sorted file order within.
	wantTitles := []string{"PubMed A", "ACM A", "ACM B"}
	if len(records) != len(wantTitles) {
		t.Fatalf("len(records) = %d, want %d", len(records), len(wantTitles))
	}
	for i, want := range wantTitles {
		if records[i].Title != want {
			t.Errorf("records[%d].Title = %q, want %q", i, records[i].Title, want)
		}
	}
	if records[0].Source != types.SourcePubMed || records[1].Source != types.SourceACM {
		t.Errorf("sources = %s, %s", records[0].Source, records[1].Source)
	}
	if records[1].Keyphrase != "a_phrase" {
		t.Errorf("Keyphrase = %q, want a_phrase", records[1].Keyphrase)
	}
}

// --- writing ---

func TestWriteRISRoundTrip(t *testing.T) {
	works := []types.UniqueWork{
		{
			Canonical: types.Record{
				Title:    "Automated ICD coding",
				Authors:  []string{"Chen, Wei"},
				Abstract: "A study of code assignment.",
				Keywords: []string{"ICD", "NLP"},
				Year:     2021,
				Type:     types.PubJournalArticle,
				Venue:    "JBI",
				DOI:      "10.1016/x",
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteRIS(&buf, works); err != nil {
		t.Fatal(err)
	}

	records, dropped, err := ParseRIS(&buf, types.SourceACM, "k")
	if err != nil {
		t.Fatal(err)
	}
	if dropped != 0 || len(records) != 1 {
		t.Fatalf("round trip: %d records, %d dropped", len(records), dropped)
	}

	got, want := records[0], works[0].Canonical
	if got.Title != want.Title || got.Abstract != want.Abstract ||
		got.Year != want.Year || got.Type != want.Type ||
		got.Venue != want.Venue || got.DOI != want.DOI {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if len(got.Keywords) != 2 || len(got.Authors) != 1 {
		t.Errorf("round trip lists: %v / %v", got.Keywords, got.Authors)
	}
}

func TestWriteRISExcludedNotes(t *testing.T) {
	excluded := []types.Excluded{
		{
			Work: types.UniqueWork{Canonical: types.Record{
				Title: "Defibrillator outcomes",
				Type:  types.PubJournalArticle,
			}},
			Decision: types.FilterDecision{
				Stage:        "non-medical-icd",
				Verdict:      types.VerdictExclude,
				MatchedTerms: []string{"Cardiac Device"},
				Reason:       "contains disallowed terms (Cardiac Device in title)",
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteRISExcluded(&buf, excluded); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"N1  - [screen] stage: non-medical-icd | verdict: EXCLUDE",
		"N1  - [screen] reason: contains disallowed terms (Cardiac Device in title)",
		"N1  - [screen] matched: Cardiac Device",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// --- works file ---

func dedupStats() dedup.Stats {
	return dedup.Stats{
		TotalRecords:      3,
		RecordsWithDOI:    3,
		DuplicatesRemoved: 2,
		UniqueWorks:       1,
		PerSource:         map[string]int{"acm": 1, "pubmed": 2},
		PerKeyphrase:      map[string]int{"k1": 2, "k2": 1},
	}
}

func TestWorksFileRoundTrip(t *testing.T) {
	works := []types.UniqueWork{
		{
			Canonical: types.Record{
				Title:     "A",
				Year:      2020,
				Type:      types.PubJournalArticle,
				DOI:       "10.1/a",
				Source:    types.SourceACM,
				Keyphrase: "k1",
			},
			Sources:        []types.Source{types.SourceACM, types.SourcePubMed},
			Keyphrases:     []string{"k1", "k2"},
			DuplicateCount: 3,
			HasDOI:         true,
		},
	}

	path := filepath.Join(t.TempDir(), "works.yaml")
	if err := WriteWorksFile(path, works, dedupStats()); err != nil {
		t.Fatal(err)
	}

	wf, err := ReadWorksFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if wf.Stats.TotalRecords != 3 || wf.Stats.UniqueWorks != 1 {
		t.Errorf("stats = %+v", wf.Stats)
	}
	if len(wf.Works) != 1 {
		t.Fatalf("works = %d, want 1", len(wf.Works))
	}

	w := wf.Works[0]
	if w.Canonical.Title != "A" || w.DuplicateCount != 3 || !w.HasDOI {
		t.Errorf("work = %+v", w)
	}
	if len(w.Sources) != 2 || w.Sources[1] != types.SourcePubMed {
		t.Errorf("Sources = %v", w.Sources)
	}
}

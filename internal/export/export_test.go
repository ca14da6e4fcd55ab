// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/data-community-of-practice/litscreen/pkg/types"
)

func sampleWork() types.UniqueWork {
	return types.UniqueWork{
		Canonical: types.Record{
			Title:    "Automated ICD coding",
			Authors:  []string{"Chen, Wei", "Adaeze Okafor"},
			Abstract: "A study.",
			Keywords: []string{"ICD", "NLP"},
			Year:     2021,
			Type:     types.PubJournalArticle,
			Venue:    "JBI",
			DOI:      "https://doi.org/10.1016/X",
		},
		Sources:        []types.Source{types.SourceACM, types.SourcePubMed},
		Keyphrases:     []string{"icd_coding"},
		DuplicateCount: 2,
		HasDOI:         true,
	}
}

// --- CSV ---

func TestWriteCSV(t *testing.T) {
	included := []types.UniqueWork{sampleWork()}
	excluded := []types.Excluded{
		{
			Work: types.UniqueWork{
				Canonical:      types.Record{Title: "Defibrillator outcomes", Year: 2020, Type: types.PubJournalArticle},
				Sources:        []types.Source{types.SourceScopus},
				DuplicateCount: 1,
			},
			Decision: types.FilterDecision{
				Stage:        "non-medical-icd",
				Verdict:      types.VerdictExclude,
				MatchedTerms: []string{"Cardiac Device"},
				Locations:    []types.MatchLocation{types.LocTitle},
				Reason:       "contains disallowed terms (Cardiac Device in title)",
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, included, excluded); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if len(rows[0]) != len(csvHeader) {
		t.Fatalf("header columns = %d, want %d", len(rows[0]), len(csvHeader))
	}

	inc := rows[1]
	if inc[0] != "PASS" || inc[1] != "" || inc[4] != "passed all stages" {
		t.Errorf("included decision columns = %v", inc[:5])
	}
	if inc[5] != "Automated ICD coding" || inc[7] != "2021" {
		t.Errorf("included work columns = %v", inc[5:8])
	}
	if inc[11] != "acm; pubmed" || inc[13] != "2" {
		t.Errorf("included provenance columns = %q, %q", inc[11], inc[13])
	}

	exc := rows[2]
	if exc[0] != "EXCLUDE" || exc[1] != "non-medical-icd" {
		t.Errorf("excluded decision columns = %v", exc[:2])
	}
	if exc[2] != "Cardiac Device" || exc[3] != "title" {
		t.Errorf("excluded match columns = %q, %q", exc[2], exc[3])
	}
}

func TestWriteCSVUnknownYearBlank(t *testing.T) {
	w := sampleWork()
	w.Canonical.Year = 0

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []types.UniqueWork{w}, nil); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if rows[1][7] != "" {
		t.Errorf("year column = %q, want empty for unknown year", rows[1][7])
	}
}

// --- CSL ---

func TestWriteCSL(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSL(&buf, []types.UniqueWork{sampleWork()}); err != nil {
		t.Fatal(err)
	}

	var items []CSLItem
	if err := yaml.Unmarshal(buf.Bytes(), &items); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}

	item := items[0]
	if item.ID != "10.1016/x" {
		t.Errorf("ID = %q, want the normalized DOI", item.ID)
	}
	if item.Type != "article-journal" {
		t.Errorf("Type = %q", item.Type)
	}
	if item.DOI != "10.1016/x" {
		t.Errorf("DOI = %q, want normalized", item.DOI)
	}
	if item.ContainerTitle != "JBI" {
		t.Errorf("ContainerTitle = %q", item.ContainerTitle)
	}
	if item.Issued == nil || len(item.Issued.DateParts) != 1 || item.Issued.DateParts[0][0] != 2021 {
		t.Errorf("Issued = %+v", item.Issued)
	}
	if len(item.Author) != 2 {
		t.Fatalf("authors = %d, want 2", len(item.Author))
	}
	if item.Author[0].Family != "Chen" || item.Author[0].Given != "Wei" {
		t.Errorf("author[0] = %+v", item.Author[0])
	}
	if item.Author[1].Family != "Okafor" || item.Author[1].Given != "Adaeze" {
		t.Errorf("author[1] = %+v", item.Author[1])
	}
}

func TestCSLIDFallsBackToTitleSlug(t *testing.T) {
	w := types.UniqueWork{Canonical: types.Record{
		Title: "A Survey of Automated Clinical Coding Systems",
		Type:  types.PubJournalArticle,
	}}
	if got := cslID(&w); got != "a-survey-of-automated-clinical" {
		t.Errorf("cslID = %q", got)
	}
}

func TestParseAuthorName(t *testing.T) {
	tests := []struct {
		name string
		want CSLName
	}{
		{"Chen, Wei", CSLName{Family: "Chen", Given: "Wei"}},
		{"Adaeze Okafor", CSLName{Family: "Okafor", Given: "Adaeze"}},
		{"Jean van der Berg", CSLName{Family: "Berg", Given: "Jean van der"}},
		{"Aristotle", CSLName{Literal: "Aristotle"}},
		{"  ", CSLName{}},
	}
	for _, tt := range tests {
		if got := parseAuthorName(tt.name); got != tt.want {
			t.Errorf("parseAuthorName(%q) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestWriteCSLUnknownTypeMapsToArticle(t *testing.T) {
	w := types.UniqueWork{Canonical: types.Record{Title: "Report", Type: types.PubOther}}

	var buf bytes.Buffer
	if err := WriteCSL(&buf, []types.UniqueWork{w}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "type: article") {
		t.Errorf("output missing type article:\n%s", buf.String())
	}
}

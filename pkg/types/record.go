// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Source identifies the bibliographic database a record was harvested from.
type Source string

const (
	SourceACM    Source = "acm"
	SourcePubMed Source = "pubmed"
	SourceScopus Source = "scopus"
)

// PubType classifies a publication. Unknown RIS types map to PubOther.
// Per prd001-ingest R2.3.
type PubType string

const (
	PubJournalArticle  PubType = "JOUR"
	PubConferencePaper PubType = "CONF"
	PubBook            PubType = "BOOK"
	PubBookChapter     PubType = "CHAP"
	PubOther           PubType = "OTHER"
)

// Record is one bibliographic work as seen from one source and search
// keyphrase. It is the unit of input to the merge pass.
// Per prd001-ingest R3.1: title, authors, abstract, keywords, year,
// type, venue, DOI, plus provenance (source, keyphrase).
type Record struct {
	// Title is the work title. Ingestion drops records without one.
	Title string `json:"title" yaml:"title"`

	// Authors lists the authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Abstract is the abstract text, empty when the source omitted it.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Keywords holds the author or indexer keywords.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Type is the publication type derived from the RIS TY tag.
	Type PubType `json:"type" yaml:"type"`

	// Venue is the journal or conference name.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// DOI is the identifier exactly as received; compare via NormalizeDOI.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Source is the database the record came from.
	Source Source `json:"source" yaml:"source"`

	// Keyphrase is the search query that retrieved the record.
	Keyphrase string `json:"keyphrase" yaml:"keyphrase"`
}

// UniqueWork is the deduplicated aggregate for one real-world publication.
// It is created and mutated only by the merge pass and read-only after.
// Per prd002-dedup R2.1-R2.4.
type UniqueWork struct {
	// Canonical is the first-seen contributing record, by ingestion order.
	Canonical Record `json:"canonical" yaml:"canonical"`

	// Sources lists the distinct sources that contributed, in first-seen order.
	Sources []Source `json:"sources" yaml:"sources"`

	// Keyphrases lists the distinct contributing keyphrases, in first-seen order.
	Keyphrases []string `json:"keyphrases" yaml:"keyphrases"`

	// DuplicateCount is the number of records merged in, canonical included.
	DuplicateCount int `json:"duplicate_count" yaml:"duplicate_count"`

	// HasDOI reports whether the work is keyed by a normalized identifier.
	// Works without one are never merged with anything.
	HasDOI bool `json:"has_doi" yaml:"has_doi"`
}

// HasSource reports whether source contributed to the work.
func (w *UniqueWork) HasSource(s Source) bool {
	for _, have := range w.Sources {
		if have == s {
			return true
		}
	}
	return false
}

// HasKeyphrase reports whether keyphrase contributed to the work.
func (w *UniqueWork) HasKeyphrase(k string) bool {
	for _, have := range w.Keyphrases {
		if have == k {
			return true
		}
	}
	return false
}

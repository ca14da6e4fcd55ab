// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/data-community-of-practice/litscreen/internal/dedup"
	"github.com/data-community-of-practice/litscreen/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style
// Language) format. Field names follow the CSL-JSON/CSL-YAML schema so
// the final corpus is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// cslTypes maps publication types to CSL item types.
var cslTypes = map[types.PubType]string{
	types.PubJournalArticle:  "article-journal",
	types.PubConferencePaper: "paper-conference",
	types.PubBook:            "book",
	types.PubBookChapter:     "chapter",
	types.PubOther:           "article",
}

// WriteCSL writes works as a CSL-YAML list to w.
func WriteCSL(w io.Writer, works []types.UniqueWork) error {
	items := make([]CSLItem, len(works))
	for i := range works {
		items[i] = toCSLItem(&works[i])
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(w *types.UniqueWork) CSLItem {
	r := &w.Canonical
	doi := dedup.NormalizeDOI(r.DOI)

	item := CSLItem{
		ID:             cslID(w),
		Type:           cslTypes[r.Type],
		Title:          r.Title,
		Abstract:       r.Abstract,
		ContainerTitle: r.Venue,
		DOI:            doi,
	}
	for _, a := range r.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	if r.Year != 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{r.Year}}}
	}
	return item
}

// cslID derives a citation key: the normalized DOI when present,
// otherwise a slug from the first words of the title.
func cslID(w *types.UniqueWork) string {
	if doi := dedup.NormalizeDOI(w.Canonical.DOI); doi != "" {
		return doi
	}
	words := strings.Fields(strings.ToLower(w.Canonical.Title))
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, "-")
}

// parseAuthorName splits a full name string into CSL family/given
// parts on the last space. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}

	// RIS author order is usually "Family, Given".
	if family, given, ok := strings.Cut(name, ", "); ok {
		return CSLName{Family: family, Given: given}
	}

	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}

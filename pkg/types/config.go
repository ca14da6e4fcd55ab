// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"regexp"
)

// TermSet maps a category label to the regular-expression patterns that
// detect it. Labels are what decisions report as matched terms; the raw
// regex source never leaves the stage. Per prd003-screen R1.2.
type TermSet map[string][]string

// StageKind selects the decision rule a stage applies.
type StageKind string

const (
	// StageYearType passes works whose year is absent or in range and
	// whose publication type is allow-listed.
	StageYearType StageKind = "year_type"

	// StageRequire passes works matching at least one required category.
	StageRequire StageKind = "require"

	// StageExclude excludes works matching any excluded category.
	StageExclude StageKind = "exclude"

	// StageScored weighs positive against negative signal categories.
	StageScored StageKind = "scored"
)

// StageConfig configures one screening stage. Which term sets are
// consulted depends on Kind; the rest are ignored.
type StageConfig struct {
	Name string    `json:"name" yaml:"name"`
	Kind StageKind `json:"kind" yaml:"kind"`

	// Required categories for StageRequire.
	Required TermSet `json:"required,omitempty" yaml:"required,omitempty"`

	// ExcludedTerms categories for StageExclude.
	ExcludedTerms TermSet `json:"excluded,omitempty" yaml:"excluded,omitempty"`

	// StrongPositive categories count double in StageScored.
	StrongPositive TermSet `json:"strong_positive,omitempty" yaml:"strong_positive,omitempty"`

	// WeakPositive categories count single in StageScored.
	WeakPositive TermSet `json:"weak_positive,omitempty" yaml:"weak_positive,omitempty"`

	// Negative categories count against a work in StageScored.
	Negative TermSet `json:"negative,omitempty" yaml:"negative,omitempty"`
}

// ScreenConfig holds the full configuration of a screening run: the
// year/type pre-filter knobs and the ordered stage list.
// Per prd003-screen R5.1-R5.4.
type ScreenConfig struct {
	// YearMin and YearMax bound the inclusive publication-year range.
	// Zero means unbounded on that side. Works without a year pass.
	YearMin int `json:"year_min" yaml:"year_min"`
	YearMax int `json:"year_max" yaml:"year_max"`

	// AllowedTypes is the publication-type allow list. Empty means the
	// default of journal articles and conference papers only.
	AllowedTypes []PubType `json:"allowed_types,omitempty" yaml:"allowed_types,omitempty"`

	// Stages run in order; order is fixed for the life of the run.
	Stages []StageConfig `json:"stages" yaml:"stages"`
}

// DefaultAllowedTypes is the type allow list used when none is configured.
var DefaultAllowedTypes = []PubType{PubJournalArticle, PubConferencePaper}

// TypeAllowed reports whether t passes the configured allow list.
func (c *ScreenConfig) TypeAllowed(t PubType) bool {
	allowed := c.AllowedTypes
	if len(allowed) == 0 {
		allowed = DefaultAllowedTypes
	}
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}

// Validate checks the configuration before any records are processed.
// A screening run must not start partially configured.
// Per prd003-screen R5.5.
func (c *ScreenConfig) Validate() error {
	if c.YearMin != 0 && c.YearMax != 0 && c.YearMin > c.YearMax {
		return fmt.Errorf("invalid year range: min %d > max %d", c.YearMin, c.YearMax)
	}
	for _, t := range c.AllowedTypes {
		switch t {
		case PubJournalArticle, PubConferencePaper, PubBook, PubBookChapter, PubOther:
		default:
			return fmt.Errorf("unknown publication type %q in allowed_types", t)
		}
	}

	if len(c.Stages) == 0 {
		return fmt.Errorf("no stages configured")
	}
	seen := make(map[string]bool, len(c.Stages))
	for i, s := range c.Stages {
		if s.Name == "" {
			return fmt.Errorf("stage %d has no name", i+1)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate stage name %q", s.Name)
		}
		seen[s.Name] = true

		if err := s.validate(); err != nil {
			return fmt.Errorf("stage %q: %w", s.Name, err)
		}
	}
	return nil
}

func (s *StageConfig) validate() error {
	switch s.Kind {
	case StageYearType:
		// No term sets; the year/type knobs live on ScreenConfig.
	case StageRequire:
		if err := validateTerms(s.Required); err != nil {
			return err
		}
		if len(s.Required) == 0 {
			return fmt.Errorf("require stage needs at least one required category")
		}
	case StageExclude:
		if err := validateTerms(s.ExcludedTerms); err != nil {
			return err
		}
		if len(s.ExcludedTerms) == 0 {
			return fmt.Errorf("exclude stage needs at least one excluded category")
		}
	case StageScored:
		for _, ts := range []TermSet{s.StrongPositive, s.WeakPositive, s.Negative} {
			if err := validateTerms(ts); err != nil {
				return err
			}
		}
		if len(s.StrongPositive)+len(s.WeakPositive) == 0 {
			return fmt.Errorf("scored stage needs at least one positive category")
		}
	default:
		return fmt.Errorf("unknown stage kind %q", s.Kind)
	}
	return nil
}

func validateTerms(ts TermSet) error {
	for label, patterns := range ts {
		if label == "" {
			return fmt.Errorf("term category with empty label")
		}
		if len(patterns) == 0 {
			return fmt.Errorf("category %q has no patterns", label)
		}
		for _, p := range patterns {
			if _, err := regexp.Compile("(?i)" + p); err != nil {
				return fmt.Errorf("category %q: invalid pattern %q: %w", label, p, err)
			}
		}
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Verdict is the outcome of one screening stage for one work.
type Verdict string

const (
	VerdictPass    Verdict = "PASS"
	VerdictExclude Verdict = "EXCLUDE"
)

// MatchLocation names the record field where a pattern fired.
type MatchLocation string

const (
	LocTitle    MatchLocation = "title"
	LocAbstract MatchLocation = "abstract"
	LocKeywords MatchLocation = "keywords"
)

// FilterDecision records why one stage passed or excluded one work.
// One decision exists per (work, stage) pair; together they form the
// audit trail of a screening run. Per prd003-screen R4.1-R4.3.
type FilterDecision struct {
	// Stage is the name of the stage that produced the decision.
	Stage string `json:"stage" yaml:"stage"`

	// Verdict is PASS or EXCLUDE.
	Verdict Verdict `json:"verdict" yaml:"verdict"`

	// MatchedTerms lists the category labels whose patterns fired,
	// in sorted label order.
	MatchedTerms []string `json:"matched_terms,omitempty" yaml:"matched_terms,omitempty"`

	// Locations lists every field where a term matched, in
	// title, abstract, keywords priority order.
	Locations []MatchLocation `json:"locations,omitempty" yaml:"locations,omitempty"`

	// Reason is a human-readable explanation, deterministic in the
	// matched terms, locations, and verdict.
	Reason string `json:"reason" yaml:"reason"`
}

// Excluded pairs a work with the decision that removed it from the run.
type Excluded struct {
	Work     UniqueWork     `json:"work" yaml:"work"`
	Decision FilterDecision `json:"decision" yaml:"decision"`
}

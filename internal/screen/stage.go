// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package screen runs the staged relevance-filtering pipeline over
// deduplicated works. Each stage partitions its input into passed and
// excluded works and leaves a decision for every work it saw.
// Implements: prd003-screen (R1-R5).
package screen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/data-community-of-practice/litscreen/pkg/types"
)

// Stage screens a batch of works. Apply partitions the input: every
// work appears in exactly one of passed or excluded, and both keep the
// input's relative order. Decisions are total; a stage never fails on
// a record.
type Stage interface {
	Name() string
	Apply(works []types.UniqueWork) (passed []types.UniqueWork, excluded []types.Excluded)
}

// NewStage builds one stage from its configuration. The year/type
// stage takes its knobs from cfg; the term stages compile their term
// sets here, once, so Apply does no configuration work.
func NewStage(sc types.StageConfig, cfg *types.ScreenConfig) (Stage, error) {
	switch sc.Kind {
	case types.StageYearType:
		return &yearTypeStage{name: sc.Name, cfg: cfg}, nil

	case types.StageRequire:
		m, err := compileTerms(sc.Required)
		if err != nil {
			return nil, err
		}
		return &requireStage{name: sc.Name, terms: m}, nil

	case types.StageExclude:
		m, err := compileTerms(sc.ExcludedTerms)
		if err != nil {
			return nil, err
		}
		return &excludeStage{name: sc.Name, terms: m}, nil

	case types.StageScored:
		strong, err := compileTerms(sc.StrongPositive)
		if err != nil {
			return nil, err
		}
		weak, err := compileTerms(sc.WeakPositive)
		if err != nil {
			return nil, err
		}
		negative, err := compileTerms(sc.Negative)
		if err != nil {
			return nil, err
		}
		return &scoredStage{name: sc.Name, strong: strong, weak: weak, negative: negative}, nil

	default:
		return nil, fmt.Errorf("unknown stage kind %q", sc.Kind)
	}
}

// --- year/type stage ---

// yearTypeStage is the degenerate pre-filter with no term sets: a work
// passes when its year is absent or inside the configured inclusive
// range and its publication type is allow-listed.
type yearTypeStage struct {
	name string
	cfg  *types.ScreenConfig
}

func (s *yearTypeStage) Name() string { return s.name }

func (s *yearTypeStage) Apply(works []types.UniqueWork) ([]types.UniqueWork, []types.Excluded) {
	return partition(s.name, works, s.decide)
}

func (s *yearTypeStage) decide(w *types.UniqueWork) types.FilterDecision {
	r := &w.Canonical

	// Reasons keep their variable detail in a trailing parenthetical so
	// the reporter can group decisions by the stable prefix.
	if r.Year != 0 {
		if s.cfg.YearMin != 0 && r.Year < s.cfg.YearMin {
			return decision(s.name, types.VerdictExclude, nil, nil,
				fmt.Sprintf("published before the year range (%d)", r.Year))
		}
		if s.cfg.YearMax != 0 && r.Year > s.cfg.YearMax {
			return decision(s.name, types.VerdictExclude, nil, nil,
				fmt.Sprintf("published after the year range (%d)", r.Year))
		}
	}

	if !s.cfg.TypeAllowed(r.Type) {
		return decision(s.name, types.VerdictExclude, nil, nil,
			fmt.Sprintf("publication type not allowed (%s)", r.Type))
	}

	return decision(s.name, types.VerdictPass, nil, nil,
		"within the year range and an allowed publication type")
}

// --- presence-inclusion stage ---

// requireStage passes a work when at least one required category
// matches the title, abstract, or keywords.
type requireStage struct {
	name  string
	terms *matcher
}

func (s *requireStage) Name() string { return s.name }

func (s *requireStage) Apply(works []types.UniqueWork) ([]types.UniqueWork, []types.Excluded) {
	return partition(s.name, works, s.decide)
}

func (s *requireStage) decide(w *types.UniqueWork) types.FilterDecision {
	matches := s.terms.match(w)
	if len(matches) == 0 {
		return decision(s.name, types.VerdictExclude, nil, nil,
			"no required terms found in title, abstract, or keywords")
	}
	labels := labelsOf(matches)
	locs := locationsOf(matches)
	return decision(s.name, types.VerdictPass, labels, locs,
		fmt.Sprintf("mentions required terms (%s in %s)", strings.Join(labels, "; "), locationList(locs)))
}

// --- presence-exclusion stage ---

// excludeStage removes a work when any excluded category matches. Its
// excluded set is the inverse of requireStage's: here a match means
// removal.
type excludeStage struct {
	name  string
	terms *matcher
}

func (s *excludeStage) Name() string { return s.name }

func (s *excludeStage) Apply(works []types.UniqueWork) ([]types.UniqueWork, []types.Excluded) {
	return partition(s.name, works, s.decide)
}

func (s *excludeStage) decide(w *types.UniqueWork) types.FilterDecision {
	matches := s.terms.match(w)
	if len(matches) == 0 {
		return decision(s.name, types.VerdictPass, nil, nil,
			"no disallowed terms present")
	}
	labels := labelsOf(matches)
	locs := locationsOf(matches)
	return decision(s.name, types.VerdictExclude, labels, locs,
		fmt.Sprintf("contains disallowed terms (%s in %s)", strings.Join(labels, "; "), locationList(locs)))
}

// --- scored-signal stage ---

// scoredStage accumulates a positive score (distinct strong categories
// count 2, weak categories count 1) and a negative score (distinct
// negative categories), then applies a fixed-priority decision table.
// The rule order is load-bearing: a work with positive 3 and negative
// 10 still passes because the first matching rule wins.
type scoredStage struct {
	name     string
	strong   *matcher
	weak     *matcher
	negative *matcher
}

func (s *scoredStage) Name() string { return s.name }

func (s *scoredStage) Apply(works []types.UniqueWork) ([]types.UniqueWork, []types.Excluded) {
	return partition(s.name, works, s.decide)
}

const (
	reasonStrongPositive = "strong positive signals"
	reasonModerate       = "moderate positive signals"
	reasonStrongNegative = "strong negative signals"
	reasonWeakPositive   = "weak positive signals"
	reasonNoSignals      = "no clear signals"
)

func (s *scoredStage) decide(w *types.UniqueWork) types.FilterDecision {
	strongMatches := s.strong.match(w)
	weakMatches := s.weak.match(w)
	negMatches := s.negative.match(w)

	positive := 2*len(strongMatches) + len(weakMatches)
	negative := len(negMatches)

	posLabels := append(labelsOf(strongMatches), labelsOf(weakMatches)...)
	sort.Strings(posLabels)
	posLocs := locationsOf(append(strongMatches, weakMatches...))

	switch {
	case positive >= 3:
		return decision(s.name, types.VerdictPass, posLabels, posLocs,
			scoreReason(reasonStrongPositive, positive, negative))
	case positive >= 2 && negative <= 2:
		return decision(s.name, types.VerdictPass, posLabels, posLocs,
			scoreReason(reasonModerate, positive, negative))
	case negative >= 3 && positive < 2:
		return decision(s.name, types.VerdictExclude, labelsOf(negMatches), locationsOf(negMatches),
			scoreReason(reasonStrongNegative, positive, negative))
	case positive >= 1:
		return decision(s.name, types.VerdictPass, posLabels, posLocs,
			scoreReason(reasonWeakPositive, positive, negative))
	default:
		return decision(s.name, types.VerdictExclude, labelsOf(negMatches), locationsOf(negMatches),
			scoreReason(reasonNoSignals, positive, negative))
	}
}

func scoreReason(rule string, positive, negative int) string {
	return fmt.Sprintf("%s (positive=%d, negative=%d)", rule, positive, negative)
}

// --- shared mechanics ---

func decision(stage string, v types.Verdict, terms []string, locs []types.MatchLocation, reason string) types.FilterDecision {
	return types.FilterDecision{
		Stage:        stage,
		Verdict:      v,
		MatchedTerms: terms,
		Locations:    locs,
		Reason:       reason,
	}
}

// partition evaluates decide for every work and splits the batch,
// keeping input order on both sides.
func partition(stage string, works []types.UniqueWork, decide func(*types.UniqueWork) types.FilterDecision) ([]types.UniqueWork, []types.Excluded) {
	decisions := evaluate(works, decide)

	var passed []types.UniqueWork
	var excluded []types.Excluded
	for i, d := range decisions {
		if d.Verdict == types.VerdictPass {
			passed = append(passed, works[i])
		} else {
			excluded = append(excluded, types.Excluded{Work: works[i], Decision: d})
		}
	}
	return passed, excluded
}

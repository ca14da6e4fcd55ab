// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/data-community-of-practice/litscreen/pkg/types"
)

// evaluate computes one decision per work. Matching is independent per
// work, so it fans out across a bounded worker group; results land in
// an index-addressed slice, which restores the input ordering that
// partitioning depends on.
func evaluate(works []types.UniqueWork, decide func(*types.UniqueWork) types.FilterDecision) []types.FilterDecision {
	decisions := make([]types.FilterDecision, len(works))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range works {
		i := i
		g.Go(func() error {
			decisions[i] = decide(&works[i])
			return nil
		})
	}
	g.Wait() // decide is total; no worker returns an error

	return decisions
}

// StageResult is the audit record of one stage: what went in, what
// passed through, and what was removed with which decision.
type StageResult struct {
	Stage    string             `json:"stage" yaml:"stage"`
	Input    int                `json:"input" yaml:"input"`
	Passed   []types.UniqueWork `json:"-" yaml:"-"`
	Excluded []types.Excluded   `json:"excluded" yaml:"excluded"`
}

// RunResult is the full audit trail of a screening run. Every work
// that entered the pipeline appears exactly once: in Included or in
// exactly one stage's excluded set.
type RunResult struct {
	Stages   []StageResult      `json:"stages" yaml:"stages"`
	Included []types.UniqueWork `json:"included" yaml:"included"`
}

// Pipeline is an ordered sequence of stages, fixed at construction.
type Pipeline struct {
	stages []Stage
}

// NewPipeline validates the configuration and builds every stage up
// front. Configuration errors are fatal here, before any records are
// processed; a pipeline never starts partially configured.
func NewPipeline(cfg *types.ScreenConfig) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("screening configuration: %w", err)
	}

	p := &Pipeline{}
	for _, sc := range cfg.Stages {
		stage, err := NewStage(sc, cfg)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", sc.Name, err)
		}
		p.stages = append(p.stages, stage)
	}
	return p, nil
}

// StageNames returns the stage names in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run feeds each stage's passed set into the next. Exclusion is
// irreversible within a run: a work excluded at stage k never reaches
// stage k+1, and every stage's excluded set is preserved verbatim as
// the audit trail.
func (p *Pipeline) Run(works []types.UniqueWork) RunResult {
	result := RunResult{}
	current := works

	for _, stage := range p.stages {
		passed, excluded := stage.Apply(current)
		result.Stages = append(result.Stages, StageResult{
			Stage:    stage.Name(),
			Input:    len(current),
			Passed:   passed,
			Excluded: excluded,
		})
		current = passed
	}

	result.Included = current
	return result
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/data-community-of-practice/litscreen/internal/screen"
	"github.com/data-community-of-practice/litscreen/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testWork(title, abstract, doi string) types.UniqueWork {
	return types.UniqueWork{
		Canonical: types.Record{
			Title:    title,
			Abstract: abstract,
			Authors:  []string{"Chen, Wei"},
			Year:     2021,
			Type:     types.PubJournalArticle,
			DOI:      doi,
		},
		Sources:        []types.Source{types.SourceACM, types.SourcePubMed},
		Keyphrases:     []string{"icd_coding"},
		DuplicateCount: 2,
		HasDOI:         doi != "",
	}
}

func testResult() screen.RunResult {
	included := []types.UniqueWork{
		testWork("Automated ICD coding with transformers", "Assigns ICD codes to notes.", "10.1/incl"),
	}
	excluded := []types.Excluded{
		{
			Work: testWork("Defibrillator shock outcomes", "Cardiac device therapy.", "10.1/excl"),
			Decision: types.FilterDecision{
				Stage:        "non-medical-icd",
				Verdict:      types.VerdictExclude,
				MatchedTerms: []string{"Cardiac Device"},
				Locations:    []types.MatchLocation{types.LocTitle, types.LocAbstract},
				Reason:       "contains disallowed terms (Cardiac Device in title, abstract)",
			},
		},
	}
	return screen.RunResult{
		Stages: []screen.StageResult{
			{Stage: "non-medical-icd", Input: 2, Passed: included, Excluded: excluded},
		},
		Included: included,
	}
}

func TestSaveRunAndList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	runID, err := s.SaveRun(ctx, "preset:staged", testResult())
	require.NoError(t, err)
	assert.Equal(t, int64(1), runID)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "preset:staged", runs[0].Criteria)
	assert.Equal(t, 2, runs[0].Input)
	assert.Equal(t, 1, runs[0].Included)
	assert.NotEmpty(t, runs[0].Created)
}

func TestRunsNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveRun(ctx, "first", testResult())
	require.NoError(t, err)
	_, err = s.SaveRun(ctx, "second", testResult())
	require.NoError(t, err)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "second", runs[0].Criteria)
	assert.Equal(t, "first", runs[1].Criteria)
}

func TestSearch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveRun(ctx, "preset:staged", testResult())
	require.NoError(t, err)

	results, err := s.Search(ctx, "transformers", 0, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Automated ICD coding with transformers", results[0].Title)
	assert.Equal(t, statusIncluded, results[0].Status)
	assert.Equal(t, []string{"acm", "pubmed"}, results[0].Sources)
	assert.Empty(t, results[0].Stage)
}

func TestSearchReturnsDecision(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveRun(ctx, "preset:staged", testResult())
	require.NoError(t, err)

	results, err := s.Search(ctx, "defibrillator", 0, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, statusExcluded, results[0].Status)
	assert.Equal(t, "non-medical-icd", results[0].Stage)
	assert.Contains(t, results[0].Reason, "disallowed terms")
}

func TestSearchScopedToRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first, err := s.SaveRun(ctx, "first", testResult())
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, "second", testResult())
	require.NoError(t, err)

	all, err := s.Search(ctx, "transformers", 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := s.Search(ctx, "transformers", first, 10)
	require.NoError(t, err)
	assert.Len(t, scoped, 1)

	scoped, err = s.Search(ctx, "transformers", second, 10)
	require.NoError(t, err)
	assert.Len(t, scoped, 1)
}

func TestSearchRejectsCorruptSourcesColumn(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	runID, err := s.SaveRun(ctx, "preset:staged", testResult())
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO works (run_id, status, doi, title, year, duplicate_count, sources)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, statusIncluded, "10.1/corrupt", "Corrupt provenance row", 2021, 1, "not json")
	require.NoError(t, err)

	_, err = s.Search(ctx, "corrupt", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding sources")
}

func TestSearchEmptyQuery(t *testing.T) {
	s := testStore(t)

	_, err := s.Search(context.Background(), "   ", 0, 10)
	assert.Error(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.SaveRun(context.Background(), "first", testResult())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening must keep the existing schema and data.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.Runs(context.Background())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

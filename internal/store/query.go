// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// RunSummary is one archived run as listed by the report command.
type RunSummary struct {
	ID       int64  `json:"id"`
	Created  string `json:"created"`
	Criteria string `json:"criteria"`
	Input    int    `json:"input"`
	Included int    `json:"included"`
}

// Runs lists archived runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created, criteria, input, included FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Created, &r.Criteria, &r.Input, &r.Included); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// WorkResult is one archived work returned by Search, with the
// decision that excluded it when there is one.
type WorkResult struct {
	Title   string   `json:"title"`
	Year    int      `json:"year,omitempty"`
	DOI     string   `json:"doi,omitempty"`
	Status  string   `json:"status"`
	Sources []string `json:"sources,omitempty"`
	Stage   string   `json:"stage,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

// Search runs an FTS5 full-text query over archived titles and
// abstracts, optionally scoped to one run. runID 0 means all runs.
func (s *Store) Search(ctx context.Context, query string, runID int64, limit int) ([]WorkResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = 20
	}

	q := `SELECT w.title, w.year, w.doi, w.status, w.sources,
			COALESCE(d.stage, ''), COALESCE(d.reason, '')
		FROM works_fts f
		JOIN works w ON w.rowid = f.rowid
		LEFT JOIN decisions d ON d.work_rowid = w.rowid
		WHERE works_fts MATCH ?`
	args := []any{query}
	if runID != 0 {
		q += ` AND w.run_id = ?`
		args = append(args, runID)
	}
	q += ` ORDER BY rank LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}
	defer rows.Close()

	var results []WorkResult
	for rows.Next() {
		var (
			r           WorkResult
			doi         sql.NullString
			sourcesJSON sql.NullString
		)
		if err := rows.Scan(&r.Title, &r.Year, &doi, &r.Status, &sourcesJSON, &r.Stage, &r.Reason); err != nil {
			return nil, fmt.Errorf("scanning work: %w", err)
		}
		r.DOI = doi.String
		if sourcesJSON.Valid {
			if err := json.Unmarshal([]byte(sourcesJSON.String), &r.Sources); err != nil {
				return nil, fmt.Errorf("decoding sources for %q: %w", r.Title, err)
			}
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store archives screening runs in a SQLite database so the
// audit trail of a review survives the run and stays queryable.
// Implements: prd006-archive (R1-R4).
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/data-community-of-practice/litscreen/internal/screen"
	"github.com/data-community-of-practice/litscreen/pkg/types"
)

// Store manages the screening archive database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created TEXT NOT NULL,
			criteria TEXT NOT NULL,
			input INTEGER NOT NULL,
			included INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS works (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			status TEXT NOT NULL,
			doi TEXT,
			title TEXT NOT NULL,
			authors TEXT,
			year INTEGER,
			venue TEXT,
			type TEXT,
			abstract TEXT,
			keywords TEXT,
			sources TEXT,
			keyphrases TEXT,
			duplicate_count INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_works_run ON works(run_id)`,
		`CREATE TABLE IF NOT EXISTS decisions (
			work_rowid INTEGER NOT NULL REFERENCES works(rowid),
			stage TEXT NOT NULL,
			verdict TEXT NOT NULL,
			matched TEXT,
			locations TEXT,
			reason TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_work ON decisions(work_rowid)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over titles and abstracts, with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='works_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE works_fts USING fts5(title, abstract, content=works, content_rowid=rowid)`,
			`CREATE TRIGGER works_ai AFTER INSERT ON works BEGIN
				INSERT INTO works_fts(rowid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
			END`,
			`CREATE TRIGGER works_ad AFTER DELETE ON works BEGIN
				INSERT INTO works_fts(works_fts, rowid, title, abstract) VALUES('delete', old.rowid, old.title, old.abstract);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

const (
	statusIncluded = "included"
	statusExcluded = "excluded"
)

// SaveRun archives a screening run: one runs row, one works row per
// work that entered the pipeline, and one decisions row per excluded
// work. The whole run commits atomically.
func (s *Store) SaveRun(ctx context.Context, criteria string, result screen.RunResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	input := 0
	if len(result.Stages) > 0 {
		input = result.Stages[0].Input
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created, criteria, input, included) VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), criteria, input, len(result.Included),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	workStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO works (run_id, status, doi, title, authors, year, venue, type,
			abstract, keywords, sources, keyphrases, duplicate_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing work insert: %w", err)
	}
	defer workStmt.Close()

	decisionStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO decisions (work_rowid, stage, verdict, matched, locations, reason)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing decision insert: %w", err)
	}
	defer decisionStmt.Close()

	insertWork := func(w *types.UniqueWork, status string) (int64, error) {
		r := &w.Canonical
		authorsJSON, _ := json.Marshal(r.Authors)
		keywordsJSON, _ := json.Marshal(r.Keywords)
		sourcesJSON, _ := json.Marshal(w.Sources)
		keyphrasesJSON, _ := json.Marshal(w.Keyphrases)

		res, err := workStmt.ExecContext(ctx,
			runID, status, r.DOI, r.Title, string(authorsJSON), r.Year, r.Venue,
			string(r.Type), r.Abstract, string(keywordsJSON), string(sourcesJSON),
			string(keyphrasesJSON), w.DuplicateCount,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting work %q: %w", r.Title, err)
		}
		return res.LastInsertId()
	}

	for i := range result.Included {
		if _, err := insertWork(&result.Included[i], statusIncluded); err != nil {
			return 0, err
		}
	}

	for _, sr := range result.Stages {
		for i := range sr.Excluded {
			ex := &sr.Excluded[i]
			workID, err := insertWork(&ex.Work, statusExcluded)
			if err != nil {
				return 0, err
			}

			d := &ex.Decision
			matchedJSON, _ := json.Marshal(d.MatchedTerms)
			locationsJSON, _ := json.Marshal(d.Locations)
			if _, err := decisionStmt.ExecContext(ctx,
				workID, d.Stage, string(d.Verdict), string(matchedJSON),
				string(locationsJSON), d.Reason,
			); err != nil {
				return 0, fmt.Errorf("inserting decision for %q: %w", ex.Work.Canonical.Title, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

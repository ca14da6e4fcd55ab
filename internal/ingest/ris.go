// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest reads harvested RIS exports into records and writes
// decision-annotated RIS back out. The merge pass depends on a stable
// input order, so ingestion enumerates directories in argument order,
// files in sorted order, and records in file order.
// Implements: prd001-ingest (R1-R4).
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/data-community-of-practice/litscreen/pkg/types"
)

const (
	tagSep    = "  - "
	endRecord = "ER"
)

// risTypes maps the RIS TY tag to publication types. Anything else is
// PubOther, which the default year/type stage excludes.
var risTypes = map[string]types.PubType{
	"JOUR": types.PubJournalArticle,
	"CONF": types.PubConferencePaper,
	"BOOK": types.PubBook,
	"CHAP": types.PubBookChapter,
}

// keyphraseNoise lists filename fragments that are not part of the
// search query: per-source suffixes and split-file markers.
var keyphraseNoise = []string{"_acm", "_pubmed", "_ALL_articles", "_part1", "_part2"}

// ParseRIS reads RIS records from r, stamping each with the given
// provenance. Records without a title are dropped and counted rather
// than passed downstream, where they would be unreportable.
func ParseRIS(r io.Reader, source types.Source, keyphrase string) (records []types.Record, dropped int, err error) {
	var (
		current    map[string][]string
		currentTag string
	)
	reset := func() {
		current = make(map[string][]string)
		currentTag = ""
	}
	reset()

	flush := func() {
		if len(current) == 0 {
			return
		}
		rec := toRecord(current, source, keyphrase)
		if rec.Title == "" {
			dropped++
		} else {
			records = append(records, rec)
		}
		reset()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case strings.HasPrefix(line, endRecord+tagSep), line == endRecord+"  -":
			flush()
		case len(line) > 5 && line[2:6] == tagSep:
			tag := line[:2]
			value := strings.TrimSpace(line[6:])
			current[tag] = append(current[tag], value)
			currentTag = tag
		case currentTag != "" && strings.TrimSpace(line) != "":
			// Continuation of the previous tag's value.
			vals := current[currentTag]
			vals[len(vals)-1] += " " + strings.TrimSpace(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading RIS input: %w", err)
	}
	flush()

	return records, dropped, nil
}

func toRecord(tags map[string][]string, source types.Source, keyphrase string) types.Record {
	rec := types.Record{
		Title:     first(tags, "TI"),
		Authors:   tags["AU"],
		Abstract:  first(tags, "AB"),
		Keywords:  tags["KW"],
		DOI:       first(tags, "DO"),
		Source:    source,
		Keyphrase: keyphrase,
		Type:      types.PubOther,
	}
	if t, ok := risTypes[strings.TrimSpace(first(tags, "TY"))]; ok {
		rec.Type = t
	}
	for _, tag := range []string{"T2", "JO", "JF"} {
		if v := first(tags, tag); v != "" {
			rec.Venue = v
			break
		}
	}
	rec.Year = parseYear(first(tags, "PY"))
	return rec
}

func first(tags map[string][]string, tag string) string {
	if vals := tags[tag]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// parseYear reads the leading year from a PY value, which sources emit
// as "2020", "2020///", or a full date. Unparseable values mean the
// year is unknown.
func parseYear(py string) int {
	py = strings.TrimSpace(py)
	for i, r := range py {
		if r < '0' || r > '9' {
			py = py[:i]
			break
		}
	}
	if len(py) != 4 {
		return 0
	}
	year, err := strconv.Atoi(py)
	if err != nil {
		return 0
	}
	return year
}

// Keyphrase derives the search query label from a RIS file name,
// stripping the per-source and split-file fragments harvest scripts
// append.
func Keyphrase(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	for _, noise := range keyphraseNoise {
		stem = strings.ReplaceAll(stem, noise, "")
	}
	return stem
}

// SourceForDir maps a harvest directory name like "pubmed_output" to
// its source enum.
func SourceForDir(dir string) (types.Source, error) {
	name := strings.TrimSuffix(filepath.Base(filepath.Clean(dir)), "_output")
	switch types.Source(name) {
	case types.SourceACM, types.SourcePubMed, types.SourceScopus:
		return types.Source(name), nil
	}
	return "", fmt.Errorf("directory %s does not name a known source (acm, pubmed, scopus)", dir)
}

// ReadDirs ingests every .ris file under the given harvest
// directories. Each directory contributes one source; each file's stem
// is its keyphrase. The returned order is the merge pass's input
// contract.
func ReadDirs(dirs []string, w io.Writer) ([]types.Record, error) {
	var all []types.Record

	for _, dir := range dirs {
		source, err := SourceForDir(dir)
		if err != nil {
			return nil, err
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading source directory: %w", err)
		}

		var names []string
		for _, e := range entries {
			if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".ris") {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			path := filepath.Join(dir, name)
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("opening %s: %w", path, err)
			}
			records, dropped, err := ParseRIS(f, source, Keyphrase(name))
			f.Close()
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
			if dropped > 0 {
				fmt.Fprintf(w, "warning: %s: dropped %d record(s) without a title\n", path, dropped)
			}
			fmt.Fprintf(w, "  %s: %d records\n", path, len(records))
			all = append(all, records...)
		}
	}

	return all, nil
}

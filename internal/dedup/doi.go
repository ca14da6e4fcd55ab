// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"regexp"
	"strings"
)

var (
	doiHostPrefix = regexp.MustCompile(`^https?://(dx\.)?doi\.org/`)
	doiScheme     = regexp.MustCompile(`^doi:`)
)

// NormalizeDOI reduces a raw DOI string to its comparable form:
// lowercase, with https://doi.org/, https://dx.doi.org/, and doi:
// prefixes stripped and surrounding whitespace trimmed. An empty or
// absent identifier normalizes to "". Two records denote the same work
// exactly when both normalize to the same non-empty string.
// Per prd002-dedup R1.1-R1.3.
func NormalizeDOI(raw string) string {
	doi := strings.ToLower(strings.TrimSpace(raw))
	doi = doiHostPrefix.ReplaceAllString(doi, "")
	doi = doiScheme.ReplaceAllString(doi, "")
	return strings.TrimSpace(doi)
}

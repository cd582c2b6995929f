// Package domain holds the core value types of the lore graph explorer:
// questions, structured queries, canonical result rows, interpretations,
// and the relationship vocabulary that constrains generated queries.
package domain

import "strings"

// Provenance records where a structured query or interpretation came from.
type Provenance string

const (
	// ProvenanceCurated marks values looked up from a hand-written table.
	ProvenanceCurated Provenance = "curated"
	// ProvenanceGenerated marks values produced by a language-model call.
	ProvenanceGenerated Provenance = "generated"
)

// StructuredQuery is an opaque Cypher query plus its provenance.
type StructuredQuery struct {
	Text       string     `json:"text"`
	Provenance Provenance `json:"provenance"`
}

// Interpretation is a short prose explanation of a result set.
type Interpretation struct {
	Text       string     `json:"text"`
	Provenance Provenance `json:"provenance"`
}

// Canonical column names of a result row. Matching is case-insensitive.
const (
	ColSource   = "source"
	ColRelation = "relation"
	ColTarget   = "target"
)

// Row is a single result record. Source, Relation and Target are filled
// from the canonical columns when present; Values keeps every returned
// column as a display string so non-canonical rows can still be shown
// in tabular form.
type Row struct {
	Source   string            `json:"source,omitempty"`
	Relation string            `json:"relation,omitempty"`
	Target   string            `json:"target,omitempty"`
	Values   map[string]string `json:"values"`
}

// Canonical reports whether the row carries all three canonical fields.
func (r Row) Canonical() bool {
	return r.Source != "" && r.Relation != "" && r.Target != ""
}

// ResultSet is the materialized output of one query execution.
// An empty ResultSet is a valid terminal outcome, not a failure.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Empty reports whether the result set has no rows.
func (rs ResultSet) Empty() bool { return len(rs.Rows) == 0 }

// HasCanonicalColumns reports whether the column list contains all of
// source, relation and target, matched case-insensitively.
func (rs ResultSet) HasCanonicalColumns() bool {
	var src, rel, tgt bool
	for _, c := range rs.Columns {
		switch strings.ToLower(c) {
		case ColSource:
			src = true
		case ColRelation:
			rel = true
		case ColTarget:
			tgt = true
		}
	}
	return src && rel && tgt
}

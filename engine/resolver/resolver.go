// Package resolver turns natural-language questions into structured
// Cypher queries and result sets into prose interpretations. Both
// resolvers share the same two-tier strategy: exact-match lookup in a
// curated table first, then a constrained language-model fallback.
package resolver

import (
	"context"

	"github.com/loregraph/loregraph/engine/domain"
)

// fallbackFunc produces a value for a key missing from the curated table.
type fallbackFunc[V any] func(ctx context.Context, key string) (V, error)

// twoTier resolves a key via a curated table, falling back to a
// generator on miss. The table is read-only after construction.
type twoTier[V any] struct {
	table    map[string]V
	fallback fallbackFunc[V]
}

// resolve returns the value with its provenance. Curated hits never
// invoke the fallback.
func (t twoTier[V]) resolve(ctx context.Context, key string) (V, domain.Provenance, error) {
	if v, ok := t.table[key]; ok {
		return v, domain.ProvenanceCurated, nil
	}
	v, err := t.fallback(ctx, key)
	if err != nil {
		var zero V
		return zero, domain.ProvenanceGenerated, err
	}
	return v, domain.ProvenanceGenerated, nil
}

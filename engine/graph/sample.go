package graph

import (
	"context"
	"fmt"

	"github.com/loregraph/loregraph/engine/domain"
)

// Bounds for the relationship sample, matching the explorer's slider.
const (
	MinSampleLimit     = 10
	MaxSampleLimit     = 500
	DefaultSampleLimit = 100
)

// SampleQuery builds the canonical preview query for up to limit
// relationships. The limit is clamped to [MinSampleLimit, MaxSampleLimit];
// zero means DefaultSampleLimit.
func SampleQuery(limit int) string {
	if limit == 0 {
		limit = DefaultSampleLimit
	}
	if limit < MinSampleLimit {
		limit = MinSampleLimit
	}
	if limit > MaxSampleLimit {
		limit = MaxSampleLimit
	}
	return fmt.Sprintf(
		"MATCH (n:Entity)-[r]->(m:Entity) RETURN n.id AS source, type(r) AS relation, m.id AS target LIMIT %d",
		limit,
	)
}

// Sample returns up to limit relationships in canonical row shape. Goes
// through Execute, so repeated samples with the same limit are cached.
func (s *Store) Sample(ctx context.Context, limit int) (domain.ResultSet, error) {
	return s.Execute(ctx, domain.StructuredQuery{
		Text:       SampleQuery(limit),
		Provenance: domain.ProvenanceCurated,
	})
}

// NodeCount returns the number of Entity nodes.
func (s *Store) NodeCount(ctx context.Context) (int64, error) {
	sess := s.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	result, err := sess.Run(ctx, `MATCH (n:Entity) RETURN count(n) AS count`, nil)
	if err != nil {
		return 0, err
	}
	if !result.Next(ctx) {
		return 0, result.Err()
	}
	cnt, _ := result.Record().Get("count")
	n, _ := cnt.(int64)
	return n, nil
}

// RelationshipCounts returns relationship counts grouped by type.
func (s *Store) RelationshipCounts(ctx context.Context) (map[string]int64, error) {
	sess := s.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	result, err := sess.Run(ctx, `MATCH ()-[r]->() RETURN type(r) AS type, count(*) AS count`, nil)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for result.Next(ctx) {
		rec := result.Record()
		typ, _ := rec.Get("type")
		cnt, _ := rec.Get("count")
		if t, ok := typ.(string); ok {
			if c, ok := cnt.(int64); ok {
				counts[t] = c
			}
		}
	}
	return counts, result.Err()
}

package graph

import (
	"context"
	"fmt"

	"github.com/loregraph/loregraph/engine/domain"
)

// Triple is one lore fact: a directed, labeled edge between two entities.
type Triple struct {
	Source   string `json:"source"`
	Relation string `json:"relation"`
	Target   string `json:"target"`
}

// SaveTriples merges all triples in one write transaction. Every relation
// label must be in vocab; the label is interpolated into the Cypher text,
// so this is also an injection guard.
func (s *Store) SaveTriples(ctx context.Context, vocab domain.Vocabulary, triples []Triple) error {
	for _, t := range triples {
		if !vocab.Contains(t.Relation) {
			return fmt.Errorf("save triples: %w: %q", domain.ErrUnknownLabel, t.Relation)
		}
	}

	sess := s.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	_, err := sess.ExecuteWrite(ctx, func(tx CypherRunner) (any, error) {
		for _, t := range triples {
			cypher := fmt.Sprintf(
				`MERGE (a:Entity {id: $source})
				 MERGE (b:Entity {id: $target})
				 MERGE (a)-[:%s]->(b)`, t.Relation)
			if _, err := tx.Run(ctx, cypher, map[string]any{
				"source": t.Source,
				"target": t.Target,
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("save triples: %w", err)
	}
	return nil
}

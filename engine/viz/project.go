// Package viz projects canonical result rows into a node/edge model for
// rendering. Projection is pure: no I/O and no failure modes beyond the
// empty case.
package viz

import (
	"sort"

	"github.com/loregraph/loregraph/engine/domain"
)

// Node is a vertex of the projected subgraph.
type Node struct {
	ID string `json:"id"`
}

// Edge is a directed, labeled edge of the projected subgraph.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// Model is the visualization model: unique nodes and unique directed
// edges. It is a set, not a multiset; rows with identical
// (source, relation, target) collapse to one edge.
type Model struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Empty reports whether the model has no nodes.
func (m Model) Empty() bool { return len(m.Nodes) == 0 }

// Project converts rows into a Model. If the canonical columns are not
// all present it returns an empty Model rather than failing; rows missing
// any of the three canonical fields are skipped. Output ordering is
// sorted, so any permutation of the same rows projects to the same Model.
func Project(rows domain.ResultSet) Model {
	if !rows.HasCanonicalColumns() {
		return Model{}
	}

	nodeSet := make(map[string]bool)
	type edgeKey struct{ from, to, label string }
	edgeSet := make(map[edgeKey]bool)

	for _, row := range rows.Rows {
		if !row.Canonical() {
			continue
		}
		nodeSet[row.Source] = true
		nodeSet[row.Target] = true
		edgeSet[edgeKey{row.Source, row.Target, row.Relation}] = true
	}

	var m Model
	for id := range nodeSet {
		m.Nodes = append(m.Nodes, Node{ID: id})
	}
	sort.Slice(m.Nodes, func(i, j int) bool { return m.Nodes[i].ID < m.Nodes[j].ID })

	for k := range edgeSet {
		m.Edges = append(m.Edges, Edge{From: k.from, To: k.to, Label: k.label})
	}
	sort.Slice(m.Edges, func(i, j int) bool {
		a, b := m.Edges[i], m.Edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Label < b.Label
	})
	return m
}

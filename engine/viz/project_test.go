package viz

import (
	"reflect"
	"testing"

	"github.com/loregraph/loregraph/engine/domain"
)

func row(source, relation, target string) domain.Row {
	return domain.Row{
		Source: source, Relation: relation, Target: target,
		Values: map[string]string{"source": source, "relation": relation, "target": target},
	}
}

func resultSet(rows ...domain.Row) domain.ResultSet {
	return domain.ResultSet{
		Columns: []string{"source", "relation", "target"},
		Rows:    rows,
	}
}

func TestProject_NodesAndEdges(t *testing.T) {
	m := Project(resultSet(
		row("Black Knights", "wield", "Black Knight Sword"),
		row("Black Knights", "faced", "Chaos Demons"),
	))

	if len(m.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d: %v", len(m.Nodes), m.Nodes)
	}
	if len(m.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d: %v", len(m.Edges), m.Edges)
	}
	if m.Edges[0].To != "Black Knight Sword" || m.Edges[1].To != "Chaos Demons" {
		t.Errorf("edges should be sorted: %+v", m.Edges)
	}
	if m.Nodes[0].ID != "Black Knight Sword" {
		t.Errorf("nodes should be sorted: %+v", m.Nodes)
	}
}

func TestProject_DeduplicatesRows(t *testing.T) {
	m := Project(resultSet(
		row("a", "wield", "b"),
		row("a", "wield", "b"),
		row("a", "wield", "b"),
	))
	if len(m.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(m.Nodes))
	}
	if len(m.Edges) != 1 {
		t.Fatalf("identical rows must collapse to one edge, got %d", len(m.Edges))
	}
}

func TestProject_ParallelEdgesKeptWhenLabelsDiffer(t *testing.T) {
	m := Project(resultSet(
		row("a", "wield", "b"),
		row("a", "dropped_by", "b"),
	))
	if len(m.Edges) != 2 {
		t.Fatalf("edges with distinct labels must both survive, got %d", len(m.Edges))
	}
}

func TestProject_PermutationInvariant(t *testing.T) {
	rows := []domain.Row{
		row("a", "wield", "b"),
		row("c", "faced", "a"),
		row("b", "weak_to", "c"),
	}
	m1 := Project(resultSet(rows[0], rows[1], rows[2]))
	m2 := Project(resultSet(rows[2], rows[0], rows[1]))
	if !reflect.DeepEqual(m1, m2) {
		t.Fatalf("projection depends on row order:\n%+v\n%+v", m1, m2)
	}
}

func TestProject_MissingCanonicalColumns(t *testing.T) {
	rs := domain.ResultSet{
		Columns: []string{"name", "count"},
		Rows: []domain.Row{
			{Values: map[string]string{"name": "Gwyn", "count": "3"}},
		},
	}
	m := Project(rs)
	if !m.Empty() {
		t.Fatalf("rows without canonical columns must project to an empty model: %+v", m)
	}
}

func TestProject_SkipsIncompleteRows(t *testing.T) {
	partial := domain.Row{
		Source: "a", Relation: "", Target: "b",
		Values: map[string]string{"source": "a", "relation": "", "target": "b"},
	}
	m := Project(resultSet(
		row("a", "wield", "b"),
		partial,
	))
	if len(m.Edges) != 1 {
		t.Fatalf("incomplete row should be skipped, got %d edges", len(m.Edges))
	}
}

func TestProject_EmptyResultSet(t *testing.T) {
	m := Project(resultSet())
	if !m.Empty() {
		t.Fatal("empty result set should project to an empty model")
	}
}

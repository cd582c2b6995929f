package domain

import (
	"errors"
	"testing"
)

func TestRowCanonical(t *testing.T) {
	tests := []struct {
		row  Row
		want bool
	}{
		{Row{Source: "a", Relation: "wield", Target: "b"}, true},
		{Row{Source: "a", Relation: "wield"}, false},
		{Row{Source: "a", Target: "b"}, false},
		{Row{}, false},
	}
	for _, tt := range tests {
		if got := tt.row.Canonical(); got != tt.want {
			t.Errorf("Canonical(%+v) = %v, want %v", tt.row, got, tt.want)
		}
	}
}

func TestHasCanonicalColumns(t *testing.T) {
	tests := []struct {
		cols []string
		want bool
	}{
		{[]string{"source", "relation", "target"}, true},
		{[]string{"SOURCE", "Relation", "TARGET"}, true},
		{[]string{"target", "source", "relation", "extra"}, true},
		{[]string{"source", "relation"}, false},
		{[]string{"name", "count"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		rs := ResultSet{Columns: tt.cols}
		if got := rs.HasCanonicalColumns(); got != tt.want {
			t.Errorf("HasCanonicalColumns(%v) = %v, want %v", tt.cols, got, tt.want)
		}
	}
}

func TestResultSetEmpty(t *testing.T) {
	if !(ResultSet{}).Empty() {
		t.Error("zero result set should be empty")
	}
	rs := ResultSet{Rows: []Row{{Source: "a"}}}
	if rs.Empty() {
		t.Error("result set with rows should not be empty")
	}
}

func TestErrorUnwrapping(t *testing.T) {
	resErr := &ResolutionError{Question: "q", Err: ErrUnknownLabel}
	if !errors.Is(resErr, ErrUnknownLabel) {
		t.Error("ResolutionError should unwrap to its cause")
	}

	execErr := &ExecutionError{Query: "MATCH (n)", Err: errors.New("syntax error")}
	if execErr.Error() == "" {
		t.Error("ExecutionError should carry a message")
	}

	interpErr := &InterpretationError{Question: "q", Err: ErrEmptyTranslation}
	if !errors.Is(interpErr, ErrEmptyTranslation) {
		t.Error("InterpretationError should unwrap to its cause")
	}
}

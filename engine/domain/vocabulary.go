package domain

// Vocabulary is the closed, ordered set of relationship labels a
// structured query may reference. Immutable once constructed; safe for
// concurrent readers.
type Vocabulary struct {
	labels []string
	index  map[string]bool
}

// NewVocabulary builds a vocabulary from an ordered label list.
func NewVocabulary(labels ...string) Vocabulary {
	idx := make(map[string]bool, len(labels))
	for _, l := range labels {
		idx[l] = true
	}
	return Vocabulary{labels: labels, index: idx}
}

// Labels returns the labels in declaration order. Callers must not
// modify the returned slice.
func (v Vocabulary) Labels() []string { return v.labels }

// Contains reports whether label is part of the vocabulary.
func (v Vocabulary) Contains(label string) bool { return v.index[label] }

// Len returns the number of labels.
func (v Vocabulary) Len() int { return len(v.labels) }

// GenericLabels are relationship names the query translator must never
// emit; they carry no meaning in the lore graph.
var GenericLabels = []string{"related_to", "associated_with", "connected_to"}

// DefaultVocabulary returns the relationship vocabulary of the Dark Souls
// lore graph.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(
		"wield",
		"faced",
		"is_effective_against",
		"has_skill",
		"dropped_by",
		"found_in",
		"located_in",
		"belongs_to",
		"guards",
		"worships",
		"created_by",
		"forged_from",
		"weak_to",
		"resists",
		"grants",
		"transformed_into",
	)
}

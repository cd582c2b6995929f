package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/loregraph/loregraph/engine/domain"
	"github.com/loregraph/loregraph/pkg/llm"
	"github.com/loregraph/loregraph/pkg/metrics"
)

// translationTemperature makes query translation deterministic.
const translationTemperature = 0.0

// QueryResolver maps a question to a structured Cypher query: curated
// table first, constrained language-model translation on miss.
type QueryResolver struct {
	tier     twoTier[string]
	vocab    domain.Vocabulary
	complete llm.Completer
	logger   *slog.Logger

	curated   *metrics.Counter
	generated *metrics.Counter
}

// QueryOption configures a QueryResolver.
type QueryOption func(*QueryResolver)

// WithMetrics registers resolution counters by provenance on reg.
func WithMetrics(reg *metrics.Registry) QueryOption {
	return func(r *QueryResolver) {
		r.curated = reg.Counter(
			metrics.WithLabels("resolver_resolutions_total", "provenance", "curated"),
			"Question resolutions by provenance")
		r.generated = reg.Counter(
			metrics.WithLabels("resolver_resolutions_total", "provenance", "generated"), "")
	}
}

// NewQueryResolver creates a QueryResolver constrained to vocab.
func NewQueryResolver(complete llm.Completer, vocab domain.Vocabulary, logger *slog.Logger, opts ...QueryOption) *QueryResolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &QueryResolver{
		vocab:    vocab,
		complete: complete,
		logger:   logger,
	}
	for _, o := range opts {
		o(r)
	}
	if r.curated == nil {
		WithMetrics(metrics.New())(r)
	}
	r.tier = twoTier[string]{table: curatedQueries, fallback: r.translate}
	return r
}

// Resolve returns the structured query for a normalized question.
// Failures are reported as *domain.ResolutionError and are not retried.
func (r *QueryResolver) Resolve(ctx context.Context, question string) (domain.StructuredQuery, error) {
	question = domain.NormalizeQuestion(question)
	text, prov, err := r.tier.resolve(ctx, question)
	if err != nil {
		return domain.StructuredQuery{}, &domain.ResolutionError{Question: question, Err: err}
	}
	if prov == domain.ProvenanceGenerated {
		r.generated.Inc()
		r.logger.Info("query generated", "question", question)
	} else {
		r.curated.Inc()
	}
	return domain.StructuredQuery{Text: text, Provenance: prov}, nil
}

// translate asks the language model for a Cypher query and validates
// every referenced relationship label against the vocabulary.
func (r *QueryResolver) translate(ctx context.Context, question string) (string, error) {
	reply, err := r.complete.Complete(ctx, r.systemPrompt(), question, translationTemperature)
	if err != nil {
		return "", fmt.Errorf("translation call: %w", err)
	}

	query := stripCodeFence(reply)
	if query == "" {
		return "", domain.ErrEmptyTranslation
	}
	if err := r.validateLabels(query); err != nil {
		return "", err
	}
	return query, nil
}

// systemPrompt enumerates the vocabulary and the two matching policies.
func (r *QueryResolver) systemPrompt() string {
	labels := make([]string, r.vocab.Len())
	for i, l := range r.vocab.Labels() {
		labels[i] = "`" + l + "`"
	}
	generics := make([]string, len(domain.GenericLabels))
	for i, g := range domain.GenericLabels {
		generics[i] = fmt.Sprintf("%q", g)
	}

	var b strings.Builder
	b.WriteString("You are a Cypher expert translating natural language into Neo4j Cypher queries.\n\n")
	b.WriteString("GRAPH STRUCTURE:\n")
	b.WriteString("- Nodes are labeled `Entity` and have an `id` property.\n")
	b.WriteString("- Edges use only the following relationship types: " + strings.Join(labels, ", ") + "\n\n")
	b.WriteString("RULES:\n")
	b.WriteString("- Use only the relationship types listed above. Do not invent others.\n")
	b.WriteString("- Never use generic relationships such as " + strings.Join(generics, ", ") + ".\n")
	b.WriteString("- If the question refers to a specific entity (e.g. \"Black Knights\"), use exact match:\n")
	b.WriteString("  MATCH (a:Entity {id: \"Black Knights\"})-[:wield]->(b:Entity)\n")
	b.WriteString("- If the question refers to a category (e.g. \"shields\"), use partial match:\n")
	b.WriteString("  MATCH (a:Entity)-[r]->(b:Entity) WHERE toLower(a.id) CONTAINS \"shield\"\n\n")
	b.WriteString("If unsure, fall back to:\n")
	b.WriteString("  MATCH (a:Entity {id: \"X\"})-[r]->(b:Entity) RETURN type(r), b.id\n\n")
	b.WriteString("Only return the Cypher query. Do not explain.")
	return b.String()
}

// relLabelPattern captures the label list in relationship patterns like
// [:wield], [r:wield {since: 1}] or [:wield|faced]. The capture stops at
// a property map or variable-length marker; node labels use parentheses
// and are not matched.
var relLabelPattern = regexp.MustCompile(`\[[^:\]]*:\s*([^\]{*]+)`)

// validateLabels rejects queries referencing labels outside the
// vocabulary, including the forbidden generic names. Alternations are
// split so every label in the list is checked.
func (r *QueryResolver) validateLabels(query string) error {
	for _, m := range relLabelPattern.FindAllStringSubmatch(query, -1) {
		for _, label := range strings.Split(m[1], "|") {
			label = strings.Trim(strings.TrimSpace(label), "`")
			for _, g := range domain.GenericLabels {
				if label == g {
					return fmt.Errorf("%w: %q", domain.ErrGenericLabel, label)
				}
			}
			if !r.vocab.Contains(label) {
				return fmt.Errorf("%w: %q", domain.ErrUnknownLabel, label)
			}
		}
	}
	return nil
}

// stripCodeFence removes a surrounding markdown code fence, if any, and
// trims whitespace.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "\n"); i != -1 {
			// Drop a language tag like "cypher" on the fence line.
			first := strings.TrimSpace(s[:i])
			if !strings.ContainsAny(first, " (") {
				s = s[i+1:]
			}
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

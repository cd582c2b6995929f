package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/loregraph/loregraph/engine/domain"
	"github.com/loregraph/loregraph/pkg/llm"
)

const (
	// summaryTemperature keeps interpretations mildly exploratory.
	summaryTemperature = 0.3
	// maxSampledRows bounds how many rows reach the summarization prompt.
	maxSampledRows = 10
)

const interpretationSystemPrompt = `You explain knowledge-graph query results to a reader.
Given a question and the rows that answer it, write a short interpretation
of what the rows mean: 3 to 5 sentences of plain prose. Mention concrete
entity names from the rows. Do not repeat the rows verbatim, do not use
markdown, and do not mention Cypher or databases.`

// InterpretationResolver produces prose explaining a result set: curated
// table first, language-model summarization on miss.
type InterpretationResolver struct {
	table    map[string]string
	complete llm.Completer
	logger   *slog.Logger
}

// NewInterpretationResolver creates an InterpretationResolver.
func NewInterpretationResolver(complete llm.Completer, logger *slog.Logger) *InterpretationResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &InterpretationResolver{
		table:    curatedInterpretations,
		complete: complete,
		logger:   logger,
	}
}

// Interpret returns an interpretation for the question and rows.
// Failures are reported as *domain.InterpretationError; callers may show
// the rows without prose rather than treating this as fatal.
func (r *InterpretationResolver) Interpret(ctx context.Context, question string, rows domain.ResultSet) (domain.Interpretation, error) {
	question = domain.NormalizeQuestion(question)

	tier := twoTier[string]{
		table: r.table,
		fallback: func(ctx context.Context, q string) (string, error) {
			return r.summarize(ctx, q, rows)
		},
	}

	text, prov, err := tier.resolve(ctx, question)
	if err != nil {
		return domain.Interpretation{}, &domain.InterpretationError{Question: question, Err: err}
	}
	return domain.Interpretation{Text: text, Provenance: prov}, nil
}

// summarize builds the summarization request from the question and at
// most the first maxSampledRows rows.
func (r *InterpretationResolver) summarize(ctx context.Context, question string, rows domain.ResultSet) (string, error) {
	reply, err := r.complete.Complete(ctx, interpretationSystemPrompt, summaryPayload(question, rows), summaryTemperature)
	if err != nil {
		return "", fmt.Errorf("summarization call: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("summarization produced no text")
	}
	return reply, nil
}

func summaryPayload(question string, rows domain.ResultSet) string {
	var b strings.Builder
	b.WriteString("Question: " + question + "\n\nRows:\n")
	if rows.Empty() {
		b.WriteString("(no rows returned)\n")
		return b.String()
	}
	n := len(rows.Rows)
	if n > maxSampledRows {
		n = maxSampledRows
	}
	for _, row := range rows.Rows[:n] {
		if row.Canonical() {
			fmt.Fprintf(&b, "- %s -[%s]-> %s\n", row.Source, row.Relation, row.Target)
			continue
		}
		parts := make([]string, 0, len(rows.Columns))
		for _, col := range rows.Columns {
			parts = append(parts, col+"="+row.Values[col])
		}
		b.WriteString("- " + strings.Join(parts, ", ") + "\n")
	}
	if len(rows.Rows) > n {
		fmt.Fprintf(&b, "(%d more rows omitted)\n", len(rows.Rows)-n)
	}
	return b.String()
}

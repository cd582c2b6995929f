package graph

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/loregraph/loregraph/engine/domain"
	"github.com/loregraph/loregraph/pkg/metrics"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// defaultQueryTimeout bounds a single store call.
const defaultQueryTimeout = 15 * time.Second

// Store executes structured queries against the lore graph. Results are
// cached by exact query text for the lifetime of the Store.
type Store struct {
	opener  SessionOpener
	cache   *queryCache
	timeout time.Duration
	logger  *slog.Logger

	queriesRun *metrics.Counter
	cacheHits  *metrics.Counter
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithTimeout bounds each store call.
func WithTimeout(d time.Duration) StoreOption {
	return func(s *Store) { s.timeout = d }
}

// WithMetrics registers store counters on reg.
func WithMetrics(reg *metrics.Registry) StoreOption {
	return func(s *Store) {
		s.queriesRun = reg.Counter("graph_queries_total", "Structured queries executed against the store")
		s.cacheHits = reg.Counter("graph_query_cache_hits_total", "Query executions served from the result cache")
	}
}

// New creates a Store backed by a Neo4j driver.
func New(driver neo4j.DriverWithContext, opts ...StoreOption) *Store {
	return NewWithOpener(&driverOpener{driver: driver}, opts...)
}

// NewWithOpener creates a Store with a custom session opener.
func NewWithOpener(opener SessionOpener, opts ...StoreOption) *Store {
	s := &Store{
		opener:  opener,
		cache:   newQueryCache(),
		timeout: defaultQueryTimeout,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.queriesRun == nil {
		reg := metrics.New()
		s.queriesRun = reg.Counter("graph_queries_total", "")
		s.cacheHits = reg.Counter("graph_query_cache_hits_total", "")
	}
	return s
}

// Execute runs the query text verbatim and materializes every record into
// the canonical row shape. Identical query texts are served from the
// cache without re-hitting the store. Store failures are reported as
// *domain.ExecutionError carrying the store's message; they are not
// retried, since an identical query fails identically.
func (s *Store) Execute(ctx context.Context, q domain.StructuredQuery) (domain.ResultSet, error) {
	key := cacheKey(q.Text)
	if rs, ok := s.cache.get(key); ok {
		s.cacheHits.Inc()
		return rs, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sess := s.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	s.queriesRun.Inc()
	result, err := sess.Run(ctx, q.Text, nil)
	if err != nil {
		return domain.ResultSet{}, &domain.ExecutionError{Query: q.Text, Err: err}
	}

	rs, err := collectRows(ctx, result)
	if err != nil {
		return domain.ResultSet{}, &domain.ExecutionError{Query: q.Text, Err: err}
	}

	s.cache.put(key, rs)
	s.logger.Debug("query executed", "rows", len(rs.Rows))
	return rs, nil
}

// collectRows materializes all records into canonical rows.
func collectRows(ctx context.Context, result CypherResult) (domain.ResultSet, error) {
	var rs domain.ResultSet
	for result.Next(ctx) {
		rec := result.Record()
		if rs.Columns == nil {
			rs.Columns = append(rs.Columns, rec.Keys...)
		}
		rs.Rows = append(rs.Rows, rowFromRecord(rec))
	}
	if err := result.Err(); err != nil {
		return domain.ResultSet{}, err
	}
	return rs, nil
}

// rowFromRecord converts one record into a canonical row. The source,
// relation and target fields are filled from columns matched
// case-insensitively; every column is kept in Values for display.
func rowFromRecord(rec *neo4j.Record) domain.Row {
	row := domain.Row{Values: make(map[string]string, len(rec.Keys))}
	for i, key := range rec.Keys {
		val := formatValue(rec.Values[i])
		row.Values[key] = val
		switch strings.ToLower(key) {
		case domain.ColSource:
			row.Source = val
		case domain.ColRelation:
			row.Relation = val
		case domain.ColTarget:
			row.Target = val
		}
	}
	return row
}

// formatValue renders a scalar record value for display.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quarrydata/quarry/internal/catalog"
	"github.com/quarrydata/quarry/internal/models"
	"github.com/quarrydata/quarry/internal/store"
	"github.com/quarrydata/quarry/pkg/semantics"
)

// CompiledQuery is the SQL a request resolves to, without executing it.
type CompiledQuery struct {
	SQL  string
	Args []any
}

// QueryService compiles semantic requests against registered models and runs
// them through the store. Every execution is recorded in the history table.
type QueryService struct {
	catalog *catalog.Catalog
	store   *store.Store
	logger  *zap.SugaredLogger
}

func NewQueryService(cat *catalog.Catalog, st *store.Store) *QueryService {
	return &QueryService{
		catalog: cat,
		store:   st,
		logger:  zap.S().Named("query"),
	}
}

// Models returns the names of the registered semantic models.
func (s *QueryService) Models() []string {
	return s.catalog.Names()
}

// Describe returns the model registered under name.
func (s *QueryService) Describe(name string) (*semantics.Model, error) {
	return s.catalog.Get(name)
}

// Explain compiles the request into SQL without executing it.
func (s *QueryService) Explain(name string, req semantics.Request) (*CompiledQuery, error) {
	model, err := s.catalog.Get(name)
	if err != nil {
		return nil, err
	}

	query, args, err := model.ToSQL(req)
	if err != nil {
		return nil, err
	}
	return &CompiledQuery{SQL: query, Args: args}, nil
}

// Query compiles and executes the request, returning column names and rows.
func (s *QueryService) Query(ctx context.Context, name string, req semantics.Request) (*semantics.Result, error) {
	model, err := s.catalog.Get(name)
	if err != nil {
		return nil, err
	}

	query, _, err := model.ToSQL(req)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := model.Query(ctx, req, s.store.DB())
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(started)

	if _, err := s.store.History().Record(ctx, models.QueryRecord{
		Model:      name,
		SQL:        query,
		DurationMs: elapsed.Milliseconds(),
		RowCount:   len(result.Rows),
	}); err != nil {
		// History is best effort; a failed insert must not fail the query.
		s.logger.Warnw("failed to record query history", "model", name, "error", err)
	}

	s.logger.Debugw("query executed", "model", name,
		"duration", elapsed, "rows", len(result.Rows))
	return result, nil
}

// History returns the latest executed queries, newest first.
func (s *QueryService) History(ctx context.Context, n uint64) ([]models.QueryRecord, error) {
	return s.store.History().Recent(ctx, n)
}

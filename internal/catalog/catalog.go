package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/quarrydata/quarry/internal/store"
	"github.com/quarrydata/quarry/pkg/semantics"
)

// ModelSpec declares a semantic model against a physical table. The table's
// column layout is resolved through introspection at registration time.
type ModelSpec struct {
	Name       string
	Table      string
	Dimensions map[string]semantics.Dimension
	Metrics    map[string]semantics.Metric
	Filters    map[string]semantics.Filter
	Sortable   []string
	Defaults   semantics.Defaults
	Strict     bool
}

// ModelNotFoundError indicates a lookup for an unregistered model.
type ModelNotFoundError struct {
	Name string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("semantic model %q not found", e.Name)
}

// IsModelNotFoundError checks if the error is a ModelNotFoundError.
func IsModelNotFoundError(err error) bool {
	var e *ModelNotFoundError
	return errors.As(err, &e)
}

// Catalog is the registry of compiled semantic models.
type Catalog struct {
	mu      sync.RWMutex
	models  map[string]*semantics.Model
	dataset *store.DatasetStore
	logger  *zap.SugaredLogger
}

func New(dataset *store.DatasetStore) *Catalog {
	return &Catalog{
		models:  make(map[string]*semantics.Model),
		dataset: dataset,
		logger:  zap.S().Named("catalog"),
	}
}

// Register introspects the spec's table, compiles the model and stores it
// under the spec name. Registering the same name twice is an error.
func (c *Catalog) Register(ctx context.Context, spec ModelSpec) error {
	table, err := c.dataset.SemanticTable(ctx, spec.Table)
	if err != nil {
		return fmt.Errorf("introspecting table %q: %w", spec.Table, err)
	}
	if len(table.Columns) == 0 {
		return fmt.Errorf("table %q has no columns; does it exist?", spec.Table)
	}

	model, err := semantics.New(semantics.Config{
		Table:      table,
		Dimensions: spec.Dimensions,
		Metrics:    spec.Metrics,
		Filters:    spec.Filters,
		Sortable:   spec.Sortable,
		Defaults:   spec.Defaults,
		Strict:     spec.Strict,
	})
	if err != nil {
		return fmt.Errorf("compiling model %q: %w", spec.Name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.models[spec.Name]; exists {
		return fmt.Errorf("semantic model %q already registered", spec.Name)
	}
	c.models[spec.Name] = model

	c.logger.Infow("model registered", "model", spec.Name, "table", spec.Table,
		"dimensions", len(spec.Dimensions), "metrics", len(spec.Metrics))
	return nil
}

// Get returns the model registered under name.
func (c *Catalog) Get(name string) (*semantics.Model, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	model, ok := c.models[name]
	if !ok {
		return nil, &ModelNotFoundError{Name: name}
	}
	return model, nil
}

// Names returns the registered model names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.models))
	for name := range c.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

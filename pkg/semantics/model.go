package semantics

import (
	"context"
	"database/sql"
	"sort"
)

// Column is a single column of the target table.
type Column struct {
	Name string
	Type string // declared data type, e.g. "VARCHAR", "BIGINT", "Nullable(TIMESTAMP)"
}

// Table references the table the model selects from.
type Table struct {
	Name    string
	Columns []Column
}

// Column returns the declared column with the given name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Dimension declares a groupable attribute. Exactly one of Column or Expr
// should be set; a declaration with neither compiles to nothing and is
// skipped during assembly.
type Dimension struct {
	Column string
	Expr   string
	As     string // output alias, defaults to the dimension name
}

// Metric declares a named aggregate.
type Metric struct {
	Agg string // aggregate expression, e.g. "count(*)" or "sum(amount)"
	As  string // output alias, defaults to the metric name
}

// Transform rewrites a filter value before it is bound. For list-valued
// operators it is applied per element.
type Transform func(any) any

// Filter declares a whitelisted predicate column.
type Filter struct {
	Column    string
	Operators []Operator
	Transform Transform
	InputType string // explicit UI input hint, inferred from the column type when empty
}

// Defaults are applied when a request omits the corresponding field.
type Defaults struct {
	OrderBy  []SortParam
	GroupBy  []string
	Limit    int // 0 means the built-in fallback of 100
	MaxLimit int // 0 means the built-in ceiling of 1000
}

// Config is the declarative model definition consumed by New.
type Config struct {
	Table      Table
	Dimensions map[string]Dimension
	Metrics    map[string]Metric
	Filters    map[string]Filter
	Sortable   []string
	Defaults   Defaults

	// Strict turns unknown dimension/metric/filter names in requests into
	// errors instead of dropping them silently.
	Strict bool
}

const (
	fallbackLimit    = 100
	fallbackMaxLimit = 1000
)

// Model is the compiled, immutable form of a Config.
type Model struct {
	table    Table
	strict   bool
	defaults Defaults

	dimFields    map[string]resolvedField
	metricFields map[string]resolvedField
	// combined field table for GROUP BY / ORDER BY lookup; metrics win on
	// name collision with dimensions.
	fields map[string]resolvedField

	filters map[string]resolvedFilter

	dimNames    []string // sorted, for deterministic select-all
	metricNames []string
	filterNames []string
	sortable    map[string]bool
}

// New validates the definition and compiles its field and filter tables.
// Filter columns must exist on the table; anything else about the definition
// is taken at face value.
func New(cfg Config) (*Model, error) {
	m := &Model{
		table:        cfg.Table,
		strict:       cfg.Strict,
		defaults:     cfg.Defaults,
		dimFields:    make(map[string]resolvedField, len(cfg.Dimensions)),
		metricFields: make(map[string]resolvedField, len(cfg.Metrics)),
		fields:       make(map[string]resolvedField, len(cfg.Dimensions)+len(cfg.Metrics)),
		filters:      make(map[string]resolvedFilter, len(cfg.Filters)),
		sortable:     make(map[string]bool, len(cfg.Sortable)),
	}

	for name, dim := range cfg.Dimensions {
		f := normalizeDimension(name, dim)
		m.dimFields[name] = f
		m.fields[name] = f
		m.dimNames = append(m.dimNames, name)
	}
	for name, met := range cfg.Metrics {
		f := normalizeMetric(name, met)
		m.metricFields[name] = f
		m.fields[name] = f
		m.metricNames = append(m.metricNames, name)
	}
	sort.Strings(m.dimNames)
	sort.Strings(m.metricNames)

	for name, flt := range cfg.Filters {
		rf, err := resolveFilter(name, flt, cfg.Table)
		if err != nil {
			return nil, err
		}
		m.filters[name] = rf
		m.filterNames = append(m.filterNames, name)
	}
	sort.Strings(m.filterNames)

	for _, name := range cfg.Sortable {
		m.sortable[name] = true
	}

	return m, nil
}

// Table returns the model's target table.
func (m *Model) Table() Table {
	return m.table
}

// DimensionNames returns the declared dimension names, sorted.
func (m *Model) DimensionNames() []string {
	return append([]string(nil), m.dimNames...)
}

// MetricNames returns the declared metric names, sorted.
func (m *Model) MetricNames() []string {
	return append([]string(nil), m.metricNames...)
}

// FilterHints returns the resolved UI input-type hint per filter name. The
// hint has no effect on SQL generation.
func (m *Model) FilterHints() map[string]string {
	hints := make(map[string]string, len(m.filters))
	for name, f := range m.filters {
		hints[name] = f.inputType
	}
	return hints
}

// ToSQL compiles the request into a full SELECT statement with bound args.
func (m *Model) ToSQL(req Request) (string, []any, error) {
	p, err := m.resolve(req)
	if err != nil {
		return "", nil, err
	}
	return m.statement(p).ToSql()
}

// Parts compiles the request into individual clause fragments for callers
// assembling custom statements (e.g. embedding inside a CTE).
func (m *Model) Parts(req Request) (*Parts, error) {
	p, err := m.resolve(req)
	if err != nil {
		return nil, err
	}
	return m.assemble(p), nil
}

// Client executes a compiled statement. *sql.DB satisfies it.
type Client interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Result holds rows from an executed semantic query.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Query compiles the request and executes it through the client.
func (m *Model) Query(ctx context.Context, req Request, client Client) (*Result, error) {
	query, args, err := m.ToSQL(req)
	if err != nil {
		return nil, err
	}

	rows, err := client.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, values)
	}

	return result, rows.Err()
}

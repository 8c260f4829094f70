package semantics

import (
	"sort"

	sq "github.com/Masterminds/squirrel"

	"github.com/quarrydata/quarry/pkg/filterexpr"
)

// Direction is an ORDER BY direction keyword.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// SortParam is a single ORDER BY entry.
type SortParam struct {
	Field string
	Desc  bool
}

// Sort is the single-field sort spec. An empty Direction means descending.
type Sort struct {
	Field     string
	Direction Direction
}

// Request is the per-call selection request. It is consumed once by the
// resolver and not retained.
type Request struct {
	Dimensions []string
	Metrics    []string

	// Filters maps filter name to operator to value. A nil value skips the
	// condition entirely.
	Filters map[string]map[Operator]any

	// Where is an optional free-form predicate in the filterexpr grammar,
	// resolved against the model's declared filter names.
	Where string

	// OrderBy takes precedence over Sort, which takes precedence over the
	// model default.
	OrderBy []SortParam
	Sort    *Sort

	Limit  *int
	Page   *int
	Offset *int
}

// plan is the resolved, default-applied form of a Request, ready for clause
// assembly.
type plan struct {
	// selectAll is set when the request named no fields; the assembler then
	// selects every declared dimension and metric.
	selectAll bool
	dims      []string
	metrics   []string

	groupBy []string
	conds   []sq.Sqlizer
	order   []SortParam

	limit  uint64
	offset uint64
}

func (m *Model) resolve(req Request) (*plan, error) {
	p := &plan{}

	dims, err := m.knownNames(req.Dimensions, m.dimFields, "dimension", m.dimNames)
	if err != nil {
		return nil, err
	}
	metrics, err := m.knownNames(req.Metrics, m.metricFields, "metric", m.metricNames)
	if err != nil {
		return nil, err
	}

	if len(dims) == 0 && len(metrics) == 0 {
		p.selectAll = true
		p.dims = m.dimNames
		p.metrics = m.metricNames
	} else {
		p.dims = dims
		p.metrics = metrics
	}

	// GROUP BY follows the requested dimensions, not the select-all
	// expansion; defaults govern when the request named none.
	switch {
	case len(dims) > 0:
		p.groupBy = dims
	case len(m.defaults.GroupBy) > 0:
		p.groupBy = m.defaults.GroupBy
	}

	order := req.OrderBy
	if len(order) == 0 && req.Sort != nil {
		order = []SortParam{{Field: req.Sort.Field, Desc: req.Sort.Direction != Ascending}}
	}
	if len(order) == 0 {
		order = m.defaults.OrderBy
	}
	for _, s := range order {
		if !m.sortable[s.Field] {
			return nil, newUnsortableFieldError(s.Field)
		}
	}
	p.order = order

	conds, err := m.resolveConditions(req)
	if err != nil {
		return nil, err
	}
	p.conds = conds

	limit := m.defaults.Limit
	if limit <= 0 {
		limit = fallbackLimit
	}
	if req.Limit != nil && *req.Limit > 0 {
		limit = *req.Limit
	}
	maxLimit := m.defaults.MaxLimit
	if maxLimit <= 0 {
		maxLimit = fallbackMaxLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	p.limit = uint64(limit)

	// A present page always wins over an explicit offset, even page zero.
	switch {
	case req.Page != nil:
		if *req.Page > 0 {
			p.offset = uint64(*req.Page) * p.limit
		}
	case req.Offset != nil && *req.Offset > 0:
		p.offset = uint64(*req.Offset)
	}

	return p, nil
}

// knownNames filters the requested names down to declared ones, preserving
// request order. Unknown names error in strict mode and are dropped
// otherwise.
func (m *Model) knownNames(requested []string, declared map[string]resolvedField, kind string, allowed []string) ([]string, error) {
	var out []string
	for _, name := range requested {
		if _, ok := declared[name]; !ok {
			if m.strict {
				return nil, newUnknownFieldError(kind, name, allowed)
			}
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// resolveConditions validates and compiles the request's filter map and Where
// expression. Filter names and operators are visited in sorted order so the
// compiled statement is byte-identical across calls.
func (m *Model) resolveConditions(req Request) ([]sq.Sqlizer, error) {
	var conds []sq.Sqlizer

	names := make([]string, 0, len(req.Filters))
	for name := range req.Filters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		flt, ok := m.filters[name]
		if !ok {
			if m.strict {
				return nil, newUnknownFieldError("filter", name, m.filterNames)
			}
			continue
		}

		ops := make([]Operator, 0, len(req.Filters[name]))
		for op := range req.Filters[name] {
			ops = append(ops, op)
		}
		sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })

		for _, op := range ops {
			if !flt.allows(op) {
				return nil, newDisallowedOperatorError(name, op, flt.operators)
			}
			if cond := compileCondition(flt.column, op, req.Filters[name][op], flt.transform); cond != nil {
				conds = append(conds, cond)
			}
		}
	}

	if req.Where != "" {
		columns := make(map[string]string, len(m.filters))
		for name, flt := range m.filters {
			columns[name] = flt.column
		}
		predicate, err := filterexpr.Compile([]byte(req.Where), columns)
		if err != nil {
			return nil, newInvalidExpressionError(req.Where, err)
		}
		conds = append(conds, sq.Expr(predicate))
	}

	return conds, nil
}

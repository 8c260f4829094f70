package semantics

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Parts exposes the individual clause fragments of a compiled request. Every
// field is a non-nil Sqlizer; clauses that do not apply render to empty SQL.
type Parts struct {
	// Select is the full select list; Dimensions and Metrics are its
	// dimension-only and metric-only slices.
	Select     sq.Sqlizer
	Dimensions sq.Sqlizer
	Metrics    sq.Sqlizer

	From sq.Sqlizer

	// Conditions is the bare conjunction; Where prepends the keyword.
	Conditions sq.Sqlizer
	Where      sq.Sqlizer

	GroupBy sq.Sqlizer
	OrderBy sq.Sqlizer

	// Pagination is the combined LIMIT/OFFSET clause; Limit and Offset are
	// the standalone pieces.
	Pagination sq.Sqlizer
	Limit      sq.Sqlizer
	Offset     sq.Sqlizer
}

// selectList renders the "<expr> AS <alias>" entries for the named fields,
// skipping inert declarations.
func selectList(names []string, fields map[string]resolvedField) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if entry := fields[name].selectExpr(); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// groupByExprs resolves group-by field names to expressions. Declared fields
// use their column or expression; an undeclared name falls back to the bare
// name as a raw identifier, an explicit escape hatch.
func (m *Model) groupByExprs(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if f, ok := m.fields[name]; ok {
			if expr := f.groupExpr(); expr != "" {
				out = append(out, expr)
			}
			continue
		}
		out = append(out, name)
	}
	return out
}

// orderByExprs resolves sort params to "<expr> <direction>" entries, dropping
// fields with no resolvable expression.
func (m *Model) orderByExprs(order []SortParam) []string {
	out := make([]string, 0, len(order))
	for _, s := range order {
		f, ok := m.fields[s.Field]
		if !ok {
			continue
		}
		expr := f.groupExpr()
		if expr == "" {
			continue
		}
		dir := Ascending
		if s.Desc {
			dir = Descending
		}
		out = append(out, expr+" "+string(dir))
	}
	return out
}

// assemble turns a resolved plan into clause fragments.
func (m *Model) assemble(p *plan) *Parts {
	dimCols := selectList(p.dims, m.dimFields)
	metCols := selectList(p.metrics, m.metricFields)

	parts := &Parts{
		Select:     rawListFragment(append(append([]string{}, dimCols...), metCols...)),
		Dimensions: rawListFragment(dimCols),
		Metrics:    rawListFragment(metCols),
		From:       rawFragment(m.table.Name),
		Conditions: EmptyFragment(),
		Where:      EmptyFragment(),
		GroupBy:    EmptyFragment(),
		OrderBy:    EmptyFragment(),
		Limit:      rawFragment(fmt.Sprintf("LIMIT %d", p.limit)),
		Offset:     EmptyFragment(),
	}

	if len(p.conds) > 0 {
		parts.Conditions = sq.And(p.conds)
		parts.Where = prefixed("WHERE", parts.Conditions)
	}
	if exprs := m.groupByExprs(p.groupBy); len(exprs) > 0 {
		parts.GroupBy = rawFragment("GROUP BY " + strings.Join(exprs, ", "))
	}
	if exprs := m.orderByExprs(p.order); len(exprs) > 0 {
		parts.OrderBy = rawFragment("ORDER BY " + strings.Join(exprs, ", "))
	}

	pagination := fmt.Sprintf("LIMIT %d", p.limit)
	if p.offset > 0 {
		parts.Offset = rawFragment(fmt.Sprintf("OFFSET %d", p.offset))
		pagination += fmt.Sprintf(" OFFSET %d", p.offset)
	}
	parts.Pagination = rawFragment(pagination)

	return parts
}

// statement builds the full SELECT through squirrel so clause order and
// argument order are handled in one place.
func (m *Model) statement(p *plan) sq.SelectBuilder {
	cols := append(selectList(p.dims, m.dimFields), selectList(p.metrics, m.metricFields)...)

	b := sq.Select(cols...).From(m.table.Name)
	for _, cond := range p.conds {
		b = b.Where(cond)
	}
	if exprs := m.groupByExprs(p.groupBy); len(exprs) > 0 {
		b = b.GroupBy(exprs...)
	}
	if exprs := m.orderByExprs(p.order); len(exprs) > 0 {
		b = b.OrderBy(exprs...)
	}
	b = b.Limit(p.limit)
	if p.offset > 0 {
		b = b.Offset(p.offset)
	}
	return b
}

// rawListFragment joins trusted select-list entries, or the empty fragment
// when there are none.
func rawListFragment(entries []string) sq.Sqlizer {
	if len(entries) == 0 {
		return EmptyFragment()
	}
	return rawFragment(strings.Join(entries, ", "))
}

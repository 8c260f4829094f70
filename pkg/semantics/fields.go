package semantics

type fieldKind int

const (
	// fieldInert declares neither a column nor an expression; it compiles to
	// nothing and is skipped during assembly.
	fieldInert fieldKind = iota
	fieldColumn
	fieldExpression
	fieldAggregate
)

// resolvedField is the normalized form of a dimension or metric declaration.
// The kind determines which SQL shape the assembler emits; ref is the column
// reference or expression text.
type resolvedField struct {
	kind  fieldKind
	ref   string
	alias string
}

func normalizeDimension(name string, dim Dimension) resolvedField {
	f := resolvedField{alias: dim.As}
	if f.alias == "" {
		f.alias = name
	}
	switch {
	case dim.Column != "":
		f.kind = fieldColumn
		f.ref = dim.Column
	case dim.Expr != "":
		f.kind = fieldExpression
		f.ref = dim.Expr
	}
	return f
}

func normalizeMetric(name string, met Metric) resolvedField {
	f := resolvedField{alias: met.As}
	if f.alias == "" {
		f.alias = name
	}
	if met.Agg != "" {
		f.kind = fieldAggregate
		f.ref = met.Agg
	}
	return f
}

// selectExpr returns the "<expr> AS <alias>" select-list entry, or "" for an
// inert field.
func (f resolvedField) selectExpr() string {
	if f.kind == fieldInert {
		return ""
	}
	return f.ref + " AS " + f.alias
}

// groupExpr returns the expression used in GROUP BY and ORDER BY. Aggregates
// resolve to their expression as well; sortable metrics rely on the engine
// accepting aggregate expressions in ORDER BY.
func (f resolvedField) groupExpr() string {
	if f.kind == fieldInert {
		return ""
	}
	return f.ref
}

package semantics

import "context"

// Builder accumulates a Request through chained calls and delegates to the
// model on a terminal call. It performs no SQL compilation of its own and is
// not safe for concurrent mutation; build one per chain.
type Builder struct {
	model *Model
	req   Request
}

// Build starts a fluent request builder for the model.
func (m *Model) Build() *Builder {
	return &Builder{model: m}
}

// Dimensions appends dimension names to the select list.
func (b *Builder) Dimensions(names ...string) *Builder {
	b.req.Dimensions = append(b.req.Dimensions, names...)
	return b
}

// Metrics appends metric names to the select list.
func (b *Builder) Metrics(names ...string) *Builder {
	b.req.Metrics = append(b.req.Metrics, names...)
	return b
}

// Filter sets a filter value. A nil value is a no-op, mirroring the
// resolver's skip semantics at the call site.
func (b *Builder) Filter(name string, op Operator, value any) *Builder {
	if value == nil {
		return b
	}
	if b.req.Filters == nil {
		b.req.Filters = make(map[string]map[Operator]any)
	}
	if b.req.Filters[name] == nil {
		b.req.Filters[name] = make(map[Operator]any)
	}
	b.req.Filters[name][op] = value
	return b
}

// Where sets the free-form predicate expression.
func (b *Builder) Where(expr string) *Builder {
	b.req.Where = expr
	return b
}

// Sort sets the single-field sort spec.
func (b *Builder) Sort(field string, dir Direction) *Builder {
	b.req.Sort = &Sort{Field: field, Direction: dir}
	return b
}

// OrderBy appends a multi-field order entry.
func (b *Builder) OrderBy(field string, desc bool) *Builder {
	b.req.OrderBy = append(b.req.OrderBy, SortParam{Field: field, Desc: desc})
	return b
}

// Limit sets the row limit.
func (b *Builder) Limit(n int) *Builder {
	b.req.Limit = &n
	return b
}

// Page sets the page number, overriding any explicit offset.
func (b *Builder) Page(n int) *Builder {
	b.req.Page = &n
	return b
}

// Offset sets the row offset.
func (b *Builder) Offset(n int) *Builder {
	b.req.Offset = &n
	return b
}

// Request freezes and returns the accumulated draft.
func (b *Builder) Request() Request {
	return b.req
}

// ToSQL compiles the accumulated request.
func (b *Builder) ToSQL() (string, []any, error) {
	return b.model.ToSQL(b.req)
}

// Parts compiles the accumulated request into clause fragments.
func (b *Builder) Parts() (*Parts, error) {
	return b.model.Parts(b.req)
}

// Execute compiles and runs the accumulated request.
func (b *Builder) Execute(ctx context.Context, client Client) (*Result, error) {
	return b.model.Query(ctx, b.req, client)
}

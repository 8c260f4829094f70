package semantics

import (
	"reflect"

	sq "github.com/Masterminds/squirrel"
)

// Operator tags a predicate shape a filter may compile to.
type Operator string

const (
	OpEq        Operator = "eq"
	OpNe        Operator = "ne"
	OpGt        Operator = "gt"
	OpGte       Operator = "gte"
	OpLt        Operator = "lt"
	OpLte       Operator = "lte"
	OpLike      Operator = "like"
	OpILike     Operator = "ilike"
	OpIn        Operator = "in"
	OpNotIn     Operator = "notIn"
	OpBetween   Operator = "between"
	OpIsNull    Operator = "isNull"
	OpIsNotNull Operator = "isNotNull"
)

// compileCondition emits the predicate fragment for one (column, operator,
// value) triple, or nil when the condition should be omitted entirely.
//
// A nil value always omits the condition; this is how optional filters skip
// cleanly. isNull/isNotNull are gated by their boolean flag instead. An empty
// list for in/notIn compiles to squirrel's (1=0)/(1=1) tautologies rather
// than invalid SQL.
//
// Value arity is not validated beyond the cases below: a between value that
// is not a two-element list, or a non-bool isNull flag, drops the condition.
// That is a programmer error, not a request validation concern.
func compileCondition(column string, op Operator, value any, transform Transform) sq.Sqlizer {
	if value == nil {
		return nil
	}

	switch op {
	case OpIsNull:
		if flag, ok := value.(bool); ok && flag {
			return sq.Eq{column: nil}
		}
		return nil
	case OpIsNotNull:
		if flag, ok := value.(bool); ok && flag {
			return sq.NotEq{column: nil}
		}
		return nil
	}

	value = applyTransform(value, transform)

	switch op {
	case OpEq:
		return sq.Eq{column: value}
	case OpNe:
		return sq.NotEq{column: value}
	case OpGt:
		return sq.Gt{column: value}
	case OpGte:
		return sq.GtOrEq{column: value}
	case OpLt:
		return sq.Lt{column: value}
	case OpLte:
		return sq.LtOrEq{column: value}
	case OpLike:
		return sq.Like{column: value}
	case OpILike:
		return sq.ILike{column: value}
	case OpIn:
		return sq.Eq{column: listValue(value)}
	case OpNotIn:
		return sq.NotEq{column: listValue(value)}
	case OpBetween:
		if pair := listValue(value); len(pair) == 2 {
			return sq.Expr(column+" BETWEEN ? AND ?", pair[0], pair[1])
		}
		return nil
	default:
		return nil
	}
}

// applyTransform maps the transform over list values element-wise and over
// scalars directly.
func applyTransform(value any, transform Transform) any {
	if transform == nil {
		return value
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = transform(rv.Index(i).Interface())
		}
		return out
	}
	return transform(value)
}

// listValue normalizes any slice into []any. Squirrel renders []any of zero
// length as the tautological (1=0)/(1=1) for Eq/NotEq.
func listValue(value any) []any {
	if vs, ok := value.([]any); ok {
		return vs
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

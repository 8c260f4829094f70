package semantics

import "strings"

// Input-type hints for downstream form rendering. They carry no behavioral
// effect on SQL generation.
const (
	HintText   = "text"
	HintNumber = "number"
	HintDate   = "date"
	HintSelect = "select"
)

// resolvedFilter is the compiled form of a filter declaration.
type resolvedFilter struct {
	column    string
	operators []Operator
	transform Transform
	inputType string
}

func resolveFilter(name string, flt Filter, table Table) (resolvedFilter, error) {
	col, ok := table.Column(flt.Column)
	if !ok {
		return resolvedFilter{}, newDefinitionError(
			"filter %q references column %q which does not exist on table %q",
			name, flt.Column, table.Name)
	}

	hint := flt.InputType
	if hint == "" {
		hint = hintForType(col.Type)
	}

	return resolvedFilter{
		column:    col.Name,
		operators: append([]Operator(nil), flt.Operators...),
		transform: flt.Transform,
		inputType: hint,
	}, nil
}

func (f resolvedFilter) allows(op Operator) bool {
	for _, allowed := range f.operators {
		if allowed == op {
			return true
		}
	}
	return false
}

// hintForType classifies a declared column type into a UI input hint.
// Matching is case-insensitive on the type prefix; Nullable(...)-style
// wrappers unwrap one level before classification.
func hintForType(dataType string) string {
	t := strings.ToLower(strings.TrimSpace(dataType))
	if idx := strings.IndexByte(t, '('); idx > 0 && strings.HasSuffix(t, ")") {
		switch t[:idx] {
		case "nullable", "lowcardinality":
			t = strings.ToLower(strings.TrimSpace(t[idx+1 : len(t)-1]))
		}
	}

	switch {
	case strings.HasPrefix(t, "datetime"), strings.HasPrefix(t, "date"), strings.HasPrefix(t, "timestamp"):
		return HintDate
	case strings.HasPrefix(t, "int"), strings.HasPrefix(t, "uint"),
		strings.HasPrefix(t, "float"), strings.HasPrefix(t, "decimal"),
		strings.HasPrefix(t, "bigint"), strings.HasPrefix(t, "double"):
		return HintNumber
	case strings.HasPrefix(t, "enum"), t == "bool", t == "boolean":
		return HintSelect
	default:
		return HintText
	}
}

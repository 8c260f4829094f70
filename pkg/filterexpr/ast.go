package filterexpr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Columns maps filter identifiers to the SQL column references they may
// resolve to. Identifiers outside the map fail compilation.
type Columns map[string]string

// Expression is the abstract syntax tree for any expression.
type Expression interface {
	String() string
	sql(cols Columns) (string, error)
}

// binaryExpression is an expression like "a = b" or "a and b".
type binaryExpression struct {
	Left  Expression
	Op    Token
	Right Expression
}

func (e *binaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op.String(), e.Right.String())
}

func (e *binaryExpression) sql(cols Columns) (string, error) {
	left, err := e.Left.sql(cols)
	if err != nil {
		return "", err
	}
	right, err := e.Right.sql(cols)
	if err != nil {
		return "", err
	}
	switch e.Op {
	case match:
		return fmt.Sprintf("regexp_matches(%s, %s)", left, right), nil
	case notMatch:
		return fmt.Sprintf("NOT regexp_matches(%s, %s)", left, right), nil
	default:
		return fmt.Sprintf("(%s %s %s)", left, e.Op.sql(), right), nil
	}
}

// stringExpression is a literal string like "foo".
type stringExpression struct {
	Value string
}

func (e *stringExpression) String() string {
	return strconv.Quote(e.Value)
}

func (e *stringExpression) sql(Columns) (string, error) {
	return "'" + strings.ReplaceAll(e.Value, "'", "''") + "'", nil
}

// varExpression is an identifier like "status" or "signup_date".
type varExpression struct {
	Name string
}

func (v *varExpression) String() string {
	return v.Name
}

// sql resolves the identifier through the whitelist; unknown names are
// rejected rather than quoted through, so the grammar cannot reach columns
// the model did not declare.
func (v *varExpression) sql(cols Columns) (string, error) {
	if col, ok := cols[v.Name]; ok {
		return col, nil
	}
	allowed := make([]string, 0, len(cols))
	for name := range cols {
		allowed = append(allowed, name)
	}
	return "", &UnknownIdentifierError{Name: v.Name, Allowed: allowed}
}

// booleanExpression is a boolean literal (true or false).
type booleanExpression struct {
	Value bool
}

func (b *booleanExpression) String() string {
	return strconv.FormatBool(b.Value)
}

func (b *booleanExpression) sql(Columns) (string, error) {
	if b.Value {
		return "TRUE", nil
	}
	return "FALSE", nil
}

// numberExpression is a numeric literal.
type numberExpression struct {
	Value float64
	Text  string // original token text, preserved to keep output stable
}

func newNumberExpression(pos int, text string) *numberExpression {
	val, err := strconv.ParseFloat(text, 64)
	if err != nil {
		panic(ParseError{pos, fmt.Sprintf("invalid number: %s", text)})
	}
	return &numberExpression{Value: val, Text: text}
}

func (n *numberExpression) String() string {
	return n.Text
}

func (n *numberExpression) sql(Columns) (string, error) {
	return n.Text, nil
}

// regexExpression is a regex literal like /pattern/.
type regexExpression struct {
	Pattern string
}

func newRegexExpression(pos int, pattern string) *regexExpression {
	if _, err := regexp.Compile(pattern); err != nil {
		panic(ParseError{pos, fmt.Sprintf("invalid regex: %s", err)})
	}
	return &regexExpression{Pattern: pattern}
}

func (r *regexExpression) String() string {
	return fmt.Sprintf("/%s/", r.Pattern)
}

func (r *regexExpression) sql(Columns) (string, error) {
	return "'" + strings.ReplaceAll(r.Pattern, "'", "''") + "'", nil
}

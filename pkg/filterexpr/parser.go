package filterexpr

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ParseError is the type of error returned by Parse.
type ParseError struct {
	// Source column position where the error occurred.
	Position int
	// Error message.
	Message string
}

// Error returns a formatted version of the error, including the position.
func (e ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Position, e.Message)
}

// UnknownIdentifierError indicates the expression referenced a name outside
// the column whitelist.
type UnknownIdentifierError struct {
	Name    string
	Allowed []string
}

func (e *UnknownIdentifierError) Error() string {
	sort.Strings(e.Allowed)
	return fmt.Sprintf("unknown identifier %q (allowed: %s)", e.Name, strings.Join(e.Allowed, ", "))
}

// IsUnknownIdentifierError checks if the error is an UnknownIdentifierError.
func IsUnknownIdentifierError(err error) bool {
	var e *UnknownIdentifierError
	return errors.As(err, &e)
}

type parser struct {
	lexer *lexer
	pos   int    // position of last token (tok)
	tok   Token  // last lexed token
	val   string // string value of last token (or "")
}

// Parse uses panic/recover internally so recursive-descent methods can signal
// errors without threading (Expression, error) through every call. ParseError
// panics are caught here and returned as normal errors; any other panic (bug)
// is re-raised.
func Parse(src []byte) (expr Expression, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(ParseError); ok {
				expr = nil
				err = pe
			} else {
				panic(r)
			}
		}
	}()

	lexer := newLexer(src)
	p := parser{lexer: lexer}
	p.next()

	expr = p.expression()
	p.expect(eol)

	return expr, err
}

// Compile parses src and renders it to a SQL predicate with identifiers
// resolved through cols.
func Compile(src []byte, cols Columns) (string, error) {
	expr, err := Parse(src)
	if err != nil {
		return "", err
	}
	return expr.sql(cols)
}

// expression parses a logic expression.
//
// term ( "or" term )*
func (p *parser) expression() Expression {
	expr := p.term()

	for p.matches(or) {
		op := p.tok
		p.next()
		right := p.term()
		expr = &binaryExpression{Left: expr, Op: op, Right: right}
	}

	return expr
}

// term parses an AND expression.
//
// factor ( "and" factor )*
func (p *parser) term() Expression {
	expr := p.factor()

	for p.matches(and) {
		op := p.tok
		p.next()
		right := p.factor()
		expr = &binaryExpression{Left: expr, Op: op, Right: right}
	}

	return expr
}

// factor parses a single comparison or grouped expression.
//
// comparison | "(" expression ")"
func (p *parser) factor() Expression {
	if p.matches(lbracket) {
		p.next()
		expr := p.expression()
		p.expect(rbracket)
		p.next()
		return expr
	}

	return p.comparison()
}

// comparison parses a comparison expression.
//
// IDENTIFIER ( "=" | "!=" | "<" | "<=" | ">" | ">=" | "~" | "!~" ) value
func (p *parser) comparison() Expression {
	p.expect(identifier)
	left := &varExpression{Name: p.val}
	p.next()

	var op Token
	switch p.tok {
	case equal, notEqual, greater, gte, less, lte, match, notMatch:
		op = p.tok
		p.next()
	default:
		panic(p.errorf("expected operator instead of %s", p.tok))
	}

	right := p.value()

	return &binaryExpression{Left: left, Op: op, Right: right}
}

// value parses a value (string, number, boolean, or regex).
func (p *parser) value() Expression {
	var expr Expression

	switch p.tok {
	case stringLit:
		expr = &stringExpression{Value: p.val}
	case numberLit:
		expr = newNumberExpression(p.pos, p.val)
	case boolean:
		expr = &booleanExpression{Value: strings.EqualFold(p.val, "true")}
	case regexLit:
		expr = newRegexExpression(p.pos, p.val)
	default:
		panic(p.errorf("expected value instead of %s", p.tok))
	}

	p.next()
	return expr
}

// next parses the next token into p.tok.
func (p *parser) next() {
	p.pos, p.tok, p.val = p.lexer.Scan()
	if p.tok == illegal {
		panic(p.errorf("%s", p.val))
	}
}

// matches returns true if current token matches one of the given tokens.
func (p *parser) matches(tokens ...Token) bool {
	return slices.Contains(tokens, p.tok)
}

// expect panics if current token is not the expected token.
func (p *parser) expect(tok Token) {
	if p.tok != tok {
		panic(p.errorf("expected %s instead of %s", tok, p.tok))
	}
}

// errorf formats an error with the current position.
func (p *parser) errorf(format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	return ParseError{p.pos, message}
}

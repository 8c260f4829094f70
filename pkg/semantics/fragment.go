package semantics

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// EmptyFragment is the fragment for a clause that does not apply. It renders
// to zero SQL text and no arguments.
func EmptyFragment() sq.Sqlizer {
	return sq.Expr("")
}

// IsEmptyFragment reports whether the fragment renders to no SQL text.
func IsEmptyFragment(f sq.Sqlizer) bool {
	if f == nil {
		return true
	}
	text, _, err := f.ToSql()
	return err == nil && strings.TrimSpace(text) == ""
}

// rawFragment embeds trusted SQL text (identifiers, keywords) verbatim. Never
// used for request values.
func rawFragment(text string) sq.Sqlizer {
	return sq.Expr(text)
}

// prefixed renders "<keyword> <fragment>", or the empty fragment when the
// body is empty.
func prefixed(keyword string, body sq.Sqlizer) sq.Sqlizer {
	if IsEmptyFragment(body) {
		return EmptyFragment()
	}
	return sq.ConcatExpr(keyword, " ", body)
}

// Package filterexpr parses free-form predicate strings into SQL WHERE
// expressions, restricted to a caller-supplied identifier whitelist.
//
// Grammar
//
// --- PARSER RULES ---
//
// expression  : term ( "or" term )* ;
// term        : factor ( "and" factor )* ;
//
// factor      : comparison
//             | "(" expression ")" ;
//
// // Regex gets its own distinct rule based on the operator used
// comparison  : IDENTIFIER ( "=" | "!=" | "<" | "<=" | ">" | ">=" ) value
//             | IDENTIFIER ( "~" | "!~" ) REGEX_LITERAL ;
//
// value       : STRING | NUMBER | BOOLEAN ;
//
// --- LEXER RULES ---
//
// IDENTIFIER    : [a-zA-Z_.]+ ;
//
// // AWK-style regex: /pattern/
// // Matches anything between two forward slashes
// REGEX_LITERAL : '/' ( '\\/' | . )*? '/' ;
//
// STRING        : "'" (.*?) "'" | "\"" (.*?) "\"" ;
// BOOLEAN       : "true" | "false" ;
// NUMBER        : [0-9]+(\.[0-9]+)? ;
//
// Identifiers resolve through the column map given to Compile; a name outside
// the map fails compilation, so the grammar can be exposed to end users
// without widening the queryable surface beyond the model's declared filters.
// String and regex literals are embedded with single-quote doubling; regex
// comparisons translate to regexp_matches(...).
package filterexpr

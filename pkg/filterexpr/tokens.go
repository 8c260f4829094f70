package filterexpr

type Token int

const (
	illegal Token = iota
	eol
	and
	or
	equal
	gte
	greater
	lte
	less
	notEqual
	match
	notMatch
	lbracket
	rbracket
	stringLit
	regexLit
	numberLit
	identifier
	boolean
)

var tokenNames = map[Token]string{
	illegal:    "illegal",
	eol:        "eol",
	and:        "and",
	or:         "or",
	equal:      "equal",
	gte:        "gte",
	greater:    "greater",
	lte:        "lte",
	less:       "less",
	notEqual:   "notEqual",
	match:      "match",
	notMatch:   "notMatch",
	lbracket:   "lbracket",
	rbracket:   "rbracket",
	stringLit:  "stringLit",
	regexLit:   "regexLit",
	numberLit:  "numberLit",
	identifier: "identifier",
	boolean:    "boolean",
}

func (t Token) String() string {
	return tokenNames[t]
}

var tokenSQL = map[Token]string{
	and:      "AND",
	or:       "OR",
	equal:    "=",
	gte:      ">=",
	greater:  ">",
	lte:      "<=",
	less:     "<",
	notEqual: "!=",
	match:    "",    // translated to regexp_matches(...)
	notMatch: "NOT", // translated to NOT regexp_matches(...)
}

func (t Token) sql() string {
	return tokenSQL[t]
}

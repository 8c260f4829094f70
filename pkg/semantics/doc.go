// Package semantics compiles declarative analytic models into parameterized
// SQL. A model declares the dimensions (groupable attributes), metrics
// (aggregates) and filters (whitelisted predicate columns and operators) of a
// single table; per-request the compiler turns a selection request into a
// SELECT statement with WHERE, GROUP BY, ORDER BY and pagination clauses.
//
// All SQL is built through squirrel, so user-supplied values always travel as
// bound arguments. Column references and expressions come from the model
// definition only and are treated as trusted identifiers.
//
// A Model is immutable after New and safe for concurrent use; every call is a
// one-shot validate/resolve/assemble pipeline with no retained state.
package semantics

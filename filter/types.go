// Package filter compiles user-supplied query strings into structured,
// composable filter expressions driven by a declared parameter schema.
// Expressions render to MongoDB filters (bson.M) or SQL predicates (squirrel).
package filter

// ParamType is the closed set of value types a schema may declare for a
// query parameter. Anything outside this set drops the parameter entirely.
type ParamType uint8

const (
	// TypeString passes tokens through untransformed.
	TypeString ParamType = iota
	// TypeBool maps "true", "yes" and "1" to true, everything else to false.
	TypeBool
	// TypeLike performs a case-insensitive substring match. Regex
	// metacharacters in the token are escaped before the pattern is built.
	TypeLike
	// TypeInt parses tokens as integers (truncating). Non-numeric tokens
	// become NaN.
	TypeInt
	// TypeFloat parses tokens as floats. Non-numeric tokens become NaN.
	TypeFloat
)

// Schema maps accepted query-parameter names to their declared types.
// A schema is defined once per controller and must not be mutated afterwards.
type Schema map[string]ParamType

// Operator combines multiple per-field clauses into one group.
type Operator string

const (
	OpAnd Operator = "and"
	OpOr  Operator = "or"
	OpNor Operator = "nor"
)

// Pattern is the value form produced for TypeLike parameters. It carries the
// raw token; each renderer applies its own escaping (regexp.QuoteMeta for
// MongoDB, LIKE-wildcard escaping for SQL).
type Pattern struct {
	Source string
}

package filter

import (
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Expression is a node in a compiled filter. The set of implementations is
// closed: Equality, Or and Group. Expressions are immutable once built.
type Expression interface {
	// ToBSON renders the expression as a MongoDB filter document.
	ToBSON() bson.M

	isExpression()
}

// Equality matches a single field against a single value.
type Equality struct {
	Field string
	Value any
}

// Or matches a single field against any of several values
// (a comma-separated list in the query string).
type Or struct {
	Field  string
	Values []any
}

// Group combines sub-expressions under a logical operator.
type Group struct {
	Op    Operator
	Exprs []Expression
}

func (Equality) isExpression() {}
func (Or) isExpression()       {}
func (Group) isExpression()    {}

// ToBSON renders an equality clause. Pattern values become case-insensitive
// regex matches with their metacharacters escaped.
func (e Equality) ToBSON() bson.M {
	return bson.M{e.Field: bsonValue(e.Value)}
}

// ToBSON renders a multi-value clause. Plain values collapse into $in;
// pattern values force an explicit $or of regex matches.
func (o Or) ToBSON() bson.M {
	if !hasPattern(o.Values) {
		return bson.M{o.Field: bson.M{"$in": o.Values}}
	}
	alts := make([]bson.M, 0, len(o.Values))
	for _, v := range o.Values {
		alts = append(alts, bson.M{o.Field: bsonValue(v)})
	}
	return bson.M{"$or": alts}
}

// ToBSON renders the group under $and, $or or $nor.
func (g Group) ToBSON() bson.M {
	subs := make([]bson.M, 0, len(g.Exprs))
	for _, e := range g.Exprs {
		subs = append(subs, e.ToBSON())
	}
	return bson.M{"$" + string(g.Op): subs}
}

func bsonValue(v any) any {
	if p, ok := v.(Pattern); ok {
		return bson.M{"$regex": regexp.QuoteMeta(p.Source), "$options": "i"}
	}
	return v
}

func hasPattern(values []any) bool {
	for _, v := range values {
		if _, ok := v.(Pattern); ok {
			return true
		}
	}
	return false
}

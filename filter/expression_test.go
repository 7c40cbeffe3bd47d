package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestEqualityToBSON(t *testing.T) {
	t.Run("plain_value", func(t *testing.T) {
		got := Equality{Field: "name", Value: "alice"}.ToBSON()
		assert.Equal(t, bson.M{"name": "alice"}, got)
	})

	t.Run("pattern_escapes_metacharacters", func(t *testing.T) {
		got := Equality{Field: "title", Value: Pattern{Source: "c++ (v2)"}}.ToBSON()
		assert.Equal(t, bson.M{"title": bson.M{"$regex": `c\+\+ \(v2\)`, "$options": "i"}}, got)
	})

	t.Run("empty_collection", func(t *testing.T) {
		got := Equality{Field: "tags", Value: []any{}}.ToBSON()
		assert.Equal(t, bson.M{"tags": []any{}}, got)
	})
}

func TestOrToBSON(t *testing.T) {
	t.Run("plain_values_collapse_to_in", func(t *testing.T) {
		got := Or{Field: "age", Values: []any{int64(5), int64(6)}}.ToBSON()
		assert.Equal(t, bson.M{"age": bson.M{"$in": []any{int64(5), int64(6)}}}, got)
	})

	t.Run("patterns_force_explicit_or", func(t *testing.T) {
		got := Or{Field: "title", Values: []any{Pattern{Source: "go"}, "exact"}}.ToBSON()
		assert.Equal(t, bson.M{"$or": []bson.M{
			{"title": bson.M{"$regex": "go", "$options": "i"}},
			{"title": "exact"},
		}}, got)
	})
}

func TestGroupToBSON(t *testing.T) {
	exprs := []Expression{
		Equality{Field: "a", Value: int64(1)},
		Equality{Field: "b", Value: int64(2)},
	}

	tests := []struct {
		name string
		op   Operator
		key  string
	}{
		{name: "and", op: OpAnd, key: "$and"},
		{name: "or", op: OpOr, key: "$or"},
		{name: "nor", op: OpNor, key: "$nor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Group{Op: tt.op, Exprs: exprs}.ToBSON()
			assert.Equal(t, bson.M{tt.key: []bson.M{{"a": int64(1)}, {"b": int64(2)}}}, got)
		})
	}
}

package filter

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		"name":   TypeString,
		"title":  TypeLike,
		"active": TypeBool,
		"age":    TypeInt,
		"score":  TypeFloat,
	}
}

func TestCompileSingleValues(t *testing.T) {
	tests := []struct {
		name     string
		query    url.Values
		expected Expression
	}{
		{
			name:     "string_equality",
			query:    url.Values{"name": {"alice"}},
			expected: Equality{Field: "name", Value: "alice"},
		},
		{
			name:     "integer_equality",
			query:    url.Values{"age": {"5"}},
			expected: Equality{Field: "age", Value: int64(5)},
		},
		{
			name:     "integer_truncates",
			query:    url.Values{"age": {"5.9"}},
			expected: Equality{Field: "age", Value: int64(5)},
		},
		{
			name:     "float_equality",
			query:    url.Values{"score": {"2.5"}},
			expected: Equality{Field: "score", Value: 2.5},
		},
		{
			name:     "bool_true_token",
			query:    url.Values{"active": {"yes"}},
			expected: Equality{Field: "active", Value: true},
		},
		{
			name:     "bool_unrecognized_token_is_false",
			query:    url.Values{"active": {"banana"}},
			expected: Equality{Field: "active", Value: false},
		},
		{
			name:     "like_wraps_pattern",
			query:    url.Values{"title": {"c++"}},
			expected: Equality{Field: "title", Value: Pattern{Source: "c++"}},
		},
		{
			name:     "empty_collection_sentinel",
			query:    url.Values{"name": {"[]"}},
			expected: Equality{Field: "name", Value: []any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Compile(testSchema(), tt.query, DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, expr)
		})
	}
}

func TestCompileMultiValues(t *testing.T) {
	t.Run("comma_is_or_within_field", func(t *testing.T) {
		expr, err := Compile(testSchema(), url.Values{"age": {"5,6"}}, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, Or{Field: "age", Values: []any{int64(5), int64(6)}}, expr)
	})

	t.Run("empty_tokens_dropped", func(t *testing.T) {
		expr, err := Compile(testSchema(), url.Values{"name": {"a,,b"}}, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, Or{Field: "name", Values: []any{"a", "b"}}, expr)
	})
}

func TestCompileKeyRemoval(t *testing.T) {
	t.Run("keys_outside_schema_ignored", func(t *testing.T) {
		expr, err := Compile(testSchema(), url.Values{"unknown": {"x"}, "page": {"3"}}, DefaultOptions())
		require.NoError(t, err)
		assert.Nil(t, expr)
	})

	t.Run("match_all_sentinel_removes_key", func(t *testing.T) {
		for key := range testSchema() {
			expr, err := Compile(testSchema(), url.Values{key: {"*"}}, DefaultOptions())
			require.NoError(t, err)
			assert.Nil(t, expr, "key %s", key)
		}
	})

	t.Run("custom_match_all_sentinel", func(t *testing.T) {
		opts := Options{MatchAll: "any", StrictLogical: true}
		expr, err := Compile(testSchema(), url.Values{"name": {"any"}}, opts)
		require.NoError(t, err)
		assert.Nil(t, expr)
	})

	t.Run("empty_value_removes_key", func(t *testing.T) {
		expr, err := Compile(testSchema(), url.Values{"name": {""}}, DefaultOptions())
		require.NoError(t, err)
		assert.Nil(t, expr)
	})
}

func TestCompileNaN(t *testing.T) {
	t.Run("non_numeric_integer_token", func(t *testing.T) {
		expr, err := Compile(testSchema(), url.Values{"age": {"abc"}}, DefaultOptions())
		require.NoError(t, err)
		eq, ok := expr.(Equality)
		require.True(t, ok)
		f, ok := eq.Value.(float64)
		require.True(t, ok)
		assert.True(t, math.IsNaN(f))
	})
}

func TestCompileGroups(t *testing.T) {
	t.Run("default_operator_is_and", func(t *testing.T) {
		expr, err := Compile(testSchema(), url.Values{"name": {"a"}, "age": {"1"}}, DefaultOptions())
		require.NoError(t, err)
		g, ok := expr.(Group)
		require.True(t, ok)
		assert.Equal(t, OpAnd, g.Op)
		assert.Len(t, g.Exprs, 2)
	})

	t.Run("clause_order_is_deterministic", func(t *testing.T) {
		query := url.Values{"score": {"1"}, "age": {"1"}, "name": {"a"}}
		expr, err := Compile(testSchema(), query, DefaultOptions())
		require.NoError(t, err)
		g := expr.(Group)
		require.Len(t, g.Exprs, 3)
		assert.Equal(t, "age", g.Exprs[0].(Equality).Field)
		assert.Equal(t, "name", g.Exprs[1].(Equality).Field)
		assert.Equal(t, "score", g.Exprs[2].(Equality).Field)
	})

	t.Run("logical_parameter_selects_operator", func(t *testing.T) {
		query := url.Values{"name": {"a"}, "age": {"1"}, "logical": {"@OR "}}
		expr, err := Compile(testSchema(), query, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, OpOr, expr.(Group).Op)
	})

	t.Run("nor_operator", func(t *testing.T) {
		query := url.Values{"name": {"a"}, "age": {"1"}, "logical": {"nor"}}
		expr, err := Compile(testSchema(), query, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, OpNor, expr.(Group).Op)
	})

	t.Run("single_clause_ignores_operator", func(t *testing.T) {
		query := url.Values{"name": {"a"}, "logical": {"or"}}
		expr, err := Compile(testSchema(), query, DefaultOptions())
		require.NoError(t, err)
		assert.IsType(t, Equality{}, expr)
	})
}

func TestCompileInvalidOperator(t *testing.T) {
	t.Run("strict_mode_rejects", func(t *testing.T) {
		query := url.Values{"name": {"a"}, "logical": {"xor"}}
		_, err := Compile(testSchema(), query, DefaultOptions())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidOperator)
	})

	t.Run("lax_mode_passes_through", func(t *testing.T) {
		query := url.Values{"name": {"a"}, "age": {"1"}, "logical": {"xor"}}
		expr, err := Compile(testSchema(), query, Options{MatchAll: "*"})
		require.NoError(t, err)
		assert.Equal(t, Operator("xor"), expr.(Group).Op)
	})
}

func TestCompileEmptyInputs(t *testing.T) {
	t.Run("no_query", func(t *testing.T) {
		expr, err := Compile(testSchema(), url.Values{}, DefaultOptions())
		require.NoError(t, err)
		assert.Nil(t, expr)
	})

	t.Run("nil_schema", func(t *testing.T) {
		expr, err := Compile(nil, url.Values{"name": {"a"}}, DefaultOptions())
		require.NoError(t, err)
		assert.Nil(t, expr)
	})
}

package filter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestResolveOrdering(t *testing.T) {
	tests := []struct {
		name     string
		query    url.Values
		expected Order
	}{
		{
			name:     "no_order_parameter",
			query:    url.Values{},
			expected: nil,
		},
		{
			name:     "single_field_defaults_ascending",
			query:    url.Values{"order": {"name"}},
			expected: Order{{Field: "name"}},
		},
		{
			name:     "pipe_delimited_direction",
			query:    url.Values{"order": {"created|desc,name|asc"}},
			expected: Order{{Field: "created", Desc: true}, {Field: "name"}},
		},
		{
			name:     "numeric_direction_tokens",
			query:    url.Values{"order": {"a|-1,b|1"}},
			expected: Order{{Field: "a", Desc: true}, {Field: "b"}},
		},
		{
			name:     "unknown_direction_is_ascending",
			query:    url.Values{"order": {"a|sideways"}},
			expected: Order{{Field: "a"}},
		},
		{
			name:     "global_direction_fallback",
			query:    url.Values{"order": {"a,b|asc"}, "direction": {"desc"}},
			expected: Order{{Field: "a", Desc: true}, {Field: "b"}},
		},
		{
			name:     "empty_tokens_skipped",
			query:    url.Values{"order": {"a,,|desc,b"}},
			expected: Order{{Field: "a"}, {Field: "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveOrdering(tt.query))
		})
	}
}

func TestOrderRendering(t *testing.T) {
	order := Order{{Field: "created", Desc: true}, {Field: "name"}}

	t.Run("to_bson_preserves_priority", func(t *testing.T) {
		assert.Equal(t, bson.D{
			{Key: "created", Value: -1},
			{Key: "name", Value: 1},
		}, order.ToBSON())
	})

	t.Run("to_sql", func(t *testing.T) {
		assert.Equal(t, []string{"created DESC", "name ASC"}, order.ToSQL())
	})
}

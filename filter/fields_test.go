package filter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestResolveFields(t *testing.T) {
	tests := []struct {
		name     string
		query    url.Values
		expected []string
	}{
		{name: "absent", query: url.Values{}, expected: nil},
		{name: "fields_parameter", query: url.Values{"fields": {"a, b,c"}}, expected: []string{"a", "b", "c"}},
		{name: "attributes_fallback", query: url.Values{"attributes": {"x,y"}}, expected: []string{"x", "y"}},
		{name: "fields_wins_over_attributes", query: url.Values{"fields": {"a"}, "attributes": {"b"}}, expected: []string{"a"}},
		{name: "star_selects_everything", query: url.Values{"fields": {"a,*,b"}}, expected: nil},
		{name: "empty_tokens_dropped", query: url.Values{"fields": {",,a,"}}, expected: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveFields(tt.query))
		})
	}
}

func TestToProjection(t *testing.T) {
	t.Run("empty_means_all", func(t *testing.T) {
		assert.Nil(t, ToProjection(nil))
	})

	t.Run("projects_named_fields", func(t *testing.T) {
		assert.Equal(t, bson.M{"a": 1, "b": 1}, ToProjection([]string{"a", "b"}))
	})
}

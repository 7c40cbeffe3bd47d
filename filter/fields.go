package filter

import (
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FieldsParam and AttributesParam are the reserved projection parameters.
const (
	FieldsParam     = "fields"
	AttributesParam = "attributes"
)

// ResolveFields parses the requested projection from the "fields" parameter,
// falling back to "attributes". A nil result means "all fields"; a "*" token
// anywhere also selects everything.
func ResolveFields(values url.Values) []string {
	raw := values.Get(FieldsParam)
	if raw == "" {
		raw = values.Get(AttributesParam)
	}
	if raw == "" {
		return nil
	}

	var fields []string
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if token == "*" {
			return nil
		}
		fields = append(fields, token)
	}
	return fields
}

// ToProjection renders a field list as a MongoDB projection document.
// An empty list yields nil (project everything).
func ToProjection(fields []string) bson.M {
	if len(fields) == 0 {
		return nil
	}
	proj := make(bson.M, len(fields))
	for _, f := range fields {
		proj[f] = 1
	}
	return proj
}

package filter

import (
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// OrderField is one sort key. Earlier fields take precedence.
type OrderField struct {
	Field string
	Desc  bool
}

// Order is the resolved ordering of a request; insertion order is
// significance order.
type Order []OrderField

// OrderParam and DirectionParam are the reserved ordering query parameters.
const (
	OrderParam     = "order"
	DirectionParam = "direction"
)

// ResolveOrdering parses the "order" parameter as comma-separated
// "field|direction" pairs. The direction is optional per field and falls back
// to the request-wide "direction" parameter, then to ascending. Direction
// tokens "-1" and "desc" select descending; "1", "asc" and anything else
// ascending.
func ResolveOrdering(values url.Values) Order {
	raw := values.Get(OrderParam)
	if raw == "" {
		return nil
	}
	globalDir := values.Get(DirectionParam)

	var order Order
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		field, dir, hasDir := strings.Cut(token, "|")
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if !hasDir {
			dir = globalDir
		}
		order = append(order, OrderField{Field: field, Desc: isDescending(dir)})
	}
	return order
}

func isDescending(dir string) bool {
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "-1", "desc":
		return true
	default:
		return false
	}
}

// ToBSON renders the ordering as a MongoDB sort document.
func (o Order) ToBSON() bson.D {
	sort := make(bson.D, 0, len(o))
	for _, f := range o {
		dir := 1
		if f.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: f.Field, Value: dir})
	}
	return sort
}

// ToSQL renders the ordering as ORDER BY terms for a squirrel select.
func (o Order) ToSQL() []string {
	terms := make([]string, 0, len(o))
	for _, f := range o {
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		terms = append(terms, f.Field+" "+dir)
	}
	return terms
}

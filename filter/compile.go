package filter

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidOperator is returned when the logical query parameter is outside
// the {and, or, nor} vocabulary and strict mode is enabled.
var ErrInvalidOperator = errors.New("invalid logical operator")

// Options tunes filter compilation.
type Options struct {
	// MatchAll is the sentinel value that removes a key from the filter.
	MatchAll string
	// StrictLogical rejects unknown logical operators with ErrInvalidOperator
	// instead of passing them through verbatim.
	StrictLogical bool
}

// DefaultOptions returns the compilation defaults: "*" as the match-all
// sentinel and strict logical-operator validation.
func DefaultOptions() Options {
	return Options{MatchAll: "*", StrictLogical: true}
}

// LogicalParam is the reserved query parameter naming the group operator.
const LogicalParam = "logical"

// emptyCollection is the literal a client sends to match an empty collection.
const emptyCollection = "[]"

// Compile translates a raw query into an Expression obeying the schema.
// Keys absent from the schema are ignored. A nil Expression with a nil error
// means the query carries no filterable conditions.
//
// Per key: the match-all sentinel removes the key; the value is split on ","
// and each token is converted per the declared type; a single token yields an
// Equality, several tokens an Or. Multiple keys combine under the operator
// named by the "logical" parameter (default and).
func Compile(schema Schema, values url.Values, opts Options) (Expression, error) {
	if opts.MatchAll == "" {
		opts.MatchAll = "*"
	}

	op, err := resolveOperator(values.Get(LogicalParam), opts.StrictLogical)
	if err != nil {
		return nil, err
	}

	// Deterministic clause order regardless of map iteration.
	keys := make([]string, 0, len(schema))
	for key := range schema {
		if values.Has(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	clauses := make([]Expression, 0, len(keys))
	for _, key := range keys {
		if clause, ok := compileKey(key, schema[key], values.Get(key), opts.MatchAll); ok {
			clauses = append(clauses, clause)
		}
	}

	switch len(clauses) {
	case 0:
		return nil, nil
	case 1:
		return clauses[0], nil
	default:
		return Group{Op: op, Exprs: clauses}, nil
	}
}

func compileKey(key string, pt ParamType, raw, matchAll string) (Expression, bool) {
	if raw == matchAll {
		return nil, false
	}

	tokens := make([]string, 0, 4)
	for _, t := range strings.Split(raw, ",") {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return nil, false
	}

	if len(tokens) == 1 {
		if tokens[0] == emptyCollection {
			return Equality{Field: key, Value: []any{}}, true
		}
		v, ok := convertToken(pt, tokens[0])
		if !ok {
			return nil, false
		}
		return Equality{Field: key, Value: v}, true
	}

	converted := make([]any, 0, len(tokens))
	for _, t := range tokens {
		v, ok := convertToken(pt, t)
		if !ok {
			return nil, false
		}
		converted = append(converted, v)
	}
	return Or{Field: key, Values: converted}, true
}

// convertToken maps a raw token to its typed value. The switch is exhaustive
// over ParamType; an out-of-range tag drops the key (fail open, not closed).
func convertToken(pt ParamType, token string) (any, bool) {
	switch pt {
	case TypeString:
		return token, true
	case TypeBool:
		switch token {
		case "true", "yes", "1":
			return true, true
		default:
			return false, true
		}
	case TypeLike:
		return Pattern{Source: token}, true
	case TypeInt:
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return math.NaN(), true
		}
		return int64(f), true
	case TypeFloat:
		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return math.NaN(), true
		}
		return f, true
	default:
		return nil, false
	}
}

func resolveOperator(raw string, strict bool) (Operator, error) {
	normalized := strings.ToLower(raw)
	normalized = strings.ReplaceAll(normalized, "@", "")
	normalized = strings.Join(strings.Fields(normalized), "")

	switch normalized {
	case "":
		return OpAnd, nil
	case string(OpAnd), string(OpOr), string(OpNor):
		return Operator(normalized), nil
	}
	if strict {
		return "", fmt.Errorf("%w: %q", ErrInvalidOperator, raw)
	}
	return Operator(normalized), nil
}

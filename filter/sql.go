package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/Masterminds/squirrel"
)

// ToSQL renders an Expression as a squirrel predicate suitable for a WHERE
// clause. NaN values (failed numeric parses) render as an always-false
// predicate: no row can match a value the client failed to express.
func ToSQL(e Expression) (squirrel.Sqlizer, error) {
	switch expr := e.(type) {
	case Equality:
		return equalityToSQL(expr)
	case Or:
		return orToSQL(expr)
	case Group:
		return groupToSQL(expr)
	case nil:
		return nil, fmt.Errorf("cannot render nil expression")
	default:
		return nil, fmt.Errorf("unsupported expression type %T", e)
	}
}

func equalityToSQL(e Equality) (squirrel.Sqlizer, error) {
	switch v := e.Value.(type) {
	case Pattern:
		return squirrel.ILike{e.Field: "%" + escapeLike(v.Source) + "%"}, nil
	case float64:
		if math.IsNaN(v) {
			return neverMatch(), nil
		}
		return squirrel.Eq{e.Field: v}, nil
	case []any:
		if len(v) == 0 {
			// Empty-collection matches are a document-store concept.
			return nil, fmt.Errorf("empty-collection match on %q is not representable in SQL", e.Field)
		}
		return squirrel.Eq{e.Field: v}, nil
	default:
		return squirrel.Eq{e.Field: v}, nil
	}
}

func orToSQL(o Or) (squirrel.Sqlizer, error) {
	plain := make([]any, 0, len(o.Values))
	var alts squirrel.Or
	for _, v := range o.Values {
		switch tv := v.(type) {
		case Pattern:
			alts = append(alts, squirrel.ILike{o.Field: "%" + escapeLike(tv.Source) + "%"})
		case float64:
			if !math.IsNaN(tv) {
				plain = append(plain, tv)
			}
		default:
			plain = append(plain, v)
		}
	}

	if len(alts) == 0 {
		if len(plain) == 0 {
			return neverMatch(), nil
		}
		return squirrel.Eq{o.Field: plain}, nil
	}
	if len(plain) > 0 {
		alts = append(alts, squirrel.Eq{o.Field: plain})
	}
	return alts, nil
}

func groupToSQL(g Group) (squirrel.Sqlizer, error) {
	subs := make([]squirrel.Sqlizer, 0, len(g.Exprs))
	for _, e := range g.Exprs {
		s, err := ToSQL(e)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}

	switch g.Op {
	case OpAnd:
		return squirrel.And(subs), nil
	case OpOr:
		return squirrel.Or(subs), nil
	case OpNor:
		return squirrel.Expr("NOT (?)", squirrel.Or(subs)), nil
	default:
		return nil, fmt.Errorf("unsupported logical operator %q", g.Op)
	}
}

func neverMatch() squirrel.Sqlizer {
	return squirrel.Expr("1=0")
}

// escapeLike escapes LIKE wildcards so client tokens match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

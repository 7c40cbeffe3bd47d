package filter

import (
	"net/url"
	"strconv"

	"github.com/Masterminds/squirrel"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Page is the resolved pagination state of a request. Exactly one derivation
// path produced it: page-driven (offset computed from page) or offset-driven
// (page computed from offset), never both.
type Page struct {
	Page   int64 `json:"page"`
	Offset int64 `json:"offset"`
	Limit  int64 `json:"limit"`
}

// PageDefaults carries the configured pagination bounds.
type PageDefaults struct {
	// Limit is applied when the request names no limit/count parameter.
	Limit int64
	// MaxLimit caps client-supplied limits; 0 disables the cap.
	MaxLimit int64
}

// ResolvePaging derives a Page from the raw query. Recognized parameters:
// limit/count, offset/skip, page.
//
// The precedence is fixed: limit 0 forces page 1 (a single conceptual page);
// otherwise an explicit page recomputes the offset, overriding any offset the
// request also carried; otherwise the page is back-computed from the offset.
func ResolvePaging(values url.Values, d PageDefaults) Page {
	limit := firstInt(values, d.Limit, "limit", "count")
	if limit < 0 {
		limit = 0
	}
	if d.MaxLimit > 0 && limit > d.MaxLimit {
		limit = d.MaxLimit
	}

	offset := firstInt(values, 0, "offset", "skip")
	if offset < 0 {
		offset = 0
	}

	page := firstInt(values, 0, "page")

	switch {
	case limit == 0:
		page = 1
		offset = 0
	case page > 0:
		offset = (page - 1) * limit
	default:
		// limit > 0 here; offset/limit+1 == ceil((offset+1)/limit)
		page = offset/limit + 1
	}

	return Page{Page: page, Offset: offset, Limit: limit}
}

// ApplyToSelect attaches OFFSET/LIMIT to a squirrel select. A zero limit
// means unbounded and leaves the builder untouched.
func (p Page) ApplyToSelect(b squirrel.SelectBuilder) squirrel.SelectBuilder {
	if p.Limit <= 0 {
		return b
	}
	return b.Offset(uint64(p.Offset)).Limit(uint64(p.Limit))
}

// ToFindOptions builds MongoDB find options carrying the skip/limit window.
func (p Page) ToFindOptions() *options.FindOptionsBuilder {
	opts := options.Find().SetSkip(p.Offset)
	if p.Limit > 0 {
		opts = opts.SetLimit(p.Limit)
	}
	return opts
}

func firstInt(values url.Values, fallback int64, names ...string) int64 {
	for _, name := range names {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		return n
	}
	return fallback
}

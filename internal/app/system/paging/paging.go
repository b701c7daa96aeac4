// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when the client sends none.
const DefaultLimit = 12

// MaxLimit caps client-supplied page sizes.
const MaxLimit = 100

// MaxPage caps client-supplied page numbers so Skip stays far from overflow.
const MaxPage = 100000

// Params is a parsed page request. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// Parse reads the "page" and "limit" query parameters. Missing, malformed or
// non-positive values fall back to page 1 and defaultLimit; page is capped
// at MaxPage and limit at MaxLimit.
func Parse(r *http.Request, defaultLimit int) Params {
	p := Params{
		Page:  positiveInt(query.Get(r, "page"), 1),
		Limit: positiveInt(query.Get(r, "limit"), defaultLimit),
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func positiveInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Skip returns the number of documents before this page. It is never
// negative, even for a Params built by hand.
func (p Params) Skip() int64 {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return int64(p.Page-1) * int64(p.Limit)
}

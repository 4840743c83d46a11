// Package query holds the value object that drives list fetches: search
// text, pagination, and sort intent. Params is a plain comparable struct;
// two values describe the same fetch exactly when they are ==.
package query

import (
	"net/url"
	"strconv"
)

// Order is the sort direction as the API spells it.
type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

// Params describes one page worth of items to fetch.
type Params struct {
	Search string
	Page   int // 1-based
	Limit  int
	Sort   string
	Order  Order
}

// Default is the initial view: newest items first, ten per page.
func Default() Params {
	return Params{
		Page:  1,
		Limit: 10,
		Sort:  "createdAt",
		Order: OrderDesc,
	}
}

// WithSearch returns a copy filtering on s. The page resets to 1 so a
// shrinking result set cannot leave the view on an out-of-range page.
func (p Params) WithSearch(s string) Params {
	p.Search = s
	p.Page = 1
	return p
}

// WithSort returns a copy sorted on field. Re-selecting the active field
// flips the direction; a new field always starts ascending.
func (p Params) WithSort(field string) Params {
	if p.Sort == field && p.Order == OrderAsc {
		p.Order = OrderDesc
	} else {
		p.Order = OrderAsc
	}
	p.Sort = field
	return p
}

// WithPage returns a copy on page n, floored at 1. The upper bound is the
// caller's to enforce; the data layer does not know the total.
func (p Params) WithPage(n int) Params {
	if n < 1 {
		n = 1
	}
	p.Page = n
	return p
}

// Values serializes p for the list endpoint.
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Set("search", p.Search)
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	v.Set("sort", p.Sort)
	v.Set("order", string(p.Order))
	return v
}

// TotalPages computes ceil(total/limit) for pagination bounds.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

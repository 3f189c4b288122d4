// Package catalog turns flat storefront/admin query parameters into a
// normalized product query and computes the pagination envelope.
package catalog

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type SortKey string

const (
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortPopular   SortKey = "popular"
	SortNewest    SortKey = "createdAt"
)

func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc, SortPopular, SortNewest:
		return k
	default:
		return SortNewest
	}
}

const (
	DefaultPublicLimit = 12
	DefaultAdminLimit  = 10
	MaxLimit           = 100

	// MaxPage keeps page*limit inside 32 bits for every accepted limit.
	MaxPage = math.MaxInt32 / MaxLimit
)

// Query is a product listing request after coercion. Zero values mean
// "no filter".
type Query struct {
	CategoryID   *uuid.UUID
	CategorySlug string
	MinPrice     *float64
	MaxPrice     *float64
	Search       string
	FeaturedOnly bool
	OnSaleOnly   bool
	Sort         SortKey
	Page         int
	Limit        int
	// Admin lists inactive products too and searches name/SKU instead of
	// the text index.
	Admin bool
}

// AdminRequested reports whether the raw parameters ask for the admin view.
func AdminRequested(values url.Values) bool {
	return values.Get("admin") == "true"
}

// ParseQuery coerces raw parameters. Malformed values are dropped or
// replaced by defaults, never rejected.
func ParseQuery(values url.Values) Query {
	q := Query{
		Admin:        AdminRequested(values),
		Sort:         ParseSortKey(values.Get("sort")),
		Search:       strings.TrimSpace(values.Get("search")),
		FeaturedOnly: values.Get("featured") == "true",
		OnSaleOnly:   values.Get("onSale") == "true",
	}

	defaultLimit := DefaultPublicLimit
	if q.Admin {
		defaultLimit = DefaultAdminLimit
	}

	q.Page = min(positiveInt(values.Get("page"), 1), MaxPage)
	q.Limit = min(positiveInt(values.Get("limit"), defaultLimit), MaxLimit)
	q.MinPrice = nonNegativeFloat(values.Get("minPrice"))
	q.MaxPrice = nonNegativeFloat(values.Get("maxPrice"))

	if category := strings.TrimSpace(values.Get("category")); category != "" {
		if id, err := uuid.Parse(category); err == nil {
			q.CategoryID = &id
		} else {
			q.CategorySlug = strings.ToLower(category)
		}
	}

	return q
}

// Offset is the number of rows skipped before the requested page.
func (q Query) Offset() int {
	return Offset(q.Page, q.Limit)
}

// Offset saturates at math.MaxInt instead of overflowing.
func Offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}

	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}

	return (page - 1) * limit
}

// positiveInt reads an integer too large for int as math.MaxInt, so the
// caller's clamp applies to it.
func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return n
	}
	if err != nil || n < 1 {
		return fallback
	}

	return n
}

func nonNegativeFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}

	return &f
}

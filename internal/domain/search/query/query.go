package query

import (
	"fmt"
	"strings"

	"github.com/Mutazlab/catalog-search/internal/domain"
	"github.com/Mutazlab/catalog-search/internal/domain/search/order"
)

// Search parameter limits.
const (
	// MaxTextLength is the maximum allowed query text length.
	MaxTextLength = 1024
	DefaultLimit  = 20
	MaxLimit      = 100
)

// Query is a validated search request: the query text plus filters,
// ordering and pagination.
type Query struct {
	text      string
	category  string
	priceMin  *float64
	priceMax  *float64
	inStock   bool
	featured  bool
	sortOrder order.Order
	limit     int
	offset    int
}

// New validates and normalizes search parameters.
// Defaults: order=relevance, limit=20 (max 100), offset=0.
// Violations are reported as domain.ErrInvalidFilter before any catalog access.
func New(
	text, category string,
	priceMin, priceMax *float64,
	inStock, featured bool,
	o order.Order,
	limit, offset int,
) (Query, error) {
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidFilter, MaxTextLength)
	}
	if priceMin != nil && *priceMin < 0 {
		return Query{}, fmt.Errorf("%w: priceMin must be non-negative", domain.ErrInvalidFilter)
	}
	if priceMax != nil && *priceMax < 0 {
		return Query{}, fmt.Errorf("%w: priceMax must be non-negative", domain.ErrInvalidFilter)
	}
	if priceMin != nil && priceMax != nil && *priceMin > *priceMax {
		return Query{}, fmt.Errorf("%w: priceMin exceeds priceMax", domain.ErrInvalidFilter)
	}
	if o == "" {
		o = order.Relevance
	}
	if !o.IsValid() {
		return Query{}, fmt.Errorf("%w: unknown sort order %q", domain.ErrInvalidFilter, o)
	}
	if limit < 0 {
		return Query{}, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidFilter)
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		return Query{}, fmt.Errorf("%w: offset must be non-negative", domain.ErrInvalidFilter)
	}

	return Query{
		text:      text,
		category:  category,
		priceMin:  priceMin,
		priceMax:  priceMax,
		inStock:   inStock,
		featured:  featured,
		sortOrder: o,
		limit:     limit,
		offset:    offset,
	}, nil
}

// Text returns the raw query text.
func (q Query) Text() string { return q.text }

// Category returns the exact-match category filter ("" = no filter).
func (q Query) Category() string { return q.category }

// PriceMin returns the inclusive lower price bound (nil = unbounded).
func (q Query) PriceMin() *float64 { return q.priceMin }

// PriceMax returns the inclusive upper price bound (nil = unbounded).
func (q Query) PriceMax() *float64 { return q.priceMax }

// InStockOnly reports whether out-of-stock products are excluded.
func (q Query) InStockOnly() bool { return q.inStock }

// FeaturedOnly reports whether non-featured products are excluded.
func (q Query) FeaturedOnly() bool { return q.featured }

// Sort returns the result ordering.
func (q Query) Sort() order.Order { return q.sortOrder }

// Limit returns the page size.
func (q Query) Limit() int { return q.limit }

// Offset returns the pagination offset.
func (q Query) Offset() int { return q.offset }

// IsEmpty reports whether the query text is empty or whitespace-only.
func (q Query) IsEmpty() bool { return strings.TrimSpace(q.text) == "" }

// HasFilters reports whether any candidate filter is active.
func (q Query) HasFilters() bool {
	return q.category != "" || q.priceMin != nil || q.priceMax != nil || q.inStock || q.featured
}

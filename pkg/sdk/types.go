package catalogsearch

// Sort controls result ordering.
type Sort string

// Result ordering constants.
const (
	SortRelevance Sort = "relevance"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
	SortNewest    Sort = "newest"
)

// Product is a catalog entry.
type Product struct {
	ID          string
	Name        string
	Description string
	Tags        []string
	Category    string
	Price       float64
	Inventory   int
	Featured    bool
	// CreatedAt is a unix-millisecond timestamp. Zero means "now" on upsert.
	CreatedAt int64
}

// InStock reports whether the product has inventory.
func (p *Product) InStock() bool { return p.Inventory > 0 }

// SearchQuery holds search parameters. The zero value lists nothing; set
// Text for ranked search, or filters alone for filtered browsing.
type SearchQuery struct {
	Text     string
	Category string
	PriceMin *float64
	PriceMax *float64
	InStock  bool
	Featured bool
	Sort     Sort
	Limit    int
	Offset   int
}

// SearchResult is a single ranked hit.
type SearchResult struct {
	Product Product
	Score   float64
}

// SearchPage is one page of search output.
type SearchPage struct {
	Results     []SearchResult
	Suggestions []string
	// Total is the match count after filtering but before pagination.
	Total int
}

// ListResult is a window of the catalog.
type ListResult struct {
	Products []Product
	Total    int
}

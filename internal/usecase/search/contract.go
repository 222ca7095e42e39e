package search

import (
	"context"

	"github.com/Mutazlab/catalog-search/internal/domain/product"
	"github.com/Mutazlab/catalog-search/internal/domain/search/query"
	"github.com/Mutazlab/catalog-search/internal/domain/search/result"
)

// Engine is the caller-facing search contract. Both the in-process relevance
// scorer and the bleve index backend implement it, so transport and callers
// never know which backend is wired.
type Engine interface {
	Search(ctx context.Context, q query.Query) (result.Page, error)
	Suggest(ctx context.Context, text string) ([]string, error)
}

// Catalog supplies product snapshots for in-process scoring. The snapshot
// must be consistent for the duration of one call.
type Catalog interface {
	FetchAll(ctx context.Context) ([]product.Product, error)
}

// Expander produces alternative phrasings of a query. The original query is
// always the first element of the returned slice.
type Expander interface {
	Expand(query string) []string
}

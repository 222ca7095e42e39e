package catalog

import (
	"context"

	"github.com/Mutazlab/catalog-search/internal/domain/product"
)

// Repository is the catalog persistence contract.
type Repository interface {
	Put(ctx context.Context, p *product.Product) (created bool, err error)
	Get(ctx context.Context, id string) (product.Product, error)
	Delete(ctx context.Context, id string) error
	FetchAll(ctx context.Context) ([]product.Product, error)
	Count(ctx context.Context) (int, error)
}

// Indexer mirrors catalog writes into an external search index. Nil when the
// in-process scorer backend is active.
type Indexer interface {
	Index(ctx context.Context, p *product.Product) error
	Delete(ctx context.Context, id string) error
}

package catalogsearch

import (
	"context"
	"time"

	"github.com/Mutazlab/catalog-search/internal/domain/product"
	"github.com/Mutazlab/catalog-search/internal/domain/search/order"
	"github.com/Mutazlab/catalog-search/internal/domain/search/result"
)

// ProductService manages catalog entries.
type ProductService struct {
	svc catalogUseCase
	obs *observer
}

// Upsert creates or replaces a product. Returns true if the product was
// created rather than updated. A zero CreatedAt defaults to now.
func (s *ProductService) Upsert(ctx context.Context, p Product) (created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("product_upsert", start, err) }()

	dp, err := toDomainProduct(p)
	if err != nil {
		return false, err
	}
	return s.svc.Upsert(ctx, &dp)
}

// Get returns a product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (p Product, err error) {
	start := time.Now()
	defer func() { s.obs.observe("product_get", start, err) }()

	dp, err := s.svc.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	return fromDomainProduct(&dp), nil
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("product_delete", start, err) }()

	return s.svc.Delete(ctx, id)
}

// List returns one window of the catalog plus the total count.
func (s *ProductService) List(ctx context.Context, limit, offset int) (res ListResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("product_list", start, err) }()

	products, total, err := s.svc.List(ctx, limit, offset)
	if err != nil {
		return ListResult{}, err
	}

	out := make([]Product, len(products))
	for i := range products {
		out[i] = fromDomainProduct(&products[i])
	}
	return ListResult{Products: out, Total: total}, nil
}

// Count returns the number of products in the catalog.
func (s *ProductService) Count(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("product_count", start, err) }()

	return s.svc.Count(ctx)
}

// --- Converters ---

func toDomainProduct(p Product) (product.Product, error) {
	createdAt := p.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().UnixMilli()
	}
	return product.New(
		p.ID, p.Name, p.Description, p.Tags, p.Category,
		p.Price, p.Inventory, p.Featured, createdAt,
	)
}

func fromDomainProduct(p *product.Product) Product {
	return Product{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Tags:        p.Tags(),
		Category:    p.Category(),
		Price:       p.Price(),
		Inventory:   p.Inventory(),
		Featured:    p.Featured(),
		CreatedAt:   p.CreatedAt(),
	}
}

func toDomainOrder(s Sort) order.Order {
	return order.Order(s)
}

func fromDomainPage(page result.Page) SearchPage {
	results := make([]SearchResult, len(page.Matches()))
	for i, m := range page.Matches() {
		p := m.Product()
		results[i] = SearchResult{
			Product: fromDomainProduct(&p),
			Score:   m.Score(),
		}
	}
	return SearchPage{
		Results:     results,
		Suggestions: page.Suggestions(),
		Total:       page.Total(),
	}
}

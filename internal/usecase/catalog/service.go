package catalog

import (
	"context"
	"fmt"

	"github.com/Mutazlab/catalog-search/internal/domain"
	"github.com/Mutazlab/catalog-search/internal/domain/product"
	"github.com/Mutazlab/catalog-search/internal/metrics"
)

// Service manages catalog products: validated writes to the store, with an
// optional mirror into the external search index so both search backends see
// the same catalog.
type Service struct {
	repo    Repository
	indexer Indexer
}

// New creates a Service. indexer can be nil.
func New(repo Repository, indexer Indexer) *Service {
	return &Service{repo: repo, indexer: indexer}
}

// Upsert creates or replaces a product. Returns true if the product was
// created rather than updated.
func (s *Service) Upsert(ctx context.Context, p *product.Product) (bool, error) {
	created, err := s.repo.Put(ctx, p)
	if err != nil {
		return false, fmt.Errorf("store product %s: %w", p.ID(), err)
	}
	if created {
		metrics.IncCatalogProducts()
	}

	if s.indexer != nil {
		if err := s.indexer.Index(ctx, p); err != nil {
			return created, fmt.Errorf("%w: index product %s: %w", domain.ErrIndexUnavailable, p.ID(), err)
		}
	}
	return created, nil
}

// Get returns a product by ID.
func (s *Service) Get(ctx context.Context, id string) (product.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return product.Product{}, err
	}
	return p, nil
}

// Delete removes a product from the store and, when wired, the index.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.DecCatalogProducts()

	if s.indexer != nil {
		if err := s.indexer.Delete(ctx, id); err != nil {
			return fmt.Errorf("%w: deindex product %s: %w", domain.ErrIndexUnavailable, id, err)
		}
	}
	return nil
}

// List returns one window of the catalog snapshot plus the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]product.Product, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		return nil, 0, fmt.Errorf("%w: offset must be non-negative", domain.ErrInvalidFilter)
	}

	products, err := s.repo.FetchAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	total := len(products)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return products[offset:end], total, nil
}

// Count returns the number of products in the catalog.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	return n, nil
}

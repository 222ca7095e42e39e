package catalogsearch

import "github.com/Mutazlab/catalog-search/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrCatalogUnavailable = domain.ErrCatalogUnavailable
	ErrInvalidFilter      = domain.ErrInvalidFilter
	ErrProductNotFound    = domain.ErrProductNotFound
	ErrInvalidProduct     = domain.ErrInvalidProduct
	ErrIndexUnavailable   = domain.ErrIndexUnavailable
)

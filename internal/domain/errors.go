package domain

import "errors"

var (
	// ErrCatalogUnavailable signals that the product catalog store failed or timed out.
	// Callers must be able to distinguish this from an empty result set.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrInvalidFilter signals a filter value outside its allowed range.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrProductNotFound signals a missing product.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProduct signals a product failing validation.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrIndexUnavailable signals a search index failure.
	ErrIndexUnavailable = errors.New("search index unavailable")
)

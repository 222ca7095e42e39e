package product

import (
	"fmt"
	"regexp"

	"github.com/Mutazlab/catalog-search/internal/domain"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxNameLength bounds the localized display name.
const MaxNameLength = 512

// Product is the catalog record aggregate (immutable value object).
// Text fields are UTF-8; ranking must behave for Arabic and Latin alike.
type Product struct {
	id          string
	name        string
	description string
	tags        []string
	category    string
	price       float64
	inventory   int
	featured    bool
	createdAt   int64 // unix millis
}

// New validates and creates a Product.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Name is required. Price and inventory
// must be non-negative.
func New(
	id, name, description string, tags []string, category string,
	price float64, inventory int, featured bool, createdAt int64,
) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("%w: product ID is required", domain.ErrInvalidProduct)
	}
	if len(id) > 256 {
		return Product{}, fmt.Errorf("%w: product ID too long (max 256)", domain.ErrInvalidProduct)
	}
	if !idRegex.MatchString(id) {
		return Product{}, fmt.Errorf(
			"%w: product ID must be alphanumeric with underscores and hyphens", domain.ErrInvalidProduct)
	}
	if name == "" {
		return Product{}, fmt.Errorf("%w: name is required", domain.ErrInvalidProduct)
	}
	if len(name) > MaxNameLength {
		return Product{}, fmt.Errorf("%w: name too long (max %d)", domain.ErrInvalidProduct, MaxNameLength)
	}
	if price < 0 {
		return Product{}, fmt.Errorf("%w: price must be non-negative", domain.ErrInvalidProduct)
	}
	if inventory < 0 {
		return Product{}, fmt.Errorf("%w: inventory must be non-negative", domain.ErrInvalidProduct)
	}

	return Product{
		id:          id,
		name:        name,
		description: description,
		tags:        cloneTags(tags),
		category:    category,
		price:       price,
		inventory:   inventory,
		featured:    featured,
		createdAt:   createdAt,
	}, nil
}

// Reconstruct creates a Product without validation (storage hydration).
func Reconstruct(
	id, name, description string, tags []string, category string,
	price float64, inventory int, featured bool, createdAt int64,
) Product {
	return Product{
		id: id, name: name, description: description, tags: tags, category: category,
		price: price, inventory: inventory, featured: featured, createdAt: createdAt,
	}
}

// ID returns the product identifier.
func (p Product) ID() string { return p.id }

// Name returns the localized display name.
func (p Product) Name() string { return p.name }

// Description returns the long-form text.
func (p Product) Description() string { return p.description }

// Tags returns the short string tags. Insertion order is preserved but carries
// no meaning for ranking.
func (p Product) Tags() []string { return p.tags }

// Category returns the category label.
func (p Product) Category() string { return p.category }

// Price returns the price.
func (p Product) Price() float64 { return p.price }

// Inventory returns the stock count. Used only by filters, never by ranking.
func (p Product) Inventory() int { return p.inventory }

// Featured reports whether the product is featured.
func (p Product) Featured() bool { return p.featured }

// CreatedAt returns the creation time in unix milliseconds.
func (p Product) CreatedAt() int64 { return p.createdAt }

// InStock reports whether any inventory remains.
func (p Product) InStock() bool { return p.inventory > 0 }

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	c := make([]string, len(tags))
	copy(c, tags)
	return c
}

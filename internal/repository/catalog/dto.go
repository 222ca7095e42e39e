package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/Mutazlab/catalog-search/internal/domain/product"
)

// productDTO is the JSON shape stored under catalog product keys.
type productDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price"`
	Inventory   int      `json:"inventory"`
	Featured    bool     `json:"featured,omitempty"`
	CreatedAt   int64    `json:"created_at"`
}

func toDTO(p *product.Product) productDTO {
	return productDTO{
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

func (d productDTO) toDomain() product.Product {
	return product.Reconstruct(
		d.ID, d.Name, d.Description, d.Tags, d.Category,
		d.Price, d.Inventory, d.Featured, d.CreatedAt,
	)
}

// parseJSONGetResult unwraps a JSON.GET "$" response, which is an array with
// the document as its only element.
func parseJSONGetResult(raw []byte) (product.Product, error) {
	var docs []productDTO
	if err := json.Unmarshal(raw, &docs); err != nil {
		return product.Product{}, fmt.Errorf("unmarshal product: %w", err)
	}
	if len(docs) == 0 {
		return product.Product{}, fmt.Errorf("empty JSON.GET result")
	}
	return docs[0].toDomain(), nil
}

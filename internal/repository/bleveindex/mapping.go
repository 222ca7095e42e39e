package bleveindex

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
)

// catalogAnalyzerName is the custom analyzer for product text fields:
// unicode word segmentation plus lowercasing, no stemming, so Arabic and
// Latin text tokenize the same way the in-process scorer case-folds.
const catalogAnalyzerName = "catalog_text"

// buildIndexMapping defines the product document mapping. All fields are
// stored so hits can be rehydrated without a second store round-trip.
func buildIndexMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()

	err := im.AddCustomAnalyzer(catalogAnalyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("add analyzer: %w", err)
	}
	im.DefaultAnalyzer = catalogAnalyzerName

	text := bleve.NewTextFieldMapping()
	text.Analyzer = catalogAnalyzerName
	text.Store = true

	// Exact-match label, single token, case preserved.
	label := bleve.NewTextFieldMapping()
	label.Analyzer = keyword.Name
	label.Store = true

	numeric := bleve.NewNumericFieldMapping()
	numeric.Store = true

	boolean := bleve.NewBooleanFieldMapping()
	boolean.Store = true

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("name", text)
	doc.AddFieldMappingsAt("description", text)
	doc.AddFieldMappingsAt("tags", text)
	doc.AddFieldMappingsAt("keywords", text)
	doc.AddFieldMappingsAt("category", label)
	doc.AddFieldMappingsAt("price", numeric)
	doc.AddFieldMappingsAt("inventory", numeric)
	doc.AddFieldMappingsAt("in_stock", boolean)
	doc.AddFieldMappingsAt("featured", boolean)
	doc.AddFieldMappingsAt("created_at", numeric)

	im.DefaultMapping = doc
	return im, nil
}

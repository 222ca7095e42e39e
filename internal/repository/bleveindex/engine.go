package bleveindex

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/Mutazlab/catalog-search/internal/domain"
	"github.com/Mutazlab/catalog-search/internal/domain/product"
	"github.com/Mutazlab/catalog-search/internal/domain/search/order"
	domquery "github.com/Mutazlab/catalog-search/internal/domain/search/query"
	"github.com/Mutazlab/catalog-search/internal/domain/search/result"
	"github.com/Mutazlab/catalog-search/internal/synonym"
)

// Suggestion contract shared with the in-process engine.
const (
	suggestionLimit    = 5
	minSuggestionChars = 2
)

// indexedProduct is the document shape stored in the bleve index. Keywords
// carry index-time synonym expansions of name, tag and category tokens, so
// queries match without query-time expansion.
type indexedProduct struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Keywords    []string `json:"keywords"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Inventory   float64  `json:"inventory"`
	InStock     bool     `json:"in_stock"`
	Featured    bool     `json:"featured"`
	CreatedAt   float64  `json:"created_at"`
}

// Engine is the external-index search backend. It satisfies the same search
// contract as the in-process scorer; only the ranking formula differs
// (BM25-style, scaled fuzziness instead of normalized edit distance).
type Engine struct {
	index bleve.Index
	dict  *synonym.Dictionary
}

// Open creates or opens a bleve index at path. An empty path yields an
// in-memory index.
func Open(path string, dict *synonym.Dictionary) (*Engine, error) {
	im, err := buildIndexMapping()
	if err != nil {
		return nil, err
	}

	var idx bleve.Index
	if path == "" {
		idx, err = bleve.NewMemOnly(im)
	} else {
		idx, err = bleve.Open(path)
		if err == bleve.ErrorIndexPathDoesNotExist {
			idx, err = bleve.New(path, im)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open index %q: %w", path, err)
	}

	return &Engine{index: idx, dict: dict}, nil
}

// Close releases the underlying index.
func (e *Engine) Close() error {
	if err := e.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	return nil
}

// DocCount returns the number of indexed products.
func (e *Engine) DocCount() (uint64, error) {
	n, err := e.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("doc count: %w", err)
	}
	return n, nil
}

// Index adds or replaces one product document.
func (e *Engine) Index(_ context.Context, p *product.Product) error {
	if err := e.index.Index(p.ID(), e.toDoc(p)); err != nil {
		return fmt.Errorf("index product %s: %w", p.ID(), err)
	}
	return nil
}

// Delete removes one product document. Unknown IDs are a no-op.
func (e *Engine) Delete(_ context.Context, id string) error {
	if err := e.index.Delete(id); err != nil {
		return fmt.Errorf("deindex product %s: %w", id, err)
	}
	return nil
}

// Rebuild replaces the index contents with the given catalog snapshot in one
// batch.
func (e *Engine) Rebuild(_ context.Context, products []product.Product) error {
	batch := e.index.NewBatch()
	for i := range products {
		p := &products[i]
		if err := batch.Index(p.ID(), e.toDoc(p)); err != nil {
			return fmt.Errorf("batch product %s: %w", p.ID(), err)
		}
	}
	if err := e.index.Batch(batch); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	return nil
}

// Search runs the multi-field fuzzy query with filter clauses and returns a
// page in the same shape as the in-process engine.
func (e *Engine) Search(ctx context.Context, q domquery.Query) (result.Page, error) {
	if q.IsEmpty() && !q.HasFilters() {
		return result.NewPage(nil, nil, 0), nil
	}

	req := bleve.NewSearchRequestOptions(e.buildQuery(&q), q.Limit(), q.Offset(), false)
	req.Fields = []string{"*"}
	req.SortBy(sortClause(q.Sort()))

	res, err := e.index.SearchInContext(ctx, req)
	if err != nil {
		return result.Page{}, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}

	matches := make([]result.Match, 0, len(res.Hits))
	for _, hit := range res.Hits {
		p, err := hydrate(hit.ID, hit.Fields)
		if err != nil {
			return result.Page{}, err
		}
		matches = append(matches, result.NewMatch(p, hit.Score))
	}

	var suggestions []string
	if !q.IsEmpty() {
		suggestions, err = e.Suggest(ctx, q.Text())
		if err != nil {
			return result.Page{}, err
		}
	}

	return result.NewPage(matches, suggestions, int(res.Total)), nil
}

// Suggest returns up to 5 completion candidates: indexed names matching the
// query's last term as a prefix, then synonym variants of the query.
func (e *Engine) Suggest(ctx context.Context, text string) ([]string, error) {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < minSuggestionChars {
		return nil, nil
	}

	terms := strings.Fields(strings.ToLower(trimmed))
	prefix := bleve.NewPrefixQuery(terms[len(terms)-1])
	prefix.SetField("name")

	req := bleve.NewSearchRequestOptions(prefix, suggestionLimit, 0, false)
	req.Fields = []string{"name"}

	res, err := e.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		if len(out) >= suggestionLimit {
			return
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}

	for _, hit := range res.Hits {
		if name, ok := hit.Fields["name"].(string); ok {
			add(name)
		}
	}
	variants := e.dict.Expand(trimmed)
	for _, v := range variants[1:] {
		add(v)
	}
	return out, nil
}

// buildQuery assembles the text clause plus filter clauses.
func (e *Engine) buildQuery(q *domquery.Query) query.Query {
	var text query.Query
	if q.IsEmpty() {
		text = bleve.NewMatchAllQuery()
	} else {
		text = e.textClause(q.Text())
	}

	filters := filterClauses(q)
	if len(filters) == 0 {
		return text
	}
	return bleve.NewConjunctionQuery(append([]query.Query{text}, filters...)...)
}

// textClause builds the weighted multi-field fuzzy disjunction. Synonyms are
// handled at index time through the keywords field, not by expanding here.
func (e *Engine) textClause(text string) query.Query {
	fuzz := fuzziness(text)

	name := bleve.NewMatchQuery(text)
	name.SetField("name")
	name.SetBoost(3)
	name.SetFuzziness(fuzz)

	description := bleve.NewMatchQuery(text)
	description.SetField("description")
	description.SetBoost(2)
	description.SetFuzziness(fuzz)

	tags := bleve.NewMatchQuery(text)
	tags.SetField("tags")
	tags.SetBoost(2)
	tags.SetFuzziness(fuzz)

	keywords := bleve.NewMatchQuery(text)
	keywords.SetField("keywords")
	keywords.SetFuzziness(fuzz)

	return bleve.NewDisjunctionQuery(name, description, tags, keywords)
}

func filterClauses(q *domquery.Query) []query.Query {
	var out []query.Query

	if c := q.Category(); c != "" {
		tq := bleve.NewTermQuery(c)
		tq.SetField("category")
		out = append(out, tq)
	}
	if q.PriceMin() != nil || q.PriceMax() != nil {
		inclusive := true
		rq := bleve.NewNumericRangeInclusiveQuery(q.PriceMin(), q.PriceMax(), &inclusive, &inclusive)
		rq.SetField("price")
		out = append(out, rq)
	}
	if q.InStockOnly() {
		bq := bleve.NewBoolFieldQuery(true)
		bq.SetField("in_stock")
		out = append(out, bq)
	}
	if q.FeaturedOnly() {
		bq := bleve.NewBoolFieldQuery(true)
		bq.SetField("featured")
		out = append(out, bq)
	}
	return out
}

// fuzziness scales the edit-distance tolerance by the longest query term,
// mirroring the AUTO behavior of hosted search engines: short terms must
// match exactly, long terms tolerate up to two edits.
func fuzziness(text string) int {
	longest := 0
	for _, term := range strings.Fields(text) {
		if n := len([]rune(term)); n > longest {
			longest = n
		}
	}
	switch {
	case longest < 3:
		return 0
	case longest < 6:
		return 1
	default:
		return 2
	}
}

func sortClause(o order.Order) []string {
	switch o {
	case order.PriceAsc:
		return []string{"price", "-_score"}
	case order.PriceDesc:
		return []string{"-price", "-_score"}
	case order.Newest:
		return []string{"-created_at", "-_score"}
	default:
		return []string{"-_score"}
	}
}

// toDoc flattens a product into its index document, injecting index-time
// synonyms for every name, tag and category token known to the dictionary.
func (e *Engine) toDoc(p *product.Product) indexedProduct {
	var keywords []string
	seen := make(map[string]struct{})

	addTokens := func(text string) {
		for _, token := range strings.Fields(strings.ToLower(text)) {
			for _, eq := range e.dict.Equivalents(token) {
				k := strings.ToLower(eq)
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				keywords = append(keywords, k)
			}
		}
	}
	addTokens(p.Name())
	for _, tag := range p.Tags() {
		addTokens(tag)
	}
	addTokens(p.Category())

	return indexedProduct{
		Name:        p.Name(),
		Description: p.Description(),
		Tags:        p.Tags(),
		Keywords:    keywords,
		Category:    p.Category(),
		Price:       p.Price(),
		Inventory:   float64(p.Inventory()),
		InStock:     p.InStock(),
		Featured:    p.Featured(),
		CreatedAt:   float64(p.CreatedAt()),
	}
}

// hydrate rebuilds a product from stored hit fields. A field indexed from a
// one-element slice comes back as a bare value, so tags need both shapes.
func hydrate(id string, fields map[string]interface{}) (product.Product, error) {
	name, ok := fields["name"].(string)
	if !ok {
		return product.Product{}, fmt.Errorf("hit %s: missing name field", id)
	}

	var tags []string
	switch v := fields["tags"].(type) {
	case string:
		tags = []string{v}
	case []interface{}:
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
	}

	description, _ := fields["description"].(string)
	category, _ := fields["category"].(string)
	price, _ := fields["price"].(float64)
	inventory, _ := fields["inventory"].(float64)
	featured, _ := fields["featured"].(bool)
	createdAt, _ := fields["created_at"].(float64)

	return product.Reconstruct(
		id, name, description, tags, category,
		price, int(inventory), featured, int64(createdAt),
	), nil
}

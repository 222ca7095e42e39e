package result

import "github.com/Mutazlab/catalog-search/internal/domain/product"

// Match pairs a product with its relevance score. Matches live only for the
// duration of one search call and are never persisted.
type Match struct {
	product product.Product
	score   float64
}

// NewMatch creates a scored match.
func NewMatch(p product.Product, score float64) Match {
	return Match{product: p, score: score}
}

// Product returns the matched product.
func (m Match) Product() product.Product { return m.product }

// Score returns the relevance score.
func (m Match) Score() float64 { return m.score }

// Page is one page of search output: ranked matches, autocomplete
// suggestions, and the total match count before pagination.
type Page struct {
	matches     []Match
	suggestions []string
	total       int
}

// NewPage creates a result page.
func NewPage(matches []Match, suggestions []string, total int) Page {
	return Page{matches: matches, suggestions: suggestions, total: total}
}

// Matches returns the ranked page of matches.
func (p Page) Matches() []Match { return p.matches }

// Suggestions returns the autocomplete suggestions (at most 5).
func (p Page) Suggestions() []string { return p.suggestions }

// Total returns the match count after filtering but before pagination.
func (p Page) Total() int { return p.total }

package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Mutazlab/catalog-search/internal/domain"
	"github.com/Mutazlab/catalog-search/internal/domain/product"
	"github.com/Mutazlab/catalog-search/internal/domain/relevance"
	"github.com/Mutazlab/catalog-search/internal/domain/search/order"
	"github.com/Mutazlab/catalog-search/internal/domain/search/query"
	"github.com/Mutazlab/catalog-search/internal/domain/search/result"
)

// Ranking contract constants.
const (
	// MinScore is the relevance threshold; candidates scoring at or below it
	// are discarded.
	MinScore = 0.3
	// SuggestionLimit caps the autocomplete suggestion list.
	SuggestionLimit = 5
	// MinSuggestionChars is the minimum query length (in runes) that yields
	// suggestions, matching the storefront's debounce threshold.
	MinSuggestionChars = 2
	// suggestionSimilarity is the minimum similarity for a catalog term to
	// become a suggestion candidate.
	suggestionSimilarity = 0.5
)

// Service is the in-process search engine: synonym expansion, weighted
// lexical scoring, threshold, sort and pagination over a catalog snapshot.
// Each call is a pure function of (query, catalog snapshot); the service
// holds no mutable state, so any number of searches may run concurrently.
type Service struct {
	catalog  Catalog
	expander Expander
}

var _ Engine = (*Service)(nil)

// New creates the in-process search service.
func New(catalog Catalog, expander Expander) *Service {
	return &Service{catalog: catalog, expander: expander}
}

// Search scores the catalog against the query and returns one ranked page.
// An empty query with no filters short-circuits without touching the
// catalog. A failed catalog fetch surfaces as ErrCatalogUnavailable; it is
// never folded into an empty result.
func (s *Service) Search(ctx context.Context, q query.Query) (result.Page, error) {
	if q.IsEmpty() && !q.HasFilters() {
		return result.NewPage(nil, nil, 0), nil
	}

	products, err := s.catalog.FetchAll(ctx)
	if err != nil {
		return result.Page{}, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	var matches []result.Match
	var suggestions []string

	if q.IsEmpty() {
		// Browse mode: filters only, no relevance threshold to apply.
		for _, p := range products {
			if matchesFilters(&p, &q) {
				matches = append(matches, result.NewMatch(p, 0))
			}
		}
	} else {
		variants := s.expander.Expand(q.Text())
		for _, p := range products {
			if !matchesFilters(&p, &q) {
				continue
			}
			score := relevance.Score(p, variants)
			if score <= MinScore {
				continue
			}
			matches = append(matches, result.NewMatch(p, score))
		}
		// Suggestions scan the unfiltered snapshot with the raw query,
		// independent of the result list.
		suggestions = buildSuggestions(products, q.Text(), variants)
	}

	sortMatches(matches, q.Sort())
	total := len(matches)
	page := paginate(matches, q.Offset(), q.Limit())

	return result.NewPage(page, suggestions, total), nil
}

// Suggest returns autocomplete suggestions for a raw query.
func (s *Service) Suggest(ctx context.Context, text string) ([]string, error) {
	if len([]rune(strings.TrimSpace(text))) < MinSuggestionChars {
		return nil, nil
	}

	products, err := s.catalog.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	return buildSuggestions(products, text, s.expander.Expand(text)), nil
}

// matchesFilters applies the exact/range candidate predicates. These run
// before pagination, never after.
func matchesFilters(p *product.Product, q *query.Query) bool {
	if c := q.Category(); c != "" && p.Category() != c {
		return false
	}
	if min := q.PriceMin(); min != nil && p.Price() < *min {
		return false
	}
	if max := q.PriceMax(); max != nil && p.Price() > *max {
		return false
	}
	if q.InStockOnly() && !p.InStock() {
		return false
	}
	if q.FeaturedOnly() && !p.Featured() {
		return false
	}
	return true
}

// sortMatches orders matches in place. All orderings are stable so ties keep
// catalog order and results stay deterministic.
func sortMatches(matches []result.Match, o order.Order) {
	switch o {
	case order.PriceAsc:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Product().Price() < matches[j].Product().Price()
		})
	case order.PriceDesc:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Product().Price() > matches[j].Product().Price()
		})
	case order.Newest:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Product().CreatedAt() > matches[j].Product().CreatedAt()
		})
	default: // order.Relevance
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Score() > matches[j].Score()
		})
	}
}

func paginate(matches []result.Match, offset, limit int) []result.Match {
	if offset >= len(matches) {
		return nil
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end]
}

// buildSuggestions collects catalog terms (names, tags, categories) similar
// to the raw query, in catalog order, then appends expansion variants, all
// deduplicated and capped at SuggestionLimit.
func buildSuggestions(products []product.Product, text string, variants []string) []string {
	if len([]rune(strings.TrimSpace(text))) < MinSuggestionChars {
		return nil
	}

	seen := make(map[string]struct{})
	var out []string
	add := func(candidate string) bool {
		if len(out) >= SuggestionLimit {
			return false
		}
		key := strings.ToLower(candidate)
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
		out = append(out, candidate)
		return true
	}

	for _, p := range products {
		if len(out) >= SuggestionLimit {
			break
		}
		candidates := make([]string, 0, len(p.Tags())+2)
		candidates = append(candidates, p.Name())
		candidates = append(candidates, p.Tags()...)
		if p.Category() != "" {
			candidates = append(candidates, p.Category())
		}
		for _, c := range candidates {
			if relevance.Similarity(c, text) > suggestionSimilarity {
				if !add(c) {
					break
				}
			}
		}
	}

	// Expansion variants differ from the original by construction; the
	// original itself is variants[0] and is skipped.
	for _, v := range variants[1:] {
		if !add(v) {
			break
		}
	}

	return out
}

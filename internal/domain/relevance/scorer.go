package relevance

import "github.com/Mutazlab/catalog-search/internal/domain/product"

// Field weights for the combined relevance score. These are part of the
// ranking contract; changing them reorders every result list.
const (
	WeightName        = 3.0
	WeightDescription = 2.0
	// WeightTags applies to the single best-matching tag, not a sum over tags.
	WeightTags     = 2.0
	WeightCategory = 1.0

	// MinFieldSimilarity is the per-field noise floor. Long unrelated strings
	// still produce small positive edit-distance similarities; a field
	// contributes to the score only above this floor, so a product with no
	// real text overlap scores exactly 0. A single-edit variant such as
	// "phones" for "phone" (similarity 0.83) clears it comfortably.
	MinFieldSimilarity = 0.3
)

// Score computes the relevance of a product against a set of query variants
// and returns the maximum per-variant score. Variants are alternative
// interpretations of the same intent, so the best one wins; they are never
// summed.
func Score(p product.Product, variants []string) float64 {
	var best float64
	for _, v := range variants {
		if s := scoreVariant(p, v); s > best {
			best = s
		}
	}
	return best
}

// scoreVariant combines per-field similarity with the field weights.
// A product with no tags contributes 0 for the tag term.
func scoreVariant(p product.Product, q string) float64 {
	score := WeightName * contribution(Similarity(p.Name(), q))
	score += WeightDescription * contribution(Similarity(p.Description(), q))

	var bestTag float64
	for _, tag := range p.Tags() {
		if s := Similarity(tag, q); s > bestTag {
			bestTag = s
		}
	}
	score += WeightTags * contribution(bestTag)

	score += WeightCategory * contribution(Similarity(p.Category(), q))
	return score
}

func contribution(sim float64) float64 {
	if sim > MinFieldSimilarity {
		return sim
	}
	return 0
}

package synonym

import (
	"regexp"
	"strings"
)

// Expand derives alternative phrasings of a query. The original query is
// always the first element; each whitespace token that belongs to an
// equivalence group yields one variant per other group term, produced by a
// global case-insensitive replacement of that token in the original query.
// Substitution is single-token: variants never combine replacements of two
// different tokens (no Cartesian expansion). The result is deduplicated.
//
// The replacement is a plain case-insensitive pattern without word
// boundaries, so a short term can also match inside a longer word ("cell"
// inside "cellar"). This mirrors the storefront's long-standing behavior.
// TODO: anchor token replacement on word boundaries once the ranking
// fixtures cover multi-word tag phrases.
func (d *Dictionary) Expand(query string) []string {
	out := []string{query}
	seen := map[string]struct{}{query: {}}

	for _, token := range strings.Fields(query) {
		group := d.group(token)
		if group == nil {
			continue
		}

		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(token))
		if err != nil {
			continue
		}
		for _, term := range group {
			if strings.EqualFold(term, token) {
				continue
			}
			variant := re.ReplaceAllString(query, term)
			if _, dup := seen[variant]; dup {
				continue
			}
			seen[variant] = struct{}{}
			out = append(out, variant)
		}
	}

	return out
}

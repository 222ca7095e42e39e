// Package synonym holds the static term-equivalence dictionary used for
// query expansion. A Dictionary is built once at startup and read-only
// afterwards, so concurrent searches share it without synchronization.
package synonym

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dictionary maps canonical terms to their equivalents and answers
// membership lookups for any term of a group.
type Dictionary struct {
	// groups holds each equivalence group with the canonical term first,
	// in the order synonyms were declared.
	groups map[string][]string
	// index maps every lower-cased member term to its full group.
	index map[string][]string
}

// New builds a Dictionary from canonical-term -> synonyms entries.
func New(entries map[string][]string) *Dictionary {
	d := &Dictionary{
		groups: make(map[string][]string, len(entries)),
		index:  make(map[string][]string),
	}
	for key, syns := range entries {
		group := make([]string, 0, len(syns)+1)
		group = append(group, key)
		group = append(group, syns...)
		d.groups[key] = group
		for _, term := range group {
			d.index[strings.ToLower(term)] = group
		}
	}
	return d
}

// LoadFile reads a YAML file of canonical-term -> synonym-list entries.
func LoadFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read synonyms %s: %w", path, err)
	}

	var entries map[string][]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse synonyms %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("synonyms %s: no entries", path)
	}
	return New(entries), nil
}

// Len returns the number of canonical entries.
func (d *Dictionary) Len() int { return len(d.groups) }

// Terms returns the canonical terms in sorted order.
func (d *Dictionary) Terms() []string {
	terms := make([]string, 0, len(d.groups))
	for k := range d.groups {
		terms = append(terms, k)
	}
	sort.Strings(terms)
	return terms
}

// Equivalents returns the other members of term's equivalence group, or nil
// when the term is unknown. Used for index-time synonym injection.
func (d *Dictionary) Equivalents(term string) []string {
	group := d.group(term)
	if group == nil {
		return nil
	}
	out := make([]string, 0, len(group)-1)
	for _, t := range group {
		if !strings.EqualFold(t, term) {
			out = append(out, t)
		}
	}
	return out
}

// group returns the equivalence group containing term, or nil.
func (d *Dictionary) group(term string) []string {
	return d.index[strings.ToLower(term)]
}

package search

import (
	"context"
	"time"

	"github.com/Mutazlab/catalog-search/internal/domain/search/query"
	"github.com/Mutazlab/catalog-search/internal/domain/search/result"
	"github.com/Mutazlab/catalog-search/internal/metrics"
)

// InstrumentedEngine decorates an Engine with Prometheus observations. It
// records latency, result counts and error outcomes per backend without the
// wrapped engine knowing about metrics at all.
type InstrumentedEngine struct {
	inner   Engine
	backend string
}

var _ Engine = (*InstrumentedEngine)(nil)

// NewInstrumented wraps an engine. backend labels the observations
// ("scorer" or "bleve").
func NewInstrumented(inner Engine, backend string) *InstrumentedEngine {
	return &InstrumentedEngine{inner: inner, backend: backend}
}

func (e *InstrumentedEngine) Search(ctx context.Context, q query.Query) (result.Page, error) {
	start := time.Now()
	page, err := e.inner.Search(ctx, q)
	metrics.ObserveSearch(e.backend, time.Since(start), page.Total(), err == nil)
	return page, err
}

func (e *InstrumentedEngine) Suggest(ctx context.Context, text string) ([]string, error) {
	start := time.Now()
	suggestions, err := e.inner.Suggest(ctx, text)
	metrics.ObserveSuggest(e.backend, time.Since(start), err == nil)
	return suggestions, err
}

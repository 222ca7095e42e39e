package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/Mutazlab/catalog-search/internal/domain"
	"github.com/Mutazlab/catalog-search/internal/domain/search/order"
)

func f(v float64) *float64 { return &v }

func TestNew_Defaults(t *testing.T) {
	q, err := New("headphones", "", nil, nil, false, false, "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Sort() != order.Relevance {
		t.Errorf("sort = %q, want relevance", q.Sort())
	}
	if q.Limit() != DefaultLimit {
		t.Errorf("limit = %d, want %d", q.Limit(), DefaultLimit)
	}
	if q.Offset() != 0 {
		t.Errorf("offset = %d, want 0", q.Offset())
	}
}

func TestNew_LimitClamped(t *testing.T) {
	q, err := New("x", "", nil, nil, false, false, order.Relevance, 5000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Limit() != MaxLimit {
		t.Errorf("limit = %d, want clamped to %d", q.Limit(), MaxLimit)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (Query, error)
	}{
		{"priceMin over priceMax", func() (Query, error) {
			return New("x", "", f(100), f(10), false, false, order.Relevance, 0, 0)
		}},
		{"negative priceMin", func() (Query, error) {
			return New("x", "", f(-1), nil, false, false, order.Relevance, 0, 0)
		}},
		{"negative priceMax", func() (Query, error) {
			return New("x", "", nil, f(-1), false, false, order.Relevance, 0, 0)
		}},
		{"unknown sort", func() (Query, error) {
			return New("x", "", nil, nil, false, false, order.Order("rating"), 0, 0)
		}},
		{"negative limit", func() (Query, error) {
			return New("x", "", nil, nil, false, false, order.Relevance, -1, 0)
		}},
		{"negative offset", func() (Query, error) {
			return New("x", "", nil, nil, false, false, order.Relevance, 0, -1)
		}},
		{"text too long", func() (Query, error) {
			return New(strings.Repeat("q", MaxTextLength+1), "", nil, nil, false, false, order.Relevance, 0, 0)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.fn(); !errors.Is(err, domain.ErrInvalidFilter) {
				t.Errorf("expected ErrInvalidFilter, got %v", err)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"q", false},
		{" q ", false},
	}
	for _, tt := range tests {
		q, err := New(tt.text, "", nil, nil, false, false, "", 0, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.IsEmpty() != tt.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", tt.text, q.IsEmpty(), tt.want)
		}
	}
}

func TestHasFilters(t *testing.T) {
	none, _ := New("x", "", nil, nil, false, false, "", 0, 0)
	if none.HasFilters() {
		t.Error("no filters expected")
	}
	cat, _ := New("x", "electronics", nil, nil, false, false, "", 0, 0)
	if !cat.HasFilters() {
		t.Error("category filter expected")
	}
	price, _ := New("x", "", f(1), nil, false, false, "", 0, 0)
	if !price.HasFilters() {
		t.Error("price filter expected")
	}
	stock, _ := New("x", "", nil, nil, true, false, "", 0, 0)
	if !stock.HasFilters() {
		t.Error("inStock filter expected")
	}
}

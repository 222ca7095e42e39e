package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Mutazlab/catalog-search/internal/db"
	"github.com/Mutazlab/catalog-search/internal/domain"
	"github.com/Mutazlab/catalog-search/internal/domain/product"
)

// DefaultKeyPrefix namespaces catalog keys in the shared keyspace.
const DefaultKeyPrefix = "catalog:"

// store is the consumer interface for the catalog keyspace (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase catalog/search storage contracts over Redis JSON
// documents.
type Repo struct {
	store  store
	prefix string
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s, prefix: DefaultKeyPrefix}
}

// WithKeyPrefix overrides the key prefix (builder-style, returns the Repo).
func (r *Repo) WithKeyPrefix(prefix string) *Repo {
	if prefix != "" {
		r.prefix = prefix
	}
	return r
}

// Put creates or updates a product. Returns true if created.
func (r *Repo) Put(ctx context.Context, p *product.Product) (bool, error) {
	key := r.productKey(p.ID())
	data, err := json.Marshal(toDTO(p))
	if err != nil {
		return false, fmt.Errorf("marshal product: %w", err)
	}

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, err)
	}

	return !exists, nil
}

// Get returns a product by ID.
func (r *Repo) Get(ctx context.Context, id string) (product.Product, error) {
	key := r.productKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return product.Product{}, domain.ErrProductNotFound
		}
		return product.Product{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseJSONGetResult(raw)
}

// Delete removes a product.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.productKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrProductNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// FetchAll returns a full catalog snapshot: SCAN the product keyspace, then
// fetch all documents in one pipelined round-trip. Keys are sorted before the
// fetch so snapshot order (and therefore ranking tie-breaks) is
// deterministic.
func (r *Repo) FetchAll(ctx context.Context) ([]product.Product, error) {
	keys, err := r.store.Scan(ctx, r.productKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan products: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	raws, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	products := make([]product.Product, 0, len(raws))
	for i, raw := range raws {
		if raw == nil {
			// Deleted between SCAN and fetch.
			continue
		}
		p, err := parseJSONGetResult(raw)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", keys[i], err)
		}
		products = append(products, p)
	}
	return products, nil
}

// Count returns the number of products in the catalog.
func (r *Repo) Count(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, r.productKey("*"))
	if err != nil {
		return 0, fmt.Errorf("scan products: %w", err)
	}
	return len(keys), nil
}

func (r *Repo) productKey(id string) string {
	return fmt.Sprintf("%sproduct:%s", r.prefix, id)
}

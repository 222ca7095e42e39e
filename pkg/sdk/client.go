package catalogsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mutazlab/catalog-search/internal/db"
	dbRedis "github.com/Mutazlab/catalog-search/internal/db/redis"
	"github.com/Mutazlab/catalog-search/internal/domain/product"
	"github.com/Mutazlab/catalog-search/internal/domain/search/query"
	"github.com/Mutazlab/catalog-search/internal/domain/search/result"
	"github.com/Mutazlab/catalog-search/internal/repository/bleveindex"
	catalogrepo "github.com/Mutazlab/catalog-search/internal/repository/catalog"
	"github.com/Mutazlab/catalog-search/internal/synonym"
	cataloguc "github.com/Mutazlab/catalog-search/internal/usecase/catalog"
	searchuc "github.com/Mutazlab/catalog-search/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type catalogUseCase interface {
	Upsert(ctx context.Context, p *product.Product) (bool, error)
	Get(ctx context.Context, id string) (product.Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]product.Product, int, error)
	Count(ctx context.Context) (int, error)
}

type searchEngine interface {
	Search(ctx context.Context, q query.Query) (result.Page, error)
	Suggest(ctx context.Context, text string) ([]string, error)
}

// Client is the catalog search SDK entry point.
type Client struct {
	store      db.Store
	index      *bleveindex.Engine
	catalogSvc catalogUseCase
	engine     searchEngine
	obs        *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("catalogsearch: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("catalogsearch: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("catalogsearch: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	return wireClient(ctx, store, cfg, obs)
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	dict, err := buildDictionary(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	repo := catalogrepo.New(store).WithKeyPrefix(cfg.keyPrefix)

	c := &Client{store: store, obs: obs}

	if cfg.bleve {
		idx, err := bleveindex.Open(cfg.bleveIndexPath, dict)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("catalogsearch: open bleve index: %w", err)
		}

		products, err := repo.FetchAll(ctx)
		if err != nil {
			_ = idx.Close()
			store.Close()
			return nil, fmt.Errorf("catalogsearch: load catalog snapshot: %w", err)
		}
		if err := idx.Rebuild(ctx, products); err != nil {
			_ = idx.Close()
			store.Close()
			return nil, fmt.Errorf("catalogsearch: rebuild bleve index: %w", err)
		}

		c.index = idx
		c.engine = idx
		c.catalogSvc = cataloguc.New(repo, idx)
		return c, nil
	}

	c.engine = searchuc.New(repo, dict)
	c.catalogSvc = cataloguc.New(repo, nil)
	return c, nil
}

func buildDictionary(cfg *clientConfig) (*synonym.Dictionary, error) {
	switch {
	case cfg.synonymsPath != "":
		dict, err := synonym.LoadFile(cfg.synonymsPath)
		if err != nil {
			return nil, fmt.Errorf("catalogsearch: %w", err)
		}
		return dict, nil
	case cfg.synonyms != nil:
		return synonym.New(cfg.synonyms), nil
	default:
		return synonym.Default(), nil
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.index != nil {
		_ = c.index.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Products returns the catalog management service.
func (c *Client) Products() *ProductService {
	return &ProductService{svc: c.catalogSvc, obs: c.obs}
}

// Search runs a ranked product search.
func (c *Client) Search(ctx context.Context, sq SearchQuery) (page SearchPage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	q, err := query.New(
		sq.Text, sq.Category,
		sq.PriceMin, sq.PriceMax,
		sq.InStock, sq.Featured,
		toDomainOrder(sq.Sort), sq.Limit, sq.Offset,
	)
	if err != nil {
		return SearchPage{}, err
	}

	res, err := c.engine.Search(ctx, q)
	if err != nil {
		return SearchPage{}, err
	}
	return fromDomainPage(res), nil
}

// Suggest returns autocomplete suggestions for a query prefix.
func (c *Client) Suggest(ctx context.Context, text string) (suggestions []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", start, err) }()

	return c.engine.Suggest(ctx, text)
}

package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Mutazlab/catalog-search/internal/domain"
	"github.com/Mutazlab/catalog-search/internal/domain/product"
	"github.com/Mutazlab/catalog-search/internal/domain/search/order"
	"github.com/Mutazlab/catalog-search/internal/domain/search/query"
	"github.com/Mutazlab/catalog-search/internal/domain/search/result"
	cataloguc "github.com/Mutazlab/catalog-search/internal/usecase/catalog"
	healthuc "github.com/Mutazlab/catalog-search/internal/usecase/health"
	searchuc "github.com/Mutazlab/catalog-search/internal/usecase/search"
)

// Client-facing error codes.
type errorCode string

const (
	codeBadRequest         errorCode = "bad_request"
	codeValidationFailed   errorCode = "validation_failed"
	codeProductNotFound    errorCode = "product_not_found"
	codeCatalogUnavailable errorCode = "catalog_unavailable"
	codeIndexUnavailable   errorCode = "index_unavailable"
	codeInternalError      errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search and catalog API over chi.
type Server struct {
	catalog       *cataloguc.Service
	engine        searchuc.Engine
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog *cataloguc.Service,
	engine searchuc.Engine,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		catalog: catalog,
		engine:  engine,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrProductNotFound, http.StatusNotFound, codeProductNotFound),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidProduct, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, codeCatalogUnavailable),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, codeIndexUnavailable),
	}
	return s
}

// Mount registers all routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", s.Search)
		r.Get("/suggest", s.Suggest)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.ListProducts)
			r.Put("/{id}", s.UpsertProduct)
			r.Get("/{id}", s.GetProduct)
			r.Delete("/{id}", s.DeleteProduct)
		})
	})
}

// --- Search ---

type productResult struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price"`
	Inventory   int      `json:"inventory"`
	InStock     bool     `json:"in_stock"`
	Featured    bool     `json:"featured"`
	CreatedAt   int64    `json:"created_at"`
	Score       float64  `json:"score"`
}

type searchResponse struct {
	Products    []productResult `json:"products"`
	Suggestions []string        `json:"suggestions"`
	Total       int             `json:"total"`
}

// Search handles GET /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromParams(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	page, err := s.engine.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// Suggest handles GET /api/v1/suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.engine.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// queryFromParams parses and validates search parameters from the URL.
func queryFromParams(r *http.Request) (query.Query, error) {
	params := r.URL.Query()

	var priceMin, priceMax *float64
	if raw := params.Get("priceMin"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query.Query{}, fmt.Errorf("%w: priceMin must be a number", domain.ErrInvalidFilter)
		}
		priceMin = &v
	}
	if raw := params.Get("priceMax"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query.Query{}, fmt.Errorf("%w: priceMax must be a number", domain.ErrInvalidFilter)
		}
		priceMax = &v
	}

	inStock, err := boolParam(params.Get("inStock"))
	if err != nil {
		return query.Query{}, fmt.Errorf("%w: inStock must be a boolean", domain.ErrInvalidFilter)
	}
	featured, err := boolParam(params.Get("featured"))
	if err != nil {
		return query.Query{}, fmt.Errorf("%w: featured must be a boolean", domain.ErrInvalidFilter)
	}

	limit, err := intParam(params.Get("limit"))
	if err != nil {
		return query.Query{}, fmt.Errorf("%w: limit must be an integer", domain.ErrInvalidFilter)
	}
	offset, err := intParam(params.Get("offset"))
	if err != nil {
		return query.Query{}, fmt.Errorf("%w: offset must be an integer", domain.ErrInvalidFilter)
	}

	return query.New(
		params.Get("q"), params.Get("category"),
		priceMin, priceMax, inStock, featured,
		order.Order(params.Get("sort")), limit, offset,
	)
}

func boolParam(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func pageToResponse(page result.Page) searchResponse {
	products := make([]productResult, len(page.Matches()))
	for i, m := range page.Matches() {
		products[i] = matchToResult(m)
	}

	suggestions := page.Suggestions()
	if suggestions == nil {
		suggestions = []string{}
	}

	return searchResponse{
		Products:    products,
		Suggestions: suggestions,
		Total:       page.Total(),
	}
}

func matchToResult(m result.Match) productResult {
	p := m.Product()
	return productResult{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Tags:        p.Tags(),
		Category:    p.Category(),
		Price:       p.Price(),
		Inventory:   p.Inventory(),
		InStock:     p.InStock(),
		Featured:    p.Featured(),
		CreatedAt:   p.CreatedAt(),
		Score:       m.Score(),
	}
}

// --- Products ---

type productPayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Inventory   int      `json:"inventory"`
	Featured    bool     `json:"featured"`
	CreatedAt   int64    `json:"created_at"`
}

type productResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price"`
	Inventory   int      `json:"inventory"`
	InStock     bool     `json:"in_stock"`
	Featured    bool     `json:"featured"`
	CreatedAt   int64    `json:"created_at"`
}

type productListResponse struct {
	Products []productResponse `json:"products"`
	Total    int               `json:"total"`
}

// UpsertProduct handles PUT /api/v1/products/{id}.
func (s *Server) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload productPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	createdAt := payload.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().UnixMilli()
	}

	p, err := product.New(
		id, payload.Name, payload.Description, payload.Tags, payload.Category,
		payload.Price, payload.Inventory, payload.Featured, createdAt,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	created, err := s.catalog.Upsert(r.Context(), &p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", "/api/v1/products/"+id)
	}
	writeJSON(w, status, productToResponse(&p))
}

// GetProduct handles GET /api/v1/products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productToResponse(&p))
}

// DeleteProduct handles DELETE /api/v1/products/{id}.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProducts handles GET /api/v1/products.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be an integer")
		return
	}
	offset, err := intParam(r.URL.Query().Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "offset must be an integer")
		return
	}

	products, total, err := s.catalog.List(r.Context(), limit, offset)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]productResponse, len(products))
	for i := range products {
		items[i] = productToResponse(&products[i])
	}

	writeJSON(w, http.StatusOK, productListResponse{Products: items, Total: total})
}

func productToResponse(p *product.Product) productResponse {
	return productResponse{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Tags:        p.Tags(),
		Category:    p.Category(),
		Price:       p.Price(),
		Inventory:   p.Inventory(),
		InStock:     p.InStock(),
		Featured:    p.Featured(),
		CreatedAt:   p.CreatedAt(),
	}
}

// --- Health & metrics ---

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrProductNotFound,
		domain.ErrInvalidFilter,
		domain.ErrInvalidProduct,
		domain.ErrCatalogUnavailable,
		domain.ErrIndexUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

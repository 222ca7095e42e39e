package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Mutazlab/catalog-search/internal/domain"
	"github.com/Mutazlab/catalog-search/internal/domain/product"
	"github.com/Mutazlab/catalog-search/internal/domain/search/query"
	"github.com/Mutazlab/catalog-search/internal/domain/search/result"
	cataloguc "github.com/Mutazlab/catalog-search/internal/usecase/catalog"
	healthuc "github.com/Mutazlab/catalog-search/internal/usecase/health"
)

type mockEngine struct {
	page        result.Page
	suggestions []string
	err         error
	lastQuery   query.Query
}

func (m *mockEngine) Search(_ context.Context, q query.Query) (result.Page, error) {
	m.lastQuery = q
	if m.err != nil {
		return result.Page{}, m.err
	}
	return m.page, nil
}

func (m *mockEngine) Suggest(_ context.Context, _ string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.suggestions, nil
}

type mockRepo struct {
	products []product.Product
	err      error
}

func (m *mockRepo) Put(_ context.Context, p *product.Product) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for i := range m.products {
		if m.products[i].ID() == p.ID() {
			m.products[i] = *p
			return false, nil
		}
	}
	m.products = append(m.products, *p)
	return true, nil
}

func (m *mockRepo) Get(_ context.Context, id string) (product.Product, error) {
	if m.err != nil {
		return product.Product{}, m.err
	}
	for i := range m.products {
		if m.products[i].ID() == id {
			return m.products[i], nil
		}
	}
	return product.Product{}, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	for i := range m.products {
		if m.products[i].ID() == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
}

func (m *mockRepo) FetchAll(_ context.Context) ([]product.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *mockRepo) Count(_ context.Context) (int, error) {
	return len(m.products), nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func mustProduct(t *testing.T, id, name string, price float64) product.Product {
	t.Helper()
	p, err := product.New(id, name, "", []string{"electronics"}, "electronics", price, 5, false, 100)
	if err != nil {
		t.Fatalf("build product %s: %v", id, err)
	}
	return p
}

func newTestServer(t *testing.T, engine *mockEngine, repo *mockRepo, pinger *mockPinger) http.Handler {
	t.Helper()
	if repo == nil {
		repo = &mockRepo{}
	}
	if pinger == nil {
		pinger = &mockPinger{}
	}
	s := NewServer(
		cataloguc.New(repo, nil),
		engine,
		healthuc.New(pinger, nil),
		zap.NewNop(),
	)
	r := chi.NewRouter()
	s.Mount(r)
	return r
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

func TestSearch_OK(t *testing.T) {
	p := mustProduct(t, "p1", "Wireless Headphones", 199.99)
	engine := &mockEngine{
		page: result.NewPage([]result.Match{result.NewMatch(p, 3.0)}, []string{"Wireless Headphones"}, 1),
	}
	handler := newTestServer(t, engine, nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/search?q=headphones", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp searchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("total: got %d, want 1", resp.Total)
	}
	if len(resp.Products) != 1 || resp.Products[0].ID != "p1" {
		t.Fatalf("products: got %+v, want single p1", resp.Products)
	}
	if resp.Products[0].Score != 3.0 {
		t.Errorf("score: got %v, want 3.0", resp.Products[0].Score)
	}
	if len(resp.Suggestions) != 1 {
		t.Errorf("suggestions: got %v, want one entry", resp.Suggestions)
	}
	if engine.lastQuery.Text() != "headphones" {
		t.Errorf("engine query text: got %q", engine.lastQuery.Text())
	}
}

func TestSearch_PassesFiltersToEngine(t *testing.T) {
	engine := &mockEngine{page: result.NewPage(nil, nil, 0)}
	handler := newTestServer(t, engine, nil, nil)

	url := "/api/v1/search?q=phone&category=electronics&priceMin=10&priceMax=99.5&inStock=true&featured=false&sort=price_asc&limit=5&offset=10"
	req := httptest.NewRequest("GET", url, http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	q := engine.lastQuery
	if q.Category() != "electronics" {
		t.Errorf("category: got %q", q.Category())
	}
	if q.PriceMin() == nil || *q.PriceMin() != 10 {
		t.Errorf("priceMin: got %v", q.PriceMin())
	}
	if q.PriceMax() == nil || *q.PriceMax() != 99.5 {
		t.Errorf("priceMax: got %v", q.PriceMax())
	}
	if !q.InStockOnly() {
		t.Error("inStock filter not set")
	}
	if q.FeaturedOnly() {
		t.Error("featured filter should not be set")
	}
	if q.Limit() != 5 || q.Offset() != 10 {
		t.Errorf("pagination: got limit=%d offset=%d", q.Limit(), q.Offset())
	}
}

func TestSearch_EmptyResult_NonNilSlices(t *testing.T) {
	engine := &mockEngine{page: result.NewPage(nil, nil, 0)}
	handler := newTestServer(t, engine, nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/search?q=nothing", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	body := rr.Body.String()
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if string(raw["products"]) == "null" {
		t.Error("products should be [] not null")
	}
	if string(raw["suggestions"]) == "null" {
		t.Error("suggestions should be [] not null")
	}
}

func TestSearch_InvalidParams_400(t *testing.T) {
	handler := newTestServer(t, &mockEngine{}, nil, nil)

	cases := []struct {
		name string
		url  string
	}{
		{"bad priceMin", "/api/v1/search?q=x&priceMin=abc"},
		{"bad priceMax", "/api/v1/search?q=x&priceMax=abc"},
		{"bad inStock", "/api/v1/search?q=x&inStock=maybe"},
		{"bad limit", "/api/v1/search?q=x&limit=ten"},
		{"negative offset", "/api/v1/search?q=x&offset=-1"},
		{"unknown sort", "/api/v1/search?q=x&sort=popularity"},
		{"price range inverted", "/api/v1/search?q=x&priceMin=50&priceMax=10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.url, http.NoBody)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
			}
			if resp := decodeError(t, rr); resp.Code != codeValidationFailed {
				t.Errorf("error code: got %s, want %s", resp.Code, codeValidationFailed)
			}
		})
	}
}

func TestSearch_CatalogUnavailable_503(t *testing.T) {
	engine := &mockEngine{err: fmt.Errorf("%w: connection refused", domain.ErrCatalogUnavailable)}
	handler := newTestServer(t, engine, nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/search?q=phone", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if resp := decodeError(t, rr); resp.Code != codeCatalogUnavailable {
		t.Errorf("error code: got %s, want %s", resp.Code, codeCatalogUnavailable)
	}
}

func TestSuggest_OK(t *testing.T) {
	engine := &mockEngine{suggestions: []string{"Wireless Headphones", "Wireless Charger"}}
	handler := newTestServer(t, engine, nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/suggest?q=wire", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	var resp map[string][]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp["suggestions"]) != 2 {
		t.Errorf("suggestions: got %v, want 2 entries", resp["suggestions"])
	}
}

func TestSuggest_Empty_NonNilSlice(t *testing.T) {
	handler := newTestServer(t, &mockEngine{}, nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/suggest?q=x", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if string(raw["suggestions"]) == "null" {
		t.Error("suggestions should be [] not null")
	}
}

func upsertBody(t *testing.T, name string, price float64) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(productPayload{
		Name:     name,
		Tags:     []string{"electronics"},
		Category: "electronics",
		Price:    price,
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return bytes.NewBuffer(body)
}

func TestUpsertProduct_Create_201(t *testing.T) {
	repo := &mockRepo{}
	handler := newTestServer(t, &mockEngine{}, repo, nil)

	req := httptest.NewRequest("PUT", "/api/v1/products/p1", upsertBody(t, "Wireless Headphones", 199.99))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/api/v1/products/p1" {
		t.Errorf("location: got %q", loc)
	}

	var resp productResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "p1" || resp.Name != "Wireless Headphones" {
		t.Errorf("response: got %+v", resp)
	}
	if resp.CreatedAt == 0 {
		t.Error("created_at should default to now")
	}
	if len(repo.products) != 1 {
		t.Fatalf("repo: got %d products, want 1", len(repo.products))
	}
}

func TestUpsertProduct_Update_200(t *testing.T) {
	repo := &mockRepo{products: []product.Product{mustProduct(t, "p1", "Old Name", 10)}}
	handler := newTestServer(t, &mockEngine{}, repo, nil)

	req := httptest.NewRequest("PUT", "/api/v1/products/p1", upsertBody(t, "New Name", 20))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if repo.products[0].Name() != "New Name" {
		t.Errorf("name after update: got %q", repo.products[0].Name())
	}
}

func TestUpsertProduct_InvalidBody_400(t *testing.T) {
	handler := newTestServer(t, &mockEngine{}, nil, nil)

	req := httptest.NewRequest("PUT", "/api/v1/products/p1", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if resp := decodeError(t, rr); resp.Code != codeBadRequest {
		t.Errorf("error code: got %s, want %s", resp.Code, codeBadRequest)
	}
}

func TestUpsertProduct_InvalidProduct_400(t *testing.T) {
	handler := newTestServer(t, &mockEngine{}, nil, nil)

	req := httptest.NewRequest("PUT", "/api/v1/products/p1", upsertBody(t, "", 10))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if resp := decodeError(t, rr); resp.Code != codeValidationFailed {
		t.Errorf("error code: got %s, want %s", resp.Code, codeValidationFailed)
	}
}

func TestGetProduct_OK(t *testing.T) {
	repo := &mockRepo{products: []product.Product{mustProduct(t, "p1", "Wireless Headphones", 199.99)}}
	handler := newTestServer(t, &mockEngine{}, repo, nil)

	req := httptest.NewRequest("GET", "/api/v1/products/p1", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	var resp productResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "p1" || resp.Price != 199.99 {
		t.Errorf("response: got %+v", resp)
	}
}

func TestGetProduct_NotFound_404(t *testing.T) {
	handler := newTestServer(t, &mockEngine{}, nil, nil)

	req := httptest.NewRequest("GET", "/api/v1/products/missing", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
	if resp := decodeError(t, rr); resp.Code != codeProductNotFound {
		t.Errorf("error code: got %s, want %s", resp.Code, codeProductNotFound)
	}
}

func TestDeleteProduct_204(t *testing.T) {
	repo := &mockRepo{products: []product.Product{mustProduct(t, "p1", "Wireless Headphones", 199.99)}}
	handler := newTestServer(t, &mockEngine{}, repo, nil)

	req := httptest.NewRequest("DELETE", "/api/v1/products/p1", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
	if len(repo.products) != 0 {
		t.Errorf("repo: got %d products, want 0", len(repo.products))
	}
}

func TestDeleteProduct_NotFound_404(t *testing.T) {
	handler := newTestServer(t, &mockEngine{}, nil, nil)

	req := httptest.NewRequest("DELETE", "/api/v1/products/missing", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestListProducts_Window(t *testing.T) {
	repo := &mockRepo{products: []product.Product{
		mustProduct(t, "p1", "Alpha", 10),
		mustProduct(t, "p2", "Beta", 20),
		mustProduct(t, "p3", "Gamma", 30),
	}}
	handler := newTestServer(t, &mockEngine{}, repo, nil)

	req := httptest.NewRequest("GET", "/api/v1/products/?limit=2&offset=1", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	var resp productListResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("total: got %d, want 3", resp.Total)
	}
	if len(resp.Products) != 2 || resp.Products[0].ID != "p2" {
		t.Errorf("window: got %+v", resp.Products)
	}
}

func TestHealth_OK(t *testing.T) {
	handler := newTestServer(t, &mockEngine{}, nil, nil)

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status field: got %q, want ok", resp.Status)
	}
	if resp.Checks["database"] != "ok" {
		t.Errorf("database check: got %q", resp.Checks["database"])
	}
}

func TestHealth_Degraded_503(t *testing.T) {
	handler := newTestServer(t, &mockEngine{}, nil, &mockPinger{err: fmt.Errorf("connection refused")})

	req := httptest.NewRequest("GET", "/health", http.NoBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status field: got %q, want degraded", resp.Status)
	}
}

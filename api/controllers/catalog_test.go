package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kimhabork/storefront-backend/internal/shopify"
	pkgerrors "github.com/kimhabork/storefront-backend/pkg/errors"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestGetProductNotFound(t *testing.T) {
	stub := &stubCatalog{productErr: pkgerrors.New(pkgerrors.CodeNotFound, "product \"gone\" not found")}

	rec := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/gone", nil), "handle", "gone")
	GetProduct(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetProductSuccess(t *testing.T) {
	stub := &stubCatalog{product: &shopify.Product{Handle: "linen-dress", Title: "Linen Dress"}}

	rec := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/linen-dress", nil), "handle", "linen-dress")
	GetProduct(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data shopify.Product `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if envelope.Data.Title != "Linen Dress" {
		t.Fatalf("unexpected product: %+v", envelope.Data)
	}
}

func TestProductRecommendationsResolvesHandleFirst(t *testing.T) {
	stub := &stubCatalog{
		product:  &shopify.Product{ID: "gid://shopify/Product/1", Handle: "linen-dress"},
		products: []shopify.Product{{Handle: "silk-scarf"}},
	}

	rec := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/linen-dress/recommendations", nil), "handle", "linen-dress")
	ProductRecommendations(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if envelope.Data.Count != 1 {
		t.Fatalf("unexpected count: %d", envelope.Data.Count)
	}
}

func TestListProductsAppliesLimit(t *testing.T) {
	stub := &stubCatalog{products: []shopify.Product{{Handle: "a"}, {Handle: "b"}, {Handle: "c"}}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=2", nil)
	ListProducts(stub, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if envelope.Data.Count != 2 {
		t.Fatalf("expected 2 products, got %d", envelope.Data.Count)
	}
}

func TestListProductsRejectsBadLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=banana", nil)
	ListProducts(&stubCatalog{}, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCollectionProductsValidatesSort(t *testing.T) {
	rec := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/collections/dresses/products?sort=nope", nil), "handle", "dresses")
	CollectionProducts(&stubCatalog{}, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kimhabork/storefront-backend/api/responses"
	"github.com/kimhabork/storefront-backend/api/validators"
	"github.com/kimhabork/storefront-backend/internal/shopify"
	pkgerrors "github.com/kimhabork/storefront-backend/pkg/errors"
	"github.com/kimhabork/storefront-backend/pkg/logger"
)

// CatalogService is the read surface the catalog controllers depend on.
type CatalogService interface {
	GetProduct(ctx context.Context, handle string) (*shopify.Product, error)
	GetProducts(ctx context.Context, filter shopify.ProductFilter) []shopify.Product
	SearchProducts(ctx context.Context, filter shopify.ProductFilter) ([]shopify.Product, error)
	GetProductRecommendations(ctx context.Context, productID string) []shopify.Product
	GetCollection(ctx context.Context, handle string) (*shopify.Collection, error)
	GetCollections(ctx context.Context) []shopify.Collection
	GetCollectionProducts(ctx context.Context, handle string, filter shopify.ProductFilter) []shopify.Product
	GetMenu(ctx context.Context, handle string) []shopify.MenuItem
	GetPage(ctx context.Context, handle string) (*shopify.Page, error)
	GetPages(ctx context.Context) []shopify.Page
}

const maxSearchQueryLen = 256

var allowedSortKeys = map[string]bool{
	"":             true,
	"RELEVANCE":    true,
	"BEST_SELLING": true,
	"CREATED_AT":   true,
	"PRICE":        true,
}

func productFilterFromQuery(r *http.Request) (shopify.ProductFilter, error) {
	q := r.URL.Query()
	sortKey := strings.ToUpper(strings.TrimSpace(q.Get("sort")))
	if !allowedSortKeys[sortKey] {
		return shopify.ProductFilter{}, pkgerrors.New(pkgerrors.CodeValidation, "unsupported sort key").
			WithDetails(map[string]any{"field": "sort"})
	}
	return shopify.ProductFilter{
		Query:   validators.SanitizeString(q.Get("q"), maxSearchQueryLen),
		SortKey: sortKey,
		Reverse: q.Get("reverse") == "true",
	}, nil
}

func ListProducts(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filter, err := productFilterFromQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		// Homepage carousels fetch small fixed counts.
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		products := svc.GetProducts(ctx, filter)
		if limit > 0 && len(products) > limit {
			products = products[:limit]
		}
		responses.WriteSuccess(w, map[string]any{
			"count":    len(products),
			"products": products,
		})
	}
}

func GetProduct(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		handle := chi.URLParam(r, "handle")
		product, err := svc.GetProduct(ctx, handle)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductRecommendations(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		handle := chi.URLParam(r, "handle")
		product, err := svc.GetProduct(ctx, handle)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		recommendations := svc.GetProductRecommendations(ctx, product.ID)
		responses.WriteSuccess(w, map[string]any{
			"count":    len(recommendations),
			"products": recommendations,
		})
	}
}

func ListCollections(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collections := svc.GetCollections(r.Context())
		responses.WriteSuccess(w, map[string]any{
			"count":       len(collections),
			"collections": collections,
		})
	}
}

func CollectionProducts(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filter, err := productFilterFromQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		handle := chi.URLParam(r, "handle")
		products := svc.GetCollectionProducts(ctx, handle, filter)
		responses.WriteSuccess(w, map[string]any{
			"count":    len(products),
			"products": products,
		})
	}
}

func GetMenu(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		menu := svc.GetMenu(r.Context(), chi.URLParam(r, "handle"))
		responses.WriteSuccess(w, map[string]any{"items": menu})
	}
}

func GetPage(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		page, err := svc.GetPage(ctx, chi.URLParam(r, "handle"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func ListPages(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages := svc.GetPages(r.Context())
		responses.WriteSuccess(w, map[string]any{
			"count": len(pages),
			"pages": pages,
		})
	}
}

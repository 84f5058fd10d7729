package controllers

import (
	"net/http"
	"strings"

	"github.com/kimhabork/storefront-backend/api/responses"
	pkgerrors "github.com/kimhabork/storefront-backend/pkg/errors"
	"github.com/kimhabork/storefront-backend/pkg/logger"
)

// Search serves the storefront search box. The query term is required;
// sort and reverse are optional and validated like the catalog listings.
func Search(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if strings.TrimSpace(r.URL.Query().Get("q")) == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query parameter q is required").
				WithDetails(map[string]any{"field": "q"}))
			return
		}

		filter, err := productFilterFromQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		products, err := svc.SearchProducts(ctx, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"success":  true,
			"count":    len(products),
			"products": products,
		})
	}
}

package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kimhabork/storefront-backend/api/controllers"
	webhookcontrollers "github.com/kimhabork/storefront-backend/api/controllers/webhooks"
	"github.com/kimhabork/storefront-backend/api/middleware"
	"github.com/kimhabork/storefront-backend/pkg/config"
	"github.com/kimhabork/storefront-backend/pkg/logger"
	"github.com/kimhabork/storefront-backend/pkg/types"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Catalog     controllers.CatalogService
	Revalidator webhookcontrollers.RevalidationService
	Sessions    controllers.CartSessions
	Contact     controllers.ContactService
	Limiter     middleware.RateLimiterStore
	Readiness   map[string]controllers.Pinger
	Registry    *prometheus.Registry
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.MethodNotAllowed(methodNotAllowed)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.With(middleware.SearchRateLimit(cfg.SearchLimit, deps.Limiter, logg)).
		Get("/api/search", controllers.Search(deps.Catalog, logg))

	r.Post("/api/revalidate", webhookcontrollers.Revalidate(deps.Revalidator, cfg.Shopify.RevalidationSecret, logg))

	r.Post("/api/contact", controllers.ContactSubmit(deps.Contact, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(deps.Catalog, logg))
		r.Get("/products/{handle}", controllers.GetProduct(deps.Catalog, logg))
		r.Get("/products/{handle}/recommendations", controllers.ProductRecommendations(deps.Catalog, logg))
		r.Get("/collections", controllers.ListCollections(deps.Catalog, logg))
		r.Get("/collections/{handle}/products", controllers.CollectionProducts(deps.Catalog, logg))
		r.Get("/menu/{handle}", controllers.GetMenu(deps.Catalog, logg))
		r.Get("/pages", controllers.ListPages(deps.Catalog, logg))
		r.Get("/pages/{handle}", controllers.GetPage(deps.Catalog, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Session(cfg.Cart.SessionTTL, cfg.App.IsProd(), logg))
			r.Get("/", controllers.CartFetch(deps.Sessions, logg))
			r.Post("/items", controllers.CartAddItem(deps.Sessions, logg))
			r.Patch("/items/{lineId}", controllers.CartUpdateItem(deps.Sessions, logg))
			r.Delete("/items/{lineId}", controllers.CartRemoveItem(deps.Sessions, logg))
		})
	})

	return r
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_ = json.NewEncoder(w).Encode(types.ErrorEnvelope{
		Error: types.APIError{
			Code:    "METHOD_NOT_ALLOWED",
			Message: "method not allowed",
		},
	})
}

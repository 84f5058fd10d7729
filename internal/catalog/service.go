package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kimhabork/storefront-backend/internal/shopify"
	"github.com/kimhabork/storefront-backend/pkg/config"
	pkgerrors "github.com/kimhabork/storefront-backend/pkg/errors"
	"github.com/kimhabork/storefront-backend/pkg/logger"
	"github.com/kimhabork/storefront-backend/pkg/redis"
)

// Cache tags grouping cached reads for webhook-driven invalidation.
const (
	TagProducts    = "products"
	TagCollections = "collections"
	TagPages       = "pages"
)

// Storefront is the upstream catalog surface the service reads through.
type Storefront interface {
	GetProduct(ctx context.Context, handle string) (*shopify.Product, error)
	GetProducts(ctx context.Context, filter shopify.ProductFilter) ([]shopify.Product, error)
	GetProductRecommendations(ctx context.Context, productID string) ([]shopify.Product, error)
	GetCollection(ctx context.Context, handle string) (*shopify.Collection, error)
	GetCollections(ctx context.Context) ([]shopify.Collection, error)
	GetCollectionProducts(ctx context.Context, handle string, filter shopify.ProductFilter) ([]shopify.Product, error)
	GetMenu(ctx context.Context, handle string) ([]shopify.MenuItem, error)
	GetPage(ctx context.Context, handle string) (*shopify.Page, error)
	GetPages(ctx context.Context) ([]shopify.Page, error)
}

// Cache is the slice of the redis client the service needs. Reads keep
// working without one; a nil cache just disables memoization.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	AddTagMember(ctx context.Context, key string, tags ...string) error
	InvalidateTag(ctx context.Context, tag string) (int, error)
	CacheKey(operation, digest string) string
}

// Service layers a tagged read cache over the storefront client and
// applies the degrade-to-empty policy on list reads.
type Service struct {
	storefront Storefront
	cache      Cache
	cfg        config.CacheConfig
	logg       *logger.Logger
}

func NewService(storefront Storefront, cache Cache, cfg config.CacheConfig, logg *logger.Logger) *Service {
	return &Service{
		storefront: storefront,
		cache:      cache,
		cfg:        cfg,
		logg:       logg,
	}
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.cfg.Enabled
}

func digest(parts ...any) string {
	raw, _ := json.Marshal(parts)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:16]
}

// cachedRead serves op from the cache when possible, otherwise fetches,
// stores, and registers the key under the invalidation tags. Cache
// failures are logged and never surface to the caller.
func cachedRead[T any](ctx context.Context, s *Service, op, dig string, tags []string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if !s.cacheEnabled() {
		return fetch(ctx)
	}

	key := s.cache.CacheKey(op, dig)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var cached T
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			return cached, nil
		}
		s.logg.Warn(ctx, "dropping undecodable cache entry "+key)
	} else if !redis.IsMiss(err) {
		s.logg.Warn(ctx, "cache read failed: "+err.Error())
	}

	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cfg.TTL); err != nil {
		s.logg.Warn(ctx, "cache write failed: "+err.Error())
		return value, nil
	}
	if err := s.cache.AddTagMember(ctx, key, tags...); err != nil {
		s.logg.Warn(ctx, "cache tag registration failed: "+err.Error())
	}
	return value, nil
}

// degradeList converts an upstream failure into an empty list so browse
// surfaces render empty instead of erroring. The cause is logged.
func degradeList[T any](ctx context.Context, s *Service, op string, items []T, err error) []T {
	if err != nil {
		s.logg.Error(ctx, op+" degraded to empty result", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// GetProduct returns a product by handle. Absence is a not-found error
// rather than a nil result so handlers map it directly to a status.
func (s *Service) GetProduct(ctx context.Context, handle string) (*shopify.Product, error) {
	p, err := cachedRead(ctx, s, "getProduct", digest(handle), []string{TagProducts}, func(ctx context.Context) (*shopify.Product, error) {
		return s.storefront.GetProduct(ctx, handle)
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %q not found", handle))
	}
	return p, nil
}

// SearchProducts propagates upstream failures; the search endpoint turns
// them into explicit gateway errors instead of an empty result.
func (s *Service) SearchProducts(ctx context.Context, filter shopify.ProductFilter) ([]shopify.Product, error) {
	products, err := cachedRead(ctx, s, "getProducts", digest(filter.Query, filter.SortKey, filter.Reverse), []string{TagProducts}, func(ctx context.Context) ([]shopify.Product, error) {
		return s.storefront.GetProducts(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []shopify.Product{}
	}
	return products, nil
}

func (s *Service) GetProducts(ctx context.Context, filter shopify.ProductFilter) []shopify.Product {
	products, err := s.SearchProducts(ctx, filter)
	return degradeList(ctx, s, "getProducts", products, err)
}

func (s *Service) GetProductRecommendations(ctx context.Context, productID string) []shopify.Product {
	recs, err := cachedRead(ctx, s, "getProductRecommendations", digest(productID), []string{TagProducts}, func(ctx context.Context) ([]shopify.Product, error) {
		return s.storefront.GetProductRecommendations(ctx, productID)
	})
	return degradeList(ctx, s, "getProductRecommendations", recs, err)
}

func (s *Service) GetCollection(ctx context.Context, handle string) (*shopify.Collection, error) {
	c, err := cachedRead(ctx, s, "getCollection", digest(handle), []string{TagCollections}, func(ctx context.Context) (*shopify.Collection, error) {
		return s.storefront.GetCollection(ctx, handle)
	})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("collection %q not found", handle))
	}
	return c, nil
}

func (s *Service) GetCollections(ctx context.Context) []shopify.Collection {
	collections, err := cachedRead(ctx, s, "getCollections", digest(), []string{TagCollections}, func(ctx context.Context) ([]shopify.Collection, error) {
		return s.storefront.GetCollections(ctx)
	})
	return degradeList(ctx, s, "getCollections", collections, err)
}

// GetCollectionProducts lists a collection's products. Both an unknown
// collection and an upstream failure produce an empty list.
func (s *Service) GetCollectionProducts(ctx context.Context, handle string, filter shopify.ProductFilter) []shopify.Product {
	products, err := cachedRead(ctx, s, "getCollectionProducts", digest(handle, filter.SortKey, filter.Reverse), []string{TagCollections, TagProducts}, func(ctx context.Context) ([]shopify.Product, error) {
		return s.storefront.GetCollectionProducts(ctx, handle, filter)
	})
	return degradeList(ctx, s, "getCollectionProducts", products, err)
}

func (s *Service) GetMenu(ctx context.Context, handle string) []shopify.MenuItem {
	menu, err := cachedRead(ctx, s, "getMenu", digest(handle), []string{TagCollections}, func(ctx context.Context) ([]shopify.MenuItem, error) {
		return s.storefront.GetMenu(ctx, handle)
	})
	return degradeList(ctx, s, "getMenu", menu, err)
}

func (s *Service) GetPage(ctx context.Context, handle string) (*shopify.Page, error) {
	p, err := cachedRead(ctx, s, "getPage", digest(handle), []string{TagPages}, func(ctx context.Context) (*shopify.Page, error) {
		return s.storefront.GetPage(ctx, handle)
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("page %q not found", handle))
	}
	return p, nil
}

func (s *Service) GetPages(ctx context.Context) []shopify.Page {
	pages, err := cachedRead(ctx, s, "getPages", digest(), []string{TagPages}, func(ctx context.Context) ([]shopify.Page, error) {
		return s.storefront.GetPages(ctx)
	})
	return degradeList(ctx, s, "getPages", pages, err)
}

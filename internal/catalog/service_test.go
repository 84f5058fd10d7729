package catalog

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kimhabork/storefront-backend/internal/shopify"
	"github.com/kimhabork/storefront-backend/pkg/config"
	pkgerrors "github.com/kimhabork/storefront-backend/pkg/errors"
	"github.com/kimhabork/storefront-backend/pkg/logger"
)

type stubStorefront struct {
	Storefront

	product       *shopify.Product
	products      []shopify.Product
	collections   []shopify.Collection
	menu          []shopify.MenuItem
	err           error
	productCalls  int
	productsCalls int
}

func (s *stubStorefront) GetProduct(ctx context.Context, handle string) (*shopify.Product, error) {
	s.productCalls++
	return s.product, s.err
}

func (s *stubStorefront) GetProducts(ctx context.Context, filter shopify.ProductFilter) ([]shopify.Product, error) {
	s.productsCalls++
	return s.products, s.err
}

func (s *stubStorefront) GetCollections(ctx context.Context) ([]shopify.Collection, error) {
	return s.collections, s.err
}

func (s *stubStorefront) GetMenu(ctx context.Context, handle string) ([]shopify.MenuItem, error) {
	return s.menu, s.err
}

type memoryCache struct {
	entries map[string]string
	tags    map[string][]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]string{}, tags: map[string][]string{}}
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.entries[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.entries[key] = value.(string)
	return nil
}

func (m *memoryCache) AddTagMember(ctx context.Context, key string, tags ...string) error {
	for _, tag := range tags {
		m.tags[tag] = append(m.tags[tag], key)
	}
	return nil
}

func (m *memoryCache) InvalidateTag(ctx context.Context, tag string) (int, error) {
	keys := m.tags[tag]
	for _, key := range keys {
		delete(m.entries, key)
	}
	delete(m.tags, tag)
	return len(keys), nil
}

func (m *memoryCache) CacheKey(operation, digest string) string {
	return "kh:cache:" + operation + ":" + digest
}

func testService(storefront Storefront, cache Cache) *Service {
	logg := logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
	return NewService(storefront, cache, config.CacheConfig{Enabled: cache != nil, TTL: time.Minute}, logg)
}

func TestGetProductAbsentIsNotFound(t *testing.T) {
	svc := testService(&stubStorefront{}, nil)

	_, err := svc.GetProduct(context.Background(), "gone")
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetProductCachesSecondRead(t *testing.T) {
	stub := &stubStorefront{product: &shopify.Product{Handle: "linen-dress", Title: "Linen Dress"}}
	svc := testService(stub, newMemoryCache())

	for i := 0; i < 2; i++ {
		p, err := svc.GetProduct(context.Background(), "linen-dress")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Title != "Linen Dress" {
			t.Fatalf("unexpected product: %+v", p)
		}
	}
	if stub.productCalls != 1 {
		t.Fatalf("expected one upstream fetch, got %d", stub.productCalls)
	}
}

func TestGetProductsDegradesToEmpty(t *testing.T) {
	stub := &stubStorefront{err: errors.New("upstream down")}
	svc := testService(stub, nil)

	products := svc.GetProducts(context.Background(), shopify.ProductFilter{})
	if products == nil || len(products) != 0 {
		t.Fatalf("expected empty slice on upstream failure, got %+v", products)
	}
}

func TestGetProductsFailureNotCached(t *testing.T) {
	stub := &stubStorefront{err: errors.New("upstream down")}
	cache := newMemoryCache()
	svc := testService(stub, cache)

	svc.GetProducts(context.Background(), shopify.ProductFilter{})
	if len(cache.entries) != 0 {
		t.Fatalf("expected no cache entries after failure, got %+v", cache.entries)
	}

	stub.err = nil
	stub.products = []shopify.Product{{Handle: "back"}}
	products := svc.GetProducts(context.Background(), shopify.ProductFilter{})
	if len(products) != 1 {
		t.Fatalf("expected recovery after upstream heals, got %+v", products)
	}
	if stub.productsCalls != 2 {
		t.Fatalf("expected two upstream fetches, got %d", stub.productsCalls)
	}
}

func TestRevalidateProductsTopic(t *testing.T) {
	stub := &stubStorefront{products: []shopify.Product{{Handle: "a"}}}
	cache := newMemoryCache()
	svc := testService(stub, cache)

	svc.GetProducts(context.Background(), shopify.ProductFilter{})
	if len(cache.entries) != 1 {
		t.Fatalf("expected a cached read, got %+v", cache.entries)
	}

	tags, err := svc.Revalidate(context.Background(), "products/update")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 1 || tags[0] != TagProducts {
		t.Fatalf("unexpected tags: %+v", tags)
	}
	if len(cache.entries) != 0 {
		t.Fatalf("expected cache cleared, got %+v", cache.entries)
	}
}

func TestRevalidateUnknownTopic(t *testing.T) {
	svc := testService(&stubStorefront{}, newMemoryCache())

	tags, err := svc.Revalidate(context.Background(), "orders/create")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tags != nil {
		t.Fatalf("expected no invalidation for unrelated topic, got %+v", tags)
	}
}

func TestGetMenuNilBecomesEmpty(t *testing.T) {
	svc := testService(&stubStorefront{menu: nil}, nil)

	menu := svc.GetMenu(context.Background(), "main-menu")
	if menu == nil || len(menu) != 0 {
		t.Fatalf("expected empty menu, got %+v", menu)
	}
}

package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kimhabork/storefront-backend/api/middleware"
	"github.com/kimhabork/storefront-backend/internal/cartstore"
	"github.com/kimhabork/storefront-backend/internal/shopify"
	"github.com/kimhabork/storefront-backend/pkg/config"
	pkgerrors "github.com/kimhabork/storefront-backend/pkg/errors"
	"github.com/kimhabork/storefront-backend/pkg/types"
)

// cartRemote is a minimal authoritative cart: one merged line per
// merchandise id, ten dollars a unit.
type cartRemote struct {
	lines   map[string]int
	nextID  int
	ids     map[string]string
	failAdd error
}

func newCartRemote() *cartRemote {
	return &cartRemote{lines: map[string]int{}, ids: map[string]string{}}
}

func (c *cartRemote) cart() *shopify.Cart {
	unit := decimal.RequireFromString("10.00")
	cart := &shopify.Cart{ID: "cart-1", CheckoutURL: "https://example.com/checkout"}
	subtotal := decimal.Zero
	for merch, qty := range c.lines {
		cost := unit.Mul(decimal.NewFromInt(int64(qty)))
		subtotal = subtotal.Add(cost)
		cart.Lines = append(cart.Lines, shopify.CartLine{
			ID:       c.ids[merch],
			Quantity: qty,
			Cost:     shopify.CartLineCost{TotalAmount: types.Money{Amount: cost, CurrencyCode: "USD"}},
			Merchandise: shopify.Merchandise{
				ID:      merch,
				Product: shopify.MerchandiseProduct{Handle: "item", Title: "Item"},
			},
		})
		cart.TotalQuantity += qty
	}
	cart.Cost = shopify.CartCost{
		SubtotalAmount: types.Money{Amount: subtotal, CurrencyCode: "USD"},
		TotalAmount:    types.Money{Amount: subtotal, CurrencyCode: "USD"},
	}
	return cart
}

func (c *cartRemote) CreateCart(ctx context.Context) (*shopify.Cart, error) {
	return c.cart(), nil
}

func (c *cartRemote) GetCart(ctx context.Context, cartID string) (*shopify.Cart, error) {
	return c.cart(), nil
}

func (c *cartRemote) AddToCart(ctx context.Context, cartID string, lines []shopify.CartLineInput) (*shopify.Cart, error) {
	if c.failAdd != nil {
		return nil, c.failAdd
	}
	for _, in := range lines {
		if _, ok := c.lines[in.MerchandiseID]; !ok {
			c.nextID++
			c.ids[in.MerchandiseID] = fmt.Sprintf("line-%d", c.nextID)
		}
		c.lines[in.MerchandiseID] += in.Quantity
	}
	return c.cart(), nil
}

func (c *cartRemote) UpdateCart(ctx context.Context, cartID string, updates []shopify.CartLineUpdateInput) (*shopify.Cart, error) {
	for _, up := range updates {
		for merch, id := range c.ids {
			if id == up.ID {
				c.lines[merch] = up.Quantity
			}
		}
	}
	return c.cart(), nil
}

func (c *cartRemote) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*shopify.Cart, error) {
	for _, lineID := range lineIDs {
		for merch, id := range c.ids {
			if id == lineID {
				delete(c.lines, merch)
				delete(c.ids, merch)
			}
		}
	}
	return c.cart(), nil
}

type stubSessions struct {
	store *cartstore.Store
}

func (s *stubSessions) Get(sessionID string) *cartstore.Store {
	return s.store
}

func cartTestConfig() config.CartConfig {
	return config.CartConfig{
		FreeShippingThreshold: decimal.RequireFromString("200"),
		FlatShippingFee:       decimal.RequireFromString("15"),
		TaxRate:               decimal.RequireFromString("0.08"),
		Currency:              "USD",
	}
}

func sessionRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithSessionID(req.Context(), "session-1"))
}

func TestCartAddItem(t *testing.T) {
	remote := newCartRemote()
	sessions := &stubSessions{store: cartstore.NewStore(remote, cartTestConfig(), controllerTestLogger())}

	rec := httptest.NewRecorder()
	req := sessionRequest(http.MethodPost, "/api/v1/cart/items", `{"merchandiseId":"variant-1","quantity":2}`)
	CartAddItem(sessions, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data cartstore.Snapshot `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if len(envelope.Data.Lines) != 1 || envelope.Data.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected snapshot: %+v", envelope.Data)
	}
}

func TestCartAddItemValidation(t *testing.T) {
	sessions := &stubSessions{store: cartstore.NewStore(newCartRemote(), cartTestConfig(), controllerTestLogger())}

	rec := httptest.NewRecorder()
	req := sessionRequest(http.MethodPost, "/api/v1/cart/items", `{"merchandiseId":"","quantity":0}`)
	CartAddItem(sessions, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartAddItemSurfacesTaxonomyCode(t *testing.T) {
	remote := newCartRemote()
	remote.failAdd = pkgerrors.New(pkgerrors.CodeTransport, "upstream unreachable")
	sessions := &stubSessions{store: cartstore.NewStore(remote, cartTestConfig(), controllerTestLogger())}

	rec := httptest.NewRecorder()
	req := sessionRequest(http.MethodPost, "/api/v1/cart/items", `{"merchandiseId":"variant-1","quantity":1}`)
	CartAddItem(sessions, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeTransport) {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
}

func TestCartUpdateItemOps(t *testing.T) {
	remote := newCartRemote()
	store := cartstore.NewStore(remote, cartTestConfig(), controllerTestLogger())
	sessions := &stubSessions{store: store}

	snap, err := store.AddItem(context.Background(), "variant-1", 1)
	if err != nil {
		t.Fatalf("seeding cart: %v", err)
	}
	lineID := snap.Lines[0].ID

	rec := httptest.NewRecorder()
	req := sessionRequest(http.MethodPatch, "/api/v1/cart/items/"+lineID, `{"op":"increment"}`)
	req = withURLParam(req, "lineId", lineID)
	CartUpdateItem(sessions, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data cartstore.Snapshot `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if envelope.Data.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %+v", envelope.Data.Lines)
	}

	rec = httptest.NewRecorder()
	req = sessionRequest(http.MethodPatch, "/api/v1/cart/items/"+lineID, `{"op":"drop"}`)
	req = withURLParam(req, "lineId", lineID)
	CartUpdateItem(sessions, controllerTestLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown op, got %d", rec.Code)
	}
}

func TestCartRemoveItemNoopForUnknownLine(t *testing.T) {
	sessions := &stubSessions{store: cartstore.NewStore(newCartRemote(), cartTestConfig(), controllerTestLogger())}

	rec := httptest.NewRecorder()
	req := sessionRequest(http.MethodDelete, "/api/v1/cart/items/line-999", "")
	req = withURLParam(req, "lineId", "line-999")
	CartRemoveItem(sessions, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 no-op, got %d", rec.Code)
	}
}

func TestCartFetchWithoutSession(t *testing.T) {
	sessions := &stubSessions{store: cartstore.NewStore(newCartRemote(), cartTestConfig(), controllerTestLogger())}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	CartFetch(sessions, controllerTestLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}
}

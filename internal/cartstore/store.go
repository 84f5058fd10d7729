package cartstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kimhabork/storefront-backend/internal/shopify"
	"github.com/kimhabork/storefront-backend/pkg/config"
	pkgerrors "github.com/kimhabork/storefront-backend/pkg/errors"
	"github.com/kimhabork/storefront-backend/pkg/logger"
	"github.com/kimhabork/storefront-backend/pkg/types"
)

// Remote is the slice of the storefront client the store mutates through.
// The remote cart is authoritative; local state is an optimistic view.
type Remote interface {
	CreateCart(ctx context.Context) (*shopify.Cart, error)
	GetCart(ctx context.Context, cartID string) (*shopify.Cart, error)
	AddToCart(ctx context.Context, cartID string, lines []shopify.CartLineInput) (*shopify.Cart, error)
	UpdateCart(ctx context.Context, cartID string, lines []shopify.CartLineUpdateInput) (*shopify.Cart, error)
	RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*shopify.Cart, error)
}

// Snapshot is a consistent read of one session's cart.
type Snapshot struct {
	CartID        string `json:"cartId"`
	CheckoutURL   string `json:"checkoutUrl"`
	Lines         []Line `json:"lines"`
	Totals        Totals `json:"totals"`
	TotalQuantity int    `json:"totalQuantity"`
}

// Store holds one session's cart. Mutations apply an optimistic local
// change, run the remote mutation, then either adopt the server's answer
// or restore the pre-mutation state of the affected line. Mutations on
// the same line run one at a time; distinct lines proceed independently.
type Store struct {
	remote Remote
	cfg    config.CartConfig
	logg   *logger.Logger

	mu          sync.Mutex
	createMu    sync.Mutex
	cartID      string
	checkoutURL string
	lines       map[string]*line
	lineLocks   map[string]*sync.Mutex
	lastUsed    time.Time
}

func NewStore(remote Remote, cfg config.CartConfig, logg *logger.Logger) *Store {
	return &Store{
		remote:    remote,
		cfg:       cfg,
		logg:      logg,
		lines:     map[string]*line{},
		lineLocks: map[string]*sync.Mutex{},
		lastUsed:  time.Now(),
	}
}

func newLineKey(merchandiseID string) string {
	return "new:" + merchandiseID
}

func (s *Store) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

func (s *Store) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// lockLine returns the mutex serializing mutations for one line key,
// creating it on first use.
func (s *Store) lockLine(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lk, ok := s.lineLocks[key]
	if !ok {
		lk = &sync.Mutex{}
		s.lineLocks[key] = lk
	}
	return lk
}

// ensureCart lazily provisions the remote cart on the first mutation.
// createMu keeps concurrent first mutations from provisioning two carts.
func (s *Store) ensureCart(ctx context.Context) (string, error) {
	s.createMu.Lock()
	defer s.createMu.Unlock()

	s.mu.Lock()
	id := s.cartID
	s.mu.Unlock()
	if id != "" {
		return id, nil
	}

	cart, err := s.remote.CreateCart(ctx)
	if err != nil {
		return "", err
	}
	s.reconcile(cart)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartID, nil
}

// AddItem adds quantity units of a variant. Adding a variant that is
// already in the cart raises that line's quantity; the remote cart
// merges identical merchandise the same way.
func (s *Store) AddItem(ctx context.Context, merchandiseID string, quantity int) (Snapshot, error) {
	s.touch()
	if merchandiseID == "" || quantity < 1 {
		return s.Snapshot(), pkgerrors.New(pkgerrors.CodeValidation, "merchandiseId and a positive quantity are required")
	}

	cartID, err := s.ensureCart(ctx)
	if err != nil {
		return s.Snapshot(), err
	}

	key := s.keyForMerchandise(merchandiseID)
	lk := s.lockLine(key)
	lk.Lock()
	defer lk.Unlock()

	restore := s.applyOptimisticAdd(key, merchandiseID, quantity)

	cart, err := s.remote.AddToCart(ctx, cartID, []shopify.CartLineInput{
		{MerchandiseID: merchandiseID, Quantity: quantity},
	})
	if err != nil {
		s.rollback(key, restore)
		return s.Snapshot(), err
	}

	s.reconcile(cart, key)
	return s.Snapshot(), nil
}

// IncrementItem raises a confirmed line's quantity by one.
func (s *Store) IncrementItem(ctx context.Context, lineID string) (Snapshot, error) {
	return s.adjust(ctx, lineID, +1)
}

// DecrementItem lowers a line's quantity by one; a line at quantity one
// is removed instead.
func (s *Store) DecrementItem(ctx context.Context, lineID string) (Snapshot, error) {
	return s.adjust(ctx, lineID, -1)
}

func (s *Store) adjust(ctx context.Context, lineID string, delta int) (Snapshot, error) {
	s.touch()

	lk := s.lockLine(lineID)
	lk.Lock()
	defer lk.Unlock()

	s.mu.Lock()
	ln, ok := s.lines[lineID]
	if !ok {
		s.mu.Unlock()
		return s.Snapshot(), pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("cart line %q not found", lineID))
	}
	target := ln.quantity + delta
	merchandiseID := ln.merchandiseID
	cartID := s.cartID
	s.mu.Unlock()

	if target < 1 {
		return s.removeLocked(ctx, lineID)
	}

	restore := s.applyOptimisticQuantity(lineID, target)

	cart, err := s.remote.UpdateCart(ctx, cartID, []shopify.CartLineUpdateInput{
		{ID: lineID, MerchandiseID: merchandiseID, Quantity: target},
	})
	if err != nil {
		s.rollback(lineID, restore)
		return s.Snapshot(), err
	}

	s.reconcile(cart, lineID)
	return s.Snapshot(), nil
}

// RemoveItem deletes a line. Removing a line that does not exist is a
// no-op.
func (s *Store) RemoveItem(ctx context.Context, lineID string) (Snapshot, error) {
	s.touch()

	lk := s.lockLine(lineID)
	lk.Lock()
	defer lk.Unlock()

	s.mu.Lock()
	_, ok := s.lines[lineID]
	s.mu.Unlock()
	if !ok {
		return s.Snapshot(), nil
	}

	return s.removeLocked(ctx, lineID)
}

// removeLocked runs the remove mutation; the caller holds the line lock.
func (s *Store) removeLocked(ctx context.Context, lineID string) (Snapshot, error) {
	s.mu.Lock()
	cartID := s.cartID
	s.mu.Unlock()

	restore := s.applyOptimisticRemove(lineID)

	cart, err := s.remote.RemoveFromCart(ctx, cartID, []string{lineID})
	if err != nil {
		s.rollback(lineID, restore)
		return s.Snapshot(), err
	}

	s.reconcile(cart, lineID)
	return s.Snapshot(), nil
}

// Refresh re-reads the remote cart. A consumed or expired cart clears
// the local state; the next mutation provisions a fresh cart.
func (s *Store) Refresh(ctx context.Context) error {
	s.touch()

	s.mu.Lock()
	cartID := s.cartID
	s.mu.Unlock()
	if cartID == "" {
		return nil
	}

	cart, err := s.remote.GetCart(ctx, cartID)
	if err != nil {
		return err
	}
	if cart == nil {
		s.logg.Info(ctx, "cart consumed, resetting session state")
		s.reset()
		return nil
	}
	s.reconcile(cart)
	return nil
}

// Snapshot returns the current lines and derived totals.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]Line, 0, len(s.lines))
	subtotal := decimal.Zero
	currency := ""
	quantity := 0
	for _, ln := range s.lines {
		if ln.state == StatePendingRemove {
			continue
		}
		lines = append(lines, ln.export())
		subtotal = subtotal.Add(ln.cost.Amount)
		if currency == "" {
			currency = ln.cost.CurrencyCode
		}
		quantity += ln.quantity
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })

	return Snapshot{
		CartID:        s.cartID,
		CheckoutURL:   s.checkoutURL,
		Lines:         lines,
		Totals:        computeTotals(types.Money{Amount: subtotal, CurrencyCode: currency}, s.cfg),
		TotalQuantity: quantity,
	}
}

// Lines returns the visible lines only.
func (s *Store) Lines() []Line {
	return s.Snapshot().Lines
}

// Totals returns the derived cost breakdown only.
func (s *Store) Totals() Totals {
	return s.Snapshot().Totals
}

func (s *Store) keyForMerchandise(merchandiseID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, ln := range s.lines {
		if ln.merchandiseID == merchandiseID {
			return key
		}
	}
	return newLineKey(merchandiseID)
}

// applyOptimisticAdd records the guessed post-mutation state and returns
// the pre-mutation line for rollback (nil when the line was absent).
func (s *Store) applyOptimisticAdd(key, merchandiseID string, quantity int) *line {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.lines[key]; ok {
		restore := existing.clone()
		existing.scaleCostTo(existing.quantity + quantity)
		existing.quantity += quantity
		existing.state = StatePendingUpdate
		return restore
	}
	s.lines[key] = &line{
		key:           key,
		merchandiseID: merchandiseID,
		quantity:      quantity,
		state:         StatePendingAdd,
	}
	return nil
}

func (s *Store) applyOptimisticQuantity(key string, quantity int) *line {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.lines[key]
	if !ok {
		return nil
	}
	restore := existing.clone()
	existing.scaleCostTo(quantity)
	existing.quantity = quantity
	existing.state = StatePendingUpdate
	return restore
}

func (s *Store) applyOptimisticRemove(key string) *line {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.lines[key]
	if !ok {
		return nil
	}
	restore := existing.clone()
	existing.state = StatePendingRemove
	return restore
}

// rollback restores the exact pre-mutation state of one line.
func (s *Store) rollback(key string, restore *line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if restore == nil {
		delete(s.lines, key)
		return
	}
	s.lines[key] = restore
}

// reconcile adopts the server's cart. Server lines overwrite local state
// for the keys owned by the finishing mutation and for every settled
// line; lines still pending under another mutation keep their optimistic
// view until that mutation reconciles or rolls back.
func (s *Store) reconcile(cart *shopify.Cart, ownKeys ...string) {
	if cart == nil {
		return
	}

	own := make(map[string]bool, len(ownKeys))
	for _, key := range ownKeys {
		own[key] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cartID = cart.ID
	s.checkoutURL = cart.CheckoutURL

	seen := map[string]bool{}
	for _, sl := range cart.Lines {
		key := sl.ID
		if _, ok := s.lines[key]; !ok {
			// A freshly added line arrives under a synthetic key.
			if tmp := newLineKey(sl.Merchandise.ID); s.lines[tmp] != nil {
				delete(s.lines, tmp)
				if own[tmp] {
					own[key] = true
				}
			}
		}
		seen[key] = true

		existing := s.lines[key]
		if existing != nil && existing.pending() && !own[key] {
			continue
		}
		s.lines[key] = &line{
			key:           key,
			id:            sl.ID,
			merchandiseID: sl.Merchandise.ID,
			title:         sl.Merchandise.Title,
			productHandle: sl.Merchandise.Product.Handle,
			productTitle:  sl.Merchandise.Product.Title,
			imageURL:      sl.Merchandise.Product.FeaturedImage.URL,
			quantity:      sl.Quantity,
			state:         StatePresent,
			cost:          sl.Cost.TotalAmount,
		}
	}

	for key, ln := range s.lines {
		if seen[key] {
			continue
		}
		if ln.pending() && !own[key] {
			continue
		}
		delete(s.lines, key)
	}
}

func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartID = ""
	s.checkoutURL = ""
	s.lines = map[string]*line{}
	s.lineLocks = map[string]*sync.Mutex{}
}

package cartstore

import (
	"github.com/shopspring/decimal"

	"github.com/kimhabork/storefront-backend/pkg/types"
)

// State tracks where a line sits between the local optimistic view and
// the authoritative remote cart.
type State string

const (
	StatePendingAdd    State = "pending_add"
	StatePresent       State = "present"
	StatePendingUpdate State = "pending_update"
	StatePendingRemove State = "pending_remove"
)

// Line is one cart entry as exposed to handlers.
type Line struct {
	ID            string      `json:"id"`
	MerchandiseID string      `json:"merchandiseId"`
	Title         string      `json:"title"`
	ProductHandle string      `json:"productHandle"`
	ProductTitle  string      `json:"productTitle"`
	ImageURL      string      `json:"imageUrl,omitempty"`
	Quantity      int         `json:"quantity"`
	State         State       `json:"state"`
	Cost          types.Money `json:"cost"`
}

// line is the mutable store-internal record. key is the map key it lives
// under: the remote line id once confirmed, a synthetic new-line key
// while an add is in flight.
type line struct {
	key           string
	id            string
	merchandiseID string
	title         string
	productHandle string
	productTitle  string
	imageURL      string
	quantity      int
	state         State
	cost          types.Money
}

func (l *line) pending() bool {
	return l.state == StatePendingAdd || l.state == StatePendingUpdate || l.state == StatePendingRemove
}

func (l *line) export() Line {
	return Line{
		ID:            l.id,
		MerchandiseID: l.merchandiseID,
		Title:         l.title,
		ProductHandle: l.productHandle,
		ProductTitle:  l.productTitle,
		ImageURL:      l.imageURL,
		Quantity:      l.quantity,
		State:         l.state,
		Cost:          l.cost,
	}
}

func (l *line) clone() *line {
	cp := *l
	return &cp
}

// scaleCostTo reprices the line at its known per-unit cost for a guessed
// quantity, so optimistic totals track quantity changes. A line the
// server never confirmed has no price yet and keeps a zero cost until
// reconcile.
func (l *line) scaleCostTo(quantity int) {
	if l.quantity <= 0 || l.cost.Amount.IsZero() {
		return
	}
	unit := l.cost.Amount.Div(decimal.NewFromInt(int64(l.quantity)))
	l.cost.Amount = unit.Mul(decimal.NewFromInt(int64(quantity)))
}

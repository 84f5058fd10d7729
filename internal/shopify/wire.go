package shopify

import (
	"github.com/kimhabork/storefront-backend/pkg/types"
)

// The Storefront API wraps every list in an edges/nodes connection.
// These wrapper types exist only in this file and reshape.go; nothing
// past the client boundary ever sees a cursor or an edge.

type connection[T any] struct {
	Edges []edge[T] `json:"edges"`
}

type edge[T any] struct {
	Node T `json:"node"`
}

func unwrapEdges[T any](conn connection[T]) []T {
	nodes := make([]T, 0, len(conn.Edges))
	for _, e := range conn.Edges {
		nodes = append(nodes, e.Node)
	}
	return nodes
}

type wireProduct struct {
	ID               string                     `json:"id"`
	Handle           string                     `json:"handle"`
	AvailableForSale bool                       `json:"availableForSale"`
	Title            string                     `json:"title"`
	Description      string                     `json:"description"`
	DescriptionHTML  string                     `json:"descriptionHtml"`
	Options          []ProductOption            `json:"options"`
	PriceRange       PriceRange                 `json:"priceRange"`
	Variants         connection[ProductVariant] `json:"variants"`
	FeaturedImage    *Image                     `json:"featuredImage"`
	Images           connection[Image]          `json:"images"`
	SEO              SEO                        `json:"seo"`
	Tags             []string                   `json:"tags"`
	UpdatedAt        string                     `json:"updatedAt"`
}

type wireCollection struct {
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       *Image `json:"image"`
	SEO         SEO    `json:"seo"`
	UpdatedAt   string `json:"updatedAt"`
}

type wireCartCost struct {
	SubtotalAmount types.Money  `json:"subtotalAmount"`
	TotalAmount    types.Money  `json:"totalAmount"`
	TotalTaxAmount *types.Money `json:"totalTaxAmount"`
}

type wireCartLine struct {
	ID          string       `json:"id"`
	Quantity    int          `json:"quantity"`
	Cost        CartLineCost `json:"cost"`
	Merchandise Merchandise  `json:"merchandise"`
}

type wireCart struct {
	ID            string                   `json:"id"`
	CheckoutURL   string                   `json:"checkoutUrl"`
	Cost          wireCartCost             `json:"cost"`
	Lines         connection[wireCartLine] `json:"lines"`
	TotalQuantity int                      `json:"totalQuantity"`
}

type wireMenuItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

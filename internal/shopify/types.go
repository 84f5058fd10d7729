package shopify

import (
	"github.com/kimhabork/storefront-backend/pkg/types"
)

// HiddenProductTag marks catalog entries excluded from general listings.
// Products carrying it are only reachable by direct handle lookup.
const HiddenProductTag = "nextjs-frontend-hidden"

// HiddenCollectionPrefix marks collections excluded from enumeration.
const HiddenCollectionPrefix = "hidden"

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ProductOption struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ProductVariant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	AvailableForSale bool             `json:"availableForSale"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
	Price            types.Money      `json:"price"`
}

type PriceRange struct {
	MinVariantPrice types.Money `json:"minVariantPrice"`
	MaxVariantPrice types.Money `json:"maxVariantPrice"`
}

// Product is the normalized catalog entry handed to handlers; all
// connection wrappers are gone by the time one exists.
type Product struct {
	ID               string           `json:"id"`
	Handle           string           `json:"handle"`
	AvailableForSale bool             `json:"availableForSale"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	DescriptionHTML  string           `json:"descriptionHtml"`
	Options          []ProductOption  `json:"options"`
	PriceRange       PriceRange       `json:"priceRange"`
	Variants         []ProductVariant `json:"variants"`
	FeaturedImage    Image            `json:"featuredImage"`
	Images           []Image          `json:"images"`
	SEO              SEO              `json:"seo"`
	Tags             []string         `json:"tags"`
	UpdatedAt        string           `json:"updatedAt"`
}

// Hidden reports whether the product carries the hidden tag.
func (p Product) Hidden() bool {
	for _, tag := range p.Tags {
		if tag == HiddenProductTag {
			return true
		}
	}
	return false
}

type Collection struct {
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       *Image `json:"image,omitempty"`
	SEO         SEO    `json:"seo"`
	UpdatedAt   string `json:"updatedAt"`
	Path        string `json:"path"`
}

type CartCost struct {
	SubtotalAmount types.Money `json:"subtotalAmount"`
	TotalAmount    types.Money `json:"totalAmount"`
	TotalTaxAmount types.Money `json:"totalTaxAmount"`
}

type CartLineCost struct {
	TotalAmount types.Money `json:"totalAmount"`
}

type MerchandiseProduct struct {
	ID            string `json:"id"`
	Handle        string `json:"handle"`
	Title         string `json:"title"`
	FeaturedImage Image  `json:"featuredImage"`
}

type Merchandise struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	SelectedOptions []SelectedOption   `json:"selectedOptions"`
	Product         MerchandiseProduct `json:"product"`
}

type CartLine struct {
	ID          string       `json:"id"`
	Quantity    int          `json:"quantity"`
	Cost        CartLineCost `json:"cost"`
	Merchandise Merchandise  `json:"merchandise"`
}

type Cart struct {
	ID            string     `json:"id"`
	CheckoutURL   string     `json:"checkoutUrl"`
	Cost          CartCost   `json:"cost"`
	Lines         []CartLine `json:"lines"`
	TotalQuantity int        `json:"totalQuantity"`
}

// CartLineInput adds a variant to a cart.
type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// CartLineUpdateInput rewrites the quantity of an existing line.
type CartLineUpdateInput struct {
	ID            string `json:"id"`
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

type MenuItem struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

type Page struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	BodySummary string `json:"bodySummary"`
	SEO         SEO    `json:"seo"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// ProductFilter narrows and orders product listings.
type ProductFilter struct {
	Query   string
	SortKey string
	Reverse bool
}

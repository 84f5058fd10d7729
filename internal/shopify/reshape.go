package shopify

import (
	"net/url"
	"path"
	"strings"

	"github.com/kimhabork/storefront-backend/pkg/types"
)

// reshapeImages flattens an image connection and backfills alt text for
// images uploaded without one, using the owning title and the filename.
func reshapeImages(conn connection[Image], title string) []Image {
	images := unwrapEdges(conn)
	for i, img := range images {
		if img.AltText != "" {
			continue
		}
		filename := strings.TrimSuffix(path.Base(img.URL), path.Ext(img.URL))
		images[i].AltText = title + " - " + filename
	}
	return images
}

// reshapeProduct normalizes one wire product. With filterHidden set,
// hidden products are dropped (nil); direct handle lookups pass false so
// a hidden product stays reachable by its own URL.
func reshapeProduct(wp *wireProduct, filterHidden bool) *Product {
	if wp == nil {
		return nil
	}

	p := Product{
		ID:               wp.ID,
		Handle:           wp.Handle,
		AvailableForSale: wp.AvailableForSale,
		Title:            wp.Title,
		Description:      wp.Description,
		DescriptionHTML:  wp.DescriptionHTML,
		Options:          wp.Options,
		PriceRange:       wp.PriceRange,
		Variants:         unwrapEdges(wp.Variants),
		Images:           reshapeImages(wp.Images, wp.Title),
		SEO:              wp.SEO,
		Tags:             wp.Tags,
		UpdatedAt:        wp.UpdatedAt,
	}
	if wp.FeaturedImage != nil {
		p.FeaturedImage = *wp.FeaturedImage
	} else if len(p.Images) > 0 {
		p.FeaturedImage = p.Images[0]
	}

	if filterHidden && p.Hidden() {
		return nil
	}
	return &p
}

// reshapeProducts keeps order while dropping hidden entries.
func reshapeProducts(wps []wireProduct) []Product {
	products := make([]Product, 0, len(wps))
	for i := range wps {
		if p := reshapeProduct(&wps[i], true); p != nil {
			products = append(products, *p)
		}
	}
	return products
}

// reshapeCollection derives the browse path from the handle.
func reshapeCollection(wc *wireCollection) *Collection {
	if wc == nil {
		return nil
	}
	return &Collection{
		Handle:      wc.Handle,
		Title:       wc.Title,
		Description: wc.Description,
		Image:       wc.Image,
		SEO:         wc.SEO,
		UpdatedAt:   wc.UpdatedAt,
		Path:        "/search/" + wc.Handle,
	}
}

// reshapeCart flattens line connections and substitutes a zero tax total
// when the API omits one, so consumers can always render a tax figure.
func reshapeCart(wc *wireCart) *Cart {
	if wc == nil {
		return nil
	}

	cost := CartCost{
		SubtotalAmount: wc.Cost.SubtotalAmount,
		TotalAmount:    wc.Cost.TotalAmount,
	}
	if wc.Cost.TotalTaxAmount != nil {
		cost.TotalTaxAmount = *wc.Cost.TotalTaxAmount
	} else {
		cost.TotalTaxAmount = types.ZeroMoney(wc.Cost.TotalAmount.CurrencyCode)
	}

	lines := make([]CartLine, 0, len(wc.Lines.Edges))
	for _, e := range wc.Lines.Edges {
		lines = append(lines, CartLine{
			ID:          e.Node.ID,
			Quantity:    e.Node.Quantity,
			Cost:        e.Node.Cost,
			Merchandise: e.Node.Merchandise,
		})
	}

	return &Cart{
		ID:            wc.ID,
		CheckoutURL:   wc.CheckoutURL,
		Cost:          cost,
		Lines:         lines,
		TotalQuantity: wc.TotalQuantity,
	}
}

// reshapeMenu rewrites absolute storefront URLs into site-relative paths
// and maps the hosted /collections and /pages prefixes onto local routes.
func reshapeMenu(items []wireMenuItem) []MenuItem {
	menu := make([]MenuItem, 0, len(items))
	for _, item := range items {
		menu = append(menu, MenuItem{
			Title: item.Title,
			Path:  menuPath(item.URL),
		})
	}
	return menu
}

func menuPath(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		p = u.Path
	}
	p = strings.Replace(p, "/collections", "/search", 1)
	p = strings.Replace(p, "/pages", "", 1)
	if p == "" {
		p = "/"
	}
	return p
}

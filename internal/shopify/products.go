package shopify

import (
	"context"
)

// GetProduct fetches one product by handle. Hidden products are still
// returned here; absence yields (nil, nil).
func (c *Client) GetProduct(ctx context.Context, handle string) (*Product, error) {
	var resp struct {
		Product *wireProduct `json:"product"`
	}
	vars := map[string]any{"handle": handle}
	if err := c.run(ctx, "getProduct", getProductQuery, vars, &resp); err != nil {
		return nil, err
	}
	return reshapeProduct(resp.Product, false), nil
}

// GetProducts lists products matching the filter, hidden entries removed.
func (c *Client) GetProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	var resp struct {
		Products connection[wireProduct] `json:"products"`
	}
	vars := map[string]any{}
	if filter.Query != "" {
		vars["query"] = filter.Query
	}
	if filter.SortKey != "" {
		vars["sortKey"] = filter.SortKey
	}
	vars["reverse"] = filter.Reverse

	if err := c.run(ctx, "getProducts", getProductsQuery, vars, &resp); err != nil {
		return nil, err
	}
	return reshapeProducts(unwrapEdges(resp.Products)), nil
}

// GetProductRecommendations lists related products for a product id,
// hidden entries removed.
func (c *Client) GetProductRecommendations(ctx context.Context, productID string) ([]Product, error) {
	var resp struct {
		ProductRecommendations []wireProduct `json:"productRecommendations"`
	}
	vars := map[string]any{"productId": productID}
	if err := c.run(ctx, "getProductRecommendations", getProductRecommendationsQuery, vars, &resp); err != nil {
		return nil, err
	}
	return reshapeProducts(resp.ProductRecommendations), nil
}

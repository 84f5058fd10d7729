package shopify

import (
	"context"
)

// CreateCart provisions an empty remote cart.
func (c *Client) CreateCart(ctx context.Context) (*Cart, error) {
	var resp struct {
		CartCreate struct {
			Cart *wireCart `json:"cart"`
		} `json:"cartCreate"`
	}
	if err := c.run(ctx, "createCart", createCartMutation, nil, &resp); err != nil {
		return nil, err
	}
	return reshapeCart(resp.CartCreate.Cart), nil
}

// GetCart fetches a cart by id. A consumed or expired cart yields
// (nil, nil); checkout invalidates ids on the remote side.
func (c *Client) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	var resp struct {
		Cart *wireCart `json:"cart"`
	}
	vars := map[string]any{"cartId": cartID}
	if err := c.run(ctx, "getCart", getCartQuery, vars, &resp); err != nil {
		return nil, err
	}
	return reshapeCart(resp.Cart), nil
}

// AddToCart appends lines and returns the authoritative cart.
func (c *Client) AddToCart(ctx context.Context, cartID string, lines []CartLineInput) (*Cart, error) {
	var resp struct {
		CartLinesAdd struct {
			Cart *wireCart `json:"cart"`
		} `json:"cartLinesAdd"`
	}
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := c.run(ctx, "addToCart", addToCartMutation, vars, &resp); err != nil {
		return nil, err
	}
	return reshapeCart(resp.CartLinesAdd.Cart), nil
}

// UpdateCart rewrites line quantities and returns the authoritative cart.
func (c *Client) UpdateCart(ctx context.Context, cartID string, lines []CartLineUpdateInput) (*Cart, error) {
	var resp struct {
		CartLinesUpdate struct {
			Cart *wireCart `json:"cart"`
		} `json:"cartLinesUpdate"`
	}
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := c.run(ctx, "editCartItems", editCartItemsMutation, vars, &resp); err != nil {
		return nil, err
	}
	return reshapeCart(resp.CartLinesUpdate.Cart), nil
}

// RemoveFromCart deletes lines by id and returns the authoritative cart.
func (c *Client) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*Cart, error) {
	var resp struct {
		CartLinesRemove struct {
			Cart *wireCart `json:"cart"`
		} `json:"cartLinesRemove"`
	}
	vars := map[string]any{"cartId": cartID, "lineIds": lineIDs}
	if err := c.run(ctx, "removeFromCart", removeFromCartMutation, vars, &resp); err != nil {
		return nil, err
	}
	return reshapeCart(resp.CartLinesRemove.Cart), nil
}

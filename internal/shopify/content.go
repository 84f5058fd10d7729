package shopify

import (
	"context"
)

// GetMenu fetches a navigation menu by handle with hosted URLs rewritten
// to site-relative paths. An unknown handle yields an empty menu.
func (c *Client) GetMenu(ctx context.Context, handle string) ([]MenuItem, error) {
	var resp struct {
		Menu *struct {
			Items []wireMenuItem `json:"items"`
		} `json:"menu"`
	}
	vars := map[string]any{"handle": handle}
	if err := c.run(ctx, "getMenu", getMenuQuery, vars, &resp); err != nil {
		return nil, err
	}
	if resp.Menu == nil {
		return []MenuItem{}, nil
	}
	return reshapeMenu(resp.Menu.Items), nil
}

// GetPage fetches one static page by handle; absence yields (nil, nil).
func (c *Client) GetPage(ctx context.Context, handle string) (*Page, error) {
	var resp struct {
		PageByHandle *Page `json:"pageByHandle"`
	}
	vars := map[string]any{"handle": handle}
	if err := c.run(ctx, "getPage", getPageQuery, vars, &resp); err != nil {
		return nil, err
	}
	return resp.PageByHandle, nil
}

// GetPages lists all static pages.
func (c *Client) GetPages(ctx context.Context) ([]Page, error) {
	var resp struct {
		Pages connection[Page] `json:"pages"`
	}
	if err := c.run(ctx, "getPages", getPagesQuery, nil, &resp); err != nil {
		return nil, err
	}
	return unwrapEdges(resp.Pages), nil
}

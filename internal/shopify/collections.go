package shopify

import (
	"context"
	"strings"
)

// The collection products field sorts on ProductCollectionSortKeys,
// which spells the creation key without the suffix.
const sortKeyCreatedAt = "CREATED_AT"

// GetCollection fetches one collection by handle; absence yields (nil, nil).
func (c *Client) GetCollection(ctx context.Context, handle string) (*Collection, error) {
	var resp struct {
		Collection *wireCollection `json:"collection"`
	}
	vars := map[string]any{"handle": handle}
	if err := c.run(ctx, "getCollection", getCollectionQuery, vars, &resp); err != nil {
		return nil, err
	}
	return reshapeCollection(resp.Collection), nil
}

// GetCollections lists visible collections with a synthetic "All" entry
// prepended. The synthetic entry has an empty handle and points at the
// unfiltered search page; collections whose handle starts with the
// hidden prefix are dropped.
func (c *Client) GetCollections(ctx context.Context) ([]Collection, error) {
	var resp struct {
		Collections connection[wireCollection] `json:"collections"`
	}
	if err := c.run(ctx, "getCollections", getCollectionsQuery, nil, &resp); err != nil {
		return nil, err
	}

	collections := []Collection{allCollection()}
	for _, wc := range unwrapEdges(resp.Collections) {
		if strings.HasPrefix(wc.Handle, HiddenCollectionPrefix) {
			continue
		}
		collections = append(collections, *reshapeCollection(&wc))
	}
	return collections, nil
}

// GetCollectionProducts lists a collection's products, hidden entries
// removed. A missing collection yields an empty list and no error so a
// stale link renders an empty grid instead of a failure page.
func (c *Client) GetCollectionProducts(ctx context.Context, handle string, filter ProductFilter) ([]Product, error) {
	var resp struct {
		Collection *struct {
			Products connection[wireProduct] `json:"products"`
		} `json:"collection"`
	}
	vars := map[string]any{"handle": handle}
	if filter.SortKey != "" {
		vars["sortKey"] = collectionSortKey(filter.SortKey)
	}
	vars["reverse"] = filter.Reverse

	if err := c.run(ctx, "getCollectionProducts", getCollectionProductsQuery, vars, &resp); err != nil {
		return nil, err
	}
	if resp.Collection == nil {
		c.logg.Info(ctx, "collection not found: "+handle)
		return []Product{}, nil
	}
	return reshapeProducts(unwrapEdges(resp.Collection.Products)), nil
}

func allCollection() Collection {
	return Collection{
		Handle: "",
		Title:  "All",
		SEO: SEO{
			Title:       "All",
			Description: "All products",
		},
		Path: "/search",
	}
}

func collectionSortKey(key string) string {
	if key == sortKeyCreatedAt {
		return "CREATED"
	}
	return key
}

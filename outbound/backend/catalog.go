package backend

import (
	"context"
	"fmt"
	"net/http"

	"turnos/model"
)

func (c *Client) ListCatalog(ctx context.Context, category model.Category) ([]model.CatalogEntry, error) {
	return c.listCatalog(ctx, "ListCatalog", "/api/catalogs/"+string(category))
}

func (c *Client) ListPublicCatalog(ctx context.Context, category model.Category) ([]model.CatalogEntry, error) {
	return c.listCatalog(ctx, "ListPublicCatalog", "/api/public/catalogs/"+string(category))
}

func (c *Client) listCatalog(ctx context.Context, op, path string) ([]model.CatalogEntry, error) {
	var resp model.ListCatalogResponse
	if err := c.do(ctx, op, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Items == nil {
		return []model.CatalogEntry{}, nil
	}
	return resp.Items, nil
}

func (c *Client) CreateCatalogEntry(ctx context.Context, category model.Category, name string) (model.CatalogEntry, error) {
	var resp model.CatalogEntryResponse
	path := "/api/catalogs/" + string(category)
	if err := c.do(ctx, "CreateCatalogEntry", http.MethodPost, path, nil, model.CatalogNameRequest{Name: name}, &resp); err != nil {
		return model.CatalogEntry{}, err
	}
	return resp.Item, nil
}

func (c *Client) RenameCatalogEntry(ctx context.Context, category model.Category, id int64, name string) (model.CatalogEntry, error) {
	var resp model.CatalogEntryResponse
	path := fmt.Sprintf("/api/catalogs/%s/%d", category, id)
	if err := c.do(ctx, "RenameCatalogEntry", http.MethodPut, path, nil, model.CatalogNameRequest{Name: name}, &resp); err != nil {
		return model.CatalogEntry{}, err
	}
	return resp.Item, nil
}

func (c *Client) DeleteCatalogEntry(ctx context.Context, category model.Category, id int64) error {
	return c.do(ctx, "DeleteCatalogEntry", http.MethodDelete, fmt.Sprintf("/api/catalogs/%s/%d", category, id), nil, nil, nil)
}

// PublicCatalogs reads catalogs through the unauthenticated endpoint used by
// the intake form. Mutations still go through the admin endpoints.
type PublicCatalogs struct {
	*Client
}

func (p PublicCatalogs) ListCatalog(ctx context.Context, category model.Category) ([]model.CatalogEntry, error) {
	return p.Client.ListPublicCatalog(ctx, category)
}

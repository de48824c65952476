package backend

import (
	"context"
	"fmt"

	"github.com/alsafar-travels/umrahdesk/internal/domain"
)

func (c *Client) ListPackages(ctx context.Context) ([]domain.Package, error) {
	var out []domain.Package
	err := c.get(ctx, "/catalog/packages", &out)
	return out, err
}

func (c *Client) AdminListPackages(ctx context.Context) ([]domain.Package, error) {
	var out []domain.Package
	err := c.get(ctx, "/admin/catalog/packages", &out)
	return out, err
}

func (c *Client) AdminCreatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	var out domain.Package
	err := c.post(ctx, "/admin/catalog/packages", pkg, &out)
	return out, err
}

// AdminUpdatePackage replaces the whole record; the backend keeps fields the
// request leaves at their zero value, so callers always send a full package.
func (c *Client) AdminUpdatePackage(ctx context.Context, id int64, pkg domain.Package) (domain.Package, error) {
	var out domain.Package
	err := c.put(ctx, fmt.Sprintf("/admin/catalog/packages/%d", id), pkg, &out)
	return out, err
}

func (c *Client) AdminDeletePackage(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/admin/catalog/packages/%d", id), nil, nil)
}

package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/katalog/internal/catalog"
	"github.com/erazemk/katalog/internal/model"
)

// Catalog adapts the package-level product and review queries to catalog.Store.
type Catalog struct {
	DB *sqlx.DB
}

var _ catalog.Store = (*Catalog)(nil)

func (c *Catalog) CountProducts(ctx context.Context, f catalog.Filter) (int64, error) {
	return CountProducts(ctx, c.DB, f)
}

func (c *Catalog) FindProducts(ctx context.Context, f catalog.Filter, page catalog.Page) ([]model.Product, error) {
	return ListProducts(ctx, c.DB, f, page)
}

func (c *Catalog) FindProductsExcept(ctx context.Context, id string) ([]model.Product, error) {
	return ListProductsExcept(ctx, c.DB, id)
}

func (c *Catalog) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return GetProduct(ctx, c.DB, id)
}

func (c *Catalog) InsertProduct(ctx context.Context, p *model.Product) error {
	return CreateProduct(ctx, c.DB, p)
}

func (c *Catalog) ReplaceProduct(ctx context.Context, id string, upd catalog.ProductUpdate) (*model.Product, error) {
	return ReplaceProduct(ctx, c.DB, id, upd)
}

func (c *Catalog) DeleteProduct(ctx context.Context, id string) (bool, error) {
	return DeleteProduct(ctx, c.DB, id)
}

func (c *Catalog) DeleteReviewsByProduct(ctx context.Context, productID string) (int64, error) {
	return DeleteReviewsByProduct(ctx, c.DB, productID)
}

func (c *Catalog) ListReviewsByProduct(ctx context.Context, productID string) ([]model.Review, error) {
	return ListReviewsByProduct(ctx, c.DB, productID)
}

package repositories

import (
	"context"

	"warung/internal/models"
)

// ListQuery narrows a product list request. Search and Category are
// mutually exclusive; callers are expected to clear one when setting the
// other. Limit 0 asks the remote service for everything.
type ListQuery struct {
	Search   string
	Category string
	Limit    int
	Skip     int
}

// ProductRepository defines the interface for product data access. The
// remote product service is the only system of record; implementations
// hold no authoritative copy.
type ProductRepository interface {
	List(ctx context.Context, q ListQuery) (*models.ProductList, error)
	Get(ctx context.Context, id int) (*models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id int) error
}

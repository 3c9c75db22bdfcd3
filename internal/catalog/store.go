package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// Store is the read side of the product catalog.
type Store interface {
	// FindProducts returns the window of products matching q in q.Sort
	// order together with the number of products matching q overall.
	FindProducts(ctx context.Context, q Query) ([]models.Product, int64, error)
	// FindProduct returns ErrNotFound when no document has the id.
	FindProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	// ListCategories returns active categories ordered by name.
	ListCategories(ctx context.Context) ([]models.Category, error)
	// FindCategory returns ErrNotFound when no document has the id.
	FindCategory(ctx context.Context, id primitive.ObjectID) (models.Category, error)
}

// FeaturedCache keeps recently computed featured lists.
type FeaturedCache interface {
	GetFeatured(ctx context.Context, key string) (Page, error)
	SetFeatured(ctx context.Context, key string, page Page) error
}

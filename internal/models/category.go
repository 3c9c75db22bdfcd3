package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a grouping key for products. Products reference it by hex id;
// deactivating a category hides it without touching those references.
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Visible reports whether the category may be shown on the storefront.
func (c Category) Visible() bool {
	return c.IsActive
}

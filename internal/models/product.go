package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. Products are never removed from the collection;
// disabling one flips IsActive (or IsDeleted on legacy documents).
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    StringList         `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	Rating      float64            `bson:"rating" json:"rating"`
	OrderCount  int                `bson:"orderCount" json:"orderCount"`
	Stock       int                `bson:"stock" json:"stock"`
	InStock     bool               `bson:"-" json:"inStock"`
	ImagePath   string             `bson:"imagePath,omitempty" json:"imagePath,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	IsDeleted   bool               `bson:"isDeleted,omitempty" json:"-"`
	DisabledAt  *time.Time         `bson:"disabledAt,omitempty" json:"disabledAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Visible reports whether the product may be shown on the storefront.
func (p Product) Visible() bool {
	return p.IsActive && !p.IsDeleted
}

// HasCategory reports whether the product is grouped under the given category id.
func (p Product) HasCategory(categoryID string) bool {
	for _, c := range p.Category {
		if c == categoryID {
			return true
		}
	}
	return false
}

package catalog

import (
	"bytes"
	"cmp"
	"strings"

	"storefront/internal/models"
)

// Matches reports whether p is visible and satisfies every constraint of q.
func Matches(p models.Product, q Query) bool {
	if !p.Visible() {
		return false
	}
	if q.Category != "" && !p.HasCategory(q.Category) {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if q.MinRating != nil && p.Rating < *q.MinRating {
		return false
	}
	if q.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Search)) {
		return false
	}
	return true
}

// Less orders a before b under keys.
func Less(a, b models.Product, keys []SortKey) bool {
	for _, k := range keys {
		c := compareField(a, b, k.Field)
		if k.Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
	}
	return false
}

func compareField(a, b models.Product, field string) int {
	switch field {
	case FieldOrderCount:
		return cmp.Compare(a.OrderCount, b.OrderCount)
	case FieldRating:
		return cmp.Compare(a.Rating, b.Rating)
	case FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case FieldID:
		return bytes.Compare(a.ID[:], b.ID[:])
	default:
		return 0
	}
}

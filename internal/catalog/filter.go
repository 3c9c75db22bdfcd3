package catalog

import (
	"strings"

	"storefront/internal/models"
)

// SortMode selects the ordering of a product listing.
type SortMode string

const (
	SortDefault     SortMode = "default"
	SortMostOrdered SortMode = "most-ordered"
	SortTopRated    SortMode = "top-rated"
	SortNewest      SortMode = "newest"
)

// Sortable product fields, named as they are stored.
const (
	FieldID         = "_id"
	FieldCreatedAt  = "createdAt"
	FieldOrderCount = "orderCount"
	FieldRating     = "rating"
)

// SortKey is one level of an ordering.
type SortKey struct {
	Field string
	Desc  bool
}

// Keys returns the full ordering for the mode. Every mode ends on a unique
// key so repeated queries against an unchanged store return the same order.
func (m SortMode) Keys() []SortKey {
	switch m {
	case SortMostOrdered:
		return []SortKey{{FieldOrderCount, true}, {FieldCreatedAt, true}, {FieldID, false}}
	case SortTopRated:
		return []SortKey{{FieldRating, true}, {FieldOrderCount, true}, {FieldID, false}}
	case SortNewest:
		return []SortKey{{FieldCreatedAt, true}, {FieldID, false}}
	default:
		return []SortKey{{FieldID, false}}
	}
}

// ParseSortMode accepts the listing sort parameter. Empty means default.
func ParseSortMode(raw string) (SortMode, error) {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case "":
		return SortDefault, nil
	case SortDefault, SortMostOrdered, SortTopRated, SortNewest:
		return mode, nil
	default:
		return "", invalid("sort", "must be one of most-ordered, top-rated, newest, default")
	}
}

// ParseFilterType maps a featured-list token to its sort mode.
func ParseFilterType(raw string) (SortMode, error) {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case SortMostOrdered, SortTopRated, SortNewest:
		return mode, nil
	default:
		return "", invalid("filterType", "must be one of most-ordered, top-rated, newest")
	}
}

// FilterRequest holds the shopper-chosen constraints of a listing. Nil
// pointers mean the constraint was not supplied.
type FilterRequest struct {
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Search    string
	Sort      string
	Page      *int
	Limit     *int
}

// FeaturedRequest asks for the top products of one featured list.
type FeaturedRequest struct {
	FilterType string
	Limit      *int
}

// Query is a validated listing request as handed to a Store.
type Query struct {
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	Search    string
	Sort      SortMode
	Skip      int
	Limit     int
}

// Page is one window of a listing.
type Page struct {
	Items   []models.Product `json:"products"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	Total   int64            `json:"total"`
	HasMore bool             `json:"hasMore"`
}

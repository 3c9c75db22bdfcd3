package handlers

import (
	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
)

const adminPageLimit = 50

// parsePaginationParams reads page and limit for the admin listings.
// Both are optional; limit is capped at maxLimit.
func parsePaginationParams(c *gin.Context, maxLimit int) (int64, int64, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return 0, 0, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}

	p, l := 1, adminPageLimit
	if page != nil {
		if *page < 1 {
			return 0, 0, &catalog.ValidationError{Field: "page", Reason: "must be at least 1"}
		}
		p = *page
	}
	if limit != nil {
		if *limit < 1 || *limit > maxLimit {
			return 0, 0, &catalog.ValidationError{Field: "limit", Reason: "out of range"}
		}
		l = *limit
	}
	if l > maxLimit {
		l = maxLimit
	}
	return int64(p), int64(l), nil
}

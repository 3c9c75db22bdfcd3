package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

/*
GET /admin/api/orders
- newest first, paginated
*/
func GetOrders(orders OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c, adminPageLimit)
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c, 0)
		defer cancel()

		list, total, err := orders.List(ctx, (page-1)*limit, limit)
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": list,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
)

func GetCategories(engine *catalog.Engine, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		log.Printf("[%s] hit rid=%s", route, requestID(c))

		ctx, cancel := requestContext(c, timeout)
		defer cancel()

		categories, err := engine.Categories(ctx)
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		log.Printf("[%s] returning %d categories", route, len(categories))
		c.JSON(http.StatusOK, categories)
	}
}

func GetCategory(engine *catalog.Engine, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c, timeout)
		defer cancel()

		category, err := engine.Category(ctx, c.Param("id"))
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, category)
	}
}

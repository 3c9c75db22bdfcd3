package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
)

/*
GET /products
- every query parameter is optional
- response: products + page, limit, total, hasMore
*/
func GetProducts(engine *catalog.Engine, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		log.Printf(
			"[%s] hit rid=%s category=%s sort=%s page=%s limit=%s search=%q",
			route,
			requestID(c),
			c.Query("category"),
			c.Query("sort"),
			c.Query("page"),
			c.Query("limit"),
			c.Query("search"),
		)

		req, err := parseFilterRequest(c)
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c, timeout)
		defer cancel()

		page, err := engine.FilterProducts(ctx, req)
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		log.Printf("[%s] returning %d of %d products", route, len(page.Items), page.Total)
		c.JSON(http.StatusOK, page)
	}
}

/*
GET /products/featured
- filterType: most-ordered, top-rated or newest
*/
func GetFeaturedProducts(engine *catalog.Engine, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/featured"
		defer handlePanic(c, route)

		log.Printf("[%s] hit rid=%s filterType=%s limit=%s", route, requestID(c), c.Query("filterType"), c.Query("limit"))

		limit, err := queryInt(c, "limit")
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c, timeout)
		defer cancel()

		page, err := engine.Featured(ctx, catalog.FeaturedRequest{
			FilterType: c.Query("filterType"),
			Limit:      limit,
		})
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"products": page.Items})
	}
}

func GetProduct(engine *catalog.Engine, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c, timeout)
		defer cancel()

		product, err := engine.Product(ctx, c.Param("id"))
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

func parseFilterRequest(c *gin.Context) (catalog.FilterRequest, error) {
	req := catalog.FilterRequest{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	}

	var err error
	if req.MinPrice, err = queryFloat(c, "minPrice"); err != nil {
		return req, err
	}
	if req.MaxPrice, err = queryFloat(c, "maxPrice"); err != nil {
		return req, err
	}
	if req.MinRating, err = queryFloat(c, "minRating"); err != nil {
		return req, err
	}
	if req.Page, err = queryInt(c, "page"); err != nil {
		return req, err
	}
	if req.Limit, err = queryInt(c, "limit"); err != nil {
		return req, err
	}
	return req, nil
}

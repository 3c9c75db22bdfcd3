package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

type featuredSection struct {
	Title      string
	FilterType catalog.SortMode
	Products   []models.Product
}

var homeSections = []featuredSection{
	{Title: "Most ordered", FilterType: catalog.SortMostOrdered},
	{Title: "Top rated", FilterType: catalog.SortTopRated},
	{Title: "New arrivals", FilterType: catalog.SortNewest},
}

type shopForm struct {
	Category  string
	Search    string
	MinPrice  string
	MaxPrice  string
	MinRating string
	Sort      string
}

// Home renders the categories and the featured lists.
func Home(engine *catalog.Engine, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c, timeout)
		defer cancel()

		categories, err := engine.Categories(ctx)
		if err != nil {
			renderErrorPage(c, route, err)
			return
		}

		sections := make([]featuredSection, 0, len(homeSections))
		for _, s := range homeSections {
			page, err := engine.Featured(ctx, catalog.FeaturedRequest{FilterType: string(s.FilterType)})
			if err != nil {
				renderErrorPage(c, route, err)
				return
			}
			s.Products = page.Items
			sections = append(sections, s)
		}

		c.HTML(http.StatusOK, "home.html", gin.H{
			"Title":      "Home",
			"Categories": categories,
			"Sections":   sections,
		})
	}
}

// Shop renders the filterable product grid. Invalid filters are reported
// inline next to the form.
func Shop(engine *catalog.Engine, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /shop"
		defer handlePanic(c, route)

		log.Printf("[%s] hit rid=%s query=%s", route, requestID(c), c.Request.URL.RawQuery)

		ctx, cancel := requestContext(c, timeout)
		defer cancel()

		categories, err := engine.Categories(ctx)
		if err != nil {
			renderErrorPage(c, route, err)
			return
		}

		data := gin.H{
			"Title":      "Shop",
			"Categories": categories,
			"Form": shopForm{
				Category:  c.Query("category"),
				Search:    c.Query("search"),
				MinPrice:  c.Query("minPrice"),
				MaxPrice:  c.Query("maxPrice"),
				MinRating: c.Query("minRating"),
				Sort:      c.Query("sort"),
			},
		}

		req, err := parseFilterRequest(c)
		if err == nil {
			var page catalog.Page
			page, err = engine.FilterProducts(ctx, req)
			if err == nil {
				data["Products"] = page.Items
				data["Total"] = page.Total
				if page.Page > 1 {
					data["PrevURL"] = pageURL(c.Request.URL, page.Page-1)
				}
				if page.HasMore {
					data["NextURL"] = pageURL(c.Request.URL, page.Page+1)
				}
				c.HTML(http.StatusOK, "shop.html", data)
				return
			}
		}

		var validationErr *catalog.ValidationError
		if !errors.As(err, &validationErr) {
			renderErrorPage(c, route, err)
			return
		}
		log.Printf("[%s] invalid filter: %v", route, validationErr)
		data["Error"] = validationErr.Error()
		data["ErrorField"] = validationErr.Field
		c.HTML(http.StatusBadRequest, "shop.html", data)
	}
}

func renderErrorPage(c *gin.Context, route string, err error) {
	var unavailableErr *catalog.StoreUnavailableError
	if errors.As(err, &unavailableErr) {
		log.Printf("[%s] store unavailable: %v", route, unavailableErr.Err)
		c.HTML(http.StatusServiceUnavailable, "error.html", gin.H{
			"Title":    "We'll be right back",
			"Message":  "The catalog is temporarily unavailable. Please try again in a moment.",
			"RetryURL": c.Request.URL.RequestURI(),
		})
		return
	}

	log.Printf("[%s] unexpected error: %v", route, err)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Something went wrong",
		"Message": "An unexpected error occurred.",
	})
}

func pageURL(current *url.URL, page int) string {
	q := current.Query()
	q.Set("page", strconv.Itoa(page))
	return current.Path + "?" + q.Encode()
}

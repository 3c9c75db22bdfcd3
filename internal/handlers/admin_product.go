package handlers

import (
	"context"
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/catalog"
	"storefront/internal/database"
	"storefront/internal/models"
)

// CatalogAdmin is the write side of the catalog used by the admin API.
type CatalogAdmin interface {
	ListProducts(ctx context.Context, skip, limit int64) ([]models.Product, int64, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id primitive.ObjectID, patch database.ProductPatch) (models.Product, error)
	DisableProduct(ctx context.Context, id primitive.ObjectID) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id primitive.ObjectID, name *string, isActive *bool) (models.Category, error)
	DisableCategory(ctx context.Context, id primitive.ObjectID) error
}

var _ CatalogAdmin = (*database.CatalogAdminStore)(nil)

// FeaturedInvalidator drops cached featured lists after catalog edits.
type FeaturedInvalidator interface {
	Invalidate(ctx context.Context) error
}

type ProductCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required"`
	Stock       int      `json:"stock"`
	Rating      float64  `json:"rating"`
	Category    []string `json:"category"`
	ImagePath   string   `json:"imagePath"`
	IsActive    *bool    `json:"isActive"`
}

type ProductUpdateRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Stock       *int      `json:"stock"`
	Rating      *float64  `json:"rating"`
	Category    *[]string `json:"category"`
	ImagePath   *string   `json:"imagePath"`
	IsActive    *bool     `json:"isActive"`
}

func normalizeCategories(values []string) ([]string, error) {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(values))

	for _, v := range values {
		id := strings.TrimSpace(v)
		if id == "" {
			continue
		}
		if !primitive.IsValidObjectID(id) {
			return nil, &catalog.ValidationError{Field: "category", Reason: "malformed category id " + id}
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// toPatch checks the non-negative invariants of the editable fields.
func (r ProductUpdateRequest) toPatch() (database.ProductPatch, error) {
	patch := database.ProductPatch{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Rating:      r.Rating,
		ImagePath:   r.ImagePath,
		IsActive:    r.IsActive,
	}

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return patch, &catalog.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if r.Price != nil && (!(*r.Price > 0) || math.IsInf(*r.Price, 1)) {
		return patch, &catalog.ValidationError{Field: "price", Reason: "must be greater than zero"}
	}
	if r.Stock != nil && *r.Stock < 0 {
		return patch, &catalog.ValidationError{Field: "stock", Reason: "must be zero or greater"}
	}
	if r.Rating != nil && !(*r.Rating >= 0 && *r.Rating <= catalog.MaxRating) {
		return patch, &catalog.ValidationError{Field: "rating", Reason: "must be between 0 and 5"}
	}
	if r.Category != nil {
		ids, err := normalizeCategories(*r.Category)
		if err != nil {
			return patch, err
		}
		patch.Category = ids
	}
	return patch, nil
}

/*
GET /admin/api/products
- disabled products included
*/
func GetAllProducts(admin CatalogAdmin) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/products"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c, adminPageLimit)
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c, 0)
		defer cancel()

		products, total, err := admin.ListProducts(ctx, (page-1)*limit, limit)
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		totalPages := int64(math.Ceil(float64(total) / float64(limit)))
		c.JSON(http.StatusOK, gin.H{
			"data": products,
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
			},
		})
	}
}

func CreateProduct(admin CatalogAdmin, featured FeaturedInvalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/products"
		defer handlePanic(c, route)

		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		stock, rating := req.Stock, req.Rating
		patch, err := ProductUpdateRequest{
			Name:     &req.Name,
			Price:    &req.Price,
			Stock:    &stock,
			Rating:   &rating,
			Category: &req.Category,
		}.toPatch()
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		product := models.Product{
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			Price:       req.Price,
			Stock:       req.Stock,
			Rating:      req.Rating,
			Category:    models.StringList(patch.Category),
			ImagePath:   strings.TrimSpace(req.ImagePath),
			IsActive:    isActive,
		}

		ctx, cancel := requestContext(c, 0)
		defer cancel()

		if err := admin.CreateProduct(ctx, &product); err != nil {
			respondCatalogError(c, route, err)
			return
		}
		invalidateFeatured(ctx, featured)

		log.Println("[ADMIN] [INFO] product created:", product.ID.Hex())
		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(admin CatalogAdmin, featured FeaturedInvalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondCatalogError(c, route, &catalog.ValidationError{Field: "id", Reason: "malformed id"})
			return
		}

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}
		patch, err := req.toPatch()
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c, 0)
		defer cancel()

		product, err := admin.UpdateProduct(ctx, id, patch)
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}
		invalidateFeatured(ctx, featured)

		log.Println("[ADMIN] [INFO] product updated:", id.Hex())
		c.JSON(http.StatusOK, product)
	}
}

// DeleteProduct soft-disables the product so existing orders stay intact.
func DeleteProduct(admin CatalogAdmin, featured FeaturedInvalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondCatalogError(c, route, &catalog.ValidationError{Field: "id", Reason: "malformed id"})
			return
		}

		ctx, cancel := requestContext(c, 0)
		defer cancel()

		if err := admin.DisableProduct(ctx, id); err != nil {
			respondCatalogError(c, route, err)
			return
		}
		invalidateFeatured(ctx, featured)

		log.Println("[ADMIN] [INFO] product disabled:", id.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "product disabled"})
	}
}

func invalidateFeatured(ctx context.Context, featured FeaturedInvalidator) {
	if featured == nil {
		return
	}
	if err := featured.Invalidate(ctx); err != nil {
		log.Println("[ADMIN] [WARN] featured cache invalidation failed:", err)
	}
}

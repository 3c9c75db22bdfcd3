package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/catalog"
	"storefront/internal/database"
	"storefront/internal/models"
)

type CategoryCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"isActive"`
}

type CategoryUpdateRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}

/*
GET /admin/api/categories
- inactive categories included
*/
func GetAllCategories(admin CatalogAdmin) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/categories"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c, 0)
		defer cancel()

		categories, err := admin.ListCategories(ctx)
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": categories})
	}
}

/*
POST /admin/api/categories
- names are unique
*/
func CreateCategory(admin CatalogAdmin) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/categories"
		defer handlePanic(c, route)

		var req CategoryCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			respondCatalogError(c, route, &catalog.ValidationError{Field: "name", Reason: "must not be empty"})
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		category := models.Category{Name: name, IsActive: isActive}

		ctx, cancel := requestContext(c, 0)
		defer cancel()

		if err := admin.CreateCategory(ctx, &category); err != nil {
			if errors.Is(err, database.ErrCategoryExists) {
				respondWithError(c, http.StatusConflict, route, "category already exists")
				return
			}
			respondCatalogError(c, route, err)
			return
		}

		log.Println("[ADMIN] [INFO] category created:", category.ID.Hex())
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategory(admin CatalogAdmin) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/categories/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondCatalogError(c, route, &catalog.ValidationError{Field: "id", Reason: "malformed id"})
			return
		}

		var req CategoryUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
			respondCatalogError(c, route, &catalog.ValidationError{Field: "name", Reason: "must not be empty"})
			return
		}

		ctx, cancel := requestContext(c, 0)
		defer cancel()

		category, err := admin.UpdateCategory(ctx, id, req.Name, req.IsActive)
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, category)
	}
}

// DeleteCategory deactivates the category. Products keep their references
// while the category disappears from the storefront.
func DeleteCategory(admin CatalogAdmin) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/categories/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondCatalogError(c, route, &catalog.ValidationError{Field: "id", Reason: "malformed id"})
			return
		}

		ctx, cancel := requestContext(c, 0)
		defer cancel()

		if err := admin.DisableCategory(ctx, id); err != nil {
			respondCatalogError(c, route, err)
			return
		}

		log.Println("[ADMIN] [INFO] category disabled:", id.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "category disabled"})
	}
}

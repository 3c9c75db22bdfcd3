package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"storefront/internal/catalog"
	"storefront/internal/middleware"
)

const defaultRequestTimeout = 5 * time.Second

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondCatalogError maps the catalog error kinds onto HTTP statuses.
func respondCatalogError(c *gin.Context, route string, err error) {
	var (
		validationErr  *catalog.ValidationError
		notFoundErr    *catalog.NotFoundError
		unavailableErr *catalog.StoreUnavailableError
	)
	switch {
	case errors.As(err, &validationErr):
		log.Printf("[%s] returning error 400: %v", route, err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
	case errors.As(err, &notFoundErr), errors.Is(err, catalog.ErrNotFound):
		respondWithError(c, http.StatusNotFound, route, notFoundMessage(notFoundErr))
	case errors.As(err, &unavailableErr):
		log.Printf("[%s] store unavailable: %v", route, unavailableErr.Err)
		respondWithError(c, http.StatusServiceUnavailable, route, "catalog temporarily unavailable")
	default:
		log.Printf("[%s] unexpected error: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "internal server error")
	}
}

func notFoundMessage(err *catalog.NotFoundError) string {
	if err == nil {
		return "not found"
	}
	return err.Error()
}

// respondValidationError reports binding failures field by field.
func respondValidationError(c *gin.Context, route string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		log.Printf("[%s] validation failed: %v", route, details)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	respondWithError(c, http.StatusBadRequest, route, "invalid body")
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func requestContext(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

func requestID(c *gin.Context) string {
	if id := c.GetString(middleware.ContextRequestID); id != "" {
		return id
	}
	return "-"
}

func queryFloat(c *gin.Context, field string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(field))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &catalog.ValidationError{Field: field, Reason: "must be a number"}
	}
	return &v, nil
}

func queryInt(c *gin.Context, field string) (*int, error) {
	raw := strings.TrimSpace(c.Query(field))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &catalog.ValidationError{Field: field, Reason: "must be an integer"}
	}
	return &v, nil
}

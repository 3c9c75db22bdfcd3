package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func TestHomePage(t *testing.T) {
	app := newTestApp(t)
	seedScenario(app)
	app.store.AddCategories(models.Category{Name: "Tea", IsActive: true})

	rec := app.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Most ordered")
	assert.Contains(t, body, "Top rated")
	assert.Contains(t, body, "New arrivals")
	assert.Contains(t, body, "Tea")
	assert.Contains(t, body, "$30.00")
	assert.NotContains(t, body, "Nothing to show here yet.")
}

func TestHomePageEmptyCatalog(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nothing to show here yet.")
	assert.Contains(t, rec.Body.String(), "No categories yet.")
}

func TestPagesStoreUnavailable(t *testing.T) {
	app := newTestApp(t)
	seedScenario(app)
	app.store.SetDown(true)

	for _, path := range []string{"/", "/shop?page=2"} {
		rec := app.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Try again")
	}

	rec := app.do(t, http.MethodGet, "/shop?page=2", nil, "")
	assert.Contains(t, rec.Body.String(), `href="/shop?page=2"`)
}

func TestShopPagination(t *testing.T) {
	app := newTestApp(t)
	seedScenario(app)

	rec := app.do(t, http.MethodGet, "/shop?sort=most-ordered&limit=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Showing 2 of 3 products")
	assert.Contains(t, body, `rel="next"`)
	assert.Contains(t, body, "page=2")
	assert.NotContains(t, body, `rel="prev"`)

	rec = app.do(t, http.MethodGet, "/shop?sort=most-ordered&limit=2&page=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "Showing 1 of 3 products")
	assert.Contains(t, body, `rel="prev"`)
	assert.NotContains(t, body, `rel="next"`)
}

func TestShopEmptyState(t *testing.T) {
	app := newTestApp(t)
	seedScenario(app)

	rec := app.do(t, http.MethodGet, "/shop?category="+primitive.NewObjectID().Hex(), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No products match these filters.")
}

func TestShopValidationErrorRenderedInline(t *testing.T) {
	app := newTestApp(t)
	seedScenario(app)

	rec := app.do(t, http.MethodGet, "/shop?minRating=9", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-field="minRating"`)
	assert.Contains(t, body, `value="9"`)
	assert.NotContains(t, body, "No products match these filters.")
}

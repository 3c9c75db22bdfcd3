package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	app := newTestApp(t)
	_, userToken := app.signUp(t, "shopper@example.com", models.RoleUser)

	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/admin/api/products", nil, "").Code)
	assert.Equal(t, http.StatusForbidden, app.do(t, http.MethodGet, "/admin/api/products", nil, userToken).Code)
}

func TestAdminProductLifecycle(t *testing.T) {
	app := newTestApp(t)
	_, token := app.signUp(t, "boss@example.com", models.RoleAdmin)

	rec := app.do(t, http.MethodPost, "/admin/api/categories", map[string]interface{}{"name": "Tea"}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var category models.Category
	decodeJSON(t, rec, &category)
	assert.True(t, category.IsActive)

	rec = app.do(t, http.MethodPost, "/admin/api/categories", map[string]interface{}{"name": "Tea"}, token)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodPost, "/admin/api/products", map[string]interface{}{
		"name":     "Green Tea",
		"price":    4.5,
		"stock":    10,
		"category": []string{category.ID.Hex(), category.ID.Hex()},
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product models.Product
	decodeJSON(t, rec, &product)
	assert.Equal(t, models.StringList{category.ID.Hex()}, product.Category)
	assert.True(t, product.IsActive)

	rec = app.do(t, http.MethodPatch, "/admin/api/products/"+product.ID.Hex(), map[string]interface{}{"stock": 3}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, app.admin.lastPatch.Stock)
	assert.Equal(t, 3, *app.admin.lastPatch.Stock)
	assert.Nil(t, app.admin.lastPatch.Price)

	rec = app.do(t, http.MethodDelete, "/admin/api/products/"+product.ID.Hex(), nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, app.admin.products[product.ID].IsActive)

	assert.Equal(t, 3, app.featured.calls)

	rec = app.do(t, http.MethodGet, "/admin/api/products?limit=10", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalPages":1`)
}

func TestAdminProductPatchValidation(t *testing.T) {
	app := newTestApp(t)
	_, token := app.signUp(t, "boss@example.com", models.RoleAdmin)
	product := models.Product{Name: "Green Tea", Price: 4.5, IsActive: true}
	require.NoError(t, app.admin.CreateProduct(context.Background(), &product))
	path := "/admin/api/products/" + product.ID.Hex()

	cases := []struct {
		body  map[string]interface{}
		field string
	}{
		{map[string]interface{}{"stock": -1}, "stock"},
		{map[string]interface{}{"price": 0}, "price"},
		{map[string]interface{}{"price": -2.5}, "price"},
		{map[string]interface{}{"rating": 5.5}, "rating"},
		{map[string]interface{}{"name": "  "}, "name"},
		{map[string]interface{}{"category": []string{"not-hex"}}, "category"},
	}
	for _, tc := range cases {
		rec := app.do(t, http.MethodPatch, path, tc.body, token)
		require.Equal(t, http.StatusBadRequest, rec.Code, tc.field)
		var body errorBody
		decodeJSON(t, rec, &body)
		assert.Equal(t, tc.field, body.Field)
	}
	assert.Zero(t, app.featured.calls)

	rec := app.do(t, http.MethodPatch, "/admin/api/products/bad", map[string]interface{}{"stock": 1}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminCategoryUpdateAndDisable(t *testing.T) {
	app := newTestApp(t)
	_, token := app.signUp(t, "boss@example.com", models.RoleAdmin)
	category := models.Category{Name: "Tea", IsActive: true}
	require.NoError(t, app.admin.CreateCategory(context.Background(), &category))
	path := "/admin/api/categories/" + category.ID.Hex()

	rec := app.do(t, http.MethodPatch, path, map[string]interface{}{"name": "Teas"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Teas"`)

	rec = app.do(t, http.MethodDelete, path, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/admin/api/categories", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isActive":false`)
}

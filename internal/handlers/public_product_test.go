package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// seedScenario stores A and B with equal order counts, B newer, and a less
// ordered C.
func seedScenario(app *testApp) (a, b, c models.Product) {
	ps := app.store.AddProducts(
		models.Product{Name: "A", Price: 10, Rating: 4, OrderCount: 10, Stock: 3, IsActive: true, CreatedAt: t0},
		models.Product{Name: "B", Price: 20, Rating: 3, OrderCount: 10, Stock: 0, IsActive: true, CreatedAt: t0.Add(time.Hour)},
		models.Product{Name: "C", Price: 30, Rating: 5, OrderCount: 5, Stock: 1, IsActive: true, CreatedAt: t0.Add(2 * time.Hour)},
	)
	return ps[0], ps[1], ps[2]
}

func productNames(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func TestGetProductsMostOrdered(t *testing.T) {
	app := newTestApp(t)
	seedScenario(app)

	rec := app.do(t, http.MethodGet, "/products?sort=most-ordered&limit=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page catalog.Page
	decodeJSON(t, rec, &page)
	assert.Equal(t, []string{"B", "A"}, productNames(page.Items))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, int64(3), page.Total)
	assert.True(t, page.HasMore)
	assert.False(t, page.Items[0].InStock)
	assert.True(t, page.Items[1].InStock)
}

func TestGetProductsResponseKeys(t *testing.T) {
	app := newTestApp(t)
	seedScenario(app)

	rec := app.do(t, http.MethodGet, "/products", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeJSON(t, rec, &body)
	for _, key := range []string{"products", "page", "limit", "total", "hasMore"} {
		assert.Contains(t, body, key)
	}
	assert.Equal(t, float64(catalog.DefaultLimit), body["limit"])
}

func TestGetProductsValidation(t *testing.T) {
	app := newTestApp(t)
	seedScenario(app)

	cases := []struct {
		query string
		field string
	}{
		{"minPrice=abc", "minPrice"},
		{"limit=x", "limit"},
		{"limit=1000", "limit"},
		{"limit=0", "limit"},
		{"page=0", "page"},
		{"minPrice=10&maxPrice=5", "minPrice"},
		{"minRating=9", "minRating"},
		{"sort=cheapest", "sort"},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			rec := app.do(t, http.MethodGet, "/products?"+tc.query, nil, "")
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body errorBody
			decodeJSON(t, rec, &body)
			assert.Equal(t, tc.field, body.Field)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestGetProductsUnknownCategoryIsEmpty(t *testing.T) {
	app := newTestApp(t)
	seedScenario(app)

	rec := app.do(t, http.MethodGet, "/products?category="+primitive.NewObjectID().Hex(), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page catalog.Page
	decodeJSON(t, rec, &page)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(0), page.Total)
	assert.False(t, page.HasMore)
}

func TestGetProductsStoreUnavailable(t *testing.T) {
	app := newTestApp(t)
	seedScenario(app)
	app.store.SetDown(true)

	for _, path := range []string{"/products", "/products/featured?filterType=newest", "/categories"} {
		rec := app.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}
}

func TestGetFeaturedProducts(t *testing.T) {
	app := newTestApp(t)
	seedScenario(app)

	rec := app.do(t, http.MethodGet, "/products/featured?filterType=top-rated&limit=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []models.Product `json:"products"`
	}
	decodeJSON(t, rec, &body)
	assert.Equal(t, []string{"C", "A"}, productNames(body.Products))

	rec = app.do(t, http.MethodGet, "/products/featured?filterType=cheapest", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errBody errorBody
	decodeJSON(t, rec, &errBody)
	assert.Equal(t, "filterType", errBody.Field)
}

func TestGetProduct(t *testing.T) {
	app := newTestApp(t)
	a, b, _ := seedScenario(app)
	app.store.UpdateProduct(b.ID, func(p *models.Product) { p.IsActive = false })

	rec := app.do(t, http.MethodGet, "/products/"+a.ID.Hex(), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Product
	decodeJSON(t, rec, &got)
	assert.Equal(t, "A", got.Name)

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/products/"+b.ID.Hex(), nil, "").Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/products/"+primitive.NewObjectID().Hex(), nil, "").Code)

	rec = app.do(t, http.MethodGet, "/products/not-an-id", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errBody errorBody
	decodeJSON(t, rec, &errBody)
	assert.Equal(t, "id", errBody.Field)
}

func TestGetCategories(t *testing.T) {
	app := newTestApp(t)
	cs := app.store.AddCategories(
		models.Category{Name: "tea", IsActive: true},
		models.Category{Name: "Coffee", IsActive: true},
		models.Category{Name: "Hidden", IsActive: false},
	)

	rec := app.do(t, http.MethodGet, "/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.Category
	decodeJSON(t, rec, &got)
	require.Len(t, got, 2)
	assert.Equal(t, "Coffee", got[0].Name)
	assert.Equal(t, "tea", got[1].Name)

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/categories/"+cs[0].ID.Hex(), nil, "").Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/categories/"+cs[2].ID.Hex(), nil, "").Code)
}

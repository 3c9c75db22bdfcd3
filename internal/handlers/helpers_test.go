package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/catalog"
	"storefront/internal/database"
	"storefront/internal/models"
)

const testSecret = "handlers-test-secret"

type fakeUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return database.ErrEmailTaken
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, catalog.ErrNotFound
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.User{}, catalog.ErrNotFound
	}
	u.Addresses = append([]models.Address(nil), u.Addresses...)
	return u, nil
}

func (f *fakeUsers) SaveAddresses(_ context.Context, id primitive.ObjectID, addresses []models.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return catalog.ErrNotFound
	}
	u.Addresses = addresses
	f.users[id] = u
	return nil
}

type fakeOrders struct {
	mu     sync.Mutex
	placed []models.Order
	err    error
}

func (f *fakeOrders) PlaceOrder(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	order.ID = primitive.NewObjectID()
	f.placed = append(f.placed, *order)
	return nil
}

func (f *fakeOrders) ListForUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.placed {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) List(_ context.Context, skip, limit int64) ([]models.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := int64(len(f.placed))
	if skip >= total {
		return []models.Order{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return append([]models.Order(nil), f.placed[skip:end]...), total, nil
}

type fakeAdmin struct {
	mu         sync.Mutex
	products   map[primitive.ObjectID]models.Product
	lastPatch  database.ProductPatch
	categories []models.Category
}

func newFakeAdmin() *fakeAdmin {
	return &fakeAdmin{products: map[primitive.ObjectID]models.Product{}}
}

func (f *fakeAdmin) ListProducts(_ context.Context, skip, limit int64) ([]models.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAdmin) CreateProduct(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	f.products[p.ID] = *p
	return nil
}

func (f *fakeAdmin) UpdateProduct(_ context.Context, id primitive.ObjectID, patch database.ProductPatch) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, catalog.ErrNotFound
	}
	f.lastPatch = patch
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	f.products[id] = p
	return p, nil
}

func (f *fakeAdmin) DisableProduct(ctx context.Context, id primitive.ObjectID) error {
	inactive := false
	_, err := f.UpdateProduct(ctx, id, database.ProductPatch{IsActive: &inactive})
	return err
}

func (f *fakeAdmin) ListCategories(context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Category{}, f.categories...), nil
}

func (f *fakeAdmin) CreateCategory(_ context.Context, c *models.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.categories {
		if existing.Name == c.Name {
			return database.ErrCategoryExists
		}
	}
	c.ID = primitive.NewObjectID()
	f.categories = append(f.categories, *c)
	return nil
}

func (f *fakeAdmin) UpdateCategory(_ context.Context, id primitive.ObjectID, name *string, isActive *bool) (models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.categories {
		if c.ID != id {
			continue
		}
		if name != nil {
			f.categories[i].Name = *name
		}
		if isActive != nil {
			f.categories[i].IsActive = *isActive
		}
		return f.categories[i], nil
	}
	return models.Category{}, catalog.ErrNotFound
}

func (f *fakeAdmin) DisableCategory(ctx context.Context, id primitive.ObjectID) error {
	inactive := false
	_, err := f.UpdateCategory(ctx, id, nil, &inactive)
	return err
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return nil
}

type testApp struct {
	router   *gin.Engine
	store    *catalog.MemoryStore
	users    *fakeUsers
	orders   *fakeOrders
	admin    *fakeAdmin
	featured *countingInvalidator
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := &testApp{
		router:   gin.New(),
		store:    catalog.NewMemoryStore(),
		users:    newFakeUsers(),
		orders:   &fakeOrders{},
		admin:    newFakeAdmin(),
		featured: &countingInvalidator{},
	}
	err := RegisterRoutes(app.router, Dependencies{
		Engine:    catalog.NewEngine(app.store),
		Users:     app.users,
		Orders:    app.orders,
		Admin:     app.admin,
		Featured:  app.featured,
		JWTSecret: testSecret,
		AccessTTL: time.Hour,
		Timeout:   time.Second,
	})
	require.NoError(t, err)
	return app
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// signUp stores an account directly and returns it with a valid token.
func (a *testApp) signUp(t *testing.T, email, role string) (models.User, string) {
	t.Helper()
	user := models.User{Email: email, Name: "Test User", Role: role}
	require.NoError(t, a.users.Create(context.Background(), &user))
	token, err := issueAccessToken(user, testSecret, time.Hour, time.Now())
	require.NoError(t, err)
	return user, token
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

type errorBody struct {
	Error   string   `json:"error"`
	Field   string   `json:"field"`
	Details []string `json:"details"`
}

func validAddressBody() map[string]interface{} {
	return map[string]interface{}{
		"fullName":     "Jane Doe",
		"addressLine1": "1 Main St",
		"city":         "Springfield",
		"state":        "IL",
		"zipCode":      "62701",
	}
}

package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

var errMemoryStoreDown = errors.New("memory store marked down")

// MemoryStore is an in-process Store. It applies the same predicate and
// ordering as the MongoDB store and is safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	products   []models.Product
	categories []models.Category
	down       bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// AddProducts stores copies of ps, assigning ids and creation times where
// they are missing, and returns the stored values.
func (s *MemoryStore) AddProducts(ps ...models.Product) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Product, 0, len(ps))
	for _, p := range ps {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		s.products = append(s.products, p)
		out = append(out, p)
	}
	return out
}

func (s *MemoryStore) AddCategories(cs ...models.Category) []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Category, 0, len(cs))
	for _, c := range cs {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		s.categories = append(s.categories, c)
		out = append(out, c)
	}
	return out
}

// UpdateProduct applies fn to the stored product with the id.
func (s *MemoryStore) UpdateProduct(id primitive.ObjectID, fn func(*models.Product)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			fn(&s.products[i])
			return true
		}
	}
	return false
}

// SetDown makes every read fail with StoreUnavailableError while true.
func (s *MemoryStore) SetDown(down bool) {
	s.mu.Lock()
	s.down = down
	s.mu.Unlock()
}

func (s *MemoryStore) FindProducts(ctx context.Context, q Query) ([]models.Product, int64, error) {
	if err := s.ready(ctx, "find products"); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	matched := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if Matches(p, q) {
			matched = append(matched, p)
		}
	}
	s.mu.RUnlock()

	keys := q.Sort.Keys()
	sort.SliceStable(matched, func(i, j int) bool {
		return Less(matched[i], matched[j], keys)
	})

	total := int64(len(matched))
	if q.Skip >= len(matched) {
		return []models.Product{}, total, nil
	}
	end := len(matched)
	if q.Limit > 0 && q.Skip+q.Limit < end {
		end = q.Skip + q.Limit
	}
	return matched[q.Skip:end], total, nil
}

func (s *MemoryStore) FindProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	if err := s.ready(ctx, "find product"); err != nil {
		return models.Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

func (s *MemoryStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	if err := s.ready(ctx, "list categories"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if c.Visible() {
			out = append(out, c)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *MemoryStore) FindCategory(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	if err := s.ready(ctx, "find category"); err != nil {
		return models.Category{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Category{}, ErrNotFound
}

func (s *MemoryStore) ready(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	down := s.down
	s.mu.RUnlock()
	if down {
		return &StoreUnavailableError{Op: op, Err: errMemoryStoreDown}
	}
	return nil
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"storefront/internal/models"
)

const (
	DefaultLimit         = 20
	MaxLimit             = 100
	DefaultFeaturedLimit = 8
	MaxPage              = 10000
	MaxSearchLength      = 100
	MaxRating            = 5

	DefaultFeaturedLoadTimeout = 5 * time.Second
)

// Engine turns filter requests into store queries and pages of results.
type Engine struct {
	store         Store
	defaultLimit  int
	maxLimit      int
	featuredLimit int
	cache         FeaturedCache
	loadTimeout   time.Duration
	featured      singleflight.Group
}

type Option func(*Engine)

// WithLimits sets the limit used when none is supplied and the ceiling above
// which requests are rejected.
func WithLimits(defaultLimit, maxLimit int) Option {
	return func(e *Engine) {
		if maxLimit > 0 {
			e.maxLimit = maxLimit
		}
		if defaultLimit > 0 {
			e.defaultLimit = defaultLimit
		}
	}
}

func WithFeaturedLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.featuredLimit = limit
		}
	}
}

func WithFeaturedCache(cache FeaturedCache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// WithFeaturedLoadTimeout bounds a shared featured-list load. The load is
// detached from the callers waiting on it, so this is its only deadline.
func WithFeaturedLoadTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.loadTimeout = d
		}
	}
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		defaultLimit:  DefaultLimit,
		maxLimit:      MaxLimit,
		featuredLimit: DefaultFeaturedLimit,
		loadTimeout:   DefaultFeaturedLoadTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.defaultLimit > e.maxLimit {
		e.defaultLimit = e.maxLimit
	}
	if e.featuredLimit > e.maxLimit {
		e.featuredLimit = e.maxLimit
	}
	return e
}

func (e *Engine) MaxLimit() int {
	return e.maxLimit
}

// FilterProducts returns one page of products satisfying all constraints of req.
func (e *Engine) FilterProducts(ctx context.Context, req FilterRequest) (Page, error) {
	q, page, err := e.buildQuery(req)
	if err != nil {
		return Page{}, err
	}
	return e.run(ctx, q, page)
}

// Featured returns the first page of the named featured list.
func (e *Engine) Featured(ctx context.Context, req FeaturedRequest) (Page, error) {
	mode, err := ParseFilterType(req.FilterType)
	if err != nil {
		return Page{}, err
	}
	limit, err := e.resolveLimit(req.Limit, e.featuredLimit)
	if err != nil {
		return Page{}, err
	}

	key := fmt.Sprintf("%s:%d", mode, limit)

	// Concurrent requests for the same list share one load. The load runs
	// detached from any single caller; each caller stops waiting on its own
	// deadline or cancellation.
	ch := e.featured.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.loadTimeout)
		defer cancel()
		return e.loadFeatured(loadCtx, key, mode, limit)
	})

	select {
	case <-ctx.Done():
		return Page{}, storeError(ctx, "featured products", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return Page{}, res.Err
		}
		return res.Val.(Page), nil
	}
}

func (e *Engine) loadFeatured(ctx context.Context, key string, mode SortMode, limit int) (Page, error) {
	if e.cache != nil {
		cached, err := e.cache.GetFeatured(ctx, key)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("[CATALOG] [WARN] featured cache get %s failed: %v", key, err)
		}
	}

	page, err := e.run(ctx, Query{Sort: mode, Limit: limit}, 1)
	if err != nil {
		return Page{}, err
	}

	if e.cache != nil {
		if err := e.cache.SetFeatured(ctx, key, page); err != nil {
			log.Printf("[CATALOG] [WARN] featured cache set %s failed: %v", key, err)
		}
	}
	return page, nil
}

// Product looks up one visible product by id.
func (e *Engine) Product(ctx context.Context, id string) (models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Product{}, err
	}

	p, err := e.store.FindProduct(ctx, oid)
	if errors.Is(err, ErrNotFound) || (err == nil && !p.Visible()) {
		return models.Product{}, &NotFoundError{Entity: "product", ID: oid.Hex()}
	}
	if err != nil {
		return models.Product{}, storeError(ctx, "find product", err)
	}
	p.InStock = p.Stock > 0
	return p, nil
}

// Categories lists active categories.
func (e *Engine) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := e.store.ListCategories(ctx)
	if err != nil {
		return nil, storeError(ctx, "list categories", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// Category looks up one active category by id.
func (e *Engine) Category(ctx context.Context, id string) (models.Category, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.Category{}, err
	}

	c, err := e.store.FindCategory(ctx, oid)
	if errors.Is(err, ErrNotFound) || (err == nil && !c.Visible()) {
		return models.Category{}, &NotFoundError{Entity: "category", ID: oid.Hex()}
	}
	if err != nil {
		return models.Category{}, storeError(ctx, "find category", err)
	}
	return c, nil
}

func (e *Engine) run(ctx context.Context, q Query, page int) (Page, error) {
	items, total, err := e.store.FindProducts(ctx, q)
	if err != nil {
		return Page{}, storeError(ctx, "find products", err)
	}
	if items == nil {
		items = []models.Product{}
	}
	for i := range items {
		items[i].InStock = items[i].Stock > 0
	}

	return Page{
		Items:   items,
		Page:    page,
		Limit:   q.Limit,
		Total:   total,
		HasMore: int64(q.Skip+len(items)) < total,
	}, nil
}

func (e *Engine) buildQuery(req FilterRequest) (Query, int, error) {
	mode, err := ParseSortMode(req.Sort)
	if err != nil {
		return Query{}, 0, err
	}

	limit, err := e.resolveLimit(req.Limit, e.defaultLimit)
	if err != nil {
		return Query{}, 0, err
	}

	page := 1
	if req.Page != nil {
		page = *req.Page
		if page < 1 {
			return Query{}, 0, invalid("page", "must be a positive integer")
		}
		if page > MaxPage {
			return Query{}, 0, invalid("page", "must not exceed %d", MaxPage)
		}
	}

	if err := checkBound("minPrice", req.MinPrice, 0, math.Inf(1)); err != nil {
		return Query{}, 0, err
	}
	if err := checkBound("maxPrice", req.MaxPrice, 0, math.Inf(1)); err != nil {
		return Query{}, 0, err
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return Query{}, 0, invalid("minPrice", "must not exceed maxPrice")
	}
	if err := checkBound("minRating", req.MinRating, 0, MaxRating); err != nil {
		return Query{}, 0, err
	}

	search := strings.TrimSpace(req.Search)
	if utf8.RuneCountInString(search) > MaxSearchLength {
		return Query{}, 0, invalid("search", "must be at most %d characters", MaxSearchLength)
	}

	return Query{
		Category:  strings.TrimSpace(req.Category),
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		MinRating: req.MinRating,
		Search:    search,
		Sort:      mode,
		Skip:      (page - 1) * limit,
		Limit:     limit,
	}, page, nil
}

func (e *Engine) resolveLimit(raw *int, fallback int) (int, error) {
	if raw == nil {
		return fallback, nil
	}
	if *raw < 1 {
		return 0, invalid("limit", "must be a positive integer")
	}
	if *raw > e.maxLimit {
		return 0, invalid("limit", "must not exceed %d", e.maxLimit)
	}
	return *raw, nil
}

func checkBound(field string, v *float64, lo, hi float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return invalid(field, "must be a finite number")
	}
	if *v < lo {
		return invalid(field, "must not be below %g", lo)
	}
	if *v > hi {
		return invalid(field, "must not exceed %g", hi)
	}
	return nil
}

func parseID(raw string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, invalid("id", "must be a 24 character hex id")
	}
	return oid, nil
}

// storeError keeps StoreUnavailableError as is and turns an expired deadline
// into one; everything else is wrapped with the operation name.
func storeError(ctx context.Context, op string, err error) error {
	var unavailable *StoreUnavailableError
	if errors.As(err, &unavailable) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &StoreUnavailableError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

const (
	productsCollection   = "products"
	categoriesCollection = "categories"
	usersCollection      = "users"
	ordersCollection     = "orders"
)

var _ catalog.Store = (*ProductStore)(nil)

// ProductStore is the MongoDB implementation of catalog.Store.
type ProductStore struct {
	db         *mongo.Database
	products   *mongo.Collection
	categories *mongo.Collection
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{
		db:         db,
		products:   db.Collection(productsCollection),
		categories: db.Collection(categoriesCollection),
	}
}

func (s *ProductStore) FindProducts(ctx context.Context, q catalog.Query) ([]models.Product, int64, error) {
	if err := ensureConnection(ctx, s.db); err != nil {
		return nil, 0, &catalog.StoreUnavailableError{Op: "find products", Err: err}
	}

	filter := buildProductFilter(q)

	total, err := s.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, classify("count products", err)
	}
	if total == 0 || int64(q.Skip) >= total {
		return []models.Product{}, total, nil
	}

	opts := options.Find().
		SetSort(buildSort(q.Sort.Keys())).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))

	cursor, err := s.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, classify("find products", err)
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, 0, classify("decode products", err)
	}
	return products, total, nil
}

func (s *ProductStore) FindProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var raw bson.M
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, catalog.ErrNotFound
	}
	if err != nil {
		return models.Product{}, classify("find product", err)
	}
	return normalizeProductDocument(raw)
}

func (s *ProductStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	if err := ensureConnection(ctx, s.db); err != nil {
		return nil, &catalog.StoreUnavailableError{Op: "list categories", Err: err}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetCollation(&options.Collation{Locale: "en", Strength: 2})

	cursor, err := s.categories.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, classify("list categories", err)
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, classify("decode categories", err)
	}
	return categories, nil
}

func (s *ProductStore) FindCategory(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	var category models.Category
	err := s.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Category{}, catalog.ErrNotFound
	}
	if err != nil {
		return models.Category{}, classify("find category", err)
	}
	return category, nil
}

// inactiveFlag matches legacy isActive values stored as the string "false",
// which normalizeProductDocument reads as inactive.
var inactiveFlag = primitive.Regex{Pattern: `^\s*false\s*$`, Options: "i"}

// buildProductFilter mirrors catalog.Matches as a MongoDB query document.
func buildProductFilter(q catalog.Query) bson.M {
	filter := bson.M{
		"isActive":  bson.M{"$ne": false, "$not": inactiveFlag},
		"isDeleted": bson.M{"$ne": true},
	}

	if q.Category != "" {
		refs := bson.A{q.Category}
		if oid, err := primitive.ObjectIDFromHex(q.Category); err == nil {
			refs = append(refs, oid)
		}
		filter["category"] = bson.M{"$in": refs}
	}

	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if q.MinRating != nil {
		filter["rating"] = bson.M{"$gte": *q.MinRating}
	}

	if q.Search != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
	}

	return filter
}

func buildSort(keys []catalog.SortKey) bson.D {
	sort := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: k.Field, Value: dir})
	}
	return sort
}

// classify turns connectivity failures into catalog.StoreUnavailableError.
func classify(op string, err error) error {
	if mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) {
		return &catalog.StoreUnavailableError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

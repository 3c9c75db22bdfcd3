package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

var ErrCategoryExists = errors.New("category already exists")

// ProductPatch lists the admin-editable product fields. Nil fields are left
// untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Rating      *float64
	Category    []string
	ImagePath   *string
	IsActive    *bool
}

func (p ProductPatch) set(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.Name != nil {
		set["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		set["description"] = strings.TrimSpace(*p.Description)
	}
	if p.Price != nil {
		set["price"] = *p.Price
	}
	if p.Stock != nil {
		set["stock"] = *p.Stock
	}
	if p.Rating != nil {
		set["rating"] = *p.Rating
	}
	if p.Category != nil {
		set["category"] = models.StringList(p.Category)
	}
	if p.ImagePath != nil {
		set["imagePath"] = strings.TrimSpace(*p.ImagePath)
	}
	if p.IsActive != nil {
		set["isActive"] = *p.IsActive
		if *p.IsActive {
			set["disabledAt"] = nil
		} else {
			set["disabledAt"] = now
		}
	}
	return set
}

// CatalogAdminStore backs the admin API. Unlike ProductStore it sees
// disabled products and inactive categories.
type CatalogAdminStore struct {
	products   *mongo.Collection
	categories *mongo.Collection
}

func NewCatalogAdminStore(db *mongo.Database) *CatalogAdminStore {
	return &CatalogAdminStore{
		products:   db.Collection(productsCollection),
		categories: db.Collection(categoriesCollection),
	}
}

func (s *CatalogAdminStore) ListProducts(ctx context.Context, skip, limit int64) ([]models.Product, int64, error) {
	filter := bson.M{"isDeleted": bson.M{"$ne": true}}

	total, err := s.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, classify("count products", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
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

func (s *CatalogAdminStore) CreateProduct(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Category == nil {
		product.Category = models.StringList{}
	}

	res, err := s.products.InsertOne(ctx, product)
	if err != nil {
		return classify("insert product", err)
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	product.InStock = product.Stock > 0
	return nil
}

func (s *CatalogAdminStore) UpdateProduct(ctx context.Context, id primitive.ObjectID, patch ProductPatch) (models.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}}

	var raw bson.M
	err := s.products.FindOneAndUpdate(ctx, filter, bson.M{"$set": patch.set(time.Now().UTC())}, opts).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, catalog.ErrNotFound
	}
	if err != nil {
		return models.Product{}, classify("update product", err)
	}
	return normalizeProductDocument(raw)
}

// DisableProduct hides the product from the storefront. Orders keep
// referencing it.
func (s *CatalogAdminStore) DisableProduct(ctx context.Context, id primitive.ObjectID) error {
	inactive := false
	_, err := s.UpdateProduct(ctx, id, ProductPatch{IsActive: &inactive})
	return err
}

func (s *CatalogAdminStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, classify("find categories", err)
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, classify("decode categories", err)
	}
	return categories, nil
}

func (s *CatalogAdminStore) CreateCategory(ctx context.Context, category *models.Category) error {
	count, err := s.categories.CountDocuments(ctx, bson.M{"name": category.Name})
	if err != nil {
		return classify("count categories", err)
	}
	if count > 0 {
		return ErrCategoryExists
	}

	category.CreatedAt = time.Now().UTC()
	res, err := s.categories.InsertOne(ctx, category)
	if err != nil {
		return classify("insert category", err)
	}
	category.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *CatalogAdminStore) UpdateCategory(ctx context.Context, id primitive.ObjectID, name *string, isActive *bool) (models.Category, error) {
	set := bson.M{}
	if name != nil {
		set["name"] = strings.TrimSpace(*name)
	}
	if isActive != nil {
		set["isActive"] = *isActive
	}

	var category models.Category
	if len(set) == 0 {
		err := s.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Category{}, catalog.ErrNotFound
		}
		if err != nil {
			return models.Category{}, classify("find category", err)
		}
		return category, nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.categories.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Category{}, catalog.ErrNotFound
	}
	if err != nil {
		return models.Category{}, classify("update category", err)
	}
	return category, nil
}

func (s *CatalogAdminStore) DisableCategory(ctx context.Context, id primitive.ObjectID) error {
	inactive := false
	_, err := s.UpdateCategory(ctx, id, nil, &inactive)
	return err
}

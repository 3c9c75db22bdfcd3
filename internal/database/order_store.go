package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

type OutOfStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %s out of stock: %d available, %d requested", e.ProductID.Hex(), e.Available, e.Requested)
}

type ProductMissingError struct {
	ProductID primitive.ObjectID
}

func (e *ProductMissingError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID.Hex())
}

// OrderStore persists orders and applies their effect on the catalog.
type OrderStore struct {
	db       *mongo.Database
	orders   *mongo.Collection
	products *mongo.Collection
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{
		db:       db,
		orders:   db.Collection(ordersCollection),
		products: db.Collection(productsCollection),
	}
}

// PlaceOrder prices the items from the catalog, decrements stock, bumps each
// product's orderCount and inserts the order, all in one transaction.
func (s *OrderStore) PlaceOrder(ctx context.Context, order *models.Order) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return classify("start session", err)
	}
	defer session.EndSession(ctx)

	var orderID primitive.ObjectID
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		items := make([]models.OrderItem, 0, len(order.Items))
		total := 0.0

		for _, item := range order.Items {
			var raw bson.M
			err := s.products.FindOne(sessCtx, bson.M{"_id": item.ProductID}).Decode(&raw)
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, &ProductMissingError{ProductID: item.ProductID}
			}
			if err != nil {
				return nil, err
			}
			product, err := normalizeProductDocument(raw)
			if err != nil {
				return nil, err
			}
			if !product.Visible() {
				return nil, &ProductMissingError{ProductID: item.ProductID}
			}
			if product.Stock < item.Quantity {
				return nil, &OutOfStockError{ProductID: item.ProductID, Available: product.Stock, Requested: item.Quantity}
			}

			res, err := s.products.UpdateOne(sessCtx,
				bson.M{"_id": item.ProductID, "stock": bson.M{"$gte": item.Quantity}},
				bson.M{"$inc": bson.M{"stock": -item.Quantity, "orderCount": 1}},
			)
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				return nil, &OutOfStockError{ProductID: item.ProductID, Available: product.Stock, Requested: item.Quantity}
			}

			items = append(items, models.OrderItem{
				ProductID: item.ProductID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  item.Quantity,
			})
			total += product.Price * float64(item.Quantity)
		}

		order.Items = items
		order.TotalPrice = total

		res, err := s.orders.InsertOne(sessCtx, order)
		if err != nil {
			return nil, err
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			orderID = id
		}
		return nil, nil
	})
	if err != nil {
		var stockErr *OutOfStockError
		var missingErr *ProductMissingError
		if errors.As(err, &stockErr) || errors.As(err, &missingErr) {
			return err
		}
		return classify("place order", err)
	}

	order.ID = orderID
	log.Printf("[ORDER] [INFO] order %s placed with %d items", orderID.Hex(), len(order.Items))
	return nil
}

// ListForUser returns the user's orders, newest first.
func (s *OrderStore) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return s.find(ctx, bson.M{"userId": userID}, opts)
}

// List returns one page of all orders, newest first, with the total count.
func (s *OrderStore) List(ctx context.Context, skip, limit int64) ([]models.Order, int64, error) {
	total, err := s.orders.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, classify("count orders", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	orders, err := s.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *OrderStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, error) {
	cursor, err := s.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, classify("find orders", err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, classify("decode orders", err)
	}
	return orders, nil
}

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/catalog"
	"storefront/internal/database"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

const maxOrderItems = 50

// OrderRepository places and lists orders.
type OrderRepository interface {
	PlaceOrder(ctx context.Context, order *models.Order) error
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	List(ctx context.Context, skip, limit int64) ([]models.Order, int64, error)
}

var _ OrderRepository = (*database.OrderStore)(nil)

type createOrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	Items           []createOrderItemRequest `json:"items" binding:"required"`
	ShippingAddress *models.Address          `json:"shippingAddress"`
	BillingAddress  *models.Address          `json:"billingAddress"`
	PaymentMethod   string                   `json:"paymentMethod" binding:"required"`
}

/*
POST /orders
- prices come from the catalog, never from the request
- addresses are copied into the order
*/
func CreateOrder(orders OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		order, err := buildOrderFromRequest(req, time.Now().UTC())
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}
		order.UserID = userID

		ctx, cancel := requestContext(c, 0)
		defer cancel()

		if err := orders.PlaceOrder(ctx, &order); err != nil {
			var stockErr *database.OutOfStockError
			var missingErr *database.ProductMissingError
			switch {
			case errors.As(err, &stockErr):
				log.Println("[ORDER] [WARN]", stockErr)
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{
					"error":     "insufficient stock",
					"productId": stockErr.ProductID.Hex(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
			case errors.As(err, &missingErr):
				log.Println("[ORDER] [WARN]", missingErr)
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error":     "product not found",
					"productId": missingErr.ProductID.Hex(),
				})
			default:
				respondCatalogError(c, route, err)
			}
			return
		}

		log.Println("[ORDER] [INFO] order created for user:", userID.Hex())
		c.JSON(http.StatusCreated, order)
	}
}

func GetUserOrders(orders OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/orders"
		defer handlePanic(c, route)

		userID, ok := middleware.UserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := requestContext(c, 0)
		defer cancel()

		list, err := orders.ListForUser(ctx, userID)
		if err != nil {
			respondCatalogError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

// buildOrderFromRequest validates the request and merges repeated products.
// Item names and prices are filled in when the order is placed.
func buildOrderFromRequest(req createOrderRequest, now time.Time) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, &catalog.ValidationError{Field: "items", Reason: "at least one item is required"}
	}
	if len(req.Items) > maxOrderItems {
		return models.Order{}, &catalog.ValidationError{Field: "items", Reason: fmt.Sprintf("at most %d items", maxOrderItems)}
	}
	if req.PaymentMethod != models.PaymentCash && req.PaymentMethod != models.PaymentCard {
		return models.Order{}, &catalog.ValidationError{Field: "paymentMethod", Reason: "must be cash or card"}
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	positions := make(map[primitive.ObjectID]int, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return models.Order{}, &catalog.ValidationError{Field: "productId", Reason: "malformed id"}
		}
		if item.Quantity <= 0 {
			return models.Order{}, &catalog.ValidationError{Field: "quantity", Reason: "must be greater than zero"}
		}

		if i, seen := positions[productID]; seen {
			items[i].Quantity += item.Quantity
			continue
		}
		positions[productID] = len(items)
		items = append(items, models.OrderItem{ProductID: productID, Quantity: item.Quantity})
	}

	if req.ShippingAddress == nil {
		return models.Order{}, &catalog.ValidationError{Field: "shippingAddress", Reason: "is required"}
	}
	shipping, err := orderAddress("shippingAddress", *req.ShippingAddress, models.AddressShipping)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		Items:           items,
		ShippingAddress: shipping,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
	}

	if req.BillingAddress != nil {
		billing, err := orderAddress("billingAddress", *req.BillingAddress, models.AddressBilling)
		if err != nil {
			return models.Order{}, err
		}
		order.BillingAddress = &billing
	}
	return order, nil
}

func orderAddress(field string, in models.Address, kind string) (models.Address, error) {
	if in.Type == "" {
		in.Type = kind
	}
	a, err := models.NewAddress(in)
	if err != nil {
		return models.Address{}, &catalog.ValidationError{Field: field, Reason: err.Error()}
	}
	if !a.UsableFor(kind) {
		return models.Address{}, &catalog.ValidationError{Field: field, Reason: "address type must be " + kind + " or both"}
	}
	a.IsDefault = false
	return a, nil
}

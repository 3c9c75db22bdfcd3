package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/middleware"
	"storefront/internal/models"
)

type addressView struct {
	models.Address
	Index     int    `json:"index"`
	Formatted string `json:"formatted"`
}

func addressViews(addresses []models.Address) []addressView {
	views := make([]addressView, 0, len(addresses))
	for i, a := range addresses {
		views = append(views, addressView{Address: a, Index: i, Formatted: a.Format()})
	}
	return views
}

func GetMe(users UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/me"
		defer handlePanic(c, route)

		user, ok := loadUser(c, route, users)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":        user.ID.Hex(),
			"email":     user.Email,
			"name":      user.Name,
			"phone":     user.Phone,
			"role":      user.Role,
			"addresses": addressViews(user.Addresses),
			"createdAt": user.CreatedAt,
			"updatedAt": user.UpdatedAt,
		})
	}
}

func GetUserAddresses(users UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /user/addresses"
		defer handlePanic(c, route)

		user, ok := loadUser(c, route, users)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": addressViews(user.Addresses)})
	}
}

func CreateUserAddress(users UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /user/addresses"
		defer handlePanic(c, route)

		address, ok := bindAddress(c, route)
		if !ok {
			return
		}
		user, ok := loadUser(c, route, users)
		if !ok {
			return
		}

		index := user.AddAddress(address)
		if !saveAddresses(c, route, users, user) {
			return
		}

		log.Printf("[ADDRESS] [INFO] address %d added for user %s", index, user.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"address":   addressViews(user.Addresses)[index],
			"addresses": addressViews(user.Addresses),
		})
	}
}

func UpdateUserAddress(users UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /user/addresses/:index"
		defer handlePanic(c, route)

		index, ok := addressIndex(c, route)
		if !ok {
			return
		}
		address, ok := bindAddress(c, route)
		if !ok {
			return
		}
		user, ok := loadUser(c, route, users)
		if !ok {
			return
		}

		if err := user.ReplaceAddress(index, address); err != nil {
			respondWithError(c, http.StatusNotFound, route, "address not found")
			return
		}
		if !saveAddresses(c, route, users, user) {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"address":   addressViews(user.Addresses)[index],
			"addresses": addressViews(user.Addresses),
		})
	}
}

func DeleteUserAddress(users UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /user/addresses/:index"
		defer handlePanic(c, route)

		index, ok := addressIndex(c, route)
		if !ok {
			return
		}
		user, ok := loadUser(c, route, users)
		if !ok {
			return
		}

		if err := user.RemoveAddress(index); err != nil {
			respondWithError(c, http.StatusNotFound, route, "address not found")
			return
		}
		if !saveAddresses(c, route, users, user) {
			return
		}

		log.Printf("[ADDRESS] [INFO] address %d removed for user %s", index, user.ID.Hex())
		c.JSON(http.StatusOK, gin.H{"addresses": addressViews(user.Addresses)})
	}
}

func loadUser(c *gin.Context, route string, users UserRepository) (models.User, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		log.Printf("[%s] userId missing in context", route)
		respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
		return models.User{}, false
	}

	ctx, cancel := requestContext(c, 0)
	defer cancel()

	user, err := users.FindByID(ctx, userID)
	if err != nil {
		respondCatalogError(c, route, err)
		return models.User{}, false
	}
	return user, true
}

func saveAddresses(c *gin.Context, route string, users UserRepository, user models.User) bool {
	ctx, cancel := requestContext(c, 0)
	defer cancel()

	if err := users.SaveAddresses(ctx, user.ID, user.Addresses); err != nil {
		log.Printf("[ADDRESS] [ERROR] save addresses failed: %v", err)
		respondCatalogError(c, route, err)
		return false
	}
	return true
}

func bindAddress(c *gin.Context, route string) (models.Address, bool) {
	var in models.Address
	if err := c.ShouldBindJSON(&in); err != nil {
		respondWithError(c, http.StatusBadRequest, route, "invalid body")
		return models.Address{}, false
	}

	address, err := models.NewAddress(in)
	if err != nil {
		respondAddressError(c, route, err)
		return models.Address{}, false
	}
	return address, true
}

func respondAddressError(c *gin.Context, route string, err error) {
	var addrErr *models.AddressError
	if errors.As(err, &addrErr) {
		log.Printf("[%s] invalid address: %v", route, addrErr.Fields)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "invalid address",
			"details": addrErr.Fields,
		})
		return
	}
	respondWithError(c, http.StatusBadRequest, route, "invalid address")
}

func addressIndex(c *gin.Context, route string) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		respondWithError(c, http.StatusBadRequest, route, "invalid address index")
		return 0, false
	}
	return index, true
}

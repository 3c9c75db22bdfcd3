package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/web"
)

// Dependencies are the services the routes are built from. Featured may be
// nil when no cache is configured.
type Dependencies struct {
	Engine    *catalog.Engine
	Users     UserRepository
	Orders    OrderRepository
	Admin     CatalogAdmin
	Featured  FeaturedInvalidator
	JWTSecret string
	AccessTTL time.Duration
	Timeout   time.Duration
}

// RegisterRoutes mounts the pages, the public API and the admin API on r.
func RegisterRoutes(r *gin.Engine, d Dependencies) error {
	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/", Home(d.Engine, d.Timeout))
	r.GET("/shop", Shop(d.Engine, d.Timeout))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	r.GET("/products", GetProducts(d.Engine, d.Timeout))
	r.GET("/products/featured", GetFeaturedProducts(d.Engine, d.Timeout))
	r.GET("/products/:id", GetProduct(d.Engine, d.Timeout))
	r.GET("/categories", GetCategories(d.Engine, d.Timeout))
	r.GET("/categories/:id", GetCategory(d.Engine, d.Timeout))

	userAuth := middleware.UserAuth(d.JWTSecret)

	r.POST("/auth/register", Register(d.Users, d.JWTSecret, d.AccessTTL))
	r.POST("/auth/login", Login(d.Users, d.JWTSecret, d.AccessTTL))
	r.GET("/auth/me", userAuth, GetMe(d.Users))
	r.POST("/admin/login", AdminLogin(d.Users, d.JWTSecret, d.AccessTTL))

	r.POST("/orders", userAuth, CreateOrder(d.Orders))

	user := r.Group("/user")
	user.Use(userAuth)
	{
		user.GET("/addresses", GetUserAddresses(d.Users))
		user.POST("/addresses", CreateUserAddress(d.Users))
		user.PUT("/addresses/:index", UpdateUserAddress(d.Users))
		user.DELETE("/addresses/:index", DeleteUserAddress(d.Users))
		user.GET("/orders", GetUserOrders(d.Orders))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(d.JWTSecret))
	{
		admin.GET("/products", GetAllProducts(d.Admin))
		admin.POST("/products", CreateProduct(d.Admin, d.Featured))
		admin.PATCH("/products/:id", UpdateProduct(d.Admin, d.Featured))
		admin.DELETE("/products/:id", DeleteProduct(d.Admin, d.Featured))

		admin.GET("/categories", GetAllCategories(d.Admin))
		admin.POST("/categories", CreateCategory(d.Admin))
		admin.PATCH("/categories/:id", UpdateCategory(d.Admin))
		admin.DELETE("/categories/:id", DeleteCategory(d.Admin))

		admin.GET("/orders", GetOrders(d.Orders))
	}
	return nil
}

package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

// AdminLogin issues a token only to accounts carrying the admin role.
func AdminLogin(users UserRepository, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/login"
		defer handlePanic(c, route)

		user, ok := authenticate(c, route, users)
		if !ok {
			return
		}
		if user.Role != models.RoleAdmin {
			log.Println("[AUTH] [WARN] admin login by non-admin account")
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		log.Println("[AUTH] [INFO] admin login succeeded:", user.Email)
		respondWithToken(c, http.StatusOK, route, user, jwtSecret, accessTTL)
	}
}

package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/catalog"
	"storefront/internal/database"
	"storefront/internal/models"
)

// UserRepository is the account storage used by the auth and address routes.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	SaveAddresses(ctx context.Context, id primitive.ObjectID, addresses []models.Address) error
}

var _ UserRepository = (*database.UserStore)(nil)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"omitempty,min=7,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string      `json:"accessToken"`
	ExpiresIn   int64       `json:"expiresIn"`
	User        models.User `json:"user"`
}

func Register(users UserRepository, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] password hash failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "registration failed")
			return
		}

		user := models.User{
			Email:        normalizeEmail(req.Email),
			PasswordHash: string(hash),
			Name:         strings.TrimSpace(req.Name),
			Phone:        strings.TrimSpace(req.Phone),
			Role:         models.RoleUser,
		}

		ctx, cancel := requestContext(c, 0)
		defer cancel()

		if err := users.Create(ctx, &user); err != nil {
			if errors.Is(err, database.ErrEmailTaken) {
				respondWithError(c, http.StatusConflict, route, "email already registered")
				return
			}
			respondCatalogError(c, route, err)
			return
		}

		log.Println("[AUTH] [INFO] user registered:", user.Email)
		respondWithToken(c, http.StatusCreated, route, user, jwtSecret, accessTTL)
	}
}

func Login(users UserRepository, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		user, ok := authenticate(c, route, users)
		if !ok {
			return
		}

		log.Println("[AUTH] [INFO] user login succeeded:", user.Email)
		respondWithToken(c, http.StatusOK, route, user, jwtSecret, accessTTL)
	}
}

// authenticate checks the posted credentials and writes the error response
// itself when they do not match.
func authenticate(c *gin.Context, route string, users UserRepository) (models.User, bool) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, route, err)
		return models.User{}, false
	}

	ctx, cancel := requestContext(c, 0)
	defer cancel()

	user, err := users.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, catalog.ErrNotFound) {
		log.Println("[AUTH] [WARN] login for unknown email")
		respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
		return models.User{}, false
	}
	if err != nil {
		respondCatalogError(c, route, err)
		return models.User{}, false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Println("[AUTH] [WARN] login invalid credentials for user")
		respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
		return models.User{}, false
	}
	return user, true
}

func respondWithToken(c *gin.Context, status int, route string, user models.User, secret string, ttl time.Duration) {
	token, err := issueAccessToken(user, secret, ttl, time.Now())
	if err != nil {
		log.Println("[AUTH] [ERROR] token generation failed:", err)
		respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
		return
	}

	c.JSON(status, AuthResponse{
		AccessToken: token,
		ExpiresIn:   int64(ttl.Seconds()),
		User:        user,
	})
}

func issueAccessToken(user models.User, secret string, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":    user.ID.Hex(),
		"userId": user.ID.Hex(),
		"email":  user.Email,
		"role":   user.Role,
		"iat":    now.Unix(),
		"exp":    now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

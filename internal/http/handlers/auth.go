package handlers

import (
	"net/http"
	"strings"
	"time"

	"tourbackend/internal/domain"
	"tourbackend/internal/http/middleware"
	"tourbackend/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and sets the auth cookie. The token is also
// returned in the body for non-browser clients.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	users := repositories.UserRepository{DB: h.DB}
	user, hash, err := users.GetByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if domain.IsNotFound(err) {
			respondError(c, http.StatusUnauthorized, "unauthenticated", "wrong email or password")
			return
		}
		RespondDomainError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "unauthenticated", "wrong email or password")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(h.Env.JWTSecret))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "could not issue credential")
		return
	}

	c.SetCookie(middleware.AuthCookieName, signed, int(tokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"user":  user,
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register creates a customer account. Staff accounts are provisioned by
// admins, not through this endpoint.
func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || len(req.Password) < 8 {
		respondError(c, http.StatusBadRequest, "validation_error", "name, email and a password of at least 8 characters are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "could not hash password")
		return
	}

	users := repositories.UserRepository{DB: h.DB}
	id, err := users.Create(c.Request.Context(), name, email, strings.TrimSpace(req.Phone), string(hash), domain.RoleCustomer)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":    id,
			"name":  name,
			"email": email,
			"role":  domain.RoleCustomer,
		},
	})
}

// Logout clears the auth cookie.
func (h *Handlers) Logout(c *gin.Context) {
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me reports the authenticated identity, for session probes from the UI.
func (h *Handlers) Me(c *gin.Context) {
	actor, ok := identityOrAbort(c)
	if !ok {
		return
	}
	users := repositories.UserRepository{DB: h.DB}
	user, err := users.GetByID(c.Request.Context(), actor.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

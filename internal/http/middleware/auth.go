package middleware

import (
	"net/http"
	"strings"

	"tourbackend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "auth_identity"

// AuthCookieName is where the browser client carries the credential.
const AuthCookieName = "auth_token"

// Auth validates the bearer credential (cookie first, Authorization header
// as fallback) and stores the identity in the request context. Missing or
// invalid credentials are always 401; capability checks downstream answer
// 403. The two are never conflated.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			unauthenticated(c, "authentication required")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			unauthenticated(c, "invalid or expired credential")
			return
		}

		userID, ok := claims["user_id"].(float64)
		role, okRole := claims["role"].(string)
		if !ok || !okRole || userID <= 0 || role == "" {
			unauthenticated(c, "invalid or expired credential")
			return
		}

		c.Set(identityKey, domain.RequestContext{
			UserID: int64(userID),
			Role:   role,
		})
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func unauthenticated(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message":    msg,
		"request_id": GetRequestID(c),
	})
}

// Identity returns the authenticated identity stored by Auth.
func Identity(c *gin.Context) (domain.RequestContext, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}

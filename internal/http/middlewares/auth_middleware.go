package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/heartspace/internal/actorctx"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
}

func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth accepts exactly "Authorization: Bearer <token>". Only the
// verified user id is attached to the request.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "Access denied. No token provided.")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, http.StatusBadRequest, "invalid_token_format", "Invalid token format. Use 'Bearer <token>'")
			return
		}

		userID, err := m.tokens.VerifyToken(parts[1])
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		c.Set(CtxUserID, userID)
		c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// abort writes the same envelope shape the handlers use.
func abort(c *gin.Context, status int, code, message string) {
	body := gin.H{
		"success": false,
		"error":   code,
		"message": message,
	}

	if id, ok := c.Get(CtxRequestID); ok {
		body["requestId"] = id
	}

	c.AbortWithStatusJSON(status, body)
}

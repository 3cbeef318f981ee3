package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvrender/internal/auth"
)

// UserIDKey 是上下文中保存当前用户 ID 的键。
const UserIDKey = "userID"

// TokenValidator 校验访问令牌。
type TokenValidator interface {
	ValidateToken(token string) (*auth.TokenClaims, error)
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// bearerToken 取出 Authorization: Bearer <token> 中的令牌。
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware 校验访问令牌并将 userID 注入上下文。
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c)
			return
		}

		claims, err := validator.ValidateToken(rawToken)
		if err != nil {
			LoggerFromContext(c).Debug("reject access token", slog.Any("error", err))
			abortUnauthorized(c)
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID 返回 AuthMiddleware 注入的用户 ID。
func UserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id != 0
}

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// InternalSecretHeader 携带无头浏览器访问打印页所用的内部密钥。
const InternalSecretHeader = "X-Internal-Secret"

const internalCallerKey = "internalCaller"

func secretMatches(c *gin.Context, secret string) bool {
	// 内部调用必须通过 Header 传递密钥，避免 query 泄露到浏览器/日志。
	token := strings.TrimSpace(c.GetHeader(InternalSecretHeader))
	if token == "" || secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}

// PrintAccessMiddleware 允许两类调用方打开所有者打印页：携带内部密钥的导出浏览器，
// 或持有访问令牌的所有者本人。
func PrintAccessMiddleware(secret string, validator TokenValidator) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	return func(c *gin.Context) {
		if secretMatches(c, secret) {
			c.Set(internalCallerKey, true)
			c.Next()
			return
		}

		rawToken, ok := bearerToken(c)
		if !ok || validator == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		claims, err := validator.ValidateToken(rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// IsInternalCaller reports whether the request was authenticated by the internal secret.
func IsInternalCaller(c *gin.Context) bool {
	return c.GetBool(internalCallerKey)
}

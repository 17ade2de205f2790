package middleware

import (
	"net/http"
	"strings"

	"github.com/Dandandan2024/PropertyCalculator/internal/util"

	"github.com/gin-gonic/gin"
)

// AnonymousOwner owns the notes of requests that carry no session token.
const AnonymousOwner = "anonymous"

// OwnerKey is the gin context key holding the current owner id.
const OwnerKey = "owner"

// TokenCookie is the cookie POST /api/session sets.
const TokenCookie = "hb_token"

// OwnerMiddleware 从 token 中解析当前 owner，没有 token 时使用 anonymous。
// A token that is present but invalid is rejected rather than downgraded.
func OwnerMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFrom(c)
		if tokenStr == "" {
			c.Set(OwnerKey, AnonymousOwner)
			c.Next()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			util.Abort(c, http.StatusUnauthorized, util.CodeAuth, "session expired, start a new one")
			return
		}

		c.Set(OwnerKey, claims.Owner)
		c.Next()
	}
}

func tokenFrom(c *gin.Context) string {
	// 1) Header: Authorization: Bearer xxx
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// 2) ?token=xxx，用于下载等无法自定义 Header 的场景
	if t := c.Query("token"); t != "" {
		return t
	}

	// 3) Cookie
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentOwner returns the owner set by OwnerMiddleware.
func CurrentOwner(c *gin.Context) (string, bool) {
	v, ok := c.Get(OwnerKey)
	if !ok {
		return "", false
	}
	owner, ok := v.(string)
	return owner, ok && owner != ""
}

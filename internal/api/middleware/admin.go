package middleware

import (
	"github.com/rahulmathews/cutshort-api/internal/api/auth"

	"github.com/gin-gonic/gin"
)

// AdminOnly 只放行 ADMIN 角色，必须排在 AuthMiddleware 之后。
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := auth.IdentityFrom(c)
		if !ok || !ident.IsAdmin() {
			abortUnauthorized(c, "Invalid role")
			return
		}
		c.Next()
	}
}

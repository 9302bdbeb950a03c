package middleware

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rahulmathews/cutshort-api/internal/api/auth"
	"github.com/rahulmathews/cutshort-api/internal/model"
	"github.com/rahulmathews/cutshort-api/internal/pkg/httperr"
	"github.com/rahulmathews/cutshort-api/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// tokenLeeway 校验过期时间时允许的时钟偏差。
const tokenLeeway = 10 * time.Second

// UserFinder 按 ID 解析用户记录。
type UserFinder interface {
	FindUser(ctx context.Context, id uint) (*model.User, error)
}

// DeniedChecker 判断令牌是否已注销。
type DeniedChecker interface {
	IsDenied(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware 校验 Bearer 令牌并将调用者身份写入上下文。
//
// 依次校验：Authorization 头存在且为 Bearer、签名与过期时间
// （允许少量时钟偏差）、令牌未被注销、用户仍然存在。任一失败
// 都以 401 终止请求链。
func AuthMiddleware(jwtSecret string, users UserFinder, denied DeniedChecker) gin.HandlerFunc {
	secret := []byte(jwtSecret)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Cannot find Authorization header")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid authorization header")
			return
		}

		claims := &auth.Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(tokenLeeway))
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid token")
			return
		}

		if claims.Subject == "" {
			abortUnauthorized(c, "invalid token subject")
			return
		}
		uid, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			abortUnauthorized(c, "invalid user id")
			return
		}

		if denied != nil && claims.ID != "" {
			isDenied, err := denied.IsDenied(c.Request.Context(), claims.ID)
			if err != nil {
				_ = c.Error(httperr.Internal("token check failed"))
				c.Abort()
				return
			}
			if isDenied {
				abortUnauthorized(c, "Token Expired")
				return
			}
		}

		user, err := users.FindUser(c.Request.Context(), uint(uid))
		if err != nil {
			abortUnauthorized(c, "Invalid Username/Password")
			return
		}

		var expiresAt time.Time
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		auth.SetIdentity(c,
			auth.Identity{UserID: user.ID, Name: user.Name, Role: user.Role},
			auth.TokenMeta{ID: claims.ID, ExpiresAt: expiresAt},
		)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	metrics.AuthFailureTotal.Inc()
	_ = c.Error(httperr.Unauthorized(message))
	c.Abort()
}

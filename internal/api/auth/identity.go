package auth

import (
	"time"

	"github.com/rahulmathews/cutshort-api/internal/model"

	"github.com/gin-gonic/gin"
)

// Identity 是认证中间件写入请求上下文的调用者身份。
//
// 用显式类型替代在请求上随意挂字段，下游统一通过 IdentityFrom 读取。
type Identity struct {
	UserID uint   // 用户 ID
	Name   string // 显示名称
	Role   string // 角色: ADMIN / USER
}

// IsAdmin 判断调用者是否为管理员。
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// TokenMeta 记录当前请求携带令牌的元信息，注销时用来写黑名单。
type TokenMeta struct {
	ID        string    // 令牌 jti
	ExpiresAt time.Time // 令牌过期时间
}

const (
	identityContextKey = "auth.identity"
	tokenContextKey    = "auth.token"
)

// SetIdentity 将身份与令牌元信息写入 gin 上下文。
func SetIdentity(c *gin.Context, ident Identity, meta TokenMeta) {
	c.Set(identityContextKey, ident)
	c.Set(tokenContextKey, meta)
}

// IdentityFrom 读取请求身份；未经过认证中间件时返回 false。
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityContextKey)
	if !ok {
		return Identity{}, false
	}
	ident, ok := v.(Identity)
	return ident, ok
}

// TokenFrom 读取当前请求的令牌元信息。
func TokenFrom(c *gin.Context) (TokenMeta, bool) {
	v, ok := c.Get(tokenContextKey)
	if !ok {
		return TokenMeta{}, false
	}
	meta, ok := v.(TokenMeta)
	return meta, ok
}

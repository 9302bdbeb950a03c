package auth

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rahulmathews/cutshort-api/internal/model"
	"github.com/rahulmathews/cutshort-api/internal/pkg/httperr"
	"github.com/rahulmathews/cutshort-api/internal/pkg/metrics"
	"github.com/rahulmathews/cutshort-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Claims 是签入访问令牌的声明。Subject 为用户 ID。
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
	Role string `json:"role"`
}

// UserStore 是认证所需的用户存取接口。
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Limiter 登录限流接口。
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Denylist 注销令牌黑名单接口。
type Denylist interface {
	Deny(ctx context.Context, jti string, ttl time.Duration) error
}

// Handler 提供注册、登录与注销接口。
type Handler struct {
	users     UserStore
	limiter   Limiter
	denylist  Denylist
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *slog.Logger
}

// NewHandler 创建 Auth Handler。
func NewHandler(users UserStore, limiter Limiter, denylist Denylist, jwtSecret string, tokenTTL time.Duration, logger *slog.Logger) *Handler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Handler{
		users:     users,
		limiter:   limiter,
		denylist:  denylist,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup 创建普通角色的新用户。
//
// POST /auth/signup
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httperr.BadRequest(err.Error()))
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if _, err := h.users.FindUserByEmail(c.Request.Context(), email); err == nil {
		_ = c.Error(httperr.New(409, "email already exists"))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.logger.Error("query user failed", slog.String("email", email), slog.String("error", err.Error()))
		_ = c.Error(httperr.Internal("query user failed"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		_ = c.Error(httperr.Internal("hash password failed"))
		return
	}

	user := model.User{
		Email:    email,
		Password: string(hash),
		Name:     req.Name,
		Role:     model.RoleUser,
	}
	if err := h.users.CreateUser(c.Request.Context(), &user); err != nil {
		h.logger.Error("create user failed", slog.String("email", email), slog.String("error", err.Error()))
		_ = c.Error(httperr.Internal("create user failed"))
		return
	}

	h.logger.Info("user registered", slog.String("email", email))
	c.JSON(200, gin.H{"message": "Registered Successfully"})
}

// Login 校验邮箱密码并签发访问令牌。
//
// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httperr.BadRequest(err.Error()))
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if h.limiter != nil {
		key := email + "|" + c.ClientIP()
		allowed, err := h.limiter.Allow(c.Request.Context(), key)
		if err != nil {
			h.logger.Warn("login throttle check failed", slog.String("error", err.Error()))
			// 限流故障不挡登录
		} else if !allowed {
			metrics.LoginThrottledTotal.Inc()
			_ = c.Error(httperr.TooManyRequests("too many login attempts"))
			return
		}
	}

	user, err := h.users.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.AuthFailureTotal.Inc()
			_ = c.Error(httperr.Unauthorized("Invalid Username/Password"))
			return
		}
		h.logger.Error("query user failed", slog.String("email", email), slog.String("error", err.Error()))
		_ = c.Error(httperr.Internal("query user failed"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		metrics.AuthFailureTotal.Inc()
		_ = c.Error(httperr.Unauthorized("Invalid Username/Password"))
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		h.logger.Error("sign token failed", slog.String("email", email), slog.String("error", err.Error()))
		_ = c.Error(httperr.Internal("Token Creation Failed"))
		return
	}

	h.logger.Info("user logged in", slog.String("email", email), slog.String("role", user.Role))
	c.JSON(200, gin.H{
		"message":      "Successfully loggedin",
		"access_token": token,
		"expires_in":   int64(h.tokenTTL.Seconds()),
	})
}

// Logout 将当前令牌加入黑名单，直至其自然过期。
//
// POST /auth/logout（需要 Bearer 认证）
func (h *Handler) Logout(c *gin.Context) {
	meta, ok := TokenFrom(c)
	if !ok {
		_ = c.Error(httperr.Unauthorized("missing token"))
		return
	}

	ttl := time.Until(meta.ExpiresAt)
	if h.denylist != nil {
		if err := h.denylist.Deny(c.Request.Context(), meta.ID, ttl); err != nil {
			h.logger.Error("deny token failed", slog.String("jti", meta.ID), slog.String("error", err.Error()))
			_ = c.Error(httperr.Internal("logout failed"))
			return
		}
	}

	c.JSON(200, gin.H{"message": "logged out"})
}

// issueToken 为用户签发 HS256 访问令牌。
func (h *Handler) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
		},
		Name: user.Name,
		Role: user.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rahulmathews/cutshort-api/internal/api/auth"
	"github.com/rahulmathews/cutshort-api/internal/api/middleware"
	"github.com/rahulmathews/cutshort-api/internal/config"
	"github.com/rahulmathews/cutshort-api/internal/model"
	"github.com/rahulmathews/cutshort-api/internal/pkg/httperr"
	"github.com/rahulmathews/cutshort-api/internal/pkg/metrics"
	"github.com/rahulmathews/cutshort-api/internal/pkg/ratelimit"
	"github.com/rahulmathews/cutshort-api/internal/pkg/tokendeny"
	"github.com/rahulmathews/cutshort-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Server 封装了 API 服务所需的依赖和路由处理。
//
// 它持有数据库连接、Redis 客户端以及 Gin 路由引擎；各资源的
// 数据访问通过接口注入，便于在测试中替换。
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
	rdb    *redis.Client
	router *gin.Engine
	auth   *auth.Handler

	todos    TodoStore
	posts    PostStore
	comments CommentStore
	users    UserStore
}

// TodoStore 待办数据访问接口。
type TodoStore interface {
	CreateTodo(ctx context.Context, todo *model.Todo) error
	ListTodos(ctx context.Context, sc store.Scope, page, limit int) ([]model.Todo, error)
	UpdateTodo(ctx context.Context, sc store.Scope, updates map[string]interface{}) (int64, error)
	DeleteTodo(ctx context.Context, sc store.Scope) (int64, error)
}

// PostStore 帖子数据访问接口。
type PostStore interface {
	CreatePost(ctx context.Context, post *model.Post) error
	ListPosts(ctx context.Context, sc store.Scope, page, limit int) ([]model.Post, error)
	UpdatePost(ctx context.Context, sc store.Scope, updates map[string]interface{}) (int64, error)
}

// CommentStore 评论数据访问接口。
type CommentStore interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	ListComments(ctx context.Context, sc store.Scope, page, limit int) ([]model.Comment, error)
	UpdateComment(ctx context.Context, sc store.Scope, updates map[string]interface{}) (int64, error)
}

// UserStore 用户数据访问接口（管理员路由使用）。
type UserStore interface {
	ListUsers(ctx context.Context, page, limit int) ([]model.User, error)
	UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) (*model.User, error)
}

// NewServer 初始化 API 服务器。
//
// 它负责：
// 1. 连接 MySQL 数据库并执行自动迁移
// 2. 连接 Redis
// 3. 初始化 Gin 路由引擎与中间件链
//
// 参数:
//
//	ctx: 上下文
//	cfg: 配置对象
//	logger: 日志记录器
//
// 返回值:
//
//	*Server: 初始化完成的服务器实例
//	error: 初始化失败返回错误
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent), // 关闭GORM调试日志
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Todo{}, &model.Post{}, &model.Comment{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	metrics.InitMetrics()

	st := store.New(db)
	denylist := tokendeny.NewDenylist(rdb)
	loginLimiter := ratelimit.NewFixedWindowLimiter(rdb, "cutshort:ratelimit:login:", cfg.App.LoginRateLimit, cfg.App.LoginRateWindow)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.ErrorHandler(logger))

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		rdb:      rdb,
		router:   r,
		auth:     auth.NewHandler(st, loginLimiter, denylist, cfg.Security.JWTSecret, cfg.App.TokenTTL, logger),
		todos:    st,
		posts:    st,
		comments: st,
		users:    st,
	}
	s.registerRoutes(middleware.AuthMiddleware(cfg.Security.JWTSecret, st, denylist))
	return s, nil
}

// Router 返回 HTTP 路由处理器。
func (s *Server) Router() http.Handler {
	return s.router
}

// Close 关闭数据库与缓存连接。
func (s *Server) Close() error {
	var firstErr error
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			firstErr = err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else {
			if closeErr := sqlDB.Close(); closeErr != nil {
				if firstErr == nil {
					firstErr = closeErr
				}
			}
		}
	}
	return firstErr
}

// registerRoutes 注册所有的 API 路由。
func (s *Server) registerRoutes(authed gin.HandlerFunc) {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/healthz", s.handleHealthz)
	s.router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	authGroup := s.router.Group("/auth")
	authGroup.POST("/signup", s.auth.Signup)
	authGroup.POST("/login", s.auth.Login)
	authGroup.POST("/logout", authed, s.auth.Logout)

	todo := s.router.Group("/todo", authed)
	todo.GET("", s.handleListTodos)
	todo.POST("", s.handleCreateTodo)
	todo.POST("/:id", s.handleUpdateTodo)
	todo.DELETE("/:id", s.handleDeleteTodo)

	post := s.router.Group("/post", authed)
	post.GET("", s.handleListPosts)
	post.POST("", s.handleCreatePost)
	post.POST("/:id", s.handleUpdatePost)

	comment := s.router.Group("/comment", authed)
	comment.GET("", s.handleListComments)
	comment.POST("", s.handleCreateComment)
	comment.POST("/:id", s.handleUpdateComment)

	user := s.router.Group("/user", authed, middleware.AdminOnly())
	user.GET("", s.handleListUsers)
	user.POST("/:id", s.handleUpdateUser)

	s.router.NoRoute(func(c *gin.Context) {
		_ = c.Error(httperr.NotFound("Not Found"))
	})
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// viewer 从请求上下文取出作用域视角。
func viewer(c *gin.Context) store.Viewer {
	ident, _ := auth.IdentityFrom(c)
	return store.Viewer{UserID: ident.UserID, Admin: ident.IsAdmin()}
}

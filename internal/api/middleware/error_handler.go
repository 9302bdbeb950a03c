package middleware

import (
	"log/slog"

	"github.com/rahulmathews/cutshort-api/internal/pkg/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler 是统一的错误出口。
//
// 处理器与中间件通过 c.Error 上报失败，这里取链上最后一个错误，
// 记录日志并按错误声明的状态码输出 {message}。客户端永远看不到
// 堆栈或内部细节。
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := httperr.StatusOf(err)

		if logger != nil {
			logger.Error("request failed",
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.Int("status", status),
				slog.String("error", err.Error()),
			)
		}

		c.JSON(status, gin.H{"message": httperr.MessageOf(err)})
	}
}

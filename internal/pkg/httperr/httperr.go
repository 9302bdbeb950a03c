// Package httperr 提供携带 HTTP 状态码的错误类型。
//
// 控制器不直接写错误响应，而是把 *Error 交给统一的错误处理
// 中间件，由它决定状态码与 {message} 响应体。
package httperr

import (
	"errors"
	"net/http"
)

// Error 是带状态码的请求级错误。
type Error struct {
	Status  int    // HTTP 状态码
	Message string // 返回给客户端的消息（绝不包含堆栈）
}

func (e *Error) Error() string {
	return e.Message
}

// New 创建指定状态码的错误。
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// BadRequest 400 错误。
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Unauthorized 401 错误（认证或角色校验失败）。
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// NotFound 404 错误。
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// TooManyRequests 429 错误。
func TooManyRequests(message string) *Error {
	return New(http.StatusTooManyRequests, message)
}

// Internal 500 错误。
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

// StatusOf 提取错误声明的状态码，未声明时为 500。
func StatusOf(err error) int {
	var he *Error
	if errors.As(err, &he) {
		return he.Status
	}
	return http.StatusInternalServerError
}

// MessageOf 提取返回给客户端的消息。
func MessageOf(err error) string {
	var he *Error
	if errors.As(err, &he) {
		return he.Message
	}
	if err != nil {
		return err.Error()
	}
	return http.StatusText(http.StatusInternalServerError)
}

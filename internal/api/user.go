package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rahulmathews/cutshort-api/internal/model"
	"github.com/rahulmathews/cutshort-api/internal/pkg/httperr"
	"github.com/rahulmathews/cutshort-api/internal/store"

	"github.com/gin-gonic/gin"
)

type updateUserRequest struct {
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// handleListUsers 分页返回全部用户，密码字段不输出。
//
// GET /user（仅管理员）
func (s *Server) handleListUsers(c *gin.Context) {
	page, limit := store.ParsePage(c.Query("page"), c.Query("limit"))

	users, err := s.users.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		s.logger.Error("list users failed", slog.String("error", err.Error()))
		_ = c.Error(httperr.Internal("list users failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":        users,
		"current_page": page,
	})
}

// handleUpdateUser 更新用户邮箱或角色。
//
// POST /user/:id（仅管理员）
func (s *Server) handleUpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httperr.BadRequest(err.Error()))
		return
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if email == "" {
			_ = c.Error(httperr.BadRequest("invalid email"))
			return
		}
		updates["email"] = email
	}
	if req.Role != nil {
		if *req.Role != model.RoleAdmin && *req.Role != model.RoleUser {
			_ = c.Error(httperr.BadRequest("invalid role"))
			return
		}
		updates["role"] = *req.Role
	}
	if len(updates) == 0 {
		_ = c.Error(httperr.BadRequest("no updates"))
		return
	}

	user, err := s.users.UpdateUser(c.Request.Context(), id, updates)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = c.Error(httperr.NotFound("user not found"))
			return
		}
		s.logger.Error("update user failed", slog.String("error", err.Error()))
		_ = c.Error(httperr.Internal("update user failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully updated",
		"user":    user,
	})
}

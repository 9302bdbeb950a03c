package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rahulmathews/cutshort-api/internal/model"
	"github.com/rahulmathews/cutshort-api/internal/pkg/httperr"
	"github.com/rahulmathews/cutshort-api/internal/store"

	"github.com/gin-gonic/gin"
)

type createCommentRequest struct {
	Text   string `json:"text" binding:"required"`
	PostID uint   `json:"postId" binding:"required"`
}

type updateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// handleCreateComment 在目标帖子下创建评论。
//
// POST /comment
func (s *Server) handleCreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httperr.BadRequest(err.Error()))
		return
	}

	v := viewer(c)
	comment := model.Comment{
		Text:     req.Text,
		AuthorID: v.UserID,
		PostID:   req.PostID,
	}
	if err := s.comments.CreateComment(c.Request.Context(), &comment); err != nil {
		s.logger.Error("create comment failed", slog.String("error", err.Error()))
		_ = c.Error(httperr.Internal("create comment failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully created",
		"comment": comment,
	})
}

// handleListComments 返回作用域内的评论列表，可按帖子过滤。
//
// GET /comment?page=1&limit=10&search=xxx&postId=1
func (s *Server) handleListComments(c *gin.Context) {
	page, limit := store.ParsePage(c.Query("page"), c.Query("limit"))

	var postID uint
	if raw := c.Query("postId"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			_ = c.Error(httperr.BadRequest("invalid postId"))
			return
		}
		postID = uint(v)
	}

	sc := store.ListScope(viewer(c), c.Query("search"), postID)

	comments, err := s.comments.ListComments(c.Request.Context(), sc, page, limit)
	if err != nil {
		s.logger.Error("list comments failed", slog.String("error", err.Error()))
		_ = c.Error(httperr.Internal("list comments failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":     comments,
		"current_page": page,
	})
}

// handleUpdateComment 按作用域更新评论内容。
//
// POST /comment/:id
func (s *Server) handleUpdateComment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httperr.BadRequest(err.Error()))
		return
	}

	rows, err := s.comments.UpdateComment(c.Request.Context(), store.MutationScope(viewer(c), id), map[string]interface{}{
		"text": req.Text,
	})
	if err != nil {
		s.logger.Error("update comment failed", slog.String("error", err.Error()))
		_ = c.Error(httperr.Internal("update comment failed"))
		return
	}
	s.noteScopedWrite(c, "comment", id, rows)

	c.JSON(http.StatusOK, gin.H{"message": "Successfully updated"})
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/rahulmathews/cutshort-api/internal/model"
	"github.com/rahulmathews/cutshort-api/internal/pkg/httperr"
	"github.com/rahulmathews/cutshort-api/internal/store"

	"github.com/gin-gonic/gin"
)

type createPostRequest struct {
	Text string `json:"text" binding:"required"`
}

type updatePostRequest struct {
	Text string `json:"text" binding:"required"`
}

// handleCreatePost 创建帖子。
//
// POST /post
func (s *Server) handleCreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httperr.BadRequest(err.Error()))
		return
	}

	v := viewer(c)
	post := model.Post{
		Text:     req.Text,
		AuthorID: v.UserID,
	}
	if err := s.posts.CreatePost(c.Request.Context(), &post); err != nil {
		s.logger.Error("create post failed", slog.String("error", err.Error()))
		_ = c.Error(httperr.Internal("create post failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully created",
		"post":    post,
	})
}

// handleListPosts 返回作用域内的帖子列表。
//
// GET /post?page=1&limit=10&search=xxx
func (s *Server) handleListPosts(c *gin.Context) {
	page, limit := store.ParsePage(c.Query("page"), c.Query("limit"))
	sc := store.ListScope(viewer(c), c.Query("search"), 0)

	posts, err := s.posts.ListPosts(c.Request.Context(), sc, page, limit)
	if err != nil {
		s.logger.Error("list posts failed", slog.String("error", err.Error()))
		_ = c.Error(httperr.Internal("list posts failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":        posts,
		"current_page": page,
	})
}

// handleUpdatePost 按作用域更新帖子正文。
//
// POST /post/:id
func (s *Server) handleUpdatePost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(httperr.BadRequest(err.Error()))
		return
	}

	rows, err := s.posts.UpdatePost(c.Request.Context(), store.MutationScope(viewer(c), id), map[string]interface{}{
		"text": req.Text,
	})
	if err != nil {
		s.logger.Error("update post failed", slog.String("error", err.Error()))
		_ = c.Error(httperr.Internal("update post failed"))
		return
	}
	s.noteScopedWrite(c, "post", id, rows)

	c.JSON(http.StatusOK, gin.H{"message": "Successfully updated"})
}

package store

import (
	"context"
	"errors"

	"github.com/rahulmathews/cutshort-api/internal/model"

	"gorm.io/gorm"
)

// ErrNotFound 表示目标行不存在。
var ErrNotFound = errors.New("record not found")

// Store 是 gorm 实现的数据访问层。
type Store struct {
	db *gorm.DB
}

// New 创建 Store。
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ---- users ----

// CreateUser 创建用户，邮箱冲突时返回底层错误。
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// FindUser 按 ID 查找用户。
func (s *Store) FindUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail 按邮箱查找用户。
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers 分页返回全部用户（仅管理员路由可达，无作用域限制）。
func (s *Store) ListUsers(ctx context.Context, page, limit int) ([]model.User, error) {
	users := []model.User{}
	err := s.db.WithContext(ctx).
		Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, err
}

// UpdateUser 更新用户邮箱/角色并返回更新后的行。
func (s *Store) UpdateUser(ctx context.Context, id uint, updates map[string]interface{}) (*model.User, error) {
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.FindUser(ctx, id)
}

// ---- todos ----

// CreateTodo 创建待办。
func (s *Store) CreateTodo(ctx context.Context, todo *model.Todo) error {
	return s.db.WithContext(ctx).Create(todo).Error
}

// ListTodos 按作用域分页返回待办，保持插入顺序。
func (s *Store) ListTodos(ctx context.Context, sc Scope, page, limit int) ([]model.Todo, error) {
	todos := []model.Todo{}
	err := sc.Apply(s.db.WithContext(ctx).Model(&model.Todo{})).
		Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&todos).Error
	return todos, err
}

// UpdateTodo 按作用域批量更新，返回命中的行数。
func (s *Store) UpdateTodo(ctx context.Context, sc Scope, updates map[string]interface{}) (int64, error) {
	res := sc.Apply(s.db.WithContext(ctx).Model(&model.Todo{})).Updates(updates)
	return res.RowsAffected, res.Error
}

// DeleteTodo 按作用域批量删除，返回命中的行数。
func (s *Store) DeleteTodo(ctx context.Context, sc Scope) (int64, error) {
	res := sc.Apply(s.db.WithContext(ctx)).Delete(&model.Todo{})
	return res.RowsAffected, res.Error
}

// ---- posts ----

// CreatePost 创建帖子。
func (s *Store) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

// ListPosts 按作用域分页返回帖子。
func (s *Store) ListPosts(ctx context.Context, sc Scope, page, limit int) ([]model.Post, error) {
	posts := []model.Post{}
	err := sc.Apply(s.db.WithContext(ctx).Model(&model.Post{})).
		Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// UpdatePost 按作用域批量更新，返回命中的行数。
func (s *Store) UpdatePost(ctx context.Context, sc Scope, updates map[string]interface{}) (int64, error) {
	res := sc.Apply(s.db.WithContext(ctx).Model(&model.Post{})).Updates(updates)
	return res.RowsAffected, res.Error
}

// ---- comments ----

// CreateComment 创建评论，需要作者与目标帖子。
func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

// ListComments 按作用域分页返回评论。
func (s *Store) ListComments(ctx context.Context, sc Scope, page, limit int) ([]model.Comment, error) {
	comments := []model.Comment{}
	err := sc.Apply(s.db.WithContext(ctx).Model(&model.Comment{})).
		Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// UpdateComment 按作用域批量更新，返回命中的行数。
func (s *Store) UpdateComment(ctx context.Context, sc Scope, updates map[string]interface{}) (int64, error) {
	res := sc.Apply(s.db.WithContext(ctx).Model(&model.Comment{})).Updates(updates)
	return res.RowsAffected, res.Error
}

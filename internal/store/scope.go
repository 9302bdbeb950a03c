// Package store 封装对 MySQL 的数据访问。
//
// 核心是作用域过滤：所有读写查询都先经过 Scope，保证非管理员
// 永远只能命中 author_id 等于自己的行。原来分散在各资源控制器
// 里的四段几乎相同的条件拼接在这里统一成一个构造器。
package store

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// 分页默认值。page/limit 来自文本查询参数，缺失或非法时回退到这里。
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Viewer 描述发起请求的调用者。
type Viewer struct {
	UserID uint // 调用者用户 ID
	Admin  bool // 是否管理员（绕过所有权限制）
}

// ParsePage 解析文本形式的 page/limit。
//
// 非数字、缺失或非正数一律回退默认值；offset = (page-1)*limit。
func ParsePage(pageStr, limitStr string) (page, limit int) {
	page = DefaultPage
	limit = DefaultLimit
	if v, err := strconv.Atoi(pageStr); err == nil && v >= 1 {
		page = v
	}
	if v, err := strconv.Atoi(limitStr); err == nil && v >= 1 {
		limit = v
	}
	return page, limit
}

// Scope 是一次查询的声明式过滤条件，所有存在的条件按 AND 组合。
//
// 零值字段表示条件不存在；AuthorID 例外，它由 HasAuthor 显式开关，
// 0 也是合法的限制值（命中不了任何行，而不是放开限制）。
// 它是纯数据，便于脱离数据库做断言。
type Scope struct {
	Search    string // 大小写不敏感的子串匹配（text 字段）
	PostID    uint   // 外键过滤：目标帖子 ID（仅评论使用）
	AuthorID  uint   // 所有权限制：author_id 必须等于该值
	HasAuthor bool   // 是否施加 AuthorID 限制
	RowID     uint   // 行 ID 等值（变更操作使用）
}

// ListScope 组合列表查询的过滤条件。
//
// 保证：管理员的 Scope 永远不带 AuthorID 限制（全局可见），
// 非管理员永远带（只见自己的行），与其它条件是否存在无关。
func ListScope(v Viewer, search string, postID uint) Scope {
	s := Scope{
		Search: strings.TrimSpace(search),
		PostID: postID,
	}
	if !v.Admin {
		s.AuthorID = v.UserID
		s.HasAuthor = true
	}
	return s
}

// MutationScope 组合更新/删除的过滤条件：行 ID 等值，且非管理员
// 附加 author_id 等值。不满足时底层批量更新/删除命中 0 行，不报错。
func MutationScope(v Viewer, rowID uint) Scope {
	s := Scope{RowID: rowID}
	if !v.Admin {
		s.AuthorID = v.UserID
		s.HasAuthor = true
	}
	return s
}

// likeEscaper 转义 LIKE 的元字符，让搜索词按字面子串匹配。
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Apply 将 Scope 翻译成 gorm 查询条件。
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	if s.RowID != 0 {
		db = db.Where("id = ?", s.RowID)
	}
	if s.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(s.Search)) + "%"
		db = db.Where("LOWER(text) LIKE ?", pattern)
	}
	if s.PostID != 0 {
		db = db.Where("post_id = ?", s.PostID)
	}
	if s.HasAuthor {
		db = db.Where("author_id = ?", s.AuthorID)
	}
	return db
}

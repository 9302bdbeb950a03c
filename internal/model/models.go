package model

import "time"

// Todo 状态常量。
const (
	StatusTodo = "TODO"
	StatusDone = "DONE"
)

// Todo 表示一条待办事项。
//
// 每条待办都归属于创建它的用户（AuthorID），非管理员只能看到和
// 修改自己的待办。
type Todo struct {
	ID        uint      `gorm:"primaryKey" json:"id"` // 待办唯一标识
	CreatedAt time.Time `json:"created_at"`           // 创建时间
	UpdatedAt time.Time `json:"updated_at"`           // 更新时间

	Text   string `gorm:"not null" json:"text"`                      // 待办内容
	Status string `gorm:"type:varchar(16);default:TODO" json:"status"` // 状态: TODO / DONE

	AuthorID uint `gorm:"not null;index" json:"author_id"`  // 所属用户 ID
	Author   User `gorm:"foreignKey:AuthorID" json:"-"`     // 所属用户
}

// Post 表示一篇帖子。所有权规则与 Todo 相同。
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"` // 帖子唯一标识
	CreatedAt time.Time `json:"created_at"`           // 创建时间
	UpdatedAt time.Time `json:"updated_at"`           // 更新时间

	Text string `gorm:"not null" json:"text"` // 帖子正文

	AuthorID uint `gorm:"not null;index" json:"author_id"` // 作者用户 ID
	Author   User `gorm:"foreignKey:AuthorID" json:"-"`    // 作者

	Comments []Comment `gorm:"foreignKey:PostID" json:"-"` // 帖子下的评论
}

// Comment 表示帖子下的一条评论。
//
// 除了作者外还关联到目标帖子（PostID），列表接口可按帖子过滤。
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"` // 评论唯一标识
	CreatedAt time.Time `json:"created_at"`           // 创建时间
	UpdatedAt time.Time `json:"updated_at"`           // 更新时间

	Text string `gorm:"not null" json:"text"` // 评论内容

	AuthorID uint `gorm:"not null;index" json:"author_id"` // 作者用户 ID
	Author   User `gorm:"foreignKey:AuthorID" json:"-"`    // 作者

	PostID uint `gorm:"not null;index" json:"post_id"` // 目标帖子 ID
	Post   Post `gorm:"foreignKey:PostID" json:"-"`    // 目标帖子
}

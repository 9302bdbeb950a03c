package model

import "time"

// 角色常量。ADMIN 拥有全局可见性，USER 只能访问自己的数据。
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User 表示系统用户。
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                       // 用户 ID
	Email     string    `gorm:"type:varchar(191);uniqueIndex" json:"email"` // 邮箱（唯一）
	Password  string    `gorm:"not null" json:"-"`                          // bcrypt 哈希，永不输出
	Name      string    `gorm:"type:varchar(191)" json:"name"`              // 显示名称
	Role      string    `gorm:"type:varchar(16);default:USER" json:"role"`  // 角色: ADMIN / USER
	CreatedAt time.Time `json:"created_at"`                                 // 创建时间

	Todos    []Todo    `gorm:"foreignKey:AuthorID" json:"-"`
	Posts    []Post    `gorm:"foreignKey:AuthorID" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}

// IsAdmin 判断用户是否为管理员。
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

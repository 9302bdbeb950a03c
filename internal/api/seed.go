package api

import (
	"context"
	"errors"

	"github.com/rahulmathews/cutshort-api/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// demoPassword 是所有演示账号共用的明文密码。
const demoPassword = "PA$$Word@234"

// demoUsers 演示账号清单：两个管理员 + 若干普通用户。
var demoUsers = []model.User{
	{Email: "something123@gmail.com", Name: "Something 123", Role: model.RoleAdmin},
	{Email: "something652@gmail.com", Name: "Something 652", Role: model.RoleAdmin},
	{Email: "somethingabc@gmail.com", Name: "Something abc", Role: model.RoleUser},
	{Email: "something982@gmail.com", Name: "Something 982", Role: model.RoleUser},
	{Email: "something672@gmail.com", Name: "Something 672", Role: model.RoleUser},
	{Email: "something452@gmail.com", Name: "Something 452", Role: model.RoleUser},
	{Email: "something723@gmail.com", Name: "Something 723", Role: model.RoleUser},
	{Email: "something902@gmail.com", Name: "Something 902", Role: model.RoleUser},
}

// SeedDemoData 写入演示账号，可重复执行（已存在的账号跳过）。
func (s *Server) SeedDemoData(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for _, seed := range demoUsers {
		var existing model.User
		err := s.db.WithContext(ctx).Where("email = ?", seed.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user := model.User{
			Email:    seed.Email,
			Password: string(hash),
			Name:     seed.Name,
			Role:     seed.Role,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return err
		}
	}

	return nil
}

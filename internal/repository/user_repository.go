package repository

import (
	"path_advisor_backend/internal/model"

	"gorm.io/gorm"
)

// UserRepository 处理用户的数据访问

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create 创建新用户
func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

// Update 更新用户信息
func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// FindByID 根据ID查找用户
func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

// ExistsByEmail 判断邮箱是否已注册
func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

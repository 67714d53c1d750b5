package repository

import (
	"path_advisor_backend/internal/model"

	"gorm.io/gorm"
)

// PathRepository 处理候选路径的数据访问

type PathRepository struct {
	DB *gorm.DB
}

func NewPathRepository(db *gorm.DB) *PathRepository {
	return &PathRepository{DB: db}
}

// Create 创建新路径
func (r *PathRepository) Create(path *model.DecisionPath) error {
	return r.DB.Create(path).Error
}

// Update 更新路径
func (r *PathRepository) Update(path *model.DecisionPath) error {
	return r.DB.Save(path).Error
}

// Delete 删除路径
func (r *PathRepository) Delete(id uint) error {
	return r.DB.Delete(&model.DecisionPath{}, id).Error
}

// FindByID 根据主键查找路径
func (r *PathRepository) FindByID(id uint) (*model.DecisionPath, error) {
	var path model.DecisionPath
	err := r.DB.First(&path, id).Error
	return &path, err
}

// FindByOwner 获取用户的全部路径
func (r *PathRepository) FindByOwner(ownerID uint) ([]model.DecisionPath, error) {
	var paths []model.DecisionPath
	err := r.DB.Where("owner_id = ?", ownerID).Order("updated_at DESC").Find(&paths).Error
	return paths, err
}

// FindEnabledByOwner 获取用户启用中的路径，作为分析的候选集
func (r *PathRepository) FindEnabledByOwner(ownerID uint) ([]model.DecisionPath, error) {
	var paths []model.DecisionPath
	err := r.DB.Where("owner_id = ? AND enabled = ?", ownerID, true).Order("created_at").Find(&paths).Error
	return paths, err
}

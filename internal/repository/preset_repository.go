package repository

import (
	"path_advisor_backend/internal/model"

	"gorm.io/gorm"
)

// PresetRepository 处理权重预设的数据访问

type PresetRepository struct {
	DB *gorm.DB
}

func NewPresetRepository(db *gorm.DB) *PresetRepository {
	return &PresetRepository{DB: db}
}

// FindAll 获取全部权重预设
func (r *PresetRepository) FindAll() ([]model.WeightPreset, error) {
	var presets []model.WeightPreset
	err := r.DB.Order("id").Find(&presets).Error
	return presets, err
}

// FindByName 根据名称查找预设
func (r *PresetRepository) FindByName(name string) (*model.WeightPreset, error) {
	var preset model.WeightPreset
	err := r.DB.Where("name = ?", name).First(&preset).Error
	return &preset, err
}

// FindDefault 获取默认预设
func (r *PresetRepository) FindDefault() (*model.WeightPreset, error) {
	var preset model.WeightPreset
	err := r.DB.Where("is_default = ?", true).First(&preset).Error
	return &preset, err
}

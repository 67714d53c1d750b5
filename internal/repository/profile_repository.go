package repository

import (
	"path_advisor_backend/internal/model"

	"gorm.io/gorm"
)

// ProfileRepository 处理决策画像及其历史版本的数据访问

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// Create 创建画像并写入第一条版本快照
func (r *ProfileRepository) Create(profile *model.DecisionProfile, snapshot string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		profile.CurrentVersion = 1
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		version := model.ProfileVersion{
			ProfileID:    profile.ID,
			Version:      1,
			SnapshotJSON: snapshot,
		}
		return tx.Create(&version).Error
	})
}

// Update 更新画像，版本号递增并追加版本快照
func (r *ProfileRepository) Update(profile *model.DecisionProfile, snapshot string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		profile.CurrentVersion++
		if err := tx.Save(profile).Error; err != nil {
			return err
		}
		version := model.ProfileVersion{
			ProfileID:    profile.ID,
			Version:      profile.CurrentVersion,
			SnapshotJSON: snapshot,
		}
		return tx.Create(&version).Error
	})
}

// Delete 删除画像及其全部历史版本
func (r *ProfileRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", id).Delete(&model.ProfileVersion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.DecisionProfile{}, id).Error
	})
}

// FindByID 根据ID查找画像
func (r *ProfileRepository) FindByID(id uint) (*model.DecisionProfile, error) {
	var profile model.DecisionProfile
	err := r.DB.First(&profile, id).Error
	return &profile, err
}

// FindByIDAndOwner 根据ID和所有者查找画像
func (r *ProfileRepository) FindByIDAndOwner(id, ownerID uint) (*model.DecisionProfile, error) {
	var profile model.DecisionProfile
	err := r.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&profile).Error
	return &profile, err
}

// FindByOwner 获取用户的全部画像
func (r *ProfileRepository) FindByOwner(ownerID uint) ([]model.DecisionProfile, error) {
	var profiles []model.DecisionProfile
	err := r.DB.Where("owner_id = ?", ownerID).Order("updated_at DESC").Find(&profiles).Error
	return profiles, err
}

// FindVersions 获取画像的历史版本列表
func (r *ProfileRepository) FindVersions(profileID uint) ([]model.ProfileVersion, error) {
	var versions []model.ProfileVersion
	err := r.DB.Where("profile_id = ?", profileID).Order("version DESC").Find(&versions).Error
	return versions, err
}

// FindVersion 获取画像的指定历史版本
func (r *ProfileRepository) FindVersion(profileID uint, version int) (*model.ProfileVersion, error) {
	var v model.ProfileVersion
	err := r.DB.Where("profile_id = ? AND version = ?", profileID, version).First(&v).Error
	return &v, err
}

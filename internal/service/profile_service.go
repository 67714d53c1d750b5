package service

import (
	"encoding/json"
	"errors"

	"path_advisor_backend/internal/engine"
	"path_advisor_backend/internal/model"
	"path_advisor_backend/internal/repository"
	"path_advisor_backend/internal/util"

	"gorm.io/gorm"
)

// ProfileService 管理决策画像及其不可变历史版本

type ProfileService struct {
	ProfileRepo *repository.ProfileRepository
}

func NewProfileService(profileRepo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{ProfileRepo: profileRepo}
}

// Create 校验画像后落库，同时写入版本 1 的快照
func (s *ProfileService) Create(ownerID uint, name string, in engine.Profile) (*model.DecisionProfile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	profile := &model.DecisionProfile{OwnerID: ownerID, Name: name}
	if err := profile.ApplyEngine(in); err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	if err := s.ProfileRepo.Create(profile, string(snapshot)); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update 校验后覆盖画像内容，版本号递增并追加历史快照
func (s *ProfileService) Update(id, ownerID uint, name string, in engine.Profile) (*model.DecisionProfile, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.ProfileRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}

	if name != "" {
		profile.Name = name
	}
	if err := profile.ApplyEngine(in); err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	if err := s.ProfileRepo.Update(profile, string(snapshot)); err != nil {
		return nil, err
	}
	return profile, nil
}

// Delete 删除画像及其历史版本
func (s *ProfileService) Delete(id, ownerID uint) error {
	if _, err := s.ProfileRepo.FindByIDAndOwner(id, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrProfileNotFound
		}
		return err
	}
	return s.ProfileRepo.Delete(id)
}

// Get 获取画像及其计算层视图
func (s *ProfileService) Get(id, ownerID uint) (*model.DecisionProfile, engine.Profile, error) {
	profile, err := s.ProfileRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, engine.Profile{}, util.ErrProfileNotFound
		}
		return nil, engine.Profile{}, err
	}
	view, err := profile.ToEngine()
	if err != nil {
		return nil, engine.Profile{}, err
	}
	return profile, view, nil
}

// List 获取用户的全部画像
func (s *ProfileService) List(ownerID uint) ([]model.DecisionProfile, error) {
	return s.ProfileRepo.FindByOwner(ownerID)
}

// Versions 获取画像的历史版本列表
func (s *ProfileService) Versions(id, ownerID uint) ([]model.ProfileVersion, error) {
	if _, err := s.ProfileRepo.FindByIDAndOwner(id, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProfileNotFound
		}
		return nil, err
	}
	return s.ProfileRepo.FindVersions(id)
}

// VersionSnapshot 获取指定历史版本的画像快照
func (s *ProfileService) VersionSnapshot(id, ownerID uint, version int) (engine.Profile, error) {
	if _, err := s.ProfileRepo.FindByIDAndOwner(id, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return engine.Profile{}, util.ErrProfileNotFound
		}
		return engine.Profile{}, err
	}

	v, err := s.ProfileRepo.FindVersion(id, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return engine.Profile{}, util.ErrProfileNotFound
		}
		return engine.Profile{}, err
	}

	var out engine.Profile
	if err := json.Unmarshal([]byte(v.SnapshotJSON), &out); err != nil {
		return engine.Profile{}, err
	}
	return out, nil
}

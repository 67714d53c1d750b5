package service

import (
	"errors"

	"path_advisor_backend/internal/engine"
	"path_advisor_backend/internal/model"
	"path_advisor_backend/internal/repository"
	"path_advisor_backend/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PathService 管理候选路径

type PathService struct {
	PathRepo *repository.PathRepository
}

func NewPathService(pathRepo *repository.PathRepository) *PathService {
	return &PathService{PathRepo: pathRepo}
}

// Create 校验后创建路径。PathID 为空时自动生成
func (s *PathService) Create(ownerID uint, in engine.Path) (*model.DecisionPath, error) {
	if in.PathID == "" {
		in.PathID = uuid.New().String()
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	path := &model.DecisionPath{OwnerID: ownerID, Enabled: true}
	if err := path.ApplyEngine(in); err != nil {
		return nil, err
	}
	if err := s.PathRepo.Create(path); err != nil {
		return nil, err
	}
	return path, nil
}

// Update 校验后覆盖路径内容
func (s *PathService) Update(id, ownerID uint, in engine.Path) (*model.DecisionPath, error) {
	path, err := s.findOwned(id, ownerID)
	if err != nil {
		return nil, err
	}

	if in.PathID == "" {
		in.PathID = path.PathID
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := path.ApplyEngine(in); err != nil {
		return nil, err
	}
	if err := s.PathRepo.Update(path); err != nil {
		return nil, err
	}
	return path, nil
}

// SetEnabled 启用/停用路径，停用的路径不参与分析
func (s *PathService) SetEnabled(id, ownerID uint, enabled bool) error {
	path, err := s.findOwned(id, ownerID)
	if err != nil {
		return err
	}
	path.Enabled = enabled
	return s.PathRepo.Update(path)
}

// Delete 删除路径
func (s *PathService) Delete(id, ownerID uint) error {
	if _, err := s.findOwned(id, ownerID); err != nil {
		return err
	}
	return s.PathRepo.Delete(id)
}

// Get 获取路径及其计算层视图
func (s *PathService) Get(id, ownerID uint) (*model.DecisionPath, engine.Path, error) {
	path, err := s.findOwned(id, ownerID)
	if err != nil {
		return nil, engine.Path{}, err
	}
	view, err := path.ToEngine()
	if err != nil {
		return nil, engine.Path{}, err
	}
	return path, view, nil
}

// List 获取用户的全部路径
func (s *PathService) List(ownerID uint) ([]model.DecisionPath, error) {
	return s.PathRepo.FindByOwner(ownerID)
}

func (s *PathService) findOwned(id, ownerID uint) (*model.DecisionPath, error) {
	path, err := s.PathRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPathNotFound
		}
		return nil, err
	}
	if path.OwnerID != ownerID {
		return nil, util.ErrPermissionDenied
	}
	return path, nil
}

package repository

import (
	"path_advisor_backend/internal/model"

	"gorm.io/gorm"
)

// ReportRepository 处理分析报告的数据访问

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

// Create 落库分析报告
func (r *ReportRepository) Create(report *model.AnalysisReport) error {
	return r.DB.Create(report).Error
}

// UpdateArchiveURL 归档完成后回写下载地址
func (r *ReportRepository) UpdateArchiveURL(id uint, url string) error {
	return r.DB.Model(&model.AnalysisReport{}).
		Where("id = ?", id).
		Update("archive_url", url).Error
}

// FindByID 根据ID查找报告
func (r *ReportRepository) FindByID(id uint) (*model.AnalysisReport, error) {
	var report model.AnalysisReport
	err := r.DB.First(&report, id).Error
	return &report, err
}

// FindByIDAndOwner 根据ID和所有者查找报告
func (r *ReportRepository) FindByIDAndOwner(id, ownerID uint) (*model.AnalysisReport, error) {
	var report model.AnalysisReport
	err := r.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&report).Error
	return &report, err
}

// FindByOwner 获取用户的报告列表，按创建时间倒序
func (r *ReportRepository) FindByOwner(ownerID uint, limit int) ([]model.AnalysisReport, error) {
	var reports []model.AnalysisReport
	q := r.DB.Where("owner_id = ?", ownerID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&reports).Error
	return reports, err
}

// FindLatestByProfile 获取画像最近一次分析报告
func (r *ReportRepository) FindLatestByProfile(profileID uint) (*model.AnalysisReport, error) {
	var report model.AnalysisReport
	err := r.DB.Where("profile_id = ?", profileID).Order("created_at DESC").First(&report).Error
	return &report, err
}

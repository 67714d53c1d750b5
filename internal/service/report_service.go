package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"path_advisor_backend/internal/model"
	"path_advisor_backend/internal/repository"
	"path_advisor_backend/internal/util"

	"gorm.io/gorm"
)

// ReportService 查询与归档分析报告

type ReportService struct {
	ReportRepo *repository.ReportRepository
	Storage    *StorageService
}

func NewReportService(reportRepo *repository.ReportRepository, storage *StorageService) *ReportService {
	return &ReportService{
		ReportRepo: reportRepo,
		Storage:    storage,
	}
}

// List 获取用户的报告列表
func (s *ReportService) List(ownerID uint, limit int) ([]model.AnalysisReport, error) {
	return s.ReportRepo.FindByOwner(ownerID, limit)
}

// Latest 获取画像最近一次分析报告
func (s *ReportService) Latest(profileID, ownerID uint) (*model.AnalysisReport, *AnalysisResult, error) {
	report, err := s.ReportRepo.FindLatestByProfile(profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrReportNotFound
		}
		return nil, nil, err
	}
	if report.OwnerID != ownerID {
		return nil, nil, util.ErrPermissionDenied
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(report.ResultJSON), &result); err != nil {
		return nil, nil, err
	}
	return report, &result, nil
}

// Get 获取报告及其完整结果
func (s *ReportService) Get(id, ownerID uint) (*model.AnalysisReport, *AnalysisResult, error) {
	report, err := s.ReportRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrReportNotFound
		}
		return nil, nil, err
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(report.ResultJSON), &result); err != nil {
		return nil, nil, err
	}
	return report, &result, nil
}

// Archive 把报告完整结果导出为 JSON 归档文件并回写下载地址
func (s *ReportService) Archive(ctx context.Context, id, ownerID uint) (string, error) {
	report, err := s.ReportRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrReportNotFound
		}
		return "", err
	}

	if report.ArchiveURL != "" {
		return report.ArchiveURL, nil
	}

	data := []byte(report.ResultJSON)
	filename := fmt.Sprintf("reports/%d/%d_%s.json", ownerID, report.ID, time.Now().Format("20060102150405"))

	url, err := s.Storage.Upload(ctx, filename, bytes.NewReader(data), int64(len(data)), util.MimeJSON)
	if err != nil {
		return "", err
	}

	if err := s.ReportRepo.UpdateArchiveURL(report.ID, url); err != nil {
		return "", err
	}
	return url, nil
}

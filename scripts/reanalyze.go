// 手动触发全量重分析脚本
//
// 权重预设或评分规则调整后，已有报告不会自动刷新。
// 此脚本对每个画像以默认权重重新执行一次完整分析并落库新报告。
//
// 用法: go run scripts/reanalyze.go

package main

import (
	"context"
	"log"
	"os"

	"path_advisor_backend/internal/config"
	"path_advisor_backend/internal/model"
	"path_advisor_backend/internal/repository"
	"path_advisor_backend/internal/service"
	"path_advisor_backend/pkg/database"
	"path_advisor_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Printf("Redis 不可用，跳过缓存: %v", err)
		rdb = nil
	}

	profileRepo := repository.NewProfileRepository(db)
	pathRepo := repository.NewPathRepository(db)
	presetRepo := repository.NewPresetRepository(db)
	reportRepo := repository.NewReportRepository(db)
	taskGen := service.NewTaskGenService(cfg.AI)
	analysis := service.NewAnalysisService(profileRepo, pathRepo, presetRepo, reportRepo, taskGen, rdb, &cfg)

	var profiles []model.DecisionProfile
	if err := db.Find(&profiles).Error; err != nil {
		log.Fatalf("加载画像失败: %v", err)
	}

	log.Printf("开始重分析，共 %d 个画像...", len(profiles))

	ctx := context.Background()
	succeeded, failed := 0, 0
	for _, p := range profiles {
		result, err := analysis.Analyze(ctx, p.OwnerID, service.AnalysisRequest{
			ProfileID: p.ID,
			Force:     true,
		})
		if err != nil {
			log.Printf("画像 %d 分析失败: %v", p.ID, err)
			failed++
			continue
		}
		log.Printf("画像 %d 完成，报告 %d，降级=%v", p.ID, result.ReportID, result.Degraded)
		succeeded++
	}

	log.Printf("完成！成功 %d，失败 %d", succeeded, failed)
}

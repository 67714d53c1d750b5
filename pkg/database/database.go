package database

import (
	"fmt"
	"log"

	"path_advisor_backend/internal/config"
	"path_advisor_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.DecisionProfile{},
		&model.ProfileVersion{},
		&model.DecisionPath{},
		&model.AnalysisReport{},
		&model.WeightPreset{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 内置权重预设
	var count int64
	db.Model(&model.WeightPreset{}).Count(&count)
	if count == 0 {
		defaultPresets := []model.WeightPreset{
			{
				Name:                "balanced",
				Description:         "四个维度等权",
				SkillMatch:          0.25,
				ResourceFit:         0.25,
				TimelineFeasibility: 0.25,
				GoalAlignment:       0.25,
				IsDefault:           true,
			},
			{
				Name:                "skill_first",
				Description:         "侧重技能匹配，适合转行评估",
				SkillMatch:          0.40,
				ResourceFit:         0.20,
				TimelineFeasibility: 0.20,
				GoalAlignment:       0.20,
			},
			{
				Name:                "pragmatic",
				Description:         "侧重资源与时间可行性，适合约束紧张的场景",
				SkillMatch:          0.20,
				ResourceFit:         0.30,
				TimelineFeasibility: 0.30,
				GoalAlignment:       0.20,
			},
			{
				Name:                "goal_driven",
				Description:         "侧重目标一致性，适合长期规划",
				SkillMatch:          0.20,
				ResourceFit:         0.20,
				TimelineFeasibility: 0.20,
				GoalAlignment:       0.40,
			},
		}
		for _, p := range defaultPresets {
			db.Create(&p)
		}
	}

	return db, nil
}

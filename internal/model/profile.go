package model

import (
	"encoding/json"

	"path_advisor_backend/internal/engine"
)

// DecisionProfile 决策画像。技能/约束/目标以 JSON 快照存储，
// 计算层只消费反序列化后的纯值对象
type DecisionProfile struct {
	BaseModel
	OwnerID        uint   `gorm:"index;type:bigint unsigned" json:"ownerId"`
	Name           string `gorm:"size:255;not null" json:"name"`
	Background     string `gorm:"type:text" json:"background"`
	SkillsJSON     string `gorm:"type:json" json:"-"`
	ConstraintsJSON string `gorm:"type:json" json:"-"`
	GoalsJSON      string `gorm:"type:json" json:"-"`
	CurrentVersion int    `gorm:"default:1" json:"currentVersion"`
}

func (DecisionProfile) TableName() string {
	return "decision_profiles"
}

// ToEngine 反序列化为计算层的画像值对象
func (p *DecisionProfile) ToEngine() (engine.Profile, error) {
	out := engine.Profile{Background: p.Background}
	if p.SkillsJSON != "" {
		if err := json.Unmarshal([]byte(p.SkillsJSON), &out.Skills); err != nil {
			return engine.Profile{}, err
		}
	}
	if p.ConstraintsJSON != "" {
		if err := json.Unmarshal([]byte(p.ConstraintsJSON), &out.Constraints); err != nil {
			return engine.Profile{}, err
		}
	}
	if p.GoalsJSON != "" {
		if err := json.Unmarshal([]byte(p.GoalsJSON), &out.Goals); err != nil {
			return engine.Profile{}, err
		}
	}
	return out, nil
}

// ApplyEngine 用计算层画像回填 JSON 快照列
func (p *DecisionProfile) ApplyEngine(in engine.Profile) error {
	skills, err := json.Marshal(in.Skills)
	if err != nil {
		return err
	}
	constraints, err := json.Marshal(in.Constraints)
	if err != nil {
		return err
	}
	goals, err := json.Marshal(in.Goals)
	if err != nil {
		return err
	}
	p.Background = in.Background
	p.SkillsJSON = string(skills)
	p.ConstraintsJSON = string(constraints)
	p.GoalsJSON = string(goals)
	return nil
}

// ProfileVersion 画像的不可变历史版本，saveProfile 每次写入都会追加一条
type ProfileVersion struct {
	BaseModel
	ProfileID    uint   `gorm:"index;type:bigint unsigned" json:"profileId"`
	Version      int    `gorm:"not null" json:"version"`
	SnapshotJSON string `gorm:"type:json" json:"-"`
}

func (ProfileVersion) TableName() string {
	return "profile_versions"
}

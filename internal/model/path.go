package model

import (
	"encoding/json"

	"path_advisor_backend/internal/engine"
)

// DecisionPath 候选路径。需求/资源等结构化字段以 JSON 快照存储
type DecisionPath struct {
	BaseModel
	PathID                  string          `gorm:"size:64;uniqueIndex;not null" json:"pathId"`
	OwnerID                 uint            `gorm:"index;type:bigint unsigned" json:"ownerId"`
	Title                   string          `gorm:"size:255;not null" json:"title"`
	PathType                engine.PathType `gorm:"size:32;not null" json:"pathType"`
	RequirementsJSON        string          `gorm:"type:json" json:"-"`
	ResourcesJSON           string          `gorm:"type:json" json:"-"`
	OutcomesJSON            string          `gorm:"type:json" json:"-"`
	EstimatedTimelineMonths int             `gorm:"not null" json:"estimatedTimelineMonths"`
	Enabled                 bool            `gorm:"default:true" json:"enabled"`
}

func (DecisionPath) TableName() string {
	return "decision_paths"
}

// ToEngine 反序列化为计算层的路径值对象
func (p *DecisionPath) ToEngine() (engine.Path, error) {
	out := engine.Path{
		PathID:                  p.PathID,
		Title:                   p.Title,
		PathType:                p.PathType,
		EstimatedTimelineMonths: p.EstimatedTimelineMonths,
	}
	if p.RequirementsJSON != "" {
		if err := json.Unmarshal([]byte(p.RequirementsJSON), &out.RequiredSkills); err != nil {
			return engine.Path{}, err
		}
	}
	if p.ResourcesJSON != "" {
		if err := json.Unmarshal([]byte(p.ResourcesJSON), &out.RequiredResources); err != nil {
			return engine.Path{}, err
		}
	}
	if p.OutcomesJSON != "" {
		if err := json.Unmarshal([]byte(p.OutcomesJSON), &out.ExpectedOutcomes); err != nil {
			return engine.Path{}, err
		}
	}
	return out, nil
}

// ApplyEngine 用计算层路径回填 JSON 快照列
func (p *DecisionPath) ApplyEngine(in engine.Path) error {
	reqs, err := json.Marshal(in.RequiredSkills)
	if err != nil {
		return err
	}
	res, err := json.Marshal(in.RequiredResources)
	if err != nil {
		return err
	}
	outs, err := json.Marshal(in.ExpectedOutcomes)
	if err != nil {
		return err
	}
	p.PathID = in.PathID
	p.Title = in.Title
	p.PathType = in.PathType
	p.EstimatedTimelineMonths = in.EstimatedTimelineMonths
	p.RequirementsJSON = string(reqs)
	p.ResourcesJSON = string(res)
	p.OutcomesJSON = string(outs)
	return nil
}

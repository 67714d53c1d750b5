package model

// WeightPreset 评分权重预设，迁移时内置若干套默认权重
type WeightPreset struct {
	BaseModel
	Name        string  `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	SkillMatch          float64 `gorm:"not null" json:"skillMatch"`
	ResourceFit         float64 `gorm:"not null" json:"resourceFit"`
	TimelineFeasibility float64 `gorm:"not null" json:"timelineFeasibility"`
	GoalAlignment       float64 `gorm:"not null" json:"goalAlignment"`
	IsDefault   bool    `gorm:"default:false" json:"isDefault"`
}

func (WeightPreset) TableName() string {
	return "weight_presets"
}

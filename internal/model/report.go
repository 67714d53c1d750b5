package model

// AnalysisReport 一次完整分析的落库结果。ResultJSON 保存评分、仿真、
// 路线图与解释轨迹的完整快照，Degraded 标记协作方失败后的降级结果
type AnalysisReport struct {
	BaseModel
	OwnerID        uint   `gorm:"index;type:bigint unsigned" json:"ownerId"`
	ProfileID      uint   `gorm:"index;type:bigint unsigned" json:"profileId"`
	ProfileVersion int    `gorm:"not null" json:"profileVersion"`
	WeightsJSON    string `gorm:"type:json" json:"-"`
	ResultJSON     string `gorm:"type:json" json:"-"`
	TopPathID      string `gorm:"size:64" json:"topPathId"`
	Degraded       bool   `gorm:"default:false" json:"degraded"`
	ArchiveURL     string `gorm:"size:512" json:"archiveUrl,omitempty"`
	DurationMS     int64  `gorm:"default:0" json:"durationMs"`
}

func (AnalysisReport) TableName() string {
	return "analysis_reports"
}

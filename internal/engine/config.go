package engine

// MilestoneTemplate 按路径类型预置的里程碑模板；OffsetFraction 为占总时长的比例
type MilestoneTemplate struct {
	Name            string  `json:"name"`
	OffsetFraction  float64 `json:"offsetFraction"`
	SuccessCriteria string  `json:"successCriteria"`
}

// Config 推演与排期使用的规则表。显式注入而非包级可变全局，测试可替换
type Config struct {
	// 按路径类型的基础成功率先验
	BaseSuccessRate map[PathType]float64 `json:"baseSuccessRate"`

	// 成功率调整项
	SkillMatchBonus           float64 `json:"skillMatchBonus"`           // 技能匹配每超出 50 分一整档 20 分的加成
	CriticalResourcePenalty   float64 `json:"criticalResourcePenalty"`   // 关键资源缺口扣减
	AggressiveTimelinePenalty float64 `json:"aggressiveTimelinePenalty"` // 时间线过于激进扣减
	MinSuccessProbability     float64 `json:"minSuccessProbability"`
	MaxSuccessProbability     float64 `json:"maxSuccessProbability"`

	// 技能差距换算
	LearningMonthsPerSeverity    float64 `json:"learningMonthsPerSeverity"`
	MissingSkillComplexityFactor float64 `json:"missingSkillComplexityFactor"` // 完全缺失的技能学习成本更高
	PartialSkillComplexityFactor float64 `json:"partialSkillComplexityFactor"`
	HighSeverityThreshold        int     `json:"highSeverityThreshold"` // 达到此严重度的差距触发缓冲与补差任务

	// 时间线
	MilestoneTemplates map[PathType][]MilestoneTemplate `json:"milestoneTemplates"`
	MilestoneDecay     float64                          `json:"milestoneDecay"` // 相邻里程碑完成概率衰减系数
	MilestoneFloor     float64                          `json:"milestoneFloor"`
	WeeksPerMonth      float64                          `json:"weeksPerMonth"`

	// 排期
	GapTaskHoursPerSeverity float64 `json:"gapTaskHoursPerSeverity"` // 注入的补差任务工时 = 严重度 × 此系数
}

// DefaultConfig 生产环境缺省规则表
func DefaultConfig() Config {
	return Config{
		BaseSuccessRate: map[PathType]float64{
			PathCareer:    0.55,
			PathStartup:   0.30,
			PathEducation: 0.65,
		},
		SkillMatchBonus:           0.10,
		CriticalResourcePenalty:   0.15,
		AggressiveTimelinePenalty: 0.10,
		MinSuccessProbability:     0.10,
		MaxSuccessProbability:     0.90,

		LearningMonthsPerSeverity:    0.5,
		MissingSkillComplexityFactor: 1.5,
		PartialSkillComplexityFactor: 1.0,
		HighSeverityThreshold:        7,

		MilestoneTemplates: map[PathType][]MilestoneTemplate{
			PathCareer: {
				{Name: "技能准备完成", OffsetFraction: 0.25, SuccessCriteria: "核心要求技能全部达到目标等级"},
				{Name: "进入目标领域", OffsetFraction: 0.50, SuccessCriteria: "取得目标方向的首个正式机会"},
				{Name: "站稳脚跟", OffsetFraction: 0.75, SuccessCriteria: "独立承担职责并获得正向反馈"},
				{Name: "目标达成", OffsetFraction: 1.0, SuccessCriteria: "达到路径预期产出"},
			},
			PathStartup: {
				{Name: "验证想法", OffsetFraction: 0.15, SuccessCriteria: "完成目标用户访谈与需求验证"},
				{Name: "最小可行产品", OffsetFraction: 0.35, SuccessCriteria: "MVP 上线并获得种子用户"},
				{Name: "早期收入", OffsetFraction: 0.60, SuccessCriteria: "获得可重复的收入来源"},
				{Name: "可持续运转", OffsetFraction: 0.85, SuccessCriteria: "现金流覆盖核心开销"},
				{Name: "目标达成", OffsetFraction: 1.0, SuccessCriteria: "达到路径预期产出"},
			},
			PathEducation: {
				{Name: "入学/开课", OffsetFraction: 0.10, SuccessCriteria: "完成报名并开始课程"},
				{Name: "阶段考核", OffsetFraction: 0.50, SuccessCriteria: "通过中期考核"},
				{Name: "结业", OffsetFraction: 0.90, SuccessCriteria: "完成全部课程要求"},
				{Name: "目标达成", OffsetFraction: 1.0, SuccessCriteria: "达到路径预期产出"},
			},
		},
		MilestoneDecay: 0.90,
		MilestoneFloor: 0.05,
		WeeksPerMonth:  4.33,

		GapTaskHoursPerSeverity: 4,
	}
}

package engine

import (
	"fmt"
	"strings"
	"time"
)

// PathType 候选路径类型（封闭枚举，便于规则表穷举）
type PathType string

const (
	PathCareer    PathType = "career"
	PathStartup   PathType = "startup"
	PathEducation PathType = "education"
)

func (t PathType) Valid() bool {
	switch t {
	case PathCareer, PathStartup, PathEducation:
		return true
	}
	return false
}

// RiskSeverity 风险等级
type RiskSeverity string

const (
	RiskLow    RiskSeverity = "low"
	RiskMedium RiskSeverity = "medium"
	RiskHigh   RiskSeverity = "high"
)

// RiskType 风险类别（封闭枚举）
type RiskType string

const (
	RiskFinancial    RiskType = "financial"
	RiskSkill        RiskType = "skill"
	RiskMarket       RiskType = "market"
	RiskTimeConflict RiskType = "time_conflict"
)

// TaskPriority 任务优先级
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// rank 排序用：high < medium < low（值越小越靠前）
func (p TaskPriority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

type Skill struct {
	Name            string  `json:"name"`
	Level           int     `json:"level"`
	YearsExperience float64 `json:"yearsExperience"`
}

type Constraints struct {
	HoursPerWeek       float64  `json:"hoursPerWeek"`
	FinancialResources float64  `json:"financialResources"`
	Geographic         []string `json:"geographic,omitempty"`
	Personal           []string `json:"personal,omitempty"`
}

type Goals struct {
	ShortTerm  []string `json:"shortTerm,omitempty"`
	LongTerm   []string `json:"longTerm,omitempty"`
	Priorities []string `json:"priorities,omitempty"`
}

type Profile struct {
	Background  string      `json:"background,omitempty"`
	Skills      []Skill     `json:"skills"`
	Constraints Constraints `json:"constraints"`
	Goals       Goals       `json:"goals"`
}

// Validate 校验技能名唯一、等级取值范围
func (p *Profile) Validate() error {
	seen := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		name := strings.ToLower(strings.TrimSpace(s.Name))
		if name == "" {
			return &ValidationError{Entity: "profile", Field: "skills", Reason: "skill name must not be empty"}
		}
		if seen[name] {
			return &ValidationError{Entity: "profile", Field: "skills", Reason: fmt.Sprintf("duplicate skill %q", s.Name)}
		}
		seen[name] = true
		if s.Level < 1 || s.Level > 10 {
			return &ValidationError{Entity: "profile", Field: "skills", Reason: fmt.Sprintf("skill %q level %d out of range [1,10]", s.Name, s.Level)}
		}
	}
	if p.Constraints.HoursPerWeek < 0 {
		return &ValidationError{Entity: "profile", Field: "constraints.hoursPerWeek", Reason: "must not be negative"}
	}
	if p.Constraints.FinancialResources < 0 {
		return &ValidationError{Entity: "profile", Field: "constraints.financialResources", Reason: "must not be negative"}
	}
	return nil
}

// SkillLevel 返回画像中某技能的等级，缺失时为 0（名称不区分大小写）
func (p *Profile) SkillLevel(name string) int {
	for _, s := range p.Skills {
		if strings.EqualFold(s.Name, name) {
			return s.Level
		}
	}
	return 0
}

// SkillRequirement 路径的技能要求；Weight 为可选的重要性权重，0 表示等权
type SkillRequirement struct {
	Name   string  `json:"name"`
	Level  int     `json:"level"`
	Weight float64 `json:"weight,omitempty"`
}

type RequiredResources struct {
	FinancialInvestment        float64  `json:"financialInvestment"`
	TimeCommitmentHoursPerWeek float64  `json:"timeCommitmentHoursPerWeek"`
	NetworkRequirements        []string `json:"networkRequirements,omitempty"`
}

type Path struct {
	PathID                  string             `json:"pathId"`
	Title                   string             `json:"title,omitempty"`
	PathType                PathType           `json:"pathType"`
	RequiredSkills          []SkillRequirement `json:"requiredSkills"`
	RequiredResources       RequiredResources  `json:"requiredResources"`
	ExpectedOutcomes        []string           `json:"expectedOutcomes,omitempty"`
	EstimatedTimelineMonths int                `json:"estimatedTimelineMonths"`
}

func (p *Path) Validate() error {
	if strings.TrimSpace(p.PathID) == "" {
		return &ValidationError{Entity: "path", Field: "pathId", Reason: "must not be empty"}
	}
	if !p.PathType.Valid() {
		return &ValidationError{Entity: "path", PathID: p.PathID, Field: "pathType", Reason: fmt.Sprintf("unknown path type %q", p.PathType)}
	}
	if p.EstimatedTimelineMonths <= 0 {
		return &ValidationError{Entity: "path", PathID: p.PathID, Field: "estimatedTimelineMonths", Reason: "must be positive"}
	}
	seen := make(map[string]bool, len(p.RequiredSkills))
	for _, r := range p.RequiredSkills {
		name := strings.ToLower(strings.TrimSpace(r.Name))
		if name == "" {
			return &ValidationError{Entity: "path", PathID: p.PathID, Field: "requiredSkills", Reason: "skill requirement does not resolve to a named skill"}
		}
		if seen[name] {
			return &ValidationError{Entity: "path", PathID: p.PathID, Field: "requiredSkills", Reason: fmt.Sprintf("duplicate skill requirement %q", r.Name)}
		}
		seen[name] = true
		if r.Level < 1 || r.Level > 10 {
			return &ValidationError{Entity: "path", PathID: p.PathID, Field: "requiredSkills", Reason: fmt.Sprintf("required level %d for %q out of range [1,10]", r.Level, r.Name)}
		}
		if r.Weight < 0 {
			return &ValidationError{Entity: "path", PathID: p.PathID, Field: "requiredSkills", Reason: fmt.Sprintf("weight for %q must not be negative", r.Name)}
		}
	}
	if p.RequiredResources.FinancialInvestment < 0 || p.RequiredResources.TimeCommitmentHoursPerWeek < 0 {
		return &ValidationError{Entity: "path", PathID: p.PathID, Field: "requiredResources", Reason: "must not be negative"}
	}
	return nil
}

// ScoringWeights 四个评分维度的权重，必须恰好归一（容差 1e-6）
type ScoringWeights struct {
	SkillMatch          float64 `json:"skillMatch"`
	ResourceFit         float64 `json:"resourceFit"`
	TimelineFeasibility float64 `json:"timelineFeasibility"`
	GoalAlignment       float64 `json:"goalAlignment"`
}

const weightSumTolerance = 1e-6

func (w ScoringWeights) Validate() error {
	for name, v := range map[string]float64{
		"skillMatch":          w.SkillMatch,
		"resourceFit":         w.ResourceFit,
		"timelineFeasibility": w.TimelineFeasibility,
		"goalAlignment":       w.GoalAlignment,
	} {
		if v < 0 {
			return &InvalidWeightsError{Sum: w.sum(), Reason: fmt.Sprintf("weight %s must not be negative", name)}
		}
	}
	if diff := w.sum() - 1.0; diff > weightSumTolerance || diff < -weightSumTolerance {
		return &InvalidWeightsError{Sum: w.sum(), Reason: "weights must sum to 1.0"}
	}
	return nil
}

func (w ScoringWeights) sum() float64 {
	return w.SkillMatch + w.ResourceFit + w.TimelineFeasibility + w.GoalAlignment
}

// DefaultWeights 等权的缺省配置
func DefaultWeights() ScoringWeights {
	return ScoringWeights{SkillMatch: 0.25, ResourceFit: 0.25, TimelineFeasibility: 0.25, GoalAlignment: 0.25}
}

// ScoreBreakdown 单条路径的评分明细，所有分值均在 [0,100]
type ScoreBreakdown struct {
	PathID              string  `json:"pathId"`
	SkillMatch          float64 `json:"skillMatch"`
	ResourceFit         float64 `json:"resourceFit"`
	TimelineFeasibility float64 `json:"timelineFeasibility"`
	GoalAlignment       float64 `json:"goalAlignment"`
	TotalScore          float64 `json:"totalScore"`
	Trace               Trace   `json:"trace"`
}

// SkillGap 技能差距，按 ImpactOnSuccess 降序排列
type SkillGap struct {
	SkillName                  string  `json:"skillName"`
	CurrentLevel               int     `json:"currentLevel"`
	RequiredLevel              int     `json:"requiredLevel"`
	Severity                   int     `json:"severity"`
	ImpactOnSuccess            float64 `json:"impactOnSuccess"`
	LearningTimeEstimateMonths float64 `json:"learningTimeEstimateMonths"`
}

type Milestone struct {
	Name                  string  `json:"name"`
	MonthOffset           float64 `json:"monthOffset"`
	CompletionProbability float64 `json:"completionProbability"`
	SuccessCriteria       string  `json:"successCriteria,omitempty"`
}

type Timeline struct {
	TotalMonths float64     `json:"totalMonths"`
	Milestones  []Milestone `json:"milestones"`
}

type RiskIndicator struct {
	RiskType    RiskType     `json:"riskType"`
	Severity    RiskSeverity `json:"severity"`
	Description string       `json:"description"`
	Mitigations []string     `json:"mitigations"`
}

type SimulationResult struct {
	PathID             string          `json:"pathId"`
	SuccessProbability float64         `json:"successProbability"`
	Timeline           Timeline        `json:"timeline"`
	RiskIndicators     []RiskIndicator `json:"riskIndicators"`
	SkillGaps          []SkillGap      `json:"skillGaps"`
	Trace              Trace           `json:"trace"`
}

// RoadmapTask 周计划中的任务；Dependencies 只能引用同一批任务的 TaskID
type RoadmapTask struct {
	TaskID         string       `json:"taskId"`
	Description    string       `json:"description"`
	EstimatedHours float64      `json:"estimatedHours"`
	Priority       TaskPriority `json:"priority"`
	Category       string       `json:"category,omitempty"`
	Dependencies   []string     `json:"dependencies,omitempty"`
}

type Week struct {
	WeekNumber int          `json:"weekNumber"`
	StartDate  time.Time    `json:"startDate"`
	Tasks      []RoadmapTask `json:"tasks"`
	Milestone  *Milestone   `json:"milestone,omitempty"`
}

type Roadmap struct {
	PathID           string          `json:"pathId"`
	WeeklyHourBudget float64         `json:"weeklyHourBudget"`
	Weeks            []Week          `json:"weeks"`
	Warnings         []BudgetWarning `json:"warnings,omitempty"`
}

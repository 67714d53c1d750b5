package engine

import (
	"math"
	"sort"
)

// AnalyzeGaps 比对画像技能与路径要求，产出按影响度降序的技能差距列表。
// 完全达标的要求不产生条目
func AnalyzeGaps(profile Profile, path Path, cfg Config) ([]SkillGap, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if err := path.Validate(); err != nil {
		return nil, err
	}

	// 重要性权重：未显式给出时等权；给出的权重归一化后使用
	totalWeight := 0.0
	rawWeights := make([]float64, len(path.RequiredSkills))
	for i, req := range path.RequiredSkills {
		w := req.Weight
		if w <= 0 {
			w = 1
		}
		rawWeights[i] = w
		totalWeight += w
	}

	gaps := make([]SkillGap, 0, len(path.RequiredSkills))
	for i, req := range path.RequiredSkills {
		current := profile.SkillLevel(req.Name)
		if current >= req.Level {
			continue
		}

		severity := int(math.Ceil(float64(req.Level-current) / 10.0 * 10.0))
		if severity < 1 {
			severity = 1
		}
		if severity > 10 {
			severity = 10
		}

		complexity := cfg.PartialSkillComplexityFactor
		if current == 0 {
			complexity = cfg.MissingSkillComplexityFactor
		}

		gaps = append(gaps, SkillGap{
			SkillName:                  req.Name,
			CurrentLevel:               current,
			RequiredLevel:              req.Level,
			Severity:                   severity,
			ImpactOnSuccess:            clamp01(float64(severity) / 10.0 * (rawWeights[i] / totalWeight)),
			LearningTimeEstimateMonths: complexity * float64(severity) * cfg.LearningMonthsPerSeverity,
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].ImpactOnSuccess != gaps[j].ImpactOnSuccess {
			return gaps[i].ImpactOnSuccess > gaps[j].ImpactOnSuccess
		}
		return gaps[i].Severity > gaps[j].Severity
	})
	return gaps, nil
}

// totalLearningMonths 全部差距的学习时长合计
func totalLearningMonths(gaps []SkillGap) float64 {
	var sum float64
	for _, g := range gaps {
		sum += g.LearningTimeEstimateMonths
	}
	return sum
}

package engine

import (
	"fmt"
	"math"
)

// Simulate 对 (画像, 路径) 进行确定性推演：成功概率、里程碑时间线与风险指标。
// 除入参外不依赖时钟或随机源
func Simulate(profile Profile, path Path, cfg Config) (SimulationResult, error) {
	if err := profile.Validate(); err != nil {
		return SimulationResult{}, err
	}
	if err := path.Validate(); err != nil {
		return SimulationResult{}, err
	}

	gaps, err := AnalyzeGaps(profile, path, cfg)
	if err != nil {
		return SimulationResult{}, err
	}

	result := SimulationResult{PathID: path.PathID, SkillGaps: gaps}

	result.SuccessProbability = successProbability(profile, path, gaps, cfg, &result.Trace)
	result.Timeline = buildTimeline(profile, path, gaps, result.SuccessProbability, cfg, &result.Trace)
	result.RiskIndicators = evaluateRisks(profile, path, gaps, cfg)

	return result, nil
}

// successProbability 基础先验 + 可叠加的有界调整项，最终硬性截断到配置区间
func successProbability(profile Profile, path Path, gaps []SkillGap, cfg Config, trace *Trace) float64 {
	base := cfg.BaseSuccessRate[path.PathType]
	p := base
	trace.Add("base_rate", fmt.Sprintf("路径类型 %s 的基础成功率 %.2f", path.PathType, base),
		map[string]float64{"base": base})

	// 技能匹配每超出 50 分一整档 20 分，加一档加成；匹配分的推导并入本 trace
	var matchTrace Trace
	match := skillMatchScore(profile, path, &matchTrace)
	trace.Merge(matchTrace)
	if steps := math.Floor((match - 50) / 20); steps > 0 {
		bonus := steps * cfg.SkillMatchBonus
		p += bonus
		trace.Add("skill_match_bonus",
			fmt.Sprintf("技能匹配 %.1f 超出 50 共 %.0f 档，加成 %.2f", match, steps, bonus),
			map[string]float64{"skillMatch": match, "steps": steps, "bonus": bonus})
	}

	if criticallyUnmet(profile, path) {
		p -= cfg.CriticalResourcePenalty
		trace.Add("critical_resource",
			fmt.Sprintf("关键资源缺口，扣减 %.2f", cfg.CriticalResourcePenalty),
			map[string]float64{"penalty": cfg.CriticalResourcePenalty})
	}

	if learning := totalLearningMonths(gaps); float64(path.EstimatedTimelineMonths) < learning {
		p -= cfg.AggressiveTimelinePenalty
		trace.Add("aggressive_timeline",
			fmt.Sprintf("计划 %d 个月短于补齐差距所需 %.1f 个月，扣减 %.2f",
				path.EstimatedTimelineMonths, learning, cfg.AggressiveTimelinePenalty),
			map[string]float64{
				"estimatedMonths": float64(path.EstimatedTimelineMonths),
				"learningMonths":  learning,
				"penalty":         cfg.AggressiveTimelinePenalty,
			})
	}

	// 两端硬性截断：极端确定性不可达，这是设计保证而非启发式副作用
	clamped := math.Min(cfg.MaxSuccessProbability, math.Max(cfg.MinSuccessProbability, p))
	trace.Add("probability_clamp",
		fmt.Sprintf("成功概率截断到 [%.2f, %.2f]，结果 %.3f", cfg.MinSuccessProbability, cfg.MaxSuccessProbability, clamped),
		map[string]float64{"raw": p, "clamped": clamped})
	return clamped
}

// criticallyUnmet 资金缺口超过可用资金一半，或时间投入超出可用时长
func criticallyUnmet(profile Profile, path Path) bool {
	invest := path.RequiredResources.FinancialInvestment
	avail := profile.Constraints.FinancialResources
	if invest > avail && invest-avail > 0.5*avail {
		return true
	}
	return path.RequiredResources.TimeCommitmentHoursPerWeek > profile.Constraints.HoursPerWeek
}

// buildTimeline 按路径类型模板生成里程碑：按时间投入比拉伸，按高严重度差距加缓冲
func buildTimeline(profile Profile, path Path, gaps []SkillGap, probability float64, cfg Config, trace *Trace) Timeline {
	stretch := 1.0
	reqHours := path.RequiredResources.TimeCommitmentHoursPerWeek
	availHours := profile.Constraints.HoursPerWeek
	if availHours > 0 && reqHours > availHours {
		stretch = reqHours / availHours
	}

	var bufferMonths float64
	for _, g := range gaps {
		if g.Severity >= cfg.HighSeverityThreshold {
			bufferMonths++
		}
	}

	total := float64(path.EstimatedTimelineMonths)*stretch + bufferMonths
	trace.Add("timeline",
		fmt.Sprintf("总时长 = %d × %.2f + %.0f 个月缓冲 = %.1f 个月",
			path.EstimatedTimelineMonths, stretch, bufferMonths, total),
		map[string]float64{
			"estimatedMonths": float64(path.EstimatedTimelineMonths),
			"stretch":         stretch,
			"bufferMonths":    bufferMonths,
			"totalMonths":     total,
		})

	templates := cfg.MilestoneTemplates[path.PathType]
	milestones := make([]Milestone, 0, len(templates))
	prevOffset := 0.0
	completion := probability
	for i, tmpl := range templates {
		offset := total * tmpl.OffsetFraction
		if offset <= prevOffset {
			// 模板比例相近或总时长过短时仍保持严格递增
			offset = prevOffset + 0.1
		}
		prevOffset = offset

		if i > 0 {
			completion *= cfg.MilestoneDecay
		}
		cp := math.Max(cfg.MilestoneFloor, completion)

		milestones = append(milestones, Milestone{
			Name:                  tmpl.Name,
			MonthOffset:           math.Round(offset*100) / 100,
			CompletionProbability: clamp01(cp),
			SuccessCriteria:       tmpl.SuccessCriteria,
		})
	}

	return Timeline{TotalMonths: math.Round(total*100) / 100, Milestones: milestones}
}

// evaluateRisks 独立的规则谓词，命中才产出指标；未命中的类别不补占位条目
func evaluateRisks(profile Profile, path Path, gaps []SkillGap, cfg Config) []RiskIndicator {
	indicators := make([]RiskIndicator, 0, 4)

	invest := path.RequiredResources.FinancialInvestment
	availFunds := profile.Constraints.FinancialResources
	if invest > availFunds {
		severity := RiskMedium
		if invest-availFunds > 0.5*availFunds {
			severity = RiskHigh
		}
		indicators = append(indicators, RiskIndicator{
			RiskType:    RiskFinancial,
			Severity:    severity,
			Description: fmt.Sprintf("所需投入 %.0f 超出可用资金 %.0f", invest, availFunds),
			Mitigations: []string{"分阶段投入，设置止损点", "寻找外部资金或合作分摊成本", "压缩初期非必要开支"},
		})
	}

	var highGaps int
	for _, g := range gaps {
		if g.Severity >= cfg.HighSeverityThreshold {
			highGaps++
		}
	}
	if highGaps > 0 {
		indicators = append(indicators, RiskIndicator{
			RiskType:    RiskSkill,
			Severity:    RiskHigh,
			Description: fmt.Sprintf("存在 %d 项高严重度技能差距", highGaps),
			Mitigations: []string{"优先安排高影响度技能的系统学习", "寻找导师或结对实践", "先以过渡性角色积累经验"},
		})
	} else if len(gaps) >= 3 {
		indicators = append(indicators, RiskIndicator{
			RiskType:    RiskSkill,
			Severity:    RiskMedium,
			Description: fmt.Sprintf("存在 %d 项技能差距", len(gaps)),
			Mitigations: []string{"制定循序渐进的学习计划", "在现有工作中创造练习机会"},
		})
	}

	// 市场/竞争代理信号：创业路径天然竞争激烈；人脉门槛高也视为竞争压力
	if path.PathType == PathStartup {
		indicators = append(indicators, RiskIndicator{
			RiskType:    RiskMarket,
			Severity:    RiskHigh,
			Description: "创业路径的市场不确定性显著高于其他选项",
			Mitigations: []string{"小步验证需求后再扩大投入", "保留可回退的职业选项", "关注细分市场而非红海"},
		})
	} else if len(path.RequiredResources.NetworkRequirements) >= 3 {
		indicators = append(indicators, RiskIndicator{
			RiskType:    RiskMarket,
			Severity:    RiskMedium,
			Description: fmt.Sprintf("路径依赖 %d 类人脉资源，进入门槛较高", len(path.RequiredResources.NetworkRequirements)),
			Mitigations: []string{"提前参与目标圈子的社区活动", "通过内容输出建立行业可见度"},
		})
	}

	reqHours := path.RequiredResources.TimeCommitmentHoursPerWeek
	availHours := profile.Constraints.HoursPerWeek
	if reqHours > availHours {
		severity := RiskMedium
		if availHours > 0 && reqHours > 1.5*availHours {
			severity = RiskHigh
		}
		indicators = append(indicators, RiskIndicator{
			RiskType:    RiskTimeConflict,
			Severity:    severity,
			Description: fmt.Sprintf("每周需投入 %.0f 小时，超出可用的 %.0f 小时", reqHours, availHours),
			Mitigations: []string{"重新协商现有时间安排", "延长整体时间线以匹配可用投入", "削减路径范围，聚焦核心目标"},
		})
	}

	return indicators
}

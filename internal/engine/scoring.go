package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// 资源匹配扣分在资金与时间两个维度上的划分
const (
	financialPenaltyScale = 60.0
	timePenaltyScale      = 40.0
	neutralGoalScore      = 50.0
)

// ScorePath 计算单条路径的评分明细。纯函数：相同输入恒得相同输出
func ScorePath(profile Profile, path Path, weights ScoringWeights) (ScoreBreakdown, error) {
	if err := weights.Validate(); err != nil {
		return ScoreBreakdown{}, err
	}
	if err := profile.Validate(); err != nil {
		return ScoreBreakdown{}, err
	}
	if err := path.Validate(); err != nil {
		return ScoreBreakdown{}, err
	}

	b := ScoreBreakdown{PathID: path.PathID}

	b.SkillMatch = skillMatchScore(profile, path, &b.Trace)
	b.ResourceFit = resourceFitScore(profile, path, &b.Trace)
	b.TimelineFeasibility = timelineFeasibilityScore(profile, path, &b.Trace)
	b.GoalAlignment = goalAlignmentScore(profile, path, &b.Trace)

	total := b.SkillMatch*weights.SkillMatch +
		b.ResourceFit*weights.ResourceFit +
		b.TimelineFeasibility*weights.TimelineFeasibility +
		b.GoalAlignment*weights.GoalAlignment
	b.TotalScore = clampScore(total)
	b.Trace.Add("weighted_total",
		fmt.Sprintf("总分 = Σ(子分 × 权重) = %.2f", b.TotalScore),
		map[string]float64{
			"skillMatch":          b.SkillMatch,
			"resourceFit":         b.ResourceFit,
			"timelineFeasibility": b.TimelineFeasibility,
			"goalAlignment":       b.GoalAlignment,
			"weightSkillMatch":    weights.SkillMatch,
			"weightResourceFit":   weights.ResourceFit,
			"weightTimeline":      weights.TimelineFeasibility,
			"weightGoal":          weights.GoalAlignment,
		})

	return b, nil
}

// ScoreAllPaths 为全部路径评分并按总分降序返回；同分保持输入顺序（稳定排序）
func ScoreAllPaths(profile Profile, paths []Path, weights ScoringWeights) ([]ScoreBreakdown, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	results := make([]ScoreBreakdown, 0, len(paths))
	for _, p := range paths {
		b, err := ScorePath(profile, p, weights)
		if err != nil {
			return nil, fmt.Errorf("score path %s: %w", p.PathID, err)
		}
		results = append(results, b)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})
	return results, nil
}

// skillMatchScore 技能匹配：每项要求按其要求等级加权，达标计入分子
func skillMatchScore(profile Profile, path Path, trace *Trace) float64 {
	if len(path.RequiredSkills) == 0 {
		if trace != nil {
			trace.Add("skill_match", "路径无技能要求，匹配度记满分", map[string]float64{"requiredCount": 0})
		}
		return 100
	}

	var requiredWeight, matchedWeight float64
	var matchedCount float64
	for _, req := range path.RequiredSkills {
		requiredWeight += float64(req.Level)
		if profile.SkillLevel(req.Name) >= req.Level {
			matchedWeight += float64(req.Level)
			matchedCount++
		}
	}

	score := clampScore(matchedWeight / requiredWeight * 100)
	if trace != nil {
		trace.Add("skill_match",
			fmt.Sprintf("匹配权重 %.0f / 要求权重 %.0f × 100 = %.2f", matchedWeight, requiredWeight, score),
			map[string]float64{
				"requiredCount":  float64(len(path.RequiredSkills)),
				"matchedCount":   matchedCount,
				"requiredWeight": requiredWeight,
				"matchedWeight":  matchedWeight,
			})
	}
	return score
}

// resourceFitScore 资源匹配：从 100 起按资金缺口与时间缺口比例扣分，下限 0
func resourceFitScore(profile Profile, path Path, trace *Trace) float64 {
	score := 100.0
	inputs := map[string]float64{
		"financialInvestment": path.RequiredResources.FinancialInvestment,
		"financialResources":  profile.Constraints.FinancialResources,
		"requiredHours":       path.RequiredResources.TimeCommitmentHoursPerWeek,
		"availableHours":      profile.Constraints.HoursPerWeek,
	}

	invest := path.RequiredResources.FinancialInvestment
	avail := profile.Constraints.FinancialResources
	if invest > avail && invest > 0 {
		overFraction := (invest - avail) / invest
		penalty := overFraction * financialPenaltyScale
		score -= penalty
		inputs["financialPenalty"] = penalty
	}

	reqHours := path.RequiredResources.TimeCommitmentHoursPerWeek
	availHours := profile.Constraints.HoursPerWeek
	if reqHours > availHours && reqHours > 0 {
		overFraction := (reqHours - availHours) / reqHours
		penalty := overFraction * timePenaltyScale
		score -= penalty
		inputs["timePenalty"] = penalty
	}

	score = clampScore(score)
	if trace != nil {
		trace.Add("resource_fit", fmt.Sprintf("资源匹配 = %.2f", score), inputs)
	}
	return score
}

// timelineFeasibilityScore 时间可行性 = min(100, 可用周时 / 要求周时 × 100)
func timelineFeasibilityScore(profile Profile, path Path, trace *Trace) float64 {
	reqHours := path.RequiredResources.TimeCommitmentHoursPerWeek
	availHours := profile.Constraints.HoursPerWeek

	score := 100.0
	if reqHours > 0 {
		score = math.Min(100, availHours/reqHours*100)
	}
	score = clampScore(score)
	if trace != nil {
		trace.Add("timeline_feasibility",
			fmt.Sprintf("min(100, %.1f/%.1f × 100) = %.2f", availHours, reqHours, score),
			map[string]float64{"availableHours": availHours, "requiredHours": reqHours})
	}
	return score
}

// goalAlignmentScore 目标契合：确定性的词汇重叠度量，离线可复现，不依赖外部语义服务。
// 任一侧无有效文本时返回中性 50，避免不公平地惩罚不完整的画像
func goalAlignmentScore(profile Profile, path Path, trace *Trace) float64 {
	goalTokens := tokenize(append(append(append([]string{}, profile.Goals.ShortTerm...), profile.Goals.LongTerm...), profile.Goals.Priorities...))
	outcomeTokens := tokenize(path.ExpectedOutcomes)

	if len(goalTokens) == 0 || len(outcomeTokens) == 0 {
		if trace != nil {
			trace.Add("goal_alignment", "目标或预期产出缺失，记中性 50 分",
				map[string]float64{"goalTokens": float64(len(goalTokens)), "outcomeTokens": float64(len(outcomeTokens))})
		}
		return neutralGoalScore
	}

	var overlap float64
	for tok := range outcomeTokens {
		if goalTokens[tok] {
			overlap++
		}
	}

	denom := float64(len(outcomeTokens))
	if float64(len(goalTokens)) < denom {
		denom = float64(len(goalTokens))
	}
	score := clampScore(overlap / denom * 100)
	if trace != nil {
		trace.Add("goal_alignment",
			fmt.Sprintf("词汇重叠 %.0f / min(%d, %d) × 100 = %.2f", overlap, len(outcomeTokens), len(goalTokens), score),
			map[string]float64{
				"overlap":       overlap,
				"goalTokens":    float64(len(goalTokens)),
				"outcomeTokens": float64(len(outcomeTokens)),
			})
	}
	return score
}

// 极简停用词表，保证分词结果稳定
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "be": true,
	"by": true, "for": true, "in": true, "into": true, "is": true, "my": true,
	"of": true, "on": true, "or": true, "the": true, "to": true, "with": true,
}

func tokenize(phrases []string) map[string]bool {
	tokens := make(map[string]bool)
	for _, phrase := range phrases {
		fields := strings.FieldsFunc(strings.ToLower(phrase), func(r rune) bool {
			return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && !(r >= 0x4e00 && r <= 0x9fff)
		})
		for _, f := range fields {
			if len(f) < 2 {
				continue
			}
			if stopwords[f] {
				continue
			}
			tokens[f] = true
		}
	}
	return tokens
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

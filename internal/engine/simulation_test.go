package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_ProbabilityAlwaysClamped(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("upper clamp", func(t *testing.T) {
		// education prior 0.65 + two skill-match bonus steps would exceed 0.90
		cfg := cfg
		cfg.BaseSuccessRate = map[PathType]float64{PathEducation: 0.85}
		path := testPath()
		path.PathType = PathEducation

		res, err := Simulate(testProfile(), path, cfg)
		require.NoError(t, err)
		assert.LessOrEqual(t, res.SuccessProbability, cfg.MaxSuccessProbability)
	})

	t.Run("lower clamp", func(t *testing.T) {
		profile := Profile{Constraints: Constraints{HoursPerWeek: 2, FinancialResources: 100}}
		path := Path{
			PathID:   "hard-startup",
			PathType: PathStartup,
			RequiredSkills: []SkillRequirement{
				{Name: "Sales", Level: 9},
				{Name: "Product", Level: 9},
			},
			RequiredResources: RequiredResources{
				FinancialInvestment:        100000,
				TimeCommitmentHoursPerWeek: 60,
			},
			EstimatedTimelineMonths: 1,
		}

		res, err := Simulate(profile, path, DefaultConfig())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.SuccessProbability, 0.10)
		assert.LessOrEqual(t, res.SuccessProbability, 0.90)
	})
}

func TestSimulate_SkillMatchBonusSteps(t *testing.T) {
	cfg := DefaultConfig()
	res, err := Simulate(testProfile(), testPath(), cfg)
	require.NoError(t, err)

	// skill match 100 → two full 20% steps above 50 → +0.20 on the 0.55 career prior
	assert.InDelta(t, 0.75, res.SuccessProbability, 1e-9)
}

func TestSimulate_TraceIncludesSkillMatchDerivation(t *testing.T) {
	res, err := Simulate(testProfile(), testPath(), DefaultConfig())
	require.NoError(t, err)

	rules := make([]string, 0, len(res.Trace.Steps))
	for _, step := range res.Trace.Steps {
		rules = append(rules, step.Rule)
	}
	// the merged sub-trace explains the match score the bonus is based on
	assert.Contains(t, rules, "skill_match")
	assert.Contains(t, rules, "base_rate")
	assert.Contains(t, rules, "probability_clamp")
}

func TestSimulate_CriticalResourcePenalty(t *testing.T) {
	cfg := DefaultConfig()
	path := testPath()
	path.RequiredResources.FinancialInvestment = 16000 // gap 6000 > 50% of 10000

	base, err := Simulate(testProfile(), testPath(), cfg)
	require.NoError(t, err)
	penalized, err := Simulate(testProfile(), path, cfg)
	require.NoError(t, err)

	assert.InDelta(t, cfg.CriticalResourcePenalty, base.SuccessProbability-penalized.SuccessProbability, 1e-9)
}

func TestSimulate_AggressiveTimelinePenalty(t *testing.T) {
	cfg := DefaultConfig()
	path := testPath()
	path.RequiredSkills = []SkillRequirement{
		{Name: "Kubernetes", Level: 8},
		{Name: "Terraform", Level: 8},
	}
	path.EstimatedTimelineMonths = 2 // far below the learning months for two absent skills

	res, err := Simulate(testProfile(), path, cfg)
	require.NoError(t, err)

	found := false
	for _, s := range res.Trace.Steps {
		if s.Rule == "aggressive_timeline" {
			found = true
		}
	}
	assert.True(t, found, "expected the aggressive timeline adjustment to fire")
}

func TestSimulate_MilestonesStrictlyIncreasingAndDecaying(t *testing.T) {
	paths := []Path{testPath()}
	startup := testPath()
	startup.PathID = "startup"
	startup.PathType = PathStartup
	education := testPath()
	education.PathID = "education"
	education.PathType = PathEducation
	paths = append(paths, startup, education)

	for _, path := range paths {
		res, err := Simulate(testProfile(), path, DefaultConfig())
		require.NoError(t, err)
		require.NotEmpty(t, res.Timeline.Milestones, "path %s", path.PathID)

		for i, m := range res.Timeline.Milestones {
			assert.GreaterOrEqual(t, m.CompletionProbability, 0.0)
			assert.LessOrEqual(t, m.CompletionProbability, 1.0)
			if i > 0 {
				prev := res.Timeline.Milestones[i-1]
				assert.Greater(t, m.MonthOffset, prev.MonthOffset, "path %s milestone %d", path.PathID, i)
				assert.LessOrEqual(t, m.CompletionProbability, prev.CompletionProbability)
			}
		}
	}
}

func TestSimulate_TimelineStretchAndBuffer(t *testing.T) {
	cfg := DefaultConfig()
	path := testPath()
	path.RequiredResources.TimeCommitmentHoursPerWeek = 40 // double the available 20h
	path.RequiredSkills = []SkillRequirement{{Name: "Kubernetes", Level: 8}} // severity 8 gap → +1 month

	res, err := Simulate(testProfile(), path, cfg)
	require.NoError(t, err)
	// 12 months × 2.0 stretch + 1 buffer month
	assert.InDelta(t, 25.0, res.Timeline.TotalMonths, 1e-9)
}

func TestSimulate_RiskPredicatesIndependent(t *testing.T) {
	t.Run("no risks for a comfortable fit", func(t *testing.T) {
		res, err := Simulate(testProfile(), testPath(), DefaultConfig())
		require.NoError(t, err)
		assert.Empty(t, res.RiskIndicators, "no placeholder indicators expected")
	})

	t.Run("financial and time risks fire together", func(t *testing.T) {
		path := testPath()
		path.RequiredResources.FinancialInvestment = 30000
		path.RequiredResources.TimeCommitmentHoursPerWeek = 50

		res, err := Simulate(testProfile(), path, DefaultConfig())
		require.NoError(t, err)

		types := map[RiskType]RiskSeverity{}
		for _, r := range res.RiskIndicators {
			types[r.RiskType] = r.Severity
			assert.NotEmpty(t, r.Description)
			assert.NotEmpty(t, r.Mitigations)
		}
		assert.Equal(t, RiskHigh, types[RiskFinancial])
		assert.Equal(t, RiskHigh, types[RiskTimeConflict])
		assert.NotContains(t, types, RiskSkill)
	})

	t.Run("startup always carries market risk", func(t *testing.T) {
		path := testPath()
		path.PathType = PathStartup

		res, err := Simulate(testProfile(), path, DefaultConfig())
		require.NoError(t, err)

		var market *RiskIndicator
		for i := range res.RiskIndicators {
			if res.RiskIndicators[i].RiskType == RiskMarket {
				market = &res.RiskIndicators[i]
			}
		}
		require.NotNil(t, market)
		assert.Equal(t, RiskHigh, market.Severity)
	})
}

func TestSimulate_ValidationErrors(t *testing.T) {
	path := testPath()
	path.RequiredSkills = []SkillRequirement{{Name: "  ", Level: 5}}

	_, err := Simulate(testProfile(), path, DefaultConfig())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestSimulate_Idempotent(t *testing.T) {
	path := testPath()
	path.RequiredSkills = append(path.RequiredSkills, SkillRequirement{Name: "Kubernetes", Level: 9})

	a, err := Simulate(testProfile(), path, DefaultConfig())
	require.NoError(t, err)
	b, err := Simulate(testProfile(), path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

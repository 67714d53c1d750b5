package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() Profile {
	return Profile{
		Background: "software engineer with cloud experience",
		Skills: []Skill{
			{Name: "Python", Level: 8, YearsExperience: 5},
			{Name: "AWS", Level: 6, YearsExperience: 3},
		},
		Constraints: Constraints{HoursPerWeek: 20, FinancialResources: 10000},
		Goals: Goals{
			ShortTerm:  []string{"become a machine learning engineer"},
			LongTerm:   []string{"lead a machine learning team"},
			Priorities: []string{"stable income", "remote work"},
		},
	}
}

func testPath() Path {
	return Path{
		PathID:   "ml-engineer",
		PathType: PathCareer,
		RequiredSkills: []SkillRequirement{
			{Name: "Python", Level: 5},
			{Name: "AWS", Level: 5},
		},
		RequiredResources: RequiredResources{
			FinancialInvestment:        0,
			TimeCommitmentHoursPerWeek: 10,
		},
		ExpectedOutcomes:        []string{"machine learning engineer role", "higher income"},
		EstimatedTimelineMonths: 12,
	}
}

func TestScorePath_FullyQualifiedProfile(t *testing.T) {
	b, err := ScorePath(testProfile(), testPath(), DefaultWeights())
	require.NoError(t, err)

	assert.Equal(t, 100.0, b.SkillMatch)
	assert.Equal(t, 100.0, b.ResourceFit)
	assert.Equal(t, 100.0, b.TimelineFeasibility)
	assert.NotEmpty(t, b.Trace.Steps)
}

func TestScorePath_InvalidWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights ScoringWeights
	}{
		{"sum above one", ScoringWeights{SkillMatch: 0.3, ResourceFit: 0.25, TimelineFeasibility: 0.2, GoalAlignment: 0.3}},
		{"sum below one", ScoringWeights{SkillMatch: 0.2, ResourceFit: 0.2, TimelineFeasibility: 0.2, GoalAlignment: 0.2}},
		{"negative weight", ScoringWeights{SkillMatch: -0.1, ResourceFit: 0.5, TimelineFeasibility: 0.3, GoalAlignment: 0.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScorePath(testProfile(), testPath(), tt.weights)
			require.Error(t, err)
			var iw *InvalidWeightsError
			assert.ErrorAs(t, err, &iw)
		})
	}
}

func TestScorePath_NoRequiredSkills(t *testing.T) {
	path := testPath()
	path.RequiredSkills = nil

	b, err := ScorePath(testProfile(), path, DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 100.0, b.SkillMatch)
}

func TestScorePath_MissingSkillContributesZero(t *testing.T) {
	path := testPath()
	path.RequiredSkills = []SkillRequirement{
		{Name: "Python", Level: 5}, // met, weight 5
		{Name: "Rust", Level: 5},   // absent, weight 5
	}

	b, err := ScorePath(testProfile(), path, DefaultWeights())
	require.NoError(t, err)
	assert.InDelta(t, 50.0, b.SkillMatch, 1e-9)
}

func TestScorePath_ResourcePenalties(t *testing.T) {
	path := testPath()
	path.RequiredResources.FinancialInvestment = 20000 // double the available funds
	path.RequiredResources.TimeCommitmentHoursPerWeek = 40

	b, err := ScorePath(testProfile(), path, DefaultWeights())
	require.NoError(t, err)
	assert.Less(t, b.ResourceFit, 100.0)
	assert.GreaterOrEqual(t, b.ResourceFit, 0.0)
	assert.InDelta(t, 50.0, b.TimelineFeasibility, 1e-9) // 20/40*100
}

func TestScorePath_ResourceFitFlooredAtZero(t *testing.T) {
	profile := testProfile()
	profile.Constraints.FinancialResources = 0
	profile.Constraints.HoursPerWeek = 1
	path := testPath()
	path.RequiredResources.FinancialInvestment = 1000000
	path.RequiredResources.TimeCommitmentHoursPerWeek = 80

	b, err := ScorePath(profile, path, DefaultWeights())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, b.ResourceFit, 0.0)
}

func TestScorePath_GoalAlignmentNeutralWithoutGoals(t *testing.T) {
	profile := testProfile()
	profile.Goals = Goals{}

	b, err := ScorePath(profile, testPath(), DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 50.0, b.GoalAlignment)
}

func TestScorePath_GoalAlignmentOverlap(t *testing.T) {
	b, err := ScorePath(testProfile(), testPath(), DefaultWeights())
	require.NoError(t, err)
	// "machine", "learning", "engineer", "income" all overlap with the goals
	assert.Greater(t, b.GoalAlignment, 50.0)
	assert.LessOrEqual(t, b.GoalAlignment, 100.0)
}

func TestScorePath_TotalScoreBounded(t *testing.T) {
	weightSets := []ScoringWeights{
		DefaultWeights(),
		{SkillMatch: 1, ResourceFit: 0, TimelineFeasibility: 0, GoalAlignment: 0},
		{SkillMatch: 0.1, ResourceFit: 0.2, TimelineFeasibility: 0.3, GoalAlignment: 0.4},
	}
	profiles := []Profile{testProfile(), {Constraints: Constraints{HoursPerWeek: 5}}}
	paths := []Path{testPath()}
	extreme := testPath()
	extreme.PathID = "extreme"
	extreme.RequiredResources.FinancialInvestment = 1e9
	extreme.RequiredResources.TimeCommitmentHoursPerWeek = 168
	paths = append(paths, extreme)

	for _, w := range weightSets {
		for _, p := range profiles {
			for _, path := range paths {
				b, err := ScorePath(p, path, w)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, b.TotalScore, 0.0)
				assert.LessOrEqual(t, b.TotalScore, 100.0)
			}
		}
	}
}

func TestScoreAllPaths_SortedDescendingAndStable(t *testing.T) {
	profile := testProfile()
	easy := testPath()
	easy.PathID = "easy"

	hard := testPath()
	hard.PathID = "hard"
	hard.RequiredSkills = []SkillRequirement{{Name: "Rust", Level: 9}}
	hard.RequiredResources.FinancialInvestment = 50000

	twinA := testPath()
	twinA.PathID = "twin-a"
	twinB := testPath()
	twinB.PathID = "twin-b"

	results, err := ScoreAllPaths(profile, []Path{hard, twinA, twinB, easy}, DefaultWeights())
	require.NoError(t, err)
	require.Len(t, results, 4)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].TotalScore, results[i].TotalScore)
	}
	// identical paths keep their input order on ties
	idxA, idxB := -1, -1
	for i, r := range results {
		if r.PathID == "twin-a" {
			idxA = i
		}
		if r.PathID == "twin-b" {
			idxB = i
		}
	}
	assert.Less(t, idxA, idxB)
	assert.Equal(t, "hard", results[len(results)-1].PathID)
}

func TestScoreAllPaths_EmptyInput(t *testing.T) {
	results, err := ScoreAllPaths(testProfile(), nil, DefaultWeights())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestScoreAllPaths_DistinctWeightsChangeScores(t *testing.T) {
	profile := testProfile()
	path := testPath()
	path.RequiredResources.FinancialInvestment = 15000 // sub-scores now differ from each other

	a, err := ScorePath(profile, path, ScoringWeights{SkillMatch: 0.7, ResourceFit: 0.1, TimelineFeasibility: 0.1, GoalAlignment: 0.1})
	require.NoError(t, err)
	b, err := ScorePath(profile, path, ScoringWeights{SkillMatch: 0.1, ResourceFit: 0.7, TimelineFeasibility: 0.1, GoalAlignment: 0.1})
	require.NoError(t, err)
	assert.NotEqual(t, a.TotalScore, b.TotalScore)
}

func TestScorePath_Idempotent(t *testing.T) {
	a, err := ScorePath(testProfile(), testPath(), DefaultWeights())
	require.NoError(t, err)
	b, err := ScorePath(testProfile(), testPath(), DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestScorePath_InvalidInputs(t *testing.T) {
	t.Run("duplicate profile skill", func(t *testing.T) {
		profile := testProfile()
		profile.Skills = append(profile.Skills, Skill{Name: "python", Level: 3})
		_, err := ScorePath(profile, testPath(), DefaultWeights())
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("zero timeline", func(t *testing.T) {
		path := testPath()
		path.EstimatedTimelineMonths = 0
		_, err := ScorePath(testProfile(), path, DefaultWeights())
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("unknown path type", func(t *testing.T) {
		path := testPath()
		path.PathType = "freelance"
		_, err := ScorePath(testProfile(), path, DefaultWeights())
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"path_advisor_backend/internal/config"
	"path_advisor_backend/internal/engine"
	"path_advisor_backend/internal/model"
	"path_advisor_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	logger.Log = zap.NewNop()
}

type fakeTaskGen struct {
	tasks    []engine.RoadmapTask
	err      error
	failures int // fail this many calls before succeeding
	calls    int

	gotGaps       []engine.SkillGap
	gotMilestones []engine.Milestone
}

func (f *fakeTaskGen) GenerateTasks(ctx context.Context, profile engine.Profile, path engine.Path, gaps []engine.SkillGap, milestones []engine.Milestone) ([]engine.RoadmapTask, error) {
	f.calls++
	f.gotGaps = gaps
	f.gotMilestones = milestones
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("upstream unavailable")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.tasks, nil
}

func analysisFixture(gen TaskGenerator) *AnalysisService {
	return &AnalysisService{
		TaskGen: gen,
		Cfg: &config.Config{
			Analysis: config.AnalysisConfig{
				TopN:                  3,
				CollaboratorTimeout:   time.Second,
				CollaboratorAttempts:  3,
				CollaboratorBackoffMS: 1,
				CacheTTL:              time.Hour,
			},
		},
		EngineCfg: engine.DefaultConfig(),
	}
}

func serviceProfile() engine.Profile {
	return engine.Profile{
		Skills: []engine.Skill{
			{Name: "Python", Level: 8},
		},
		Constraints: engine.Constraints{
			HoursPerWeek:       20,
			FinancialResources: 10000,
		},
	}
}

func servicePath() engine.Path {
	return engine.Path{
		PathID:   "ml-engineer",
		Title:    "机器学习工程师",
		PathType: engine.PathCareer,
		RequiredSkills: []engine.SkillRequirement{
			{Name: "Python", Level: 5},
		},
		RequiredResources: engine.RequiredResources{
			TimeCommitmentHoursPerWeek: 10,
		},
		EstimatedTimelineMonths: 12,
	}
}

func serviceSim(t *testing.T, profile engine.Profile, path engine.Path) engine.SimulationResult {
	t.Helper()
	sim, err := engine.Simulate(profile, path, engine.DefaultConfig())
	require.NoError(t, err)
	return sim
}

func TestBuildRoadmapUsesCollaboratorTasks(t *testing.T) {
	gen := &fakeTaskGen{
		tasks: []engine.RoadmapTask{
			{TaskID: "t1", Description: "学习基础课程", EstimatedHours: 6, Priority: engine.PriorityHigh},
			{TaskID: "t2", Description: "完成实战项目", EstimatedHours: 8, Priority: engine.PriorityMedium, Dependencies: []string{"t1"}},
		},
	}
	s := analysisFixture(gen)
	profile, path := serviceProfile(), servicePath()

	roadmap, degraded := s.buildRoadmap(context.Background(), profile, path, serviceSim(t, profile, path), 0)

	require.NotNil(t, roadmap)
	assert.False(t, degraded)
	assert.Equal(t, 1, gen.calls)

	var ids []string
	for _, week := range roadmap.Weeks {
		for _, task := range week.Tasks {
			ids = append(ids, task.TaskID)
		}
	}
	assert.Contains(t, ids, "t1")
	assert.Contains(t, ids, "t2")
}

func TestBuildRoadmapPassesGapsAndMilestonesToCollaborator(t *testing.T) {
	gen := &fakeTaskGen{
		tasks: []engine.RoadmapTask{
			{TaskID: "t1", Description: "学习基础课程", EstimatedHours: 6, Priority: engine.PriorityHigh},
		},
	}
	s := analysisFixture(gen)
	profile := serviceProfile()
	path := servicePath()
	path.RequiredSkills = append(path.RequiredSkills, engine.SkillRequirement{Name: "Kubernetes", Level: 6})
	sim := serviceSim(t, profile, path)

	_, degraded := s.buildRoadmap(context.Background(), profile, path, sim, 0)
	require.False(t, degraded)

	// the generator must see the computed gap and the simulated timeline
	require.NotEmpty(t, gen.gotGaps)
	assert.Equal(t, "Kubernetes", gen.gotGaps[0].SkillName)
	assert.Equal(t, sim.Timeline.Milestones, gen.gotMilestones)
}

func TestBuildRoadmapRetriesTransientFailures(t *testing.T) {
	gen := &fakeTaskGen{
		failures: 2,
		tasks: []engine.RoadmapTask{
			{TaskID: "t1", Description: "学习基础课程", EstimatedHours: 6, Priority: engine.PriorityHigh},
		},
	}
	s := analysisFixture(gen)
	profile, path := serviceProfile(), servicePath()

	roadmap, degraded := s.buildRoadmap(context.Background(), profile, path, serviceSim(t, profile, path), 0)

	require.NotNil(t, roadmap)
	assert.False(t, degraded)
	assert.Equal(t, 3, gen.calls)
}

func TestBuildRoadmapOmittedAfterExhaustedRetries(t *testing.T) {
	gen := &fakeTaskGen{err: errors.New("upstream unavailable")}
	s := analysisFixture(gen)
	profile, path := serviceProfile(), servicePath()

	roadmap, degraded := s.buildRoadmap(context.Background(), profile, path, serviceSim(t, profile, path), 0)

	// partial success: no roadmap, but the caller still gets scores and simulations
	assert.Nil(t, roadmap)
	assert.True(t, degraded)
	assert.Equal(t, 3, gen.calls)
}

func TestBuildRoadmapOmittedOnEmptyCollaboratorOutput(t *testing.T) {
	gen := &fakeTaskGen{tasks: nil}
	s := analysisFixture(gen)
	profile, path := serviceProfile(), servicePath()

	roadmap, degraded := s.buildRoadmap(context.Background(), profile, path, serviceSim(t, profile, path), 0)

	assert.Nil(t, roadmap)
	assert.True(t, degraded)
}

func TestBuildRoadmapOmittedOnInvalidCollaboratorOutput(t *testing.T) {
	// cyclic dependencies are treated as a collaborator failure
	gen := &fakeTaskGen{
		tasks: []engine.RoadmapTask{
			{TaskID: "a", Description: "任务A", EstimatedHours: 4, Priority: engine.PriorityHigh, Dependencies: []string{"b"}},
			{TaskID: "b", Description: "任务B", EstimatedHours: 4, Priority: engine.PriorityHigh, Dependencies: []string{"a"}},
		},
	}
	s := analysisFixture(gen)
	profile, path := serviceProfile(), servicePath()

	roadmap, degraded := s.buildRoadmap(context.Background(), profile, path, serviceSim(t, profile, path), 0)

	assert.Nil(t, roadmap)
	assert.True(t, degraded)
}

func TestResolveWeightsExplicitInvalid(t *testing.T) {
	s := analysisFixture(&fakeTaskGen{})
	bad := engine.ScoringWeights{SkillMatch: 0.5, ResourceFit: 0.5, TimelineFeasibility: 0.5, GoalAlignment: 0.5}

	_, err := s.resolveWeights(AnalysisRequest{ProfileID: 1, Weights: &bad})

	var we *engine.InvalidWeightsError
	require.ErrorAs(t, err, &we)
}

func TestResolveWeightsExplicitValid(t *testing.T) {
	s := analysisFixture(&fakeTaskGen{})
	w := engine.ScoringWeights{SkillMatch: 0.4, ResourceFit: 0.2, TimelineFeasibility: 0.2, GoalAlignment: 0.2}

	got, err := s.resolveWeights(AnalysisRequest{ProfileID: 1, Weights: &w})

	require.NoError(t, err)
	assert.Equal(t, w, got)
}

func TestSimulateTopPreservesRankingOrder(t *testing.T) {
	s := analysisFixture(&fakeTaskGen{})
	profile := serviceProfile()

	first := servicePath()
	second := servicePath()
	second.PathID = "data-analyst"
	second.RequiredSkills = []engine.SkillRequirement{{Name: "SQL", Level: 6}}
	paths := []engine.Path{first, second}

	rankings, err := engine.ScoreAllPaths(profile, paths, engine.DefaultWeights())
	require.NoError(t, err)

	sims, err := s.simulateTop(profile, paths, rankings)
	require.NoError(t, err)
	require.Len(t, sims, 2)
	for i := range sims {
		assert.Equal(t, rankings[i].PathID, sims[i].PathID)
	}
}

func TestCacheKeyChangesWithProfileVersion(t *testing.T) {
	s := analysisFixture(&fakeTaskGen{})
	row := &model.DecisionProfile{CurrentVersion: 1}
	row.ID = 7
	weights := engine.DefaultWeights()
	req := AnalysisRequest{ProfileID: 7}

	k1 := s.cacheKey(row, weights, req)
	row.CurrentVersion = 2
	k2 := s.cacheKey(row, weights, req)

	assert.NotEqual(t, k1, k2)
}

func TestCacheKeyDeterministic(t *testing.T) {
	s := analysisFixture(&fakeTaskGen{})
	row := &model.DecisionProfile{CurrentVersion: 3}
	row.ID = 7

	k1 := s.cacheKey(row, engine.DefaultWeights(), AnalysisRequest{ProfileID: 7})
	k2 := s.cacheKey(row, engine.DefaultWeights(), AnalysisRequest{ProfileID: 7})

	assert.Equal(t, k1, k2)
}

func TestNextMonday(t *testing.T) {
	// Wednesday 2025-06-04 -> Monday 2025-06-09
	wed := time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC)
	got := nextMonday(wed)
	assert.Equal(t, time.Monday, got.Weekday())
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), got)

	// a Monday maps to itself at midnight
	mon := time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), nextMonday(mon))
}

package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scheduleStart = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func task(id string, hours float64, priority TaskPriority, deps ...string) RoadmapTask {
	return RoadmapTask{
		TaskID:         id,
		Description:    "task " + id,
		EstimatedHours: hours,
		Priority:       priority,
		Category:       "learning",
		Dependencies:   deps,
	}
}

func emptySimulation() SimulationResult {
	return SimulationResult{PathID: "ml-engineer"}
}

func TestSchedule_DependencyForcesLaterWeek(t *testing.T) {
	// weekly budget 10h: A=6h and B=6h cannot share week 1, and B depends on A anyway
	profile := testProfile()
	profile.Constraints.HoursPerWeek = 10

	tasks := []RoadmapTask{
		task("a", 6, PriorityHigh),
		task("b", 6, PriorityHigh, "a"),
	}

	roadmap, err := Schedule(profile, testPath(), emptySimulation(), tasks, scheduleStart, 0, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, roadmap.Weeks, 2)

	require.Len(t, roadmap.Weeks[0].Tasks, 1)
	assert.Equal(t, "a", roadmap.Weeks[0].Tasks[0].TaskID)
	require.Len(t, roadmap.Weeks[1].Tasks, 1)
	assert.Equal(t, "b", roadmap.Weeks[1].Tasks[0].TaskID)
}

func TestSchedule_DependenciesAlwaysInEarlierWeeks(t *testing.T) {
	tasks := []RoadmapTask{
		task("setup", 4, PriorityHigh),
		task("course-1", 8, PriorityHigh, "setup"),
		task("course-2", 8, PriorityMedium, "course-1"),
		task("project", 12, PriorityHigh, "course-1"),
		task("portfolio", 6, PriorityLow, "project", "course-2"),
		task("networking", 2, PriorityLow),
	}

	roadmap, err := Schedule(testProfile(), testPath(), emptySimulation(), tasks, scheduleStart, 0, DefaultConfig())
	require.NoError(t, err)

	weekOf := map[string]int{}
	for _, w := range roadmap.Weeks {
		for _, task := range w.Tasks {
			weekOf[task.TaskID] = w.WeekNumber
		}
	}
	require.Len(t, weekOf, len(tasks))

	for _, task := range tasks {
		for _, dep := range task.Dependencies {
			assert.Less(t, weekOf[dep], weekOf[task.TaskID],
				"dependency %s of %s must be scheduled strictly earlier", dep, task.TaskID)
		}
	}
}

func TestSchedule_WeeklyBudgetRespected(t *testing.T) {
	tasks := []RoadmapTask{
		task("t1", 7, PriorityHigh),
		task("t2", 7, PriorityHigh),
		task("t3", 7, PriorityMedium),
		task("t4", 5, PriorityLow),
	}

	roadmap, err := Schedule(testProfile(), testPath(), emptySimulation(), tasks, scheduleStart, 0, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, roadmap.Warnings)

	for _, w := range roadmap.Weeks {
		var sum float64
		for _, task := range w.Tasks {
			sum += task.EstimatedHours
		}
		assert.LessOrEqual(t, sum, roadmap.WeeklyHourBudget, "week %d over budget", w.WeekNumber)
	}
}

func TestSchedule_OversizedTaskIsolatedWithWarning(t *testing.T) {
	tasks := []RoadmapTask{
		task("small", 5, PriorityHigh),
		task("huge", 35, PriorityHigh), // budget is 20h
	}

	roadmap, err := Schedule(testProfile(), testPath(), emptySimulation(), tasks, scheduleStart, 0, DefaultConfig())
	require.NoError(t, err)

	require.Len(t, roadmap.Warnings, 1)
	warning := roadmap.Warnings[0]
	assert.Equal(t, "huge", warning.TaskID)
	assert.Equal(t, 20.0, warning.WeeklyBudget)

	for _, w := range roadmap.Weeks {
		for _, task := range w.Tasks {
			if task.TaskID == "huge" {
				assert.Len(t, w.Tasks, 1, "oversized task must sit in its own week")
				assert.Equal(t, warning.WeekNumber, w.WeekNumber)
			}
		}
	}
}

func TestSchedule_CyclicDependenciesRejected(t *testing.T) {
	tasks := []RoadmapTask{
		task("a", 2, PriorityHigh, "c"),
		task("b", 2, PriorityHigh, "a"),
		task("c", 2, PriorityHigh, "b"),
	}

	_, err := Schedule(testProfile(), testPath(), emptySimulation(), tasks, scheduleStart, 0, DefaultConfig())
	var cyc *CyclicDependencyError
	require.ErrorAs(t, err, &cyc)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cyc.Tasks)
}

func TestSchedule_DependencyValidation(t *testing.T) {
	t.Run("unknown dependency", func(t *testing.T) {
		tasks := []RoadmapTask{task("a", 2, PriorityHigh, "ghost")}
		_, err := Schedule(testProfile(), testPath(), emptySimulation(), tasks, scheduleStart, 0, DefaultConfig())
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("self dependency", func(t *testing.T) {
		tasks := []RoadmapTask{task("a", 2, PriorityHigh, "a")}
		_, err := Schedule(testProfile(), testPath(), emptySimulation(), tasks, scheduleStart, 0, DefaultConfig())
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})

	t.Run("duplicate id", func(t *testing.T) {
		tasks := []RoadmapTask{task("a", 2, PriorityHigh), task("a", 3, PriorityLow)}
		_, err := Schedule(testProfile(), testPath(), emptySimulation(), tasks, scheduleStart, 0, DefaultConfig())
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})
}

func TestSchedule_PriorityOrderingWithinTopoTies(t *testing.T) {
	profile := testProfile()
	profile.Constraints.HoursPerWeek = 6

	tasks := []RoadmapTask{
		task("low", 6, PriorityLow),
		task("medium", 6, PriorityMedium),
		task("high", 6, PriorityHigh),
	}

	roadmap, err := Schedule(profile, testPath(), emptySimulation(), tasks, scheduleStart, 0, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, roadmap.Weeks, 3)
	assert.Equal(t, "high", roadmap.Weeks[0].Tasks[0].TaskID)
	assert.Equal(t, "medium", roadmap.Weeks[1].Tasks[0].TaskID)
	assert.Equal(t, "low", roadmap.Weeks[2].Tasks[0].TaskID)
}

func TestSchedule_SyntheticGapTasksInjected(t *testing.T) {
	sim := emptySimulation()
	sim.SkillGaps = []SkillGap{
		{SkillName: "Kubernetes", CurrentLevel: 0, RequiredLevel: 8, Severity: 8, ImpactOnSuccess: 0.8},
		{SkillName: "Docker", CurrentLevel: 4, RequiredLevel: 6, Severity: 2, ImpactOnSuccess: 0.2},
	}

	roadmap, err := Schedule(testProfile(), testPath(), sim, nil, scheduleStart, 0, DefaultConfig())
	require.NoError(t, err)

	var ids []string
	for _, w := range roadmap.Weeks {
		for _, task := range w.Tasks {
			ids = append(ids, task.TaskID)
		}
	}
	// only the high-severity gap earns a synthetic task
	assert.Equal(t, []string{"gap-kubernetes"}, ids)
}

func TestSchedule_SyntheticTaskSkippedWhenCandidateCoversGap(t *testing.T) {
	sim := emptySimulation()
	sim.SkillGaps = []SkillGap{
		{SkillName: "Kubernetes", CurrentLevel: 0, RequiredLevel: 8, Severity: 8, ImpactOnSuccess: 0.8},
	}
	candidates := []RoadmapTask{
		{TaskID: "course", Description: "Complete a Kubernetes certification course", EstimatedHours: 10, Priority: PriorityHigh},
	}

	roadmap, err := Schedule(testProfile(), testPath(), sim, candidates, scheduleStart, 0, DefaultConfig())
	require.NoError(t, err)

	var ids []string
	for _, w := range roadmap.Weeks {
		for _, task := range w.Tasks {
			ids = append(ids, task.TaskID)
		}
	}
	assert.Equal(t, []string{"course"}, ids)
}

func TestSchedule_MilestonesAttachedToMatchingWeeks(t *testing.T) {
	sim := emptySimulation()
	sim.Timeline = Timeline{
		TotalMonths: 3,
		Milestones: []Milestone{
			{Name: "m1", MonthOffset: 1, CompletionProbability: 0.7, SuccessCriteria: "first checkpoint"},
			{Name: "m2", MonthOffset: 2, CompletionProbability: 0.6, SuccessCriteria: "second checkpoint"},
		},
	}

	roadmap, err := Schedule(testProfile(), testPath(), sim, []RoadmapTask{task("a", 4, PriorityHigh)}, scheduleStart, 0, DefaultConfig())
	require.NoError(t, err)

	// ceil(1 × 4.33) = 5, ceil(2 × 4.33) = 9
	require.GreaterOrEqual(t, len(roadmap.Weeks), 9)
	require.NotNil(t, roadmap.Weeks[4].Milestone)
	assert.Equal(t, "m1", roadmap.Weeks[4].Milestone.Name)
	assert.Equal(t, "first checkpoint", roadmap.Weeks[4].Milestone.SuccessCriteria)
	require.NotNil(t, roadmap.Weeks[8].Milestone)
	assert.Equal(t, "m2", roadmap.Weeks[8].Milestone.Name)
}

func TestSchedule_WeeksContiguousAndDated(t *testing.T) {
	tasks := []RoadmapTask{
		task("a", 18, PriorityHigh),
		task("b", 18, PriorityMedium, "a"),
		task("c", 18, PriorityLow, "b"),
	}

	roadmap, err := Schedule(testProfile(), testPath(), emptySimulation(), tasks, scheduleStart, 0, DefaultConfig())
	require.NoError(t, err)

	for i, w := range roadmap.Weeks {
		assert.Equal(t, i+1, w.WeekNumber)
		assert.Equal(t, scheduleStart.AddDate(0, 0, 7*i), w.StartDate)
	}
}

func TestSchedule_BudgetOverride(t *testing.T) {
	tasks := []RoadmapTask{task("a", 30, PriorityHigh)}

	roadmap, err := Schedule(testProfile(), testPath(), emptySimulation(), tasks, scheduleStart, 40, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 40.0, roadmap.WeeklyHourBudget)
	assert.Empty(t, roadmap.Warnings)
}

func TestSchedule_EmptyCandidatesStillProducesRoadmap(t *testing.T) {
	roadmap, err := Schedule(testProfile(), testPath(), emptySimulation(), nil, scheduleStart, 0, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, roadmap.Warnings)
	assert.Empty(t, roadmap.Weeks)
}

func TestSchedule_Idempotent(t *testing.T) {
	sim := emptySimulation()
	sim.SkillGaps = []SkillGap{{SkillName: "Kubernetes", RequiredLevel: 8, Severity: 8, ImpactOnSuccess: 0.8}}
	tasks := []RoadmapTask{
		task("a", 6, PriorityHigh),
		task("b", 6, PriorityMedium, "a"),
	}

	r1, err := Schedule(testProfile(), testPath(), sim, tasks, scheduleStart, 0, DefaultConfig())
	require.NoError(t, err)
	r2, err := Schedule(testProfile(), testPath(), sim, tasks, scheduleStart, 0, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

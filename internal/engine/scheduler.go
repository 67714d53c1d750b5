package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Schedule 将候选任务排入逐周执行计划：先校验依赖无环，再按拓扑序贪心装箱，
// 最后把推演时间线的里程碑插入对应周。budgetOverride > 0 时覆盖画像的周可用时长
func Schedule(profile Profile, path Path, sim SimulationResult, candidates []RoadmapTask, startDate time.Time, budgetOverride float64, cfg Config) (Roadmap, error) {
	if err := profile.Validate(); err != nil {
		return Roadmap{}, err
	}
	if err := path.Validate(); err != nil {
		return Roadmap{}, err
	}

	budget := profile.Constraints.HoursPerWeek
	if budgetOverride > 0 {
		budget = budgetOverride
	}
	if budget <= 0 {
		return Roadmap{}, &ValidationError{Entity: "roadmap", Field: "weeklyHourBudget", Reason: "must be positive"}
	}

	tasks := append(syntheticGapTasks(sim.SkillGaps, candidates, cfg), candidates...)

	if err := validateTasks(tasks); err != nil {
		return Roadmap{}, err
	}

	ordered, err := topologicalOrder(tasks)
	if err != nil {
		return Roadmap{}, err
	}

	roadmap := packWeeks(ordered, budget, startDate)
	roadmap.PathID = path.PathID
	insertMilestones(&roadmap, sim.Timeline.Milestones, startDate, cfg)
	return roadmap, nil
}

// syntheticGapTasks 为未被候选任务覆盖的高严重度差距注入补差任务
func syntheticGapTasks(gaps []SkillGap, candidates []RoadmapTask, cfg Config) []RoadmapTask {
	covered := make(map[string]bool)
	for _, c := range candidates {
		text := strings.ToLower(c.Description)
		for _, g := range gaps {
			if strings.Contains(text, strings.ToLower(g.SkillName)) {
				covered[strings.ToLower(g.SkillName)] = true
			}
		}
	}

	var tasks []RoadmapTask
	for _, g := range gaps {
		if g.Severity < cfg.HighSeverityThreshold || covered[strings.ToLower(g.SkillName)] {
			continue
		}
		tasks = append(tasks, RoadmapTask{
			TaskID:         "gap-" + strings.ToLower(strings.ReplaceAll(g.SkillName, " ", "-")),
			Description:    fmt.Sprintf("补齐技能差距：%s（%d → %d 级）", g.SkillName, g.CurrentLevel, g.RequiredLevel),
			EstimatedHours: float64(g.Severity) * cfg.GapTaskHoursPerSeverity,
			Priority:       PriorityHigh,
			Category:       "skill_gap",
		})
	}
	return tasks
}

func validateTasks(tasks []RoadmapTask) error {
	ids := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if strings.TrimSpace(t.TaskID) == "" {
			return &ValidationError{Entity: "task", Field: "taskId", Reason: "must not be empty"}
		}
		if ids[t.TaskID] {
			return &ValidationError{Entity: "task", Field: "taskId", Reason: fmt.Sprintf("duplicate task id %q", t.TaskID)}
		}
		ids[t.TaskID] = true
		if t.EstimatedHours <= 0 {
			return &ValidationError{Entity: "task", Field: "estimatedHours", Reason: fmt.Sprintf("task %q hours must be positive", t.TaskID)}
		}
		if !t.Priority.Valid() {
			return &ValidationError{Entity: "task", Field: "priority", Reason: fmt.Sprintf("task %q has unknown priority %q", t.TaskID, t.Priority)}
		}
	}
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if dep == t.TaskID {
				return &ValidationError{Entity: "task", Field: "dependencies", Reason: fmt.Sprintf("task %q depends on itself", t.TaskID)}
			}
			if !ids[dep] {
				return &ValidationError{Entity: "task", Field: "dependencies", Reason: fmt.Sprintf("task %q depends on unknown task %q", t.TaskID, dep)}
			}
		}
	}
	return nil
}

// topologicalOrder Kahn 算法；就绪集合按 优先级 > 预估工时升序 > 输入顺序 取任务。
// 无法清空时说明存在环，硬失败
func topologicalOrder(tasks []RoadmapTask) ([]RoadmapTask, error) {
	index := make(map[string]int, len(tasks))
	indegree := make(map[string]int, len(tasks))
	dependents := make(map[string][]string, len(tasks))
	for i, t := range tasks {
		index[t.TaskID] = i
		indegree[t.TaskID] = len(t.Dependencies)
	}
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			dependents[dep] = append(dependents[dep], t.TaskID)
		}
	}

	var ready []RoadmapTask
	for _, t := range tasks {
		if indegree[t.TaskID] == 0 {
			ready = append(ready, t)
		}
	}

	ordered := make([]RoadmapTask, 0, len(tasks))
	for len(ready) > 0 {
		sort.SliceStable(ready, func(i, j int) bool {
			if ready[i].Priority.rank() != ready[j].Priority.rank() {
				return ready[i].Priority.rank() < ready[j].Priority.rank()
			}
			if ready[i].EstimatedHours != ready[j].EstimatedHours {
				return ready[i].EstimatedHours < ready[j].EstimatedHours
			}
			return index[ready[i].TaskID] < index[ready[j].TaskID]
		})

		next := ready[0]
		ready = ready[1:]
		ordered = append(ordered, next)

		for _, id := range dependents[next.TaskID] {
			indegree[id]--
			if indegree[id] == 0 {
				ready = append(ready, tasks[index[id]])
			}
		}
	}

	if len(ordered) != len(tasks) {
		var cyclic []string
		for _, t := range tasks {
			if indegree[t.TaskID] > 0 {
				cyclic = append(cyclic, t.TaskID)
			}
		}
		sort.Strings(cyclic)
		return nil, &CyclicDependencyError{Tasks: cyclic}
	}
	return ordered, nil
}

// packWeeks 贪心装箱：任务放入满足依赖严格早于且容量允许的最早一周；
// 单个任务超预算时独占一周并记录警告，而非被丢弃
func packWeeks(ordered []RoadmapTask, budget float64, startDate time.Time) Roadmap {
	roadmap := Roadmap{WeeklyHourBudget: budget}
	weekHours := []float64{}
	taskWeek := make(map[string]int, len(ordered))

	ensureWeek := func(n int) {
		for len(roadmap.Weeks) < n {
			num := len(roadmap.Weeks) + 1
			roadmap.Weeks = append(roadmap.Weeks, Week{
				WeekNumber: num,
				StartDate:  startDate.AddDate(0, 0, 7*(num-1)),
				Tasks:      []RoadmapTask{},
			})
			weekHours = append(weekHours, 0)
		}
	}

	for _, t := range ordered {
		earliest := 1
		for _, dep := range t.Dependencies {
			if w := taskWeek[dep]; w >= earliest {
				earliest = w + 1
			}
		}

		oversized := t.EstimatedHours > budget
		placed := 0
		for w := earliest; ; w++ {
			ensureWeek(w)
			if oversized {
				// 超预算任务独占一周
				if len(roadmap.Weeks[w-1].Tasks) == 0 {
					placed = w
					break
				}
				continue
			}
			if weekHours[w-1]+t.EstimatedHours <= budget {
				placed = w
				break
			}
		}

		roadmap.Weeks[placed-1].Tasks = append(roadmap.Weeks[placed-1].Tasks, t)
		weekHours[placed-1] += t.EstimatedHours
		taskWeek[t.TaskID] = placed

		if oversized {
			roadmap.Warnings = append(roadmap.Warnings, BudgetWarning{
				TaskID:         t.TaskID,
				WeekNumber:     placed,
				EstimatedHours: t.EstimatedHours,
				WeeklyBudget:   budget,
			})
		}
	}
	return roadmap
}

// insertMilestones 按 4.33 周/月折算，把里程碑挂到对应周；同周冲突时顺延，保持顺序
func insertMilestones(roadmap *Roadmap, milestones []Milestone, startDate time.Time, cfg Config) {
	lastWeek := 0
	for i := range milestones {
		m := milestones[i]
		target := int(math.Ceil(m.MonthOffset * cfg.WeeksPerMonth))
		if target < 1 {
			target = 1
		}
		if target <= lastWeek {
			target = lastWeek + 1
		}
		lastWeek = target

		for len(roadmap.Weeks) < target {
			num := len(roadmap.Weeks) + 1
			roadmap.Weeks = append(roadmap.Weeks, Week{
				WeekNumber: num,
				StartDate:  startDate.AddDate(0, 0, 7*(num-1)),
				Tasks:      []RoadmapTask{},
			})
		}
		ms := m
		roadmap.Weeks[target-1].Milestone = &ms
	}
}

package engine

import (
	"fmt"
	"strings"
)

// ValidationError 入参校验失败：在任何计算开始前返回，绝不部分生效
type ValidationError struct {
	Entity string
	PathID string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.PathID != "" {
		return fmt.Sprintf("invalid %s %s: %s: %s", e.Entity, e.PathID, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s: %s", e.Entity, e.Field, e.Reason)
}

// InvalidWeightsError 权重配置非法（负值或未归一），不做静默重归一化
type InvalidWeightsError struct {
	Sum    float64
	Reason string
}

func (e *InvalidWeightsError) Error() string {
	return fmt.Sprintf("invalid scoring weights (sum=%.6f): %s", e.Sum, e.Reason)
}

// CyclicDependencyError 任务依赖成环，排期硬失败
type CyclicDependencyError struct {
	Tasks []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic task dependencies involving: %s", strings.Join(e.Tasks, ", "))
}

// BudgetWarning 单个任务自身超出周预算，任务仍被排入独立周而非丢弃
type BudgetWarning struct {
	TaskID         string  `json:"taskId"`
	WeekNumber     int     `json:"weekNumber"`
	EstimatedHours float64 `json:"estimatedHours"`
	WeeklyBudget   float64 `json:"weeklyBudget"`
}

func (w BudgetWarning) String() string {
	return fmt.Sprintf("task %s (%.1fh) exceeds the weekly budget of %.1fh in week %d",
		w.TaskID, w.EstimatedHours, w.WeeklyBudget, w.WeekNumber)
}

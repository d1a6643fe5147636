// Package workflow sequences the ingestion pipelines: named stages with
// declared dependencies, skip conditions and per-stage results. One
// invocation is one logical task: stages run strictly in dependency
// order, never in parallel, and the first hard failure short-circuits the
// rest.
package workflow

import (
	"context"
	"fmt"

	"github.com/baraka/dse2db/database"
)

// TaskState represents the state of a stage execution.
type TaskState string

const (
	StatePending   TaskState = "pending"
	StateRunning   TaskState = "running"
	StateCompleted TaskState = "completed"
	StateSkipped   TaskState = "skipped"
	StateFailed    TaskState = "failed"
)

// TaskResult holds the execution result of a stage.
type TaskResult struct {
	State   TaskState
	Rows    int
	Message string
	Error   error
}

type ErrorMode int

const (
	// ErrorModeStop fails the whole run on stage failure.
	ErrorModeStop ErrorMode = iota
	// ErrorModeSkip records the failure and continues.
	ErrorModeSkip
)

// TaskFunc executes one stage against the shared run state.
type TaskFunc func(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error)

// SkipCondition decides whether a stage should be skipped for this run.
type SkipCondition func(ctx context.Context, db database.Store, st *RunState) bool

// Task is one named stage with its dependencies.
type Task struct {
	Name      string
	DependsOn []string
	Executor  TaskFunc
	SkipIf    SkipCondition
	OnError   ErrorMode
}

// Report collects per-stage results for one run.
type Report struct {
	Results map[string]*TaskResult

	// FailedTask names the stage whose stop-mode failure ended the run;
	// empty when every stage completed or was skipped.
	FailedTask string
}

// Failed returns the result of the stage that ended the run, or nil.
func (r *Report) Failed() *TaskResult {
	if r.FailedTask == "" {
		return nil
	}
	return r.Results[r.FailedTask]
}

// TaskExecutor runs stages in dependency order.
type TaskExecutor struct {
	db    database.Store
	tasks map[string]*Task
}

func NewTaskExecutor(db database.Store, tasks map[string]*Task) *TaskExecutor {
	return &TaskExecutor{db: db, tasks: tasks}
}

// Run executes the named stages sequentially in topological order. The
// returned error covers engine-level problems (unknown task, cycle,
// cancelled context); stage failures live in the Report.
func (te *TaskExecutor) Run(ctx context.Context, taskNames []string, st *RunState) (*Report, error) {
	order, err := te.topologicalSort(taskNames)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve task dependencies: %w", err)
	}

	report := &Report{Results: make(map[string]*TaskResult, len(order))}

	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		task := te.tasks[name]

		if !te.depsSatisfied(task, report.Results) {
			report.Results[name] = &TaskResult{State: StateSkipped, Message: "dependency not satisfied"}
			continue
		}

		if task.SkipIf != nil && task.SkipIf(ctx, te.db, st) {
			report.Results[name] = &TaskResult{State: StateSkipped, Message: "skipped by condition"}
			continue
		}

		result, err := task.Executor(ctx, te.db, st)
		if err != nil {
			result = &TaskResult{State: StateFailed, Message: err.Error(), Error: err}
		}
		if result == nil {
			result = &TaskResult{State: StateCompleted}
		}
		report.Results[name] = result

		if result.State == StateFailed && task.OnError == ErrorModeStop {
			report.FailedTask = name
			return report, nil
		}
	}

	return report, nil
}

func (te *TaskExecutor) depsSatisfied(task *Task, results map[string]*TaskResult) bool {
	for _, dep := range task.DependsOn {
		result, exists := results[dep]
		if !exists {
			return false
		}
		if result.State != StateCompleted && result.State != StateSkipped {
			return false
		}
	}
	return true
}

func (te *TaskExecutor) topologicalSort(taskNames []string) ([]string, error) {
	inDegree := make(map[string]int)
	adj := make(map[string][]string)
	taskSet := make(map[string]bool)

	for _, name := range taskNames {
		if _, exists := te.tasks[name]; !exists {
			return nil, fmt.Errorf("task %s not found", name)
		}
		taskSet[name] = true
		inDegree[name] = 0
	}

	for _, name := range taskNames {
		task := te.tasks[name]
		for _, dep := range task.DependsOn {
			if !taskSet[dep] {
				continue
			}
			adj[dep] = append(adj[dep], name)
			inDegree[name]++
		}
	}

	var queue []string
	for _, name := range taskNames {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	var order []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		for _, neighbor := range adj[current] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(order) != len(taskNames) {
		return nil, fmt.Errorf("circular dependency detected")
	}

	return order, nil
}

package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baraka/dse2db/database"
)

func noop(name string, log *[]string) TaskFunc {
	return func(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error) {
		*log = append(*log, name)
		return &TaskResult{State: StateCompleted}, nil
	}
}

func TestExecutorRunsInDependencyOrder(t *testing.T) {
	var order []string
	tasks := map[string]*Task{
		"c": {Name: "c", DependsOn: []string{"b"}, Executor: noop("c", &order)},
		"a": {Name: "a", Executor: noop("a", &order)},
		"b": {Name: "b", DependsOn: []string{"a"}, Executor: noop("b", &order)},
	}

	exec := NewTaskExecutor(newFakeStore(), tasks)
	report, err := exec.Run(context.Background(), []string{"c", "a", "b"}, &RunState{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Empty(t, report.FailedTask)
}

func TestExecutorStopsOnFailure(t *testing.T) {
	var order []string
	tasks := map[string]*Task{
		"a": {Name: "a", Executor: noop("a", &order)},
		"b": {
			Name:      "b",
			DependsOn: []string{"a"},
			Executor: func(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error) {
				return nil, errors.New("boom")
			},
			OnError: ErrorModeStop,
		},
		"c": {Name: "c", DependsOn: []string{"b"}, Executor: noop("c", &order)},
	}

	exec := NewTaskExecutor(newFakeStore(), tasks)
	report, err := exec.Run(context.Background(), []string{"a", "b", "c"}, &RunState{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, order, "c must not run after b fails")
	assert.Equal(t, "b", report.FailedTask)
	require.NotNil(t, report.Failed())
	assert.Equal(t, "boom", report.Failed().Message)
}

func TestExecutorSkipCondition(t *testing.T) {
	var order []string
	tasks := map[string]*Task{
		"a": {Name: "a", Executor: noop("a", &order)},
		"b": {
			Name:      "b",
			DependsOn: []string{"a"},
			Executor:  noop("b", &order),
			SkipIf: func(ctx context.Context, db database.Store, st *RunState) bool {
				return true
			},
		},
		"c": {Name: "c", DependsOn: []string{"b"}, Executor: noop("c", &order)},
	}

	exec := NewTaskExecutor(newFakeStore(), tasks)
	report, err := exec.Run(context.Background(), []string{"a", "b", "c"}, &RunState{})
	require.NoError(t, err)

	// skipped counts as satisfied for dependents
	assert.Equal(t, []string{"a", "c"}, order)
	assert.Equal(t, StateSkipped, report.Results["b"].State)
}

func TestExecutorErrorModeSkipContinues(t *testing.T) {
	var order []string
	tasks := map[string]*Task{
		"a": {
			Name: "a",
			Executor: func(ctx context.Context, db database.Store, st *RunState) (*TaskResult, error) {
				return nil, errors.New("soft failure")
			},
			OnError: ErrorModeSkip,
		},
		"b": {Name: "b", Executor: noop("b", &order)},
	}

	exec := NewTaskExecutor(newFakeStore(), tasks)
	report, err := exec.Run(context.Background(), []string{"a", "b"}, &RunState{})
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, order)
	assert.Empty(t, report.FailedTask)
	assert.Equal(t, StateFailed, report.Results["a"].State)
}

func TestExecutorUnknownTask(t *testing.T) {
	exec := NewTaskExecutor(newFakeStore(), map[string]*Task{})
	_, err := exec.Run(context.Background(), []string{"ghost"}, &RunState{})
	assert.Error(t, err)
}

func TestExecutorCircularDependency(t *testing.T) {
	var order []string
	tasks := map[string]*Task{
		"a": {Name: "a", DependsOn: []string{"b"}, Executor: noop("a", &order)},
		"b": {Name: "b", DependsOn: []string{"a"}, Executor: noop("b", &order)},
	}

	exec := NewTaskExecutor(newFakeStore(), tasks)
	_, err := exec.Run(context.Background(), []string{"a", "b"}, &RunState{})
	assert.Error(t, err)
}

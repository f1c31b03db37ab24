package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ludo-technologies/jsbundle/domain"
)

func TestExecuteRunsAllTasks(t *testing.T) {
	executor := NewParallelExecutor()

	var count int64
	tasks := make([]domain.ExecutableTask, 0, 5)
	for i := 0; i < 5; i++ {
		tasks = append(tasks, &FuncTask{
			TaskName: fmt.Sprintf("task-%d", i),
			Enabled:  true,
			Fn: func(ctx context.Context) (any, error) {
				atomic.AddInt64(&count, 1)
				return nil, nil
			},
		})
	}

	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if count != 5 {
		t.Errorf("Expected 5 tasks to run, got %d", count)
	}
}

func TestExecuteSkipsDisabledTasks(t *testing.T) {
	executor := NewParallelExecutor()

	var ran int64
	tasks := []domain.ExecutableTask{
		&FuncTask{TaskName: "on", Enabled: true, Fn: func(ctx context.Context) (any, error) {
			atomic.AddInt64(&ran, 1)
			return nil, nil
		}},
		&FuncTask{TaskName: "off", Enabled: false, Fn: func(ctx context.Context) (any, error) {
			atomic.AddInt64(&ran, 1)
			return nil, nil
		}},
	}

	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ran != 1 {
		t.Errorf("Expected only the enabled task to run, got %d", ran)
	}
}

func TestExecuteAggregatesErrors(t *testing.T) {
	executor := NewParallelExecutor()

	tasks := []domain.ExecutableTask{
		&FuncTask{TaskName: "ok", Enabled: true, Fn: func(ctx context.Context) (any, error) {
			return nil, nil
		}},
		&FuncTask{TaskName: "bad-1", Enabled: true, Fn: func(ctx context.Context) (any, error) {
			return nil, errors.New("first failure")
		}},
		&FuncTask{TaskName: "bad-2", Enabled: true, Fn: func(ctx context.Context) (any, error) {
			return nil, errors.New("second failure")
		}},
	}

	err := executor.Execute(context.Background(), tasks)
	if err == nil {
		t.Fatal("Expected aggregated error")
	}
	var agg *AggregatedError
	if !errors.As(err, &agg) {
		t.Fatalf("Expected AggregatedError, got %T", err)
	}
	if len(agg.Errors) != 2 {
		t.Errorf("Expected 2 task errors, got %d", len(agg.Errors))
	}
}

func TestTaskErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	taskErr := TaskError{TaskName: "t", Err: inner}
	if !errors.Is(taskErr, inner) {
		t.Error("Expected TaskError to unwrap to the inner error")
	}
	agg := &AggregatedError{Errors: []TaskError{taskErr}}
	if !errors.Is(agg, inner) {
		t.Error("Expected AggregatedError to unwrap to the first inner error")
	}
}

func TestExecutorTimeout(t *testing.T) {
	executor := NewParallelExecutor()
	executor.SetTimeout(20 * time.Millisecond)

	tasks := []domain.ExecutableTask{
		&FuncTask{TaskName: "slow", Enabled: true, Fn: func(ctx context.Context) (any, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return nil, nil
			}
		}},
	}

	start := time.Now()
	err := executor.Execute(context.Background(), tasks)
	if time.Since(start) > time.Second {
		t.Fatal("Expected the timeout to cut the slow task short")
	}
	if err == nil {
		t.Error("Expected the cancelled task to surface an error")
	}
}

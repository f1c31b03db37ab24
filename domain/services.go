package domain

import "context"

// ExecutableTask is one unit of work the parallel executor runs
type ExecutableTask interface {
	// Name identifies the task in error reports
	Name() string

	// IsEnabled allows tasks to opt out without restructuring callers
	IsEnabled() bool

	// Execute runs the task
	Execute(ctx context.Context) (any, error)
}

// ParallelExecutor runs independent tasks concurrently
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}

// TaskProgress reports progress of one long-running task
type TaskProgress interface {
	// Increment adds n to the current progress
	Increment(n int)

	// Describe updates the current item description
	Describe(description string)

	// Complete marks the task as finished
	Complete()
}

// ProgressManager creates progress tasks when the environment is
// interactive and no-ops otherwise
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

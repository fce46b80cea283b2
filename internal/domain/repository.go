package domain

import "context"

// TaskFinder is the read side of the store used by the query and statistics
// paths.
type TaskFinder interface {
	// FindByFilter filters, sorts and paginates tasks
	FindByFilter(ctx context.Context, req *FilterRequest) (*Page, error)
}

// Repository defines the contract for task persistence
type Repository interface {
	TaskFinder

	// Create persists a new task
	Create(ctx context.Context, task *Task) error

	// GetByID retrieves a task by ID
	GetByID(ctx context.Context, id string) (*Task, error)

	// Update updates an existing task with optimistic locking
	Update(ctx context.Context, task *Task) error

	// Delete removes a task
	Delete(ctx context.Context, id string) error
}

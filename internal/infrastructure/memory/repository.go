// Package memory is a process-local Task Store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/todotracker/internal/domain"
	"github.com/dmehra2102/todotracker/internal/query"
)

// TaskRepository keeps tasks in a map. Reads and writes exchange copies so
// callers never share state with the store.
type TaskRepository struct {
	mu     sync.RWMutex
	tasks  map[string]*domain.Task
	tracer trace.Tracer
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks:  make(map[string]*domain.Task),
		tracer: otel.Tracer("memory-repository"),
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	_, span := r.tracer.Start(ctx, "repository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", task.ID))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; exists {
		return fmt.Errorf("failed to create task %s: %w", task.ID, domain.ErrTaskAlreadyExists)
	}
	r.tasks[task.ID] = task.Clone()
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	_, span := r.tracer.Start(ctx, "repository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		span.SetAttributes(attribute.Bool("not_found", true))
		return nil, domain.ErrTaskNotFound
	}
	return task.Clone(), nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	_, span := r.tracer.Start(ctx, "repository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.String("task.id", task.ID),
		attribute.Int64("version", task.Version),
	)

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}

	// Optimistic locking: update only if version matches
	if current.Version != task.Version {
		span.SetAttributes(attribute.Bool("version_mismatch", true))
		return domain.ErrVersionMismatch
	}

	task.Version++
	r.tasks[task.ID] = task.Clone()
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	_, span := r.tracer.Start(ctx, "repository.Delete")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepository) FindByFilter(ctx context.Context, req *domain.FilterRequest) (*domain.Page, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindByFilter")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	page, err := query.Apply(r.snapshot(), req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("total_count", page.TotalItems),
		attribute.Int("returned_count", len(page.Items)),
	)
	return page, nil
}

// Len reports how many tasks are stored.
func (r *TaskRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

func (r *TaskRepository) snapshot() []*domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, t.Clone())
	}
	return tasks
}

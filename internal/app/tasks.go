package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dmehra2102/todotracker/internal/domain"
	"github.com/dmehra2102/todotracker/internal/query"
	"github.com/dmehra2102/todotracker/internal/stats"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// TaskInput carries the editable fields of a task as received from a
// transport. Priority is LOW, MEDIUM or HIGH; DueDate is YYYY-MM-DD or empty.
type TaskInput struct {
	Text     string
	Priority string
	DueDate  string
}

// ListParams is a list request before planning. A zero Size selects the
// configured default page size.
type ListParams struct {
	Text     string
	Priority string
	Done     *bool
	SortBy   string
	Page     int
	Size     int
}

// TaskService owns the task lifecycle and is shared by the gRPC and REST
// transports.
type TaskService struct {
	repo            domain.Repository
	aggregator      *stats.Aggregator
	logger          *zap.Logger
	tracer          trace.Tracer
	now             func() time.Time
	defaultPageSize int
	maxPageSize     int
}

type Option func(*TaskService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

func WithPageSizes(defaultSize, maxSize int) Option {
	return func(s *TaskService) {
		if defaultSize > 0 {
			s.defaultPageSize = defaultSize
		}
		if maxSize > 0 {
			s.maxPageSize = maxSize
		}
	}
}

func NewTaskService(repo domain.Repository, aggregator *stats.Aggregator, logger *zap.Logger, opts ...Option) *TaskService {
	s := &TaskService{
		repo:            repo,
		aggregator:      aggregator,
		logger:          logger,
		tracer:          otel.Tracer("task-service"),
		now:             time.Now,
		defaultPageSize: DefaultPageSize,
		maxPageSize:     MaxPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultPageSize > s.maxPageSize {
		s.defaultPageSize = s.maxPageSize
	}
	return s
}

func (s *TaskService) CreateTask(ctx context.Context, in TaskInput) (*domain.Task, error) {
	ctx, span := s.tracer.Start(ctx, "CreateTask")
	defer span.End()

	priority, dueDate, err := parseInput(in)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(in.Text, priority, dueDate, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error("failed to persist task",
			zap.Error(err),
			zap.String("task_id", task.ID),
		)
		return nil, err
	}

	span.SetAttributes(attribute.String("task.id", task.ID))
	s.logger.Info("task created",
		zap.String("task_id", task.ID),
		zap.Stringer("priority", task.Priority),
	)

	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	ctx, span := s.tracer.Start(ctx, "GetTask")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", id))

	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrTaskNotFound) {
			s.logger.Error("failed to get task", zap.Error(err), zap.String("task_id", id))
		}
		return nil, err
	}
	return task, nil
}

// UpdateTask replaces text, priority and due date. The due date may not fall
// before the day the task was created.
func (s *TaskService) UpdateTask(ctx context.Context, id string, in TaskInput) (*domain.Task, error) {
	ctx, span := s.tracer.Start(ctx, "UpdateTask")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", id))

	priority, dueDate, err := parseInput(in)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, "task updated", func(task *domain.Task, now time.Time) error {
		return task.Update(in.Text, priority, dueDate, now)
	})
}

func (s *TaskService) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	ctx, span := s.tracer.Start(ctx, "CompleteTask")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", id))

	return s.mutate(ctx, id, "task completed", func(task *domain.Task, now time.Time) error {
		task.Complete(now)
		return nil
	})
}

func (s *TaskService) UncompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	ctx, span := s.tracer.Start(ctx, "UncompleteTask")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", id))

	return s.mutate(ctx, id, "task reopened", func(task *domain.Task, now time.Time) error {
		task.Uncomplete(now)
		return nil
	})
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "DeleteTask")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, domain.ErrTaskNotFound) {
			s.logger.Error("failed to delete task", zap.Error(err), zap.String("task_id", id))
		}
		return err
	}

	s.logger.Info("task deleted", zap.String("task_id", id))
	return nil
}

// ListTasks plans the request and runs it against the store. Bad sort text,
// priority or page bounds fail before the store is touched.
func (s *TaskService) ListTasks(ctx context.Context, params ListParams) (*domain.Page, error) {
	ctx, span := s.tracer.Start(ctx, "ListTasks")
	defer span.End()

	size := params.Size
	if size == 0 {
		size = s.defaultPageSize
	}
	if size > s.maxPageSize {
		return nil, fmt.Errorf("%w: size must be <= %d, got %d", domain.ErrInvalidPageSize, s.maxPageSize, size)
	}

	filter := domain.TaskFilter{Done: params.Done}
	if params.Text != "" {
		text := params.Text
		filter.Text = &text
	}
	if params.Priority != "" {
		priority, err := domain.ParsePriority(params.Priority)
		if err != nil {
			return nil, err
		}
		filter.Priority = &priority
	}

	req, err := query.Plan(filter, params.SortBy, params.Page, size)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("sort", req.Sort.String()),
		attribute.Int("page", req.PageIndex),
		attribute.Int("size", req.PageSize),
	)

	page, err := s.repo.FindByFilter(ctx, req)
	if err != nil {
		s.logger.Error("failed to list tasks", zap.Error(err))
		return nil, err
	}
	return page, nil
}

func (s *TaskService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	ctx, span := s.tracer.Start(ctx, "Statistics")
	defer span.End()

	result, err := s.aggregator.Aggregate(ctx)
	if err != nil {
		s.logger.Error("failed to aggregate statistics", zap.Error(err))
		return nil, err
	}
	return result, nil
}

// mutate loads the task, applies fn and writes it back under the store's
// version check.
func (s *TaskService) mutate(ctx context.Context, id, event string, fn func(*domain.Task, time.Time) error) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrTaskNotFound) {
			s.logger.Error("failed to get task", zap.Error(err), zap.String("task_id", id))
		}
		return nil, err
	}

	if err := fn(task, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, task); err != nil {
		if errors.Is(err, domain.ErrVersionMismatch) {
			s.logger.Warn("concurrent task update detected", zap.String("task_id", id))
		} else if !errors.Is(err, domain.ErrTaskNotFound) {
			s.logger.Error("failed to update task", zap.Error(err), zap.String("task_id", id))
		}
		return nil, err
	}

	s.logger.Info(event, zap.String("task_id", id), zap.Int64("version", task.Version))
	return task, nil
}

func parseInput(in TaskInput) (domain.Priority, *time.Time, error) {
	priority, err := domain.ParsePriority(in.Priority)
	if err != nil {
		return 0, nil, err
	}
	dueDate, err := domain.ParseDueDate(in.DueDate)
	if err != nil {
		return 0, nil, err
	}
	return priority, dueDate, nil
}

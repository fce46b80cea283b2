package app

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	todov1 "github.com/dmehra2102/todotracker/api/todo/v1"
	"github.com/dmehra2102/todotracker/internal/domain"
)

// TodoServiceServer exposes TaskService over gRPC.
type TodoServiceServer struct {
	todov1.UnimplementedTodoServiceServer
	tasks  *TaskService
	logger *zap.Logger
	tracer trace.Tracer
}

func NewTodoServiceServer(tasks *TaskService, logger *zap.Logger) *TodoServiceServer {
	return &TodoServiceServer{
		tasks:  tasks,
		logger: logger,
		tracer: otel.Tracer("todo-grpc-service"),
	}
}

func (s *TodoServiceServer) CreateTask(ctx context.Context, req *todov1.CreateTaskRequest) (*todov1.CreateTaskResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grpc.CreateTask")
	defer span.End()

	task, err := s.tasks.CreateTask(ctx, TaskInput{
		Text:     req.Text,
		Priority: req.Priority,
		DueDate:  req.DueDate,
	})
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &todov1.CreateTaskResponse{
		Task: mapDomainToProto(task),
	}, nil
}

func (s *TodoServiceServer) GetTask(ctx context.Context, req *todov1.GetTaskRequest) (*todov1.GetTaskResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grpc.GetTask")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", req.Id))

	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "task ID is required")
	}

	task, err := s.tasks.GetTask(ctx, req.Id)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &todov1.GetTaskResponse{
		Task: mapDomainToProto(task),
	}, nil
}

func (s *TodoServiceServer) UpdateTask(ctx context.Context, req *todov1.UpdateTaskRequest) (*todov1.UpdateTaskResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grpc.UpdateTask")
	defer span.End()

	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "task ID is required")
	}

	task, err := s.tasks.UpdateTask(ctx, req.Id, TaskInput{
		Text:     req.Text,
		Priority: req.Priority,
		DueDate:  req.DueDate,
	})
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &todov1.UpdateTaskResponse{
		Task: mapDomainToProto(task),
	}, nil
}

func (s *TodoServiceServer) CompleteTask(ctx context.Context, req *todov1.CompleteTaskRequest) (*todov1.CompleteTaskResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grpc.CompleteTask")
	defer span.End()

	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "task ID is required")
	}

	task, err := s.tasks.CompleteTask(ctx, req.Id)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &todov1.CompleteTaskResponse{
		Task: mapDomainToProto(task),
	}, nil
}

func (s *TodoServiceServer) UncompleteTask(ctx context.Context, req *todov1.UncompleteTaskRequest) (*todov1.UncompleteTaskResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grpc.UncompleteTask")
	defer span.End()

	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "task ID is required")
	}

	task, err := s.tasks.UncompleteTask(ctx, req.Id)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &todov1.UncompleteTaskResponse{
		Task: mapDomainToProto(task),
	}, nil
}

func (s *TodoServiceServer) DeleteTask(ctx context.Context, req *todov1.DeleteTaskRequest) (*todov1.DeleteTaskResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grpc.DeleteTask")
	defer span.End()

	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "task ID is required")
	}

	if err := s.tasks.DeleteTask(ctx, req.Id); err != nil {
		return nil, mapDomainError(err)
	}

	return &todov1.DeleteTaskResponse{
		Success: true,
	}, nil
}

func (s *TodoServiceServer) ListTasks(ctx context.Context, req *todov1.ListTasksRequest) (*todov1.ListTasksResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grpc.ListTasks")
	defer span.End()

	page, err := s.tasks.ListTasks(ctx, ListParams{
		Text:     req.Text,
		Priority: req.Priority,
		Done:     req.Done,
		SortBy:   req.SortBy,
		Page:     int(req.Page),
		Size:     int(req.PageSize),
	})
	if err != nil {
		return nil, mapDomainError(err)
	}

	protoTasks := make([]*todov1.Task, len(page.Items))
	for i, task := range page.Items {
		protoTasks[i] = mapDomainToProto(task)
	}

	pageInfo := &todov1.PageInfo{
		Page:       int32(page.PageIndex),
		PageSize:   int32(page.PageSize),
		TotalItems: page.TotalItems,
		TotalPages: int32(page.TotalPages),
		HasNext:    page.HasNext,
		HasPrev:    page.PageIndex > 0,
	}

	return &todov1.ListTasksResponse{
		Tasks:    protoTasks,
		PageInfo: pageInfo,
	}, nil
}

func (s *TodoServiceServer) GetStatistics(ctx context.Context, _ *todov1.GetStatisticsRequest) (*todov1.GetStatisticsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grpc.GetStatistics")
	defer span.End()

	result, err := s.tasks.Statistics(ctx)
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &todov1.GetStatisticsResponse{
		Statistics: &todov1.Statistics{
			TotalDone:             result.TotalDone,
			TotalLowDone:          result.TotalLowDone,
			TotalMediumDone:       result.TotalMediumDone,
			TotalHighDone:         result.TotalHighDone,
			AverageDoneTime:       result.AverageDoneTime,
			AverageLowDoneTime:    result.AverageLowDoneTime,
			AverageMediumDoneTime: result.AverageMediumDoneTime,
			AverageHighDoneTime:   result.AverageHighDoneTime,
		},
	}, nil
}

func mapDomainToProto(task *domain.Task) *todov1.Task {
	proto := &todov1.Task{
		Id:        task.ID,
		Text:      task.Text,
		Priority:  task.Priority.String(),
		Done:      task.Done,
		CreatedAt: task.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: task.UpdatedAt.UTC().Format(time.RFC3339),
		Version:   task.Version,
	}

	if task.DueDate != nil {
		proto.DueDate = task.DueDate.UTC().Format(domain.DueDateLayout)
	}

	if task.DoneAt != nil {
		proto.DoneAt = task.DoneAt.UTC().Format(time.RFC3339)
	}

	return proto
}

func mapDomainError(err error) error {
	switch {
	case domain.IsValidationError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrTaskNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrTaskAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrVersionMismatch):
		return status.Error(codes.Aborted, "concurrent update detected, please retry")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}

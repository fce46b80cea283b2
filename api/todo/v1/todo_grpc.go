package todov1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	TodoService_ServiceName = "todo.v1.TodoService"

	TodoService_CreateTask_FullMethodName     = "/todo.v1.TodoService/CreateTask"
	TodoService_GetTask_FullMethodName        = "/todo.v1.TodoService/GetTask"
	TodoService_UpdateTask_FullMethodName     = "/todo.v1.TodoService/UpdateTask"
	TodoService_CompleteTask_FullMethodName   = "/todo.v1.TodoService/CompleteTask"
	TodoService_UncompleteTask_FullMethodName = "/todo.v1.TodoService/UncompleteTask"
	TodoService_DeleteTask_FullMethodName     = "/todo.v1.TodoService/DeleteTask"
	TodoService_ListTasks_FullMethodName      = "/todo.v1.TodoService/ListTasks"
	TodoService_GetStatistics_FullMethodName  = "/todo.v1.TodoService/GetStatistics"
)

// TodoServiceClient is the client API for TodoService. Every call is sent
// with the json content-subtype.
type TodoServiceClient interface {
	CreateTask(ctx context.Context, in *CreateTaskRequest, opts ...grpc.CallOption) (*CreateTaskResponse, error)
	GetTask(ctx context.Context, in *GetTaskRequest, opts ...grpc.CallOption) (*GetTaskResponse, error)
	UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*UpdateTaskResponse, error)
	CompleteTask(ctx context.Context, in *CompleteTaskRequest, opts ...grpc.CallOption) (*CompleteTaskResponse, error)
	UncompleteTask(ctx context.Context, in *UncompleteTaskRequest, opts ...grpc.CallOption) (*UncompleteTaskResponse, error)
	DeleteTask(ctx context.Context, in *DeleteTaskRequest, opts ...grpc.CallOption) (*DeleteTaskResponse, error)
	ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error)
	GetStatistics(ctx context.Context, in *GetStatisticsRequest, opts ...grpc.CallOption) (*GetStatisticsResponse, error)
}

type todoServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTodoServiceClient(cc grpc.ClientConnInterface) TodoServiceClient {
	return &todoServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *todoServiceClient) CreateTask(ctx context.Context, in *CreateTaskRequest, opts ...grpc.CallOption) (*CreateTaskResponse, error) {
	return invoke[CreateTaskResponse](ctx, c.cc, TodoService_CreateTask_FullMethodName, in, opts)
}

func (c *todoServiceClient) GetTask(ctx context.Context, in *GetTaskRequest, opts ...grpc.CallOption) (*GetTaskResponse, error) {
	return invoke[GetTaskResponse](ctx, c.cc, TodoService_GetTask_FullMethodName, in, opts)
}

func (c *todoServiceClient) UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*UpdateTaskResponse, error) {
	return invoke[UpdateTaskResponse](ctx, c.cc, TodoService_UpdateTask_FullMethodName, in, opts)
}

func (c *todoServiceClient) CompleteTask(ctx context.Context, in *CompleteTaskRequest, opts ...grpc.CallOption) (*CompleteTaskResponse, error) {
	return invoke[CompleteTaskResponse](ctx, c.cc, TodoService_CompleteTask_FullMethodName, in, opts)
}

func (c *todoServiceClient) UncompleteTask(ctx context.Context, in *UncompleteTaskRequest, opts ...grpc.CallOption) (*UncompleteTaskResponse, error) {
	return invoke[UncompleteTaskResponse](ctx, c.cc, TodoService_UncompleteTask_FullMethodName, in, opts)
}

func (c *todoServiceClient) DeleteTask(ctx context.Context, in *DeleteTaskRequest, opts ...grpc.CallOption) (*DeleteTaskResponse, error) {
	return invoke[DeleteTaskResponse](ctx, c.cc, TodoService_DeleteTask_FullMethodName, in, opts)
}

func (c *todoServiceClient) ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error) {
	return invoke[ListTasksResponse](ctx, c.cc, TodoService_ListTasks_FullMethodName, in, opts)
}

func (c *todoServiceClient) GetStatistics(ctx context.Context, in *GetStatisticsRequest, opts ...grpc.CallOption) (*GetStatisticsResponse, error) {
	return invoke[GetStatisticsResponse](ctx, c.cc, TodoService_GetStatistics_FullMethodName, in, opts)
}

// TodoServiceServer is the server API for TodoService. Implementations must
// embed UnimplementedTodoServiceServer.
type TodoServiceServer interface {
	CreateTask(context.Context, *CreateTaskRequest) (*CreateTaskResponse, error)
	GetTask(context.Context, *GetTaskRequest) (*GetTaskResponse, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*UpdateTaskResponse, error)
	CompleteTask(context.Context, *CompleteTaskRequest) (*CompleteTaskResponse, error)
	UncompleteTask(context.Context, *UncompleteTaskRequest) (*UncompleteTaskResponse, error)
	DeleteTask(context.Context, *DeleteTaskRequest) (*DeleteTaskResponse, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	GetStatistics(context.Context, *GetStatisticsRequest) (*GetStatisticsResponse, error)
	mustEmbedUnimplementedTodoServiceServer()
}

type UnimplementedTodoServiceServer struct{}

func (UnimplementedTodoServiceServer) CreateTask(context.Context, *CreateTaskRequest) (*CreateTaskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateTask not implemented")
}
func (UnimplementedTodoServiceServer) GetTask(context.Context, *GetTaskRequest) (*GetTaskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTask not implemented")
}
func (UnimplementedTodoServiceServer) UpdateTask(context.Context, *UpdateTaskRequest) (*UpdateTaskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateTask not implemented")
}
func (UnimplementedTodoServiceServer) CompleteTask(context.Context, *CompleteTaskRequest) (*CompleteTaskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CompleteTask not implemented")
}
func (UnimplementedTodoServiceServer) UncompleteTask(context.Context, *UncompleteTaskRequest) (*UncompleteTaskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UncompleteTask not implemented")
}
func (UnimplementedTodoServiceServer) DeleteTask(context.Context, *DeleteTaskRequest) (*DeleteTaskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteTask not implemented")
}
func (UnimplementedTodoServiceServer) ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTasks not implemented")
}
func (UnimplementedTodoServiceServer) GetStatistics(context.Context, *GetStatisticsRequest) (*GetStatisticsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStatistics not implemented")
}
func (UnimplementedTodoServiceServer) mustEmbedUnimplementedTodoServiceServer() {}

func RegisterTodoServiceServer(s grpc.ServiceRegistrar, srv TodoServiceServer) {
	s.RegisterService(&TodoService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to the grpc.MethodDesc handler signature, routing
// the call through the interceptor chain when one is installed.
func unaryHandler[Req, Resp any](fullMethod string, call func(TodoServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TodoServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TodoServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var TodoService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: TodoService_ServiceName,
	HandlerType: (*TodoServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateTask",
			Handler:    unaryHandler(TodoService_CreateTask_FullMethodName, TodoServiceServer.CreateTask),
		},
		{
			MethodName: "GetTask",
			Handler:    unaryHandler(TodoService_GetTask_FullMethodName, TodoServiceServer.GetTask),
		},
		{
			MethodName: "UpdateTask",
			Handler:    unaryHandler(TodoService_UpdateTask_FullMethodName, TodoServiceServer.UpdateTask),
		},
		{
			MethodName: "CompleteTask",
			Handler:    unaryHandler(TodoService_CompleteTask_FullMethodName, TodoServiceServer.CompleteTask),
		},
		{
			MethodName: "UncompleteTask",
			Handler:    unaryHandler(TodoService_UncompleteTask_FullMethodName, TodoServiceServer.UncompleteTask),
		},
		{
			MethodName: "DeleteTask",
			Handler:    unaryHandler(TodoService_DeleteTask_FullMethodName, TodoServiceServer.DeleteTask),
		},
		{
			MethodName: "ListTasks",
			Handler:    unaryHandler(TodoService_ListTasks_FullMethodName, TodoServiceServer.ListTasks),
		},
		{
			MethodName: "GetStatistics",
			Handler:    unaryHandler(TodoService_GetStatistics_FullMethodName, TodoServiceServer.GetStatistics),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/todo/v1/todo_grpc.go",
}

// Package todov1 holds the wire messages and service descriptor of the
// todo.v1.TodoService gRPC API.
package todov1

// Task is the wire form of a task. Timestamps are RFC 3339 in UTC, the due
// date is YYYY-MM-DD. Empty strings stand for absent values.
type Task struct {
	Id        string `json:"id,omitempty"`
	Text      string `json:"text,omitempty"`
	Priority  string `json:"priority,omitempty"`
	Done      bool   `json:"done,omitempty"`
	DueDate   string `json:"due_date,omitempty"`
	DoneAt    string `json:"done_at,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
	Version   int64  `json:"version,omitempty"`
}

type CreateTaskRequest struct {
	Text     string `json:"text,omitempty"`
	Priority string `json:"priority,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
}

type CreateTaskResponse struct {
	Task *Task `json:"task,omitempty"`
}

type GetTaskRequest struct {
	Id string `json:"id,omitempty"`
}

func (x *GetTaskRequest) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

type GetTaskResponse struct {
	Task *Task `json:"task,omitempty"`
}

// UpdateTaskRequest replaces text, priority and due date. An empty due date
// clears it.
type UpdateTaskRequest struct {
	Id       string `json:"id,omitempty"`
	Text     string `json:"text,omitempty"`
	Priority string `json:"priority,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
}

func (x *UpdateTaskRequest) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

type UpdateTaskResponse struct {
	Task *Task `json:"task,omitempty"`
}

type CompleteTaskRequest struct {
	Id string `json:"id,omitempty"`
}

func (x *CompleteTaskRequest) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

type CompleteTaskResponse struct {
	Task *Task `json:"task,omitempty"`
}

type UncompleteTaskRequest struct {
	Id string `json:"id,omitempty"`
}

func (x *UncompleteTaskRequest) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

type UncompleteTaskResponse struct {
	Task *Task `json:"task,omitempty"`
}

type DeleteTaskRequest struct {
	Id string `json:"id,omitempty"`
}

func (x *DeleteTaskRequest) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

type DeleteTaskResponse struct {
	Success bool `json:"success,omitempty"`
}

// ListTasksRequest filters, sorts and pages tasks. Page is zero-based and a
// zero PageSize selects the server default. SortBy uses the
// "field:direction[,field:direction]" form.
type ListTasksRequest struct {
	Text     string `json:"text,omitempty"`
	Priority string `json:"priority,omitempty"`
	Done     *bool  `json:"done,omitempty"`
	SortBy   string `json:"sort_by,omitempty"`
	Page     int32  `json:"page,omitempty"`
	PageSize int32  `json:"page_size,omitempty"`
}

type PageInfo struct {
	Page       int32 `json:"page"`
	PageSize   int32 `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int32 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

type ListTasksResponse struct {
	Tasks    []*Task   `json:"tasks"`
	PageInfo *PageInfo `json:"page_info,omitempty"`
}

type GetStatisticsRequest struct{}

type Statistics struct {
	TotalDone             int64  `json:"total_done"`
	TotalLowDone          int64  `json:"total_low_done"`
	TotalMediumDone       int64  `json:"total_medium_done"`
	TotalHighDone         int64  `json:"total_high_done"`
	AverageDoneTime       string `json:"average_done_time"`
	AverageLowDoneTime    string `json:"average_low_done_time"`
	AverageMediumDoneTime string `json:"average_medium_done_time"`
	AverageHighDoneTime   string `json:"average_high_done_time"`
}

type GetStatisticsResponse struct {
	Statistics *Statistics `json:"statistics,omitempty"`
}

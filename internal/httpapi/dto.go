package httpapi

import (
	"time"

	"github.com/dmehra2102/todotracker/internal/domain"
)

// timestampLayout is the wire format of every task timestamp.
const timestampLayout = "2006-01-02 15:04:05"

type taskRequest struct {
	Text     string `json:"text" validate:"required,min=3,max=120"`
	DueDate  string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Priority string `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH"`
}

// listQuery holds the parsed query string of GET /todos.
type listQuery struct {
	Page     int    `query:"page" validate:"gte=0"`
	Size     *int   `query:"size" validate:"omitempty,min=1"`
	Text     string `query:"text"`
	Priority string `query:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Done     *bool  `query:"done"`
	SortBy   string `query:"sortBy"`
}

type taskResponse struct {
	ID           string  `json:"id"`
	CreationDate string  `json:"creationDate"`
	DueDate      *string `json:"dueDate"`
	DoneDate     *string `json:"doneDate"`
	Text         string  `json:"text"`
	Done         bool    `json:"done"`
	Priority     string  `json:"priority"`
}

type pageResponse struct {
	Content          []taskResponse `json:"content"`
	TotalElements    int64          `json:"totalElements"`
	TotalPages       int            `json:"totalPages"`
	Number           int            `json:"number"`
	Size             int            `json:"size"`
	NumberOfElements int            `json:"numberOfElements"`
	First            bool           `json:"first"`
	Last             bool           `json:"last"`
	Empty            bool           `json:"empty"`
}

type statisticsResponse struct {
	TotalDone             int64  `json:"totalDone"`
	TotalLowDone          int64  `json:"totalLowDone"`
	TotalMediumDone       int64  `json:"totalMediumDone"`
	TotalHighDone         int64  `json:"totalHighDone"`
	AverageDoneTime       string `json:"averageDoneTime"`
	AverageLowDoneTime    string `json:"averageLowDoneTime"`
	AverageMediumDoneTime string `json:"averageMediumDoneTime"`
	AverageHighDoneTime   string `json:"averageHighDoneTime"`
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timestampLayout)
	return &s
}

func toTaskResponse(task *domain.Task) taskResponse {
	return taskResponse{
		ID:           task.ID,
		CreationDate: task.CreatedAt.UTC().Format(timestampLayout),
		DueDate:      formatTimestamp(task.DueDate),
		DoneDate:     formatTimestamp(task.DoneAt),
		Text:         task.Text,
		Done:         task.Done,
		Priority:     task.Priority.String(),
	}
}

func toPageResponse(page *domain.Page) pageResponse {
	content := make([]taskResponse, len(page.Items))
	for i, task := range page.Items {
		content[i] = toTaskResponse(task)
	}
	return pageResponse{
		Content:          content,
		TotalElements:    page.TotalItems,
		TotalPages:       page.TotalPages,
		Number:           page.PageIndex,
		Size:             page.PageSize,
		NumberOfElements: len(content),
		First:            page.PageIndex == 0,
		Last:             !page.HasNext,
		Empty:            len(content) == 0,
	}
}

func toStatisticsResponse(s *domain.Statistics) statisticsResponse {
	return statisticsResponse{
		TotalDone:             s.TotalDone,
		TotalLowDone:          s.TotalLowDone,
		TotalMediumDone:       s.TotalMediumDone,
		TotalHighDone:         s.TotalHighDone,
		AverageDoneTime:       s.AverageDoneTime,
		AverageLowDoneTime:    s.AverageLowDoneTime,
		AverageMediumDoneTime: s.AverageMediumDoneTime,
		AverageHighDoneTime:   s.AverageHighDoneTime,
	}
}

package domain

import (
	"fmt"
	"math"
)

// TaskFilter holds optional predicates; a nil field applies no constraint.
type TaskFilter struct {
	Done     *bool
	Text     *string
	Priority *Priority
}

type SortField string

const (
	SortByPriority SortField = "priority"
	SortByDueDate  SortField = "dueDate"
)

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

type SortOrder struct {
	Field     SortField
	Direction SortDirection
}

// SortSpec is an ordered list of sort keys; earlier keys take precedence.
// An empty spec means ascending creation time.
type SortSpec []SortOrder

func (s SortSpec) IsUnsorted() bool {
	return len(s) == 0
}

func (s SortSpec) String() string {
	out := ""
	for i, o := range s {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%s:%s", o.Field, o.Direction)
	}
	return out
}

// FilterRequest is the fully resolved query handed to a Repository.
type FilterRequest struct {
	Filter    TaskFilter
	Sort      SortSpec
	PageIndex int
	PageSize  int
}

// Offset returns the index of the first element of the requested page. It
// saturates at math.MaxInt64 instead of overflowing.
func (r *FilterRequest) Offset() int64 {
	if r.PageIndex <= 0 || r.PageSize < 1 {
		return 0
	}
	if int64(r.PageIndex) > math.MaxInt64/int64(r.PageSize) {
		return math.MaxInt64
	}
	return int64(r.PageIndex) * int64(r.PageSize)
}

// PastEnd reports whether the requested page starts at or beyond the end of
// total matches.
func (r *FilterRequest) PastEnd(total int64) bool {
	if total <= 0 {
		return true
	}
	if r.PageSize < 1 {
		return false
	}
	return int64(r.PageIndex) > (total-1)/int64(r.PageSize)
}

// Validate checks the page bounds
func (r *FilterRequest) Validate() error {
	if r.PageIndex < 0 {
		return fmt.Errorf("%w: page must be >= 0, got %d", ErrInvalidPage, r.PageIndex)
	}
	if r.PageSize < 1 {
		return fmt.Errorf("%w: size must be >= 1, got %d", ErrInvalidPageSize, r.PageSize)
	}
	return nil
}

// Page contains paginated results
type Page struct {
	Items      []*Task
	TotalItems int64
	PageIndex  int
	PageSize   int
	TotalPages int
	HasNext    bool
}

// NewPage derives the page metadata from the total match count.
func NewPage(items []*Task, total int64, pageIndex, pageSize int) *Page {
	if items == nil {
		items = make([]*Task, 0)
	}
	totalPages := 0
	hasNext := false
	if pageSize > 0 && total > 0 {
		last := (total - 1) / int64(pageSize)
		totalPages = int(last + 1)
		hasNext = int64(pageIndex) < last
	}
	return &Page{
		Items:      items,
		TotalItems: total,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasNext:    hasNext,
	}
}

package query

import (
	"slices"
	"strings"

	"github.com/dmehra2102/todotracker/internal/domain"
)

// Plan validates the sort text and assembles the request handed to the
// store. Sort errors are the only failure and occur before any store access.
func Plan(filter domain.TaskFilter, sortText string, pageIndex, pageSize int) (*domain.FilterRequest, error) {
	spec, err := ParseSort(sortText)
	if err != nil {
		return nil, err
	}

	if filter.Text != nil && *filter.Text == "" {
		filter.Text = nil
	}

	return &domain.FilterRequest{
		Filter:    filter,
		Sort:      spec,
		PageIndex: pageIndex,
		PageSize:  pageSize,
	}, nil
}

// Matches reports whether the task satisfies every predicate of the filter.
func Matches(filter domain.TaskFilter, task *domain.Task) bool {
	if filter.Done != nil && task.Done != *filter.Done {
		return false
	}
	if filter.Text != nil && *filter.Text != "" &&
		!strings.Contains(strings.ToLower(task.Text), strings.ToLower(*filter.Text)) {
		return false
	}
	if filter.Priority != nil && task.Priority != *filter.Priority {
		return false
	}
	return true
}

// Paginate returns elements [p*s, min((p+1)*s, len(items))). An offset past
// the end yields an empty slice, however large the page index.
func Paginate[T any](items []T, pageIndex, pageSize int) []T {
	if pageIndex < 0 || pageSize < 1 {
		return []T{}
	}
	n := len(items)
	if n == 0 || pageIndex > (n-1)/pageSize {
		return []T{}
	}
	start := pageIndex * pageSize
	end := n
	if pageSize < n-start {
		end = start + pageSize
	}
	return items[start:end]
}

// Apply evaluates the request over a task snapshot: filter, stable sort,
// then slice out one page.
func Apply(tasks []*domain.Task, req *domain.FilterRequest) (*domain.Page, error) {
	compare, err := Comparator(req.Sort)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if Matches(req.Filter, t) {
			matched = append(matched, t)
		}
	}

	slices.SortStableFunc(matched, compare)

	window := Paginate(matched, req.PageIndex, req.PageSize)
	items := make([]*domain.Task, len(window))
	copy(items, window)

	return domain.NewPage(items, int64(len(matched)), req.PageIndex, req.PageSize), nil
}

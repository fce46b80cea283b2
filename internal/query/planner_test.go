package query

import (
	"fmt"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/todotracker/internal/domain"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTask(id, text string, priority domain.Priority, created time.Duration, due *time.Time, done bool) *domain.Task {
	t := &domain.Task{
		ID:        id,
		Text:      text,
		Priority:  priority,
		CreatedAt: base.Add(created),
		DueDate:   due,
		Done:      done,
	}
	if done {
		doneAt := t.CreatedAt.Add(time.Hour)
		t.DoneAt = &doneAt
	}
	return t
}

func day(offset int) *time.Time {
	d := base.AddDate(0, 0, offset)
	return &d
}

func ids(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func sortWith(t *testing.T, raw string, tasks ...*domain.Task) []string {
	t.Helper()
	spec, err := ParseSort(raw)
	require.NoError(t, err)
	compare, err := Comparator(spec)
	require.NoError(t, err)

	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, compare)
	return ids(sorted)
}

func TestComparator_DefaultIsCreationAscending(t *testing.T) {
	a := newTask("a", "first", domain.PriorityHigh, 0, nil, false)
	b := newTask("b", "second", domain.PriorityLow, time.Minute, nil, false)
	c := newTask("c", "third", domain.PriorityMedium, 2*time.Minute, nil, false)

	assert.Equal(t, []string{"a", "b", "c"}, sortWith(t, "", c, a, b))
}

func TestComparator_NullDueDateOrdering(t *testing.T) {
	a := newTask("A", "no due date", domain.PriorityLow, 0, nil, false)
	b := newTask("B", "due tomorrow", domain.PriorityLow, time.Minute, day(1), false)

	assert.Equal(t, []string{"A", "B"}, sortWith(t, "dueDate:asc", b, a))
	assert.Equal(t, []string{"B", "A"}, sortWith(t, "dueDate:desc", a, b))
}

func TestComparator_PriorityOrder(t *testing.T) {
	low := newTask("low", "x low", domain.PriorityLow, 0, nil, false)
	med := newTask("med", "x med", domain.PriorityMedium, time.Minute, nil, false)
	high := newTask("high", "x high", domain.PriorityHigh, 2*time.Minute, nil, false)

	assert.Equal(t, []string{"low", "med", "high"}, sortWith(t, "priority:asc", high, low, med))
	assert.Equal(t, []string{"high", "med", "low"}, sortWith(t, "priority:desc", low, high, med))
}

func TestComparator_MultiKeyTieBreak(t *testing.T) {
	later := newTask("later", "same priority later", domain.PriorityMedium, 0, day(5), false)
	sooner := newTask("sooner", "same priority sooner", domain.PriorityMedium, time.Minute, day(2), false)
	low := newTask("low", "lower priority", domain.PriorityLow, 2*time.Minute, day(9), false)

	assert.Equal(t, []string{"low", "sooner", "later"}, sortWith(t, "priority:asc,dueDate:asc", later, sooner, low))
	assert.Equal(t, []string{"low", "later", "sooner"}, sortWith(t, "priority:asc,dueDate:desc", sooner, later, low))
	// earlier tokens take precedence
	assert.Equal(t, []string{"sooner", "later", "low"}, sortWith(t, "dueDate:asc,priority:asc", low, later, sooner))
}

func TestComparator_TiesFallBackToCreationTime(t *testing.T) {
	first := newTask("z-first", "same", domain.PriorityHigh, 0, day(1), false)
	second := newTask("a-second", "same", domain.PriorityHigh, time.Second, day(1), false)

	assert.Equal(t, []string{"z-first", "a-second"}, sortWith(t, "priority:desc,dueDate:desc", second, first))
}

func TestComparator_RejectsInvalidSpec(t *testing.T) {
	_, err := Comparator(domain.SortSpec{{Field: "text", Direction: domain.SortAscending}})
	assert.ErrorIs(t, err, domain.ErrInvalidSort)
}

func TestMatches(t *testing.T) {
	task := newTask("t", "Buy Milk and Eggs", domain.PriorityMedium, 0, nil, true)
	yes, no := true, false
	medium, high := domain.PriorityMedium, domain.PriorityHigh
	text := func(s string) *string { return &s }

	tests := []struct {
		name   string
		filter domain.TaskFilter
		want   bool
	}{
		{name: "no constraints", filter: domain.TaskFilter{}, want: true},
		{name: "done matches", filter: domain.TaskFilter{Done: &yes}, want: true},
		{name: "done mismatch", filter: domain.TaskFilter{Done: &no}, want: false},
		{name: "text case insensitive", filter: domain.TaskFilter{Text: text("milk AND")}, want: true},
		{name: "text missing", filter: domain.TaskFilter{Text: text("bread")}, want: false},
		{name: "empty text ignored", filter: domain.TaskFilter{Text: text("")}, want: true},
		{name: "priority matches", filter: domain.TaskFilter{Priority: &medium}, want: true},
		{name: "priority mismatch", filter: domain.TaskFilter{Priority: &high}, want: false},
		{name: "all anded", filter: domain.TaskFilter{Done: &yes, Text: text("eggs"), Priority: &medium}, want: true},
		{name: "one failing predicate", filter: domain.TaskFilter{Done: &yes, Text: text("eggs"), Priority: &high}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.filter, task))
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6}

	assert.Equal(t, []int{0, 1, 2}, Paginate(items, 0, 3))
	assert.Equal(t, []int{3, 4, 5}, Paginate(items, 1, 3))
	assert.Equal(t, []int{6}, Paginate(items, 2, 3))
	assert.Empty(t, Paginate(items, 3, 3))
	assert.Empty(t, Paginate(items, 100, 10))
	assert.Empty(t, Paginate(items, -1, 3))
	assert.Empty(t, Paginate(items, 0, 0))
	assert.Empty(t, Paginate(items, 1<<62, 2))
	assert.Empty(t, Paginate(items, 1<<62, 4))
	assert.Equal(t, items, Paginate(items, 0, math.MaxInt))
	assert.Empty(t, Paginate([]int{}, 0, 3))
}

func TestPlan(t *testing.T) {
	empty := ""
	req, err := Plan(domain.TaskFilter{Text: &empty}, "dueDate:desc", 2, 25)
	require.NoError(t, err)

	assert.Nil(t, req.Filter.Text)
	assert.Equal(t, 2, req.PageIndex)
	assert.Equal(t, 25, req.PageSize)
	assert.Equal(t, int64(50), req.Offset())
	assert.Equal(t, domain.SortSpec{{Field: domain.SortByDueDate, Direction: domain.SortDescending}}, req.Sort)

	_, err = Plan(domain.TaskFilter{}, "priority:up", 0, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidSort)
	assert.Contains(t, err.Error(), "up")
}

func fixture() []*domain.Task {
	tasks := make([]*domain.Task, 0, 23)
	for i := 0; i < 23; i++ {
		var due *time.Time
		if i%4 != 0 {
			due = day(i % 5)
		}
		text := fmt.Sprintf("task %02d", i)
		if i%3 == 0 {
			text = fmt.Sprintf("Groceries %02d", i)
		}
		tasks = append(tasks, newTask(
			fmt.Sprintf("id-%02d", i),
			text,
			domain.Priorities[i%3],
			time.Duration(23-i)*time.Minute,
			due,
			i%2 == 0,
		))
	}
	return tasks
}

func TestApply_PaginationCompleteness(t *testing.T) {
	tasks := fixture()
	yes := true
	text := "grocer"

	for _, filter := range []domain.TaskFilter{{}, {Done: &yes}, {Text: &text}} {
		for _, size := range []int{1, 4, 7, 100} {
			req, err := Plan(filter, "priority:desc,dueDate:asc", 0, size)
			require.NoError(t, err)

			var seen []string
			var total int64
			for {
				page, err := Apply(tasks, req)
				require.NoError(t, err)
				total = page.TotalItems
				assert.LessOrEqual(t, len(page.Items), size)
				seen = append(seen, ids(page.Items)...)
				if !page.HasNext {
					break
				}
				req.PageIndex++
			}

			var want []string
			for _, task := range tasks {
				if Matches(filter, task) {
					want = append(want, task.ID)
				}
			}
			assert.Len(t, seen, int(total))
			assert.ElementsMatch(t, want, seen)
		}
	}
}

func TestApply_FilterCorrectness(t *testing.T) {
	tasks := fixture()
	no := false
	medium := domain.PriorityMedium
	text := "TASK"
	filter := domain.TaskFilter{Done: &no, Priority: &medium, Text: &text}

	req, err := Plan(filter, "", 0, 50)
	require.NoError(t, err)
	page, err := Apply(tasks, req)
	require.NoError(t, err)

	require.NotEmpty(t, page.Items)
	for _, task := range page.Items {
		assert.False(t, task.Done)
		assert.Equal(t, domain.PriorityMedium, task.Priority)
		assert.Contains(t, task.Text, "task")
	}
}

func TestApply_Deterministic(t *testing.T) {
	tasks := fixture()
	req, err := Plan(domain.TaskFilter{}, "dueDate:desc", 1, 5)
	require.NoError(t, err)

	first, err := Apply(tasks, req)
	require.NoError(t, err)

	shuffled := slices.Clone(tasks)
	slices.Reverse(shuffled)
	second, err := Apply(shuffled, req)
	require.NoError(t, err)

	assert.Equal(t, ids(first.Items), ids(second.Items))
}

func TestApply_OffsetPastEnd(t *testing.T) {
	req, err := Plan(domain.TaskFilter{}, "", 10, 10)
	require.NoError(t, err)

	page, err := Apply(fixture(), req)
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.Equal(t, int64(23), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.False(t, page.HasNext)
}

func TestApply_HugePageIndex(t *testing.T) {
	tasks := fixture()[:5]

	for _, size := range []int{2, 4} {
		req, err := Plan(domain.TaskFilter{}, "", 1<<62, size)
		require.NoError(t, err)

		page, err := Apply(tasks, req)
		require.NoError(t, err)
		assert.Empty(t, page.Items, "size %d", size)
		assert.False(t, page.HasNext, "size %d", size)
		assert.Equal(t, int64(5), page.TotalItems)
	}
}

func TestApply_HasNext(t *testing.T) {
	tasks := fixture()[:10]
	req, err := Plan(domain.TaskFilter{}, "", 0, 5)
	require.NoError(t, err)

	page, err := Apply(tasks, req)
	require.NoError(t, err)
	assert.True(t, page.HasNext)

	req.PageIndex = 1
	page, err = Apply(tasks, req)
	require.NoError(t, err)
	assert.False(t, page.HasNext)
	assert.Len(t, page.Items, 5)
}

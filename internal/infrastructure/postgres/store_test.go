package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/todotracker/internal/domain"
)

var created = time.Date(2025, 4, 1, 8, 30, 0, 0, time.UTC)

func newMockRepository(t *testing.T) (*TaskRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewTaskRepository(db, time.Second), mock
}

func taskRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "text", "priority", "done", "due_date", "done_at", "created_at", "updated_at", "version"})
}

func storedTask() *domain.Task {
	return &domain.Task{
		ID:        "task-1",
		Text:      "file taxes",
		Priority:  domain.PriorityHigh,
		CreatedAt: created,
		UpdatedAt: created,
		Version:   3,
	}
}

func TestUpdate(t *testing.T) {
	update := regexp.QuoteMeta("UPDATE tasks")
	exists := regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)")

	t.Run("bumps version", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		task := storedTask()

		mock.ExpectExec(update).
			WithArgs(task.Text, task.Priority, task.Done, nil, nil, task.UpdatedAt, task.ID, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(context.Background(), task))
		assert.Equal(t, int64(4), task.Version)
	})

	t.Run("stale version", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		task := storedTask()

		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(exists).WithArgs(task.ID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := repo.Update(context.Background(), task)
		assert.ErrorIs(t, err, domain.ErrVersionMismatch)
		assert.Equal(t, int64(3), task.Version)
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		task := storedTask()

		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(exists).WithArgs(task.ID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		assert.ErrorIs(t, repo.Update(context.Background(), task), domain.ErrTaskNotFound)
	})
}

func TestCreateDuplicate(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	assert.ErrorIs(t, repo.Create(context.Background(), storedTask()), domain.ErrTaskAlreadyExists)
}

func TestGetByID(t *testing.T) {
	stmt := regexp.QuoteMeta("SELECT " + taskColumns + " FROM tasks WHERE id = $1")

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		due := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(stmt).WithArgs("task-1").WillReturnRows(
			taskRows().AddRow("task-1", "file taxes", int64(3), false, due, nil, created, created, int64(3)),
		)

		task, err := repo.GetByID(context.Background(), "task-1")
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityHigh, task.Priority)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, due, *task.DueDate)
		assert.Nil(t, task.DoneAt)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(stmt).WithArgs("nope").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), "nope")
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})
}

func TestFindByFilter(t *testing.T) {
	done := true
	req := &domain.FilterRequest{
		Filter:    domain.TaskFilter{Done: &done},
		Sort:      domain.SortSpec{{Field: domain.SortByDueDate, Direction: domain.SortDescending}},
		PageIndex: 1,
		PageSize:  2,
	}

	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks WHERE TRUE AND done = $1")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY due_date DESC NULLS LAST, created_at ASC, id ASC")).
		WithArgs(true, 2, int64(2)).
		WillReturnRows(taskRows().
			AddRow("task-3", "third", int64(1), true, nil, created, created, created, int64(2)).
			AddRow("task-4", "fourth", int64(2), true, nil, created, created, created, int64(2)))

	page, err := repo.FindByFilter(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "task-3", page.Items[0].ID)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
}

func TestFindByFilterHugePageIndexSkipsWindowQuery(t *testing.T) {
	for _, size := range []int{2, 4} {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks WHERE TRUE")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))

		page, err := repo.FindByFilter(context.Background(), &domain.FilterRequest{PageIndex: 1 << 62, PageSize: size})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.False(t, page.HasNext)
		assert.Equal(t, int64(5), page.TotalItems)
	}
}

func TestFindByFilterRejectsBadRequest(t *testing.T) {
	repo, _ := newMockRepository(t)

	_, err := repo.FindByFilter(context.Background(), &domain.FilterRequest{PageIndex: -1, PageSize: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidPage)

	_, err = repo.FindByFilter(context.Background(), &domain.FilterRequest{
		PageSize: 2,
		Sort:     domain.SortSpec{{Field: "text", Direction: domain.SortAscending}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSort)
}

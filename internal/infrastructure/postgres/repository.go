package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/todotracker/internal/domain"
	"github.com/dmehra2102/todotracker/internal/query"
)

const defaultQueryTimeout = 5 * time.Second

const uniqueViolation = "23505"

const taskColumns = "id, text, priority, done, due_date, done_at, created_at, updated_at, version"

var orderColumns = map[domain.SortField]string{
	domain.SortByPriority: "priority",
	domain.SortByDueDate:  "due_date",
}

type TaskRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
	tracer       trace.Tracer
}

// NewTaskRepository wraps an open pool. A non-positive timeout falls back to
// five seconds per statement.
func NewTaskRepository(db *sql.DB, queryTimeout time.Duration) *TaskRepository {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &TaskRepository{
		db:           db,
		queryTimeout: queryTimeout,
		tracer:       otel.Tracer("postgres-repository"),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	task := &domain.Task{}
	var dueDate, doneAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.Text,
		&task.Priority,
		&task.Done,
		&dueDate,
		&doneAt,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.Version,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		d := dueDate.Time.UTC()
		task.DueDate = &d
	}
	if doneAt.Valid {
		d := doneAt.Time.UTC()
		task.DoneAt = &d
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return task, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "repository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", task.ID))

	stmt := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, stmt,
		task.ID,
		task.Text,
		task.Priority,
		task.Done,
		task.DueDate,
		task.DoneAt,
		task.CreatedAt,
		task.UpdatedAt,
		task.Version,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("failed to create task %s: %w", task.ID, domain.ErrTaskAlreadyExists)
		}
		span.RecordError(err)
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "repository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.String("task.id", id))

	stmt := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, stmt, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			span.SetAttributes(attribute.Bool("not_found", true))
			return nil, domain.ErrTaskNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// Update writes the task if its version still matches the stored row and
// bumps the version on success. A missing row and a stale version are told
// apart with a follow-up existence check.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "repository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.String("task.id", task.ID),
		attribute.Int64("version", task.Version),
	)

	// Optimistic locking: update only if version matches
	stmt := `
		UPDATE tasks
		SET text = $1, priority = $2, done = $3, due_date = $4, done_at = $5, updated_at = $6, version = version + 1
		WHERE id = $7 AND version = $8
	`

	result, err := r.db.ExecContext(ctx, stmt,
		task.Text,
		task.Priority,
		task.Done,
		task.DueDate,
		task.DoneAt,
		task.UpdatedAt,
		task.ID,
		task.Version,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, task.ID).Scan(&exists); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to check task existence: %w", err)
		}
		if !exists {
			return domain.ErrTaskNotFound
		}
		span.SetAttributes(attribute.Bool("version_mismatch", true))
		return domain.ErrVersionMismatch
	}

	task.Version++
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "repository.Delete")
	defer span.End()

	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// FindByFilter runs a COUNT over the filter and then fetches one ordered
// window. Both statements share the same WHERE clause and arguments.
func (r *TaskRepository) FindByFilter(ctx context.Context, req *domain.FilterRequest) (*domain.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "repository.FindByFilter")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	orderBy, err := buildOrderByClause(req.Sort)
	if err != nil {
		return nil, err
	}

	where, args := buildWhereClause(req.Filter)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM tasks WHERE %s", where)

	var totalCount int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	if req.PastEnd(totalCount) {
		span.SetAttributes(attribute.Int64("total_count", totalCount))
		return domain.NewPage(nil, totalCount, req.PageIndex, req.PageSize), nil
	}

	stmt := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE %s
		%s
		LIMIT $%d OFFSET $%d
	`, taskColumns, where, orderBy, len(args)+1, len(args)+2)

	args = append(args, req.PageSize, req.Offset())

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0, req.PageSize)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	span.SetAttributes(
		attribute.Int64("total_count", totalCount),
		attribute.Int("returned_count", len(tasks)),
	)

	return domain.NewPage(tasks, totalCount, req.PageIndex, req.PageSize), nil
}

// Ping reports whether the database is reachable.
func (r *TaskRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()
	return r.db.PingContext(ctx)
}

func buildWhereClause(filter domain.TaskFilter) (string, []any) {
	conditions := []string{"TRUE"}
	args := []any{}
	argCount := 0

	if filter.Done != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("done = $%d", argCount))
		args = append(args, *filter.Done)
	}

	if filter.Text != nil && *filter.Text != "" {
		argCount++
		conditions = append(conditions, fmt.Sprintf(`text ILIKE $%d ESCAPE '\'`, argCount))
		args = append(args, "%"+escapeLike(*filter.Text)+"%")
	}

	if filter.Priority != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("priority = $%d", argCount))
		args = append(args, int(*filter.Priority))
	}

	return strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// buildOrderByClause mirrors query.Comparator: a missing due date is the
// lowest value, so NULLS FIRST ascending and NULLS LAST descending, followed
// by creation time and id as tie-breakers.
func buildOrderByClause(spec domain.SortSpec) (string, error) {
	if err := query.ValidateSortSpec(spec); err != nil {
		return "", err
	}

	keys := make([]string, 0, len(spec)+2)
	for _, o := range spec {
		column := orderColumns[o.Field]
		key := column + " ASC"
		if o.Direction == domain.SortDescending {
			key = column + " DESC"
		}
		if o.Field == domain.SortByDueDate {
			if o.Direction == domain.SortDescending {
				key += " NULLS LAST"
			} else {
				key += " NULLS FIRST"
			}
		}
		keys = append(keys, key)
	}
	keys = append(keys, "created_at ASC", "id ASC")

	return "ORDER BY " + strings.Join(keys, ", "), nil
}

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinTextLength = 3
	MaxTextLength = 120

	// DueDateLayout is the calendar-date form accepted for due dates.
	DueDateLayout = "2006-01-02"
)

type Task struct {
	ID        string
	Text      string
	Priority  Priority
	Done      bool
	DueDate   *time.Time
	DoneAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

// NewTask creates a new pending task with validation. The due date, when
// present, may not fall before the calendar day of now.
func NewTask(text string, priority Priority, dueDate *time.Time, now time.Time) (*Task, error) {
	if err := validateText(text); err != nil {
		return nil, err
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	now = now.UTC()
	if dueDate != nil && dueDate.Before(StartOfDay(now)) {
		return nil, ErrDueDateInPast
	}

	return &Task{
		ID:        uuid.New().String(),
		Text:      text,
		Priority:  priority,
		DueDate:   normalizeDueDate(dueDate),
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}, nil
}

// Update replaces the editable fields. A nil due date clears it; otherwise it
// may not fall before the day the task was created.
func (t *Task) Update(text string, priority Priority, dueDate *time.Time, now time.Time) error {
	if err := validateText(text); err != nil {
		return err
	}
	if !priority.IsValid() {
		return ErrInvalidPriority
	}
	if dueDate != nil && dueDate.Before(StartOfDay(t.CreatedAt)) {
		return ErrDueDateBeforeCreation
	}

	t.Text = text
	t.Priority = priority
	t.DueDate = normalizeDueDate(dueDate)
	t.UpdatedAt = now.UTC()
	return nil
}

// Complete marks the task done. Completing an already done task keeps the
// original completion time.
func (t *Task) Complete(now time.Time) {
	t.Done = true
	if t.DoneAt == nil {
		doneAt := now.UTC()
		t.DoneAt = &doneAt
	}
	t.UpdatedAt = now.UTC()
}

// Uncomplete reopens the task and clears its completion time.
func (t *Task) Uncomplete(now time.Time) {
	t.Done = false
	t.DoneAt = nil
	t.UpdatedAt = now.UTC()
}

// Clone returns a deep copy so stores can hand out snapshots.
func (t *Task) Clone() *Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.DoneAt != nil {
		d := *t.DoneAt
		c.DoneAt = &d
	}
	return &c
}

// ParseDueDate parses a YYYY-MM-DD string into UTC midnight. Empty input
// means no due date.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(DueDateLayout, s, time.UTC)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &d, nil
}

// StartOfDay truncates t to midnight UTC of its calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func normalizeDueDate(dueDate *time.Time) *time.Time {
	if dueDate == nil {
		return nil
	}
	d := StartOfDay(*dueDate)
	return &d
}

func validateText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyText
	}
	if len([]rune(text)) < MinTextLength {
		return ErrTextTooShort
	}
	if len([]rune(text)) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

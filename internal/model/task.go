package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Status is the completion state of a task.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// Recognized priority labels. The store does not enforce them.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DueDateLayout is the expected format of Task.DueDate.
const DueDateLayout = "2006-01-02"

// Task represents a single item in the tracker.
type Task struct {
	ID          int    `json:"id" validate:"gte=1"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Status      Status `json:"status" validate:"oneof=pending done"`
}

var validate = validator.New()

// MarkDone moves the task to the done state. Calling it again changes nothing.
func (t *Task) MarkDone() {
	t.Status = StatusDone
}

// IsDone reports whether the task has been completed.
func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

// Validate checks the fields a stored task must satisfy.
func (t Task) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("task %d: %w", t.ID, err)
	}
	return nil
}

// DueTime parses DueDate in loc. ok is false when the date is empty or malformed.
func (t Task) DueTime(loc *time.Location) (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DueDateLayout, t.DueDate, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

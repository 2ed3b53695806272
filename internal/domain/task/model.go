package task

import (
	"encoding/json"
	"fmt"
	"time"

	"heybuddy/internal/store"
)

const Table = "tasks"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt,omitempty"`
	LastSync    *time.Time `json:"lastSync,omitempty"`
}

// Overdue reports whether the task has a due date in the past and is still
// open.
func (t Task) Overdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == StatusCompleted || t.Status == StatusCancelled {
		return false
	}
	return t.DueDate.Before(now)
}

func fromRecord(rec store.Record) (Task, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return Task{}, fmt.Errorf("decode task: %w", err)
	}

	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return Task{}, fmt.Errorf("decode task: %w", err)
	}
	return t, nil
}

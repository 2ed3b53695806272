package task

import "errors"

var (
	ErrNotFound        = errors.New("task not found")
	ErrTitleRequired   = errors.New("task title is required")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

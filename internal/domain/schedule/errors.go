package schedule

import "errors"

var (
	ErrNotFound       = errors.New("schedule event not found")
	ErrTitleRequired  = errors.New("event title is required")
	ErrStartRequired  = errors.New("event start time is required")
	ErrEndBeforeStart = errors.New("event ends before it starts")
)

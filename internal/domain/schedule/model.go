package schedule

import (
	"encoding/json"
	"fmt"
	"time"

	"heybuddy/internal/store"
)

const Table = "schedules"

type Event struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	Location        string     `json:"location,omitempty"`
	AllDay          bool       `json:"allDay"`
	ReminderMinutes int        `json:"reminderMinutes,omitempty"`
	Color           string     `json:"color,omitempty"`
	CreatedAt       time.Time  `json:"createdAt,omitempty"`
	UpdatedAt       time.Time  `json:"updatedAt,omitempty"`
	LastSync        *time.Time `json:"lastSync,omitempty"`
}

// Overlaps reports whether the event intersects the [from, to) window.
// Events without an end time count as instants.
func (e Event) Overlaps(from, to time.Time) bool {
	end := e.StartTime
	if e.EndTime != nil {
		end = *e.EndTime
	}
	return e.StartTime.Before(to) && !end.Before(from)
}

func fromRecord(rec store.Record) (Event, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return Event{}, fmt.Errorf("decode schedule event: %w", err)
	}

	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode schedule event: %w", err)
	}
	return e, nil
}

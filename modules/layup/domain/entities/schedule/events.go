package schedule

import (
	"time"

	"github.com/google/uuid"
)

// GeneratedEvent is published after every completed scheduling run.
type GeneratedEvent struct {
	RunID      uuid.UUID
	Start      time.Time
	Assigned   int
	Unassigned int
	Applied    bool
}

// SavedEvent is published once a run's assignments are persisted.
type SavedEvent struct {
	RunID       uuid.UUID
	From        time.Time
	To          time.Time
	Assignments int
}

type OverriddenEvent struct {
	Assignment Assignment
}

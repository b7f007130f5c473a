package watcher

import "time"

// EventType represents the kind of change seen on the watched file.
type EventType int

const (
	// EventChanged is emitted once the file has been written or created and
	// then stayed unchanged for the settle delay.
	EventChanged EventType = iota
	// EventRemoved is emitted when the file is deleted or renamed away.
	EventRemoved
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventChanged:
		return "changed"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event describes a settled change to the watched file.
type Event struct {
	Type    EventType
	Path    string
	Size    int64
	ModTime time.Time
}

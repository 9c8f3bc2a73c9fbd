package domain

import "time"

// timestampLayouts are the formats carriers use for event timestamps.
// Carriers are not consistent: DHL and PostNL send RFC3339 with offset,
// Ship24 sends UTC without offset, YunExpress and GofoExpress send local
// date-times without zone information.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Event is a single timestamped tracking milestone. Events are never mutated
// after construction; adapters and the refresh job always build new ones.
type Event struct {
	// Timestamp is the carrier-supplied timestamp, kept verbatim. It is not
	// normalized to UTC across carriers.
	Timestamp string `json:"timestamp"`
	// Description is the carrier status text or its Dutch translation.
	Description string `json:"description"`
	// Location is the place where the event occurred, if the carrier provides one.
	Location string `json:"location,omitempty"`
	// IsInternal marks events generated by ParcelTrack itself (for example an
	// ETA change), as opposed to carrier-supplied milestones.
	IsInternal bool `json:"isInternal,omitempty"`
}

// NewEvent creates a carrier-supplied event.
func NewEvent(timestamp, description, location string) Event {
	return Event{
		Timestamp:   timestamp,
		Description: description,
		Location:    location,
	}
}

// NewInternalEvent creates a synthetic event generated by the refresh job.
func NewInternalEvent(timestamp, description string) Event {
	return Event{
		Timestamp:   timestamp,
		Description: description,
		IsInternal:  true,
	}
}

// Time parses the carrier timestamp. It returns the zero time when no known
// layout matches, which sorts such events last.
func (e Event) Time() time.Time {
	return ParseTimestamp(e.Timestamp)
}

// Key identifies an event for diffing purposes. Two events with the same
// timestamp and description are considered the same milestone.
func (e Event) Key() string {
	return e.Timestamp + "|" + e.Description
}

// ParseTimestamp parses a carrier-supplied timestamp using the known layouts.
// Returns the zero time when nothing matches.
func ParseTimestamp(value string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

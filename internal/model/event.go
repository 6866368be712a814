package model

import "time"

// EventType names a mutation broadcast to admin clients.
type EventType string

const (
	EventCreated  EventType = "created"
	EventUpdated  EventType = "updated"
	EventDeleted  EventType = "deleted"
	EventReviewed EventType = "reviewed"
)

// Event is published on the admin channel after a successful mutation.
type Event struct {
	Type   EventType `json:"type"`
	Entity string    `json:"entity"`
	ID     uint64    `json:"id"`
	At     time.Time `json:"at"`
}

// DashboardSummary holds the admin dashboard counters.
type DashboardSummary struct {
	Courses            int `json:"courses"`
	Students           int `json:"students"`
	Teachers           int `json:"teachers"`
	Classes            int `json:"classes"`
	PendingEnrollments int `json:"pending_enrollments"`
}

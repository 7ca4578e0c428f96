package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AssignedListID is the reserved identifier of the virtual list that shows tasks routed to the
// delegate user rather than tasks belonging to a real list.
const AssignedListID = "@assigned"

// Priority is the urgency of a Task.
type Priority string

// These constants refer to the priorities supported by the app.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities returns the supported priorities from most to least urgent.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// ParsePriority maps user input onto a Priority, falling back to medium for anything unknown.
func ParsePriority(s string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Task is a single to-do entry. Its position in the store's task sequence determines where it is
// displayed within its list.
type Task struct {
	ID          string
	Title       string
	Completed   bool
	ListID      string
	CreatedAt   time.Time
	Priority    Priority
	Notes       string
	DueDate     *time.Time
	Attachments []Attachment
	AssignedTo  string
	CreatedBy   string
}

// Clone returns a copy of the task that shares no mutable state with t.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}

	if t.Attachments != nil {
		t.Attachments = append([]Attachment(nil), t.Attachments...)
	}

	return t
}

// List is a named grouping of tasks.
type List struct {
	ID        string
	Name      string
	CreatedBy string
}

// Link is a bookmarked URL shown outside the task board.
type Link struct {
	ID    string
	Title string
	URL   string
}

// Attachment is a link record nested under a task.
type Attachment struct {
	ID    string
	Title string
	URL   string
}

// NewID returns a fresh identifier for tasks, lists, links and attachments.
func NewID() string {
	return uuid.NewString()
}

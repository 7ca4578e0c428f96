package store

import (
	"time"

	"github.com/matt-steen/todo-board/pkg/model"
)

// DefaultKey is the key the whole board is stored under.
const DefaultKey = "team-todo-storage"

// DueDatePolicy decides the due date of a task created without one.
type DueDatePolicy string

const (
	// DueDateNone leaves the due date unset.
	DueDateNone DueDatePolicy = "none"
	// DueDateNow sets the due date to the creation time.
	DueDateNow DueDatePolicy = "now"
)

// State is one immutable snapshot of the board. Slices in a snapshot are never written to after the
// snapshot is published; callers must not modify them either.
type State struct {
	Tasks         []model.Task
	Lists         []model.List
	Links         []model.Link
	ActiveTab     string
	Background    string
	UserName      string
	ShowCompleted bool
	CurrentUserID string
}

// TaskUpdate holds the fields UpdateTask merges into a task. Nil fields are left alone.
type TaskUpdate struct {
	Title        *string
	Completed    *bool
	ListID       *string
	Priority     *model.Priority
	Notes        *string
	DueDate      *time.Time
	ClearDueDate bool
	Attachments  *[]model.Attachment
	AssignedTo   *string
}

// Ptr returns a pointer to v, for filling in TaskUpdate.
func Ptr[T any](v T) *T {
	return &v
}

func (u TaskUpdate) apply(task model.Task) model.Task {
	task = task.Clone()

	if u.Title != nil {
		task.Title = *u.Title
	}

	if u.Completed != nil {
		task.Completed = *u.Completed
	}

	if u.ListID != nil {
		task.ListID = *u.ListID
	}

	if u.Priority != nil {
		task.Priority = *u.Priority
	}

	if u.Notes != nil {
		task.Notes = *u.Notes
	}

	if u.DueDate != nil {
		due := *u.DueDate
		task.DueDate = &due
	}

	if u.ClearDueDate {
		task.DueDate = nil
	}

	if u.Attachments != nil {
		task.Attachments = nil
		if len(*u.Attachments) > 0 {
			task.Attachments = append([]model.Attachment(nil), (*u.Attachments)...)
		}
	}

	if u.AssignedTo != nil {
		task.AssignedTo = *u.AssignedTo
	}

	return task
}

// Defaults seed a board that has never been saved.
type Defaults struct {
	Links      []model.Link
	Background string
	UserName   string
}

func (d Defaults) state(users []model.User) State {
	links := make([]model.Link, 0, len(d.Links))
	links = append(links, d.Links...)

	st := State{
		Tasks:      []model.Task{},
		Lists:      []model.List{},
		Links:      links,
		Background: d.Background,
		UserName:   d.UserName,
	}

	if len(users) > 0 {
		st.CurrentUserID = users[0].ID
	}

	return st
}

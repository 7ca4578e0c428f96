// Package reorder turns drag-and-drop gestures on a list-scoped view into changes of the single
// global task sequence.
//
// The board keeps every task in one ordered slice. A list only ever shows a filtered view of that
// slice, so moving a task up or down a list means permuting the positions that the list's tasks
// occupy in the global slice, and moving a task to another list means changing its ListID only.
package reorder

import "github.com/matt-steen/todo-board/pkg/model"

// Filter selects the tasks a list view shows. The same Filter must be used to render a view and to
// compute reorder indices against it.
type Filter struct {
	ListID string
	// Delegate is the user id whose assigned tasks appear on the assigned virtual list.
	Delegate         string
	IncludeCompleted bool
}

// Match reports whether task belongs to the view.
func (f Filter) Match(task model.Task) bool {
	if !f.IncludeCompleted && task.Completed {
		return false
	}

	if f.ListID == model.AssignedListID {
		return task.ListID == model.AssignedListID || (f.Delegate != "" && task.AssignedTo == f.Delegate)
	}

	return task.ListID == f.ListID
}

// View returns the matching tasks in global order.
func (f Filter) View(tasks []model.Task) []model.Task {
	view := []model.Task{}

	for _, task := range tasks {
		if f.Match(task) {
			view = append(view, task)
		}
	}

	return view
}

func indexOf(tasks []model.Task, id string) int {
	for i, task := range tasks {
		if task.ID == id {
			return i
		}
	}

	return -1
}

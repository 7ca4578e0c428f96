package reorder

import "github.com/matt-steen/todo-board/pkg/model"

// Kind is what a drop resolved to.
type Kind int

const (
	// NoChange means the drop must not touch state.
	NoChange Kind = iota
	// Reordered means Order holds the new full task sequence.
	Reordered
	// Moved means TaskID should be moved onto ListID.
	Moved
)

// Outcome is the result of resolving a drop. It is applied to the store with Apply.
type Outcome struct {
	Kind   Kind
	Order  []model.Task
	TaskID string
	ListID string
}

// Mutator is the part of the store a drop is applied to.
type Mutator interface {
	ReorderTasks(order []model.Task)
	MoveTask(id, listID string)
}

// Apply performs the outcome on m. NoChange does nothing.
func Apply(outcome Outcome, m Mutator) {
	switch outcome.Kind {
	case Reordered:
		m.ReorderTasks(outcome.Order)
	case Moved:
		m.MoveTask(outcome.TaskID, outcome.ListID)
	case NoChange:
	}
}

// Reorder moves draggedID to the position of targetID within the filtered view and returns the new
// full sequence. The reordered view is written back into the slots the view occupied, so tasks
// outside the view keep both their positions and their relative order. ok is false when either task
// is not in the view or both ids are the same; tasks is then returned unchanged.
func Reorder(tasks []model.Task, filter Filter, draggedID, targetID string) ([]model.Task, bool) {
	if draggedID == targetID {
		return tasks, false
	}

	var slots []int

	view := []model.Task{}

	for i, task := range tasks {
		if filter.Match(task) {
			slots = append(slots, i)
			view = append(view, task)
		}
	}

	from := indexOf(view, draggedID)
	to := indexOf(view, targetID)

	if from < 0 || to < 0 || from == to {
		return tasks, false
	}

	moved := arrayMove(view, from, to)

	order := make([]model.Task, len(tasks))
	copy(order, tasks)

	for i, slot := range slots {
		order[slot] = moved[i]
	}

	return order, true
}

// arrayMove extracts the item at from and inserts it at to, shifting the items in between by one.
func arrayMove(items []model.Task, from, to int) []model.Task {
	out := make([]model.Task, 0, len(items))
	item := items[from]

	for i, it := range items {
		if i == from {
			continue
		}

		out = append(out, it)
	}

	out = append(out[:to], append([]model.Task{item}, out[to:]...)...)

	return out
}

// Move checks that draggedID exists and does not already belong to targetListID.
func Move(tasks []model.Task, draggedID, targetListID string) (Outcome, bool) {
	i := indexOf(tasks, draggedID)
	if i < 0 || targetListID == "" || tasks[i].ListID == targetListID {
		return Outcome{Kind: NoChange}, false
	}

	return Outcome{Kind: Moved, TaskID: draggedID, ListID: targetListID}, true
}

// Resolve decides what dropping draggedID onto targetID means. A target naming a list (or the
// assigned virtual list) is a cross-list move, a target naming a task in the view is a reorder, and
// anything else is a no-op.
func Resolve(tasks []model.Task, lists []model.List, filter Filter, draggedID, targetID string) Outcome {
	if draggedID == "" || targetID == "" || draggedID == targetID {
		return Outcome{Kind: NoChange}
	}

	if isList(lists, targetID) {
		outcome, _ := Move(tasks, draggedID, targetID)

		return outcome
	}

	order, ok := Reorder(tasks, filter, draggedID, targetID)
	if !ok {
		return Outcome{Kind: NoChange}
	}

	return Outcome{Kind: Reordered, Order: order, TaskID: draggedID}
}

func isList(lists []model.List, id string) bool {
	if id == model.AssignedListID {
		return true
	}

	for _, list := range lists {
		if list.ID == id {
			return true
		}
	}

	return false
}

package reorder

import "github.com/matt-steen/todo-board/pkg/model"

// Source is what a drag reads when it is dropped.
type Source interface {
	Tasks() []model.Task
	Lists() []model.List
}

// Drag tracks a single drag gesture: idle until Begin, dragging until End or Cancel. It holds no
// board state, so cancelling can never change anything.
type Drag struct {
	taskID string
}

// Begin makes taskID the drag payload, replacing any previous one.
func (d *Drag) Begin(taskID string) {
	d.taskID = taskID
}

// Active returns the dragged task id while a drag is in progress.
func (d *Drag) Active() (string, bool) {
	return d.taskID, d.taskID != ""
}

// Cancel returns to idle without an outcome.
func (d *Drag) Cancel() {
	d.taskID = ""
}

// End drops the payload on targetID and returns to idle. An empty targetID means the task was
// dropped outside any valid target. Calling End while idle returns NoChange.
func (d *Drag) End(src Source, filter Filter, targetID string) Outcome {
	dragged := d.taskID
	d.taskID = ""

	if dragged == "" || targetID == "" {
		return Outcome{Kind: NoChange}
	}

	return Resolve(src.Tasks(), src.Lists(), filter, dragged, targetID)
}

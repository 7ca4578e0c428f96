package controller

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/todo-board/pkg/model"
	"github.com/rivo/tview"
)

const (
	notesTitleRatio = 2
	columnCount     = 5
)

// TaskContent implements tview.TableContent, which tview.Table uses to update data.
type TaskContent struct {
	tview.TableContentReadOnly
	tasks []model.Task
	now   func() time.Time
}

// GetCell returns the cell at the given position or nil if no cell.
func (t *TaskContent) GetCell(row, col int) *tview.TableCell {
	if row == 0 {
		return t.headerCell(col)
	}

	if row-1 >= len(t.tasks) {
		return nil
	}

	task := t.tasks[row-1]

	switch col {
	case 0:
		mark := "[ ]"
		if task.Completed {
			mark = "[x]"
		}

		return tview.NewTableCell(tview.Escape(mark + " " + task.Title)).SetExpansion(1).SetReference(task.ID)
	case 1:
		return tview.NewTableCell(fmt.Sprintf("[%s]%s", priorityColor(task.Priority), task.Priority))
	case 2:
		return tview.NewTableCell(describeDue(task.DueDate, t.now()))
	case 3:
		return tview.NewTableCell(tview.Escape(task.Notes)).SetExpansion(notesTitleRatio)
	case 4:
		if len(task.Attachments) == 0 {
			return tview.NewTableCell("")
		}

		return tview.NewTableCell(fmt.Sprintf("[blue]%d", len(task.Attachments)))
	}

	return nil
}

func (t *TaskContent) headerCell(col int) *tview.TableCell {
	names := []string{"title", "priority", "due", "notes", "links"}
	if col >= len(names) {
		return nil
	}

	cell := tview.NewTableCell(names[col]).SetTextColor(tcell.ColorYellow).SetSelectable(false)

	switch col {
	case 0:
		cell.SetExpansion(1)
	case 3:
		cell.SetExpansion(notesTitleRatio)
	}

	return cell
}

// GetRowCount returns the number of rows in the table.
func (t *TaskContent) GetRowCount() int {
	return len(t.tasks) + 1
}

// GetColumnCount returns the number of columns in the table.
func (t *TaskContent) GetColumnCount() int {
	return columnCount
}

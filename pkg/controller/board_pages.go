package controller

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/todo-board/pkg/model"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

func (c *Controller) getBoardGrid() *tview.Grid {
	c.header = tview.NewTable().SetBorders(false).SetSelectable(false, false)
	c.table = c.getTable()

	grid := tview.NewGrid().SetBorders(true).SetRows(12, 0)

	grid.AddItem(c.header, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.table, 1, 0, 1, 1, 0, 0, true)

	return grid
}

// refreshHeader shows the list tabs, the user, the quick links and the drag state on top,
// followed by 3 columns listing keyboard shortcuts: misc, task and list shortcuts, each sorted
// alphabetically.
func (c *Controller) refreshHeader() {
	c.header.Clear()

	row := 0
	c.header.SetCell(row, 0, tview.NewTableCell(c.tabLine()).SetExpansion(3))
	row++

	c.header.SetCell(row, 0, tview.NewTableCell(c.statusLine()).SetExpansion(3))
	row++

	shortcuts := map[int][]string{
		0: {},
		1: {},
		2: {},
	}

	for key, event := range c.events {
		text := fmt.Sprintf("[orange]<%s>[white] %s", tcell.KeyNames[key], event.Description)

		switch {
		case strings.Contains(event.Description, "Task"), strings.Contains(event.Description, "Drop"):
			shortcuts[1] = append(shortcuts[1], text)
		case strings.Contains(event.Description, "List"):
			shortcuts[2] = append(shortcuts[2], text)
		default:
			shortcuts[0] = append(shortcuts[0], text)
		}
	}

	for col := 0; col < 3; col++ {
		sort.Strings(shortcuts[col])
	}

	for i := 0; i < len(shortcuts[0]) || i < len(shortcuts[1]) || i < len(shortcuts[2]); i++ {
		for col := 0; col < 3; col++ {
			if i < len(shortcuts[col]) {
				c.header.SetCell(row, col, tview.NewTableCell(shortcuts[col][i]).SetExpansion(1))
			}
		}

		row++
	}
}

func (c *Controller) tabLine() string {
	tabs := c.tabs()
	if len(tabs) == 0 {
		return "[yellow]no lists yet[white], press <L> to create the first one"
	}

	active := c.store.ActiveTab()
	parts := make([]string, 0, len(tabs))

	for i, t := range tabs {
		count := len(c.store.VisibleTasks(c.store.Filter(t.id)))

		if t.id == active {
			parts = append(parts, fmt.Sprintf("[black:yellow] %d %s (%d) [-:-]", i+1, t.name, count))
		} else {
			parts = append(parts, fmt.Sprintf("[white] %d %s (%d) ", i+1, t.name, count))
		}
	}

	return strings.Join(parts, "|")
}

func (c *Controller) statusLine() string {
	parts := []string{}

	if user, ok := c.currentUser(); ok {
		parts = append(parts, fmt.Sprintf("[green]%s[white] (%s)", user.Name, user.Role))
	}

	if c.store.Snapshot().ShowCompleted {
		parts = append(parts, "[gray]showing completed")
	}

	if id, ok := c.drag.Active(); ok {
		title := id

		for _, task := range c.store.Tasks() {
			if task.ID == id {
				title = task.Title

				break
			}
		}

		parts = append(parts, fmt.Sprintf("[red]moving '%s'[white]: <Enter> on a task or <1-9> on a list, <Esc> cancels", title))
	}

	links := []string{}
	for _, link := range c.store.Links() {
		links = append(links, link.Title)
	}

	if len(links) > 0 {
		parts = append(parts, "[blue]links:[white] "+strings.Join(links, ", "))
	}

	return strings.Join(parts, "  ")
}

func (c *Controller) getTable() *tview.Table {
	table := tview.NewTable().SetBorders(false)

	table.SetContent(c.content)
	table.SetSelectable(true, false)
	table.SetFixed(1, 0)

	table.SetSelectionChangedFunc(c.setCurrentRow)
	table.SetSelectedFunc(func(row, _ int) {
		c.dropOnRow(row)
	})

	return table
}

func (c *Controller) getTaskForRow(row int) (model.Task, bool) {
	// adjust for the header row
	if idx := row - 1; idx < len(c.content.tasks) && idx >= 0 {
		return c.content.tasks[idx], true
	}

	return model.Task{}, false
}

// when the row selection changes, update the selected task.
func (c *Controller) setCurrentRow(row, _ int) {
	task, ok := c.getTaskForRow(row)
	if !ok {
		c.selectedTask = ""

		return
	}

	c.selectedTask = task.ID

	log.Debug().
		Int("row", row).
		Int("len", len(c.content.tasks)).
		Msgf("setting selectedTask to '%s'", task.Title)
}

// refresh reloads the table and header from the store and keeps the selected task highlighted
// if it is still visible.
func (c *Controller) refresh() {
	c.content.tasks = c.store.VisibleTasks(c.filter())

	c.refreshHeader()

	row := 1

	for i, task := range c.content.tasks {
		if task.ID == c.selectedTask {
			row = i + 1

			break
		}
	}

	if len(c.content.tasks) == 0 {
		c.selectedTask = ""

		return
	}

	c.updateTableSelection(row)
}

// updateTableSelection moves the table highlight to row, which also updates selectedTask.
func (c *Controller) updateTableSelection(row int) {
	if c.table.GetRowCount() > row {
		c.table.Select(row, 0)
	} else {
		log.Warn().Msgf("couldn't select; row was too high: %d (row count: %d)", row, c.table.GetRowCount())
	}
}

func (c *Controller) showBoard() {
	c.refresh()

	c.app.SetInputCapture(c.handleKeys)
	c.pages.SwitchToPage(boardPage)
	c.app.SetFocus(c.table)
}

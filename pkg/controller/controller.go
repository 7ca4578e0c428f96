package controller

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/todo-board/pkg/model"
	"github.com/matt-steen/todo-board/pkg/reorder"
	"github.com/matt-steen/todo-board/pkg/store"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	boardPage      = "board"
	taskFormPage   = "taskForm"
	listFormPage   = "listForm"
	linkFormPage   = "linkForm"
	attachFormPage = "attachmentForm"
)

// Controller mediates between the store and the view.
type Controller struct {
	ctx   context.Context
	store *store.Store
	app   *tview.Application
	pages *tview.Pages
	loc   *time.Location
	now   func() time.Time

	header  *tview.Table
	table   *tview.Table
	content *TaskContent

	taskForm   *tview.Form
	listForm   *tview.Form
	linkForm   *tview.Form
	attachForm *tview.Form

	formHeaders map[string]*tview.Table

	titleField    *tview.InputField
	notesField    *tview.InputField
	dueField      *tview.InputField
	priorityDrop  *tview.DropDown
	listNameField *tview.InputField
	linkTitle     *tview.InputField
	linkURL       *tview.InputField
	linkDrop      *tview.DropDown
	attachTitle   *tview.InputField
	attachURL     *tview.InputField
	attachDrop    *tview.DropDown

	// selectedTask is the id of the highlighted task, "" if none.
	selectedTask string
	// editing is true while the task form edits selectedTask rather than creating a task.
	editing bool
	// renaming is true while the list form renames the active list.
	renaming bool
	// addLink and addAttachment switch their forms between adding and removing.
	addLink       bool
	addAttachment bool

	drag reorder.Drag

	events     map[tcell.Key]KeyEvent
	formEvents map[tcell.Key]KeyEvent
}

// KeyEvent defines an event associated with a keypress.
type KeyEvent struct {
	Description string
	Action      func(*tcell.EventKey) *tcell.EventKey
}

// NewController creates a new Controller to run the app.
func NewController(ctx context.Context, s *store.Store) (*Controller, error) {
	c := Controller{
		ctx:   ctx,
		store: s,
		app:   tview.NewApplication(),
		pages: tview.NewPages(),
		loc:   time.Local,
		now:   time.Now,

		formHeaders: map[string]*tview.Table{},
	}

	initKeys()
	c.initEvents()

	c.content = &TaskContent{now: c.now}

	c.pages.AddPage(boardPage, c.getBoardGrid(), true, true)
	c.pages.AddPage(taskFormPage, c.getFormGrid(taskFormPage, c.initTaskForm()), true, false)
	c.pages.AddPage(listFormPage, c.getFormGrid(listFormPage, c.initListForm()), true, false)
	c.pages.AddPage(linkFormPage, c.getFormGrid(linkFormPage, c.initLinkForm()), true, false)
	c.pages.AddPage(attachFormPage, c.getFormGrid(attachFormPage, c.initAttachmentForm()), true, false)

	s.Subscribe(func(store.State) {
		c.refresh()
	})

	return &c, nil
}

// Go starts the app and blocks until it exits.
func (c *Controller) Go() error {
	c.showBoard()

	return c.app.SetRoot(c.pages, true).Run()
}

// Stop ends the app.
func (c *Controller) Stop() {
	c.app.Stop()
}

func (c *Controller) currentUser() (model.User, bool) {
	return c.store.CurrentUser()
}

// filter is the single view filter used both to render the table and to resolve drops on it.
func (c *Controller) filter() reorder.Filter {
	return c.store.Filter(c.store.ActiveTab())
}

// tabs returns the drop targets in display order: the real lists followed by the assigned virtual
// list when there is a delegate to assign to.
func (c *Controller) tabs() []tab {
	lists := c.store.Lists()
	tabs := make([]tab, 0, len(lists)+1)

	for _, list := range lists {
		tabs = append(tabs, tab{id: list.ID, name: list.Name})
	}

	if delegate, ok := model.Delegate(c.store.Users()); ok && len(lists) > 0 {
		tabs = append(tabs, tab{id: model.AssignedListID, name: "For " + delegate.Name})
	}

	return tabs
}

type tab struct {
	id   string
	name string
}

func (c *Controller) selected() (model.Task, bool) {
	for _, task := range c.content.tasks {
		if task.ID == c.selectedTask {
			return task, true
		}
	}

	return model.Task{}, false
}

func (c *Controller) logAction(action string) {
	task, _ := c.selected()

	log.Debug().
		Str("activeTab", c.store.ActiveTab()).
		Str("selectedTask", task.Title).
		Msgf("action: %s", action)
}

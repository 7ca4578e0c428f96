package controller

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/todo-board/pkg/reorder"
	"github.com/rs/zerolog/log"
)

func (c *Controller) initEvents() {
	c.events = map[tcell.Key]KeyEvent{}
	c.formEvents = map[tcell.Key]KeyEvent{}

	c.initTaskEvents(c.events)
	c.initListEvents(c.events)
	c.initMiscEvents(c.events)

	c.initExitEvent(c.events)

	c.formEvents[tcell.KeyEscape] = KeyEvent{
		Description: "Cancel",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.showBoard()

			return nil
		},
	}
}

// handleKeys dispatches board keys. While a task is being moved, digits and Esc drop or cancel it
// instead of their usual actions.
func (c *Controller) handleKeys(evt *tcell.EventKey) *tcell.EventKey {
	key := AsKey(evt)

	if n, ok := digit(key); ok {
		c.digitAction(n)

		return nil
	}

	if key == tcell.KeyEscape {
		if _, dragging := c.drag.Active(); dragging {
			log.Debug().Msg("move cancelled")
			c.drag.Cancel()
			c.refresh()
		}

		return nil
	}

	if k, ok := c.events[key]; ok {
		return k.Action(evt)
	}

	return evt
}

func (c *Controller) handleFormKeys(evt *tcell.EventKey) *tcell.EventKey {
	if k, ok := c.formEvents[evt.Key()]; ok {
		return k.Action(evt)
	}

	return evt
}

func (c *Controller) initExitEvent(events map[tcell.Key]KeyEvent) {
	events[KeyQ] = KeyEvent{
		Description: "Exit",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			log.Info().Msg("terminating application")

			c.app.Stop()

			return nil
		},
	}
}

// withTask wraps an action that needs a highlighted task. Without one the key is swallowed.
func (c *Controller) withTask(action string, fn func()) func(*tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		c.logAction(action)

		if _, ok := c.selected(); !ok {
			log.Debug().Msgf("no task selected for %s", action)

			return nil
		}

		fn()

		return nil
	}
}

func (c *Controller) initTaskEvents(events map[tcell.Key]KeyEvent) {
	events[KeyN] = KeyEvent{
		Description: "New Task",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			if !c.activeIsList() {
				log.Debug().Msg("no list to add a task to")

				return nil
			}

			c.switchToTaskForm(false)

			return nil
		},
	}

	events[KeyE] = KeyEvent{
		Description: "Edit Task",
		Action:      c.withTask("edit", func() { c.switchToTaskForm(true) }),
	}

	events[KeySpace] = KeyEvent{
		Description: "Complete Task",
		Action:      c.withTask("toggle", func() { c.store.ToggleTask(c.selectedTask) }),
	}

	events[KeyD] = KeyEvent{
		Description: "Delete Task",
		Action:      c.withTask("delete", func() { c.store.DeleteTask(c.selectedTask) }),
	}

	events[KeyM] = KeyEvent{
		Description: "Move Task",
		Action: c.withTask("move", func() {
			c.drag.Begin(c.selectedTask)
			c.refresh()
		}),
	}

	events[KeyA] = KeyEvent{
		Description: "Attach to Task",
		Action:      c.withTask("attach", func() { c.switchToAttachmentForm(true) }),
	}

	events[KeyShiftA] = KeyEvent{
		Description: "Detach from Task",
		Action:      c.withTask("detach", func() { c.switchToAttachmentForm(false) }),
	}

	events[KeyC] = KeyEvent{
		Description: "Show Completed Tasks",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.store.ToggleShowCompleted()

			return nil
		},
	}
}

func (c *Controller) initListEvents(events map[tcell.Key]KeyEvent) {
	events[KeyShiftL] = KeyEvent{
		Description: "New List",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.switchToListForm(false)

			return nil
		},
	}

	events[KeyShiftR] = KeyEvent{
		Description: "Rename List",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			if !c.activeIsList() {
				return nil
			}

			c.switchToListForm(true)

			return nil
		},
	}

	events[KeyShiftX] = KeyEvent{
		Description: "Delete List",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			if !c.activeIsList() {
				return nil
			}

			c.store.DeleteList(c.store.ActiveTab())

			return nil
		},
	}

	events[tcell.KeyTab] = KeyEvent{
		Description: "Next List",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.cycleTab(1)

			return nil
		},
	}

	events[tcell.KeyBacktab] = KeyEvent{
		Description: "Previous List",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.cycleTab(-1)

			return nil
		},
	}
}

func (c *Controller) initMiscEvents(events map[tcell.Key]KeyEvent) {
	events[KeyShiftK] = KeyEvent{
		Description: "Add Link",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.switchToLinkForm(true)

			return nil
		},
	}

	events[KeyK] = KeyEvent{
		Description: "Remove Link",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			if len(c.store.Links()) == 0 {
				return nil
			}

			c.switchToLinkForm(false)

			return nil
		},
	}

	events[KeyU] = KeyEvent{
		Description: "Switch User",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.nextUser()

			return nil
		},
	}
}

// digitAction selects tab n, or drops the moving task onto it.
func (c *Controller) digitAction(n int) {
	tabs := c.tabs()
	if n < 1 || n > len(tabs) {
		return
	}

	target := tabs[n-1].id

	if _, dragging := c.drag.Active(); dragging {
		c.drop(target)

		return
	}

	c.store.SetActiveTab(target)
}

// dropOnRow drops the moving task onto the task shown at row. It does nothing when no move is in
// progress.
func (c *Controller) dropOnRow(row int) {
	if _, dragging := c.drag.Active(); !dragging {
		return
	}

	task, ok := c.getTaskForRow(row)
	if !ok {
		c.drop("")

		return
	}

	c.drop(task.ID)
}

func (c *Controller) drop(targetID string) {
	dragged, _ := c.drag.Active()

	outcome := c.drag.End(c.store, c.filter(), targetID)

	log.Debug().
		Str("dragged", dragged).
		Str("target", targetID).
		Int("outcome", int(outcome.Kind)).
		Msg("drop")

	if outcome.Kind == reorder.NoChange {
		c.refresh()

		return
	}

	c.selectedTask = dragged

	reorder.Apply(outcome, c.store)
}

func (c *Controller) activeIsList() bool {
	active := c.store.ActiveTab()

	for _, list := range c.store.Lists() {
		if list.ID == active {
			return true
		}
	}

	return false
}

func (c *Controller) cycleTab(step int) {
	tabs := c.tabs()
	if len(tabs) == 0 {
		return
	}

	idx := 0
	active := c.store.ActiveTab()

	for i, t := range tabs {
		if t.id == active {
			idx = i

			break
		}
	}

	idx = (idx + step + len(tabs)) % len(tabs)

	c.store.SetActiveTab(tabs[idx].id)
}

func (c *Controller) nextUser() {
	users := c.store.Users()
	if len(users) == 0 {
		return
	}

	current, _ := c.currentUser()
	next := users[0]

	for i, user := range users {
		if user.ID == current.ID {
			next = users[(i+1)%len(users)]

			break
		}
	}

	log.Info().Msgf("switching to user %s", next.Name)

	c.store.SwitchUser(next.ID)
}

package controller

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/todo-board/pkg/model"
	"github.com/matt-steen/todo-board/pkg/store"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	titleMax = 80
	notesMax = 500
	urlMax   = 200
	dueMax   = 16
)

func (c *Controller) switchToForm(name, title string, form *tview.Form) {
	c.setFormTitle(name, title)

	form.SetFocus(0)

	c.pages.SwitchToPage(name)

	c.app.SetInputCapture(c.handleFormKeys)
}

func (c *Controller) getFormGrid(name string, form *tview.Form) *tview.Grid {
	grid := tview.NewGrid().SetBorders(true).SetRows(4, 0)

	c.initFormHeader(name)

	grid.AddItem(c.formHeaders[name], 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(form, 1, 0, 1, 1, 0, 0, true)

	return grid
}

func (c *Controller) setFormTitle(name, title string) {
	c.formHeaders[name].SetCell(0, 0, tview.NewTableCell(fmt.Sprintf("[yellow]%s", title)))
}

func (c *Controller) initFormHeader(name string) {
	c.formHeaders[name] = tview.NewTable().SetBorders(false).SetSelectable(false, false)
	row := 1

	for key, event := range c.formEvents {
		text := fmt.Sprintf("[orange]<%s>[white] %s", tcell.KeyNames[key], event.Description)
		c.formHeaders[name].SetCell(row, 0, tview.NewTableCell(text))
		row++
	}
}

// showFormError puts err on the second header line of form name, leaving the user on the form.
func (c *Controller) showFormError(name string, err error) {
	log.Debug().Err(err).Msgf("invalid input on %s", name)

	c.formHeaders[name].SetCell(0, 1, tview.NewTableCell(fmt.Sprintf("[red]%s", err)))
}

func (c *Controller) clearFormError(name string) {
	c.formHeaders[name].SetCell(0, 1, tview.NewTableCell(""))
}

// switchToTaskForm opens the task form, prefilled from the selected task when editing.
func (c *Controller) switchToTaskForm(editing bool) {
	c.editing = editing
	c.clearFormError(taskFormPage)

	title := "New Task"

	if task, ok := c.selected(); editing && ok {
		title = "Edit Task"

		c.titleField.SetText(task.Title)
		c.notesField.SetText(task.Notes)
		c.dueField.SetText(formatDueInput(task.DueDate, c.loc))
		c.priorityDrop.SetCurrentOption(priorityIndex(task.Priority))
	} else {
		c.resetTaskForm()
	}

	c.switchToForm(taskFormPage, title, c.taskForm)
}

func (c *Controller) resetTaskForm() {
	c.titleField.SetText("")
	c.notesField.SetText("")
	c.dueField.SetText("")
	c.priorityDrop.SetCurrentOption(priorityIndex(model.PriorityMedium))
}

func (c *Controller) initTaskForm() *tview.Form {
	priorities := []string{}
	for _, p := range model.Priorities() {
		priorities = append(priorities, string(p))
	}

	c.taskForm = tview.NewForm().
		AddInputField("Title", "", titleMax, nil, nil).
		AddDropDown("Priority", priorities, priorityIndex(model.PriorityMedium), nil).
		AddInputField("Due", "", dueMax, nil, nil).
		AddInputField("Notes", "", notesMax, nil, nil)

	c.titleField, _ = c.taskForm.GetFormItemByLabel("Title").(*tview.InputField)
	c.priorityDrop, _ = c.taskForm.GetFormItemByLabel("Priority").(*tview.DropDown)
	c.dueField, _ = c.taskForm.GetFormItemByLabel("Due").(*tview.InputField)
	c.notesField, _ = c.taskForm.GetFormItemByLabel("Notes").(*tview.InputField)

	c.dueField.SetPlaceholder("YYYY-MM-DD [HH:MM]")

	c.taskForm.AddButton("Save", c.saveTask)

	return c.taskForm
}

func (c *Controller) saveTask() {
	due, err := parseDue(c.dueField.GetText(), c.loc)
	if err != nil {
		c.showFormError(taskFormPage, err)

		return
	}

	_, option := c.priorityDrop.GetCurrentOption()
	priority := model.ParsePriority(option)

	log.Debug().Msgf("saving task with title '%s'. editing: %t", c.titleField.GetText(), c.editing)

	if c.editing {
		update := store.TaskUpdate{
			Title:    store.Ptr(c.titleField.GetText()),
			Notes:    store.Ptr(c.notesField.GetText()),
			Priority: &priority,
		}

		if due == nil {
			update.ClearDueDate = true
		} else {
			update.DueDate = due
		}

		c.store.UpdateTask(c.selectedTask, update)
	} else {
		task, ok := c.store.AddTask(c.titleField.GetText(), priority, due)
		if !ok {
			c.showFormError(taskFormPage, errors.New("a task needs a title"))

			return
		}

		if notes := c.notesField.GetText(); notes != "" {
			c.store.UpdateTask(task.ID, store.TaskUpdate{Notes: &notes})
		}

		c.selectedTask = task.ID
	}

	c.resetTaskForm()
	c.showBoard()
}

// switchToListForm opens the list form, either to create a list or to rename the active one.
func (c *Controller) switchToListForm(renaming bool) {
	c.renaming = renaming
	c.clearFormError(listFormPage)

	title := "New List"
	c.listNameField.SetText("")

	if renaming {
		title = "Rename List"

		for _, list := range c.store.Lists() {
			if list.ID == c.store.ActiveTab() {
				c.listNameField.SetText(list.Name)
			}
		}
	}

	c.switchToForm(listFormPage, title, c.listForm)
}

func (c *Controller) initListForm() *tview.Form {
	c.listForm = tview.NewForm().
		AddInputField("Name", "", titleMax, nil, nil)

	c.listNameField, _ = c.listForm.GetFormItemByLabel("Name").(*tview.InputField)

	c.listForm.AddButton("Save", func() {
		name := c.listNameField.GetText()

		if c.renaming {
			c.store.RenameList(c.store.ActiveTab(), name)
		} else if _, ok := c.store.AddList(name); !ok {
			c.showFormError(listFormPage, errors.New("a list needs a name"))

			return
		}

		c.showBoard()
	})

	return c.listForm
}

// switchToLinkForm opens the quick link form. Adding shows title and URL fields; removing shows a
// drop-down of the existing links.
func (c *Controller) switchToLinkForm(add bool) {
	c.addLink = add
	c.clearFormError(linkFormPage)

	title := "Add Link"
	if !add {
		title = "Remove Link"
	}

	c.linkTitle.SetText("")
	c.linkURL.SetText("")
	c.updateLinkFormOptions()
	c.setFormMode(c.linkForm, add)

	c.switchToForm(linkFormPage, title, c.linkForm)
}

func (c *Controller) updateLinkFormOptions() {
	options := []string{}
	for _, link := range c.store.Links() {
		options = append(options, fmt.Sprintf("%s (%s)", link.Title, link.URL))
	}

	c.linkDrop.SetOptions(options, nil)
	c.linkDrop.SetCurrentOption(-1)
}

// setFormMode shows the title and URL inputs when adding and the drop-down when removing.
func (c *Controller) setFormMode(form *tview.Form, add bool) {
	form.Clear(false)

	var title, url *tview.InputField
	var drop *tview.DropDown

	switch form {
	case c.linkForm:
		title, url, drop = c.linkTitle, c.linkURL, c.linkDrop
	case c.attachForm:
		title, url, drop = c.attachTitle, c.attachURL, c.attachDrop
	}

	if add {
		form.AddFormItem(title)
		form.AddFormItem(url)
	} else {
		form.AddFormItem(drop)
	}
}

func (c *Controller) initLinkForm() *tview.Form {
	c.linkForm = tview.NewForm()

	c.linkTitle = tview.NewInputField().SetLabel("Title").SetFieldWidth(titleMax)
	c.linkURL = tview.NewInputField().SetLabel("URL").SetFieldWidth(urlMax)
	c.linkDrop = tview.NewDropDown().SetLabel("Link")

	c.linkForm.AddButton("Save", func() {
		if c.addLink {
			if _, ok := c.store.AddLink(c.linkTitle.GetText(), c.linkURL.GetText()); !ok {
				c.showFormError(linkFormPage, errors.New("a link needs a URL"))

				return
			}
		} else {
			idx, _ := c.linkDrop.GetCurrentOption()
			links := c.store.Links()

			if idx < 0 || idx >= len(links) {
				c.showFormError(linkFormPage, errors.New("pick a link to remove"))

				return
			}

			log.Debug().Msgf("removing link '%s'", links[idx].Title)
			c.store.DeleteLink(links[idx].ID)
		}

		c.showBoard()
	})

	return c.linkForm
}

// switchToAttachmentForm opens the attachment form for the selected task.
func (c *Controller) switchToAttachmentForm(add bool) {
	task, _ := c.selected()
	if !add && len(task.Attachments) == 0 {
		return
	}

	c.addAttachment = add
	c.clearFormError(attachFormPage)

	title := fmt.Sprintf("Attach to '%s'", task.Title)
	if !add {
		title = fmt.Sprintf("Detach from '%s'", task.Title)
	}

	options := []string{}
	for _, a := range task.Attachments {
		options = append(options, fmt.Sprintf("%s (%s)", a.Title, a.URL))
	}

	c.attachDrop.SetOptions(options, nil)
	c.attachDrop.SetCurrentOption(-1)
	c.attachTitle.SetText("")
	c.attachURL.SetText("")
	c.setFormMode(c.attachForm, add)

	c.switchToForm(attachFormPage, title, c.attachForm)
}

func (c *Controller) initAttachmentForm() *tview.Form {
	c.attachForm = tview.NewForm()

	c.attachTitle = tview.NewInputField().SetLabel("Title").SetFieldWidth(titleMax)
	c.attachURL = tview.NewInputField().SetLabel("URL").SetFieldWidth(urlMax)
	c.attachDrop = tview.NewDropDown().SetLabel("Attachment")

	c.attachForm.AddButton("Save", func() {
		task, ok := c.selected()
		if !ok {
			c.showBoard()

			return
		}

		if c.addAttachment {
			if _, ok := c.store.AddAttachment(task.ID, c.attachTitle.GetText(), c.attachURL.GetText()); !ok {
				c.showFormError(attachFormPage, errors.New("an attachment needs a URL"))

				return
			}
		} else {
			idx, _ := c.attachDrop.GetCurrentOption()
			if idx < 0 || idx >= len(task.Attachments) {
				c.showFormError(attachFormPage, errors.New("pick an attachment to remove"))

				return
			}

			c.store.RemoveAttachment(task.ID, task.Attachments[idx].ID)
		}

		c.showBoard()
	})

	return c.attachForm
}

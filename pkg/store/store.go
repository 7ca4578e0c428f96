// Package store holds the board's canonical in-memory state and the actions that change it.
//
// Every action replaces the current State with a new snapshot and hands that snapshot to a
// background writer, which mirrors it to the storage adapter. Callers never wait for the write: the
// in-memory state is authoritative and the stored copy may lag behind it.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/matt-steen/todo-board/pkg/model"
	"github.com/matt-steen/todo-board/pkg/reorder"
	"github.com/matt-steen/todo-board/pkg/storage"
	"github.com/rs/zerolog/log"
)

// Store owns the board state.
type Store struct {
	mu          sync.RWMutex
	state       State
	subscribers []func(State)

	key          string
	users        []model.User
	policy       model.AssignmentPolicy
	dueDates     DueDatePolicy
	defaults     Defaults
	now          func() time.Time
	writeTimeout time.Duration

	persister *persister
}

// New creates a store with default state that writes through adapter.
func New(adapter *storage.Adapter, opts ...Option) *Store {
	s := &Store{
		key:          DefaultKey,
		policy:       model.RoutedAssignment{},
		dueDates:     DueDateNone,
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		writeTimeout: defaultWriteTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.state = s.defaults.state(s.users)
	s.persister = newPersister(adapter, s.key, s.writeTimeout)

	return s
}

// Load creates a store and rehydrates it from adapter. A missing or unreadable blob leaves the
// defaults in place; a blob written by a newer version is an error so it does not get overwritten.
func Load(ctx context.Context, adapter *storage.Adapter, opts ...Option) (*Store, error) {
	s := New(adapter, opts...)

	blob, ok := adapter.Get(ctx, s.key)
	if !ok {
		log.Info().Str("key", s.key).Msg("no saved board, starting fresh")

		return s, nil
	}

	st, err := Decode(blob, s.defaults)
	if errors.Is(err, ErrUnsupportedVersion) {
		_ = s.Close(ctx)

		return nil, fmt.Errorf("error loading board: %w", err)
	}

	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("saved board is unreadable, starting fresh")

		return s, nil
	}

	if _, found := model.FindUser(s.users, st.CurrentUserID); !found {
		st.CurrentUserID = s.defaults.state(s.users).CurrentUserID
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()

	log.Info().Int("tasks", len(st.Tasks)).Int("lists", len(st.Lists)).Msg("board loaded")

	return s, nil
}

// Flush waits for pending writes.
func (s *Store) Flush(ctx context.Context) error {
	return s.persister.flush(ctx)
}

// Close flushes pending writes and stops the background writer.
func (s *Store) Close(ctx context.Context) error {
	return s.persister.close(ctx)
}

// Subscribe registers fn to be called with every new snapshot.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = append(s.subscribers, fn)
}

// update replaces the state with fn's result, queues a write and notifies subscribers.
func (s *Store) update(action string, fn func(State) State) {
	s.mu.Lock()
	next := fn(s.state)
	s.state = next
	subscribers := append([]func(State){}, s.subscribers...)
	s.persister.submit(next)
	s.mu.Unlock()

	log.Debug().Str("action", action).Int("tasks", len(next.Tasks)).Int("lists", len(next.Lists)).
		Str("activeTab", next.ActiveTab).Msg("state updated")

	for _, sub := range subscribers {
		sub(next)
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Tasks returns the global task sequence.
func (s *Store) Tasks() []model.Task {
	return s.Snapshot().Tasks
}

// Lists returns the lists in creation order.
func (s *Store) Lists() []model.List {
	return s.Snapshot().Lists
}

// Links returns the quick links.
func (s *Store) Links() []model.Link {
	return s.Snapshot().Links
}

// ActiveTab returns the selected list id, the assigned virtual list id, or "" when there are no lists.
func (s *Store) ActiveTab() string {
	return s.Snapshot().ActiveTab
}

// Users returns the configured local users.
func (s *Store) Users() []model.User {
	return append([]model.User(nil), s.users...)
}

// CurrentUser returns the selected user. ok is false when no users are configured.
func (s *Store) CurrentUser() (model.User, bool) {
	return model.FindUser(s.users, s.Snapshot().CurrentUserID)
}

// Filter returns the view filter for listID under the current display preferences.
func (s *Store) Filter(listID string) reorder.Filter {
	filter := reorder.Filter{ListID: listID, IncludeCompleted: s.Snapshot().ShowCompleted}

	if delegate, ok := model.Delegate(s.users); ok {
		filter.Delegate = delegate.ID
	}

	return filter
}

// VisibleTasks returns the tasks filter selects, in display order.
func (s *Store) VisibleTasks(filter reorder.Filter) []model.Task {
	return filter.View(s.Tasks())
}

// CompletedTasks returns the completed tasks of listID, for the history view.
func (s *Store) CompletedTasks(listID string) []model.Task {
	filter := s.Filter(listID)
	filter.IncludeCompleted = true

	completed := []model.Task{}

	for _, task := range filter.View(s.Tasks()) {
		if task.Completed {
			completed = append(completed, task)
		}
	}

	return completed
}

// SetActiveTab selects a list. The id is not checked.
func (s *Store) SetActiveTab(id string) {
	s.update("setActiveTab", func(st State) State {
		st.ActiveTab = id

		return st
	})
}

// AddList appends a list and makes it active. Blank names are ignored.
func (s *Store) AddList(name string) (model.List, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		log.Debug().Msg("ignoring list with blank name")

		return model.List{}, false
	}

	list := model.List{ID: model.NewID(), Name: name}

	if user, ok := s.CurrentUser(); ok {
		list.CreatedBy = user.ID
	}

	s.update("addList", func(st State) State {
		st.Lists = appendCopy(st.Lists, list)
		st.ActiveTab = list.ID

		return st
	})

	return list, true
}

// RenameList changes the name of list id. Unknown ids and blank names are ignored.
func (s *Store) RenameList(id, name string) {
	name = strings.TrimSpace(name)
	if name == "" || !s.hasList(id) {
		return
	}

	s.update("renameList", func(st State) State {
		lists := make([]model.List, 0, len(st.Lists))

		for _, list := range st.Lists {
			if list.ID == id {
				list.Name = name
			}

			lists = append(lists, list)
		}

		st.Lists = lists

		return st
	})
}

// DeleteList removes list id and every task on it. If it was active, the first remaining list
// becomes active, or "" when none remain.
func (s *Store) DeleteList(id string) {
	if !s.hasList(id) {
		return
	}

	s.update("deleteList", func(st State) State {
		lists := make([]model.List, 0, len(st.Lists))

		for _, list := range st.Lists {
			if list.ID != id {
				lists = append(lists, list)
			}
		}

		tasks := make([]model.Task, 0, len(st.Tasks))

		for _, task := range st.Tasks {
			if task.ListID != id {
				tasks = append(tasks, task)
			}
		}

		if st.ActiveTab == id {
			st.ActiveTab = ""
			if len(lists) > 0 {
				st.ActiveTab = lists[0].ID
			}
		}

		st.Lists = lists
		st.Tasks = tasks

		return st
	})
}

func (s *Store) hasList(id string) bool {
	for _, list := range s.Lists() {
		if list.ID == id {
			return true
		}
	}

	return false
}

// AddLink appends a quick link. The URL gets https:// when it has no scheme; a blank title falls
// back to the URL. Blank URLs are ignored.
func (s *Store) AddLink(title, url string) (model.Link, bool) {
	url = model.NormalizeURL(url)
	if url == "" {
		return model.Link{}, false
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = url
	}

	link := model.Link{ID: model.NewID(), Title: title, URL: url}

	s.update("addLink", func(st State) State {
		st.Links = appendCopy(st.Links, link)

		return st
	})

	return link, true
}

// DeleteLink removes a quick link.
func (s *Store) DeleteLink(id string) {
	s.update("deleteLink", func(st State) State {
		links := make([]model.Link, 0, len(st.Links))

		for _, link := range st.Links {
			if link.ID != id {
				links = append(links, link)
			}
		}

		st.Links = links

		return st
	})
}

// AddTask puts a new task at the front of the sequence, on the active list. Blank titles are
// ignored. A nil dueDate is filled in according to the store's DueDatePolicy.
func (s *Store) AddTask(title string, priority model.Priority, dueDate *time.Time) (model.Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		log.Debug().Msg("ignoring task with blank title")

		return model.Task{}, false
	}

	if priority == "" {
		priority = model.PriorityMedium
	}

	snapshot := s.Snapshot()
	now := s.now()

	task := model.Task{
		ID:        model.NewID(),
		Title:     title,
		ListID:    snapshot.ActiveTab,
		CreatedAt: now,
		Priority:  priority,
	}

	if user, ok := model.FindUser(s.users, snapshot.CurrentUserID); ok {
		task.CreatedBy = user.ID
		task.AssignedTo = s.policy.Assignee(user, s.users, snapshot.ActiveTab)
	}

	switch {
	case dueDate != nil:
		due := *dueDate
		task.DueDate = &due
	case s.dueDates == DueDateNow:
		task.DueDate = &now
	}

	s.update("addTask", func(st State) State {
		tasks := make([]model.Task, 0, len(st.Tasks)+1)
		tasks = append(tasks, task)
		st.Tasks = append(tasks, st.Tasks...)

		return st
	})

	return task, true
}

// UpdateTask merges u into task id. Unknown ids are ignored; values are not validated.
func (s *Store) UpdateTask(id string, u TaskUpdate) {
	s.mapTask("updateTask", id, u.apply)
}

// ToggleTask flips the completed flag. The task keeps its position.
func (s *Store) ToggleTask(id string) {
	s.mapTask("toggleTask", id, func(task model.Task) model.Task {
		task = task.Clone()
		task.Completed = !task.Completed

		return task
	})
}

// DeleteTask removes task id.
func (s *Store) DeleteTask(id string) {
	if _, ok := s.task(id); !ok {
		return
	}

	s.update("deleteTask", func(st State) State {
		tasks := make([]model.Task, 0, len(st.Tasks))

		for _, task := range st.Tasks {
			if task.ID != id {
				tasks = append(tasks, task)
			}
		}

		st.Tasks = tasks

		return st
	})
}

// ReorderTasks replaces the whole task sequence. It does not check that order is a permutation of
// the current tasks; reorder.Reorder produces orders that are.
func (s *Store) ReorderTasks(order []model.Task) {
	tasks := make([]model.Task, 0, len(order))
	for _, task := range order {
		tasks = append(tasks, task.Clone())
	}

	s.update("reorderTasks", func(st State) State {
		st.Tasks = tasks

		return st
	})
}

// MoveTask puts task id on listID without changing its position in the sequence. The assignee is
// recomputed by the assignment policy. Moving onto the list the task is already on does nothing.
func (s *Store) MoveTask(id, listID string) {
	task, ok := s.task(id)
	if !ok || task.ListID == listID {
		return
	}

	assignee := task.AssignedTo
	if user, ok := s.CurrentUser(); ok {
		assignee = s.policy.Reassign(task, user, s.users, listID)
	}

	s.UpdateTask(id, TaskUpdate{ListID: &listID, AssignedTo: &assignee})
}

// AddAttachment appends a link to task id. The URL gets https:// when it has no scheme.
func (s *Store) AddAttachment(taskID, title, url string) (model.Attachment, bool) {
	url = model.NormalizeURL(url)

	task, ok := s.task(taskID)
	if !ok || url == "" {
		return model.Attachment{}, false
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = url
	}

	attachment := model.Attachment{ID: model.NewID(), Title: title, URL: url}
	attachments := appendCopy(task.Attachments, attachment)

	s.UpdateTask(taskID, TaskUpdate{Attachments: &attachments})

	return attachment, true
}

// RemoveAttachment drops one attachment from task taskID.
func (s *Store) RemoveAttachment(taskID, attachmentID string) {
	task, ok := s.task(taskID)
	if !ok {
		return
	}

	attachments := []model.Attachment{}

	for _, a := range task.Attachments {
		if a.ID != attachmentID {
			attachments = append(attachments, a)
		}
	}

	if len(attachments) == len(task.Attachments) {
		return
	}

	s.UpdateTask(taskID, TaskUpdate{Attachments: &attachments})
}

// SetBackground sets the background image reference.
func (s *Store) SetBackground(bg string) {
	s.update("setBackground", func(st State) State {
		st.Background = bg

		return st
	})
}

// SetUserName sets the name used in greetings.
func (s *Store) SetUserName(name string) {
	s.update("setUserName", func(st State) State {
		st.UserName = strings.TrimSpace(name)

		return st
	})
}

// ToggleShowCompleted flips whether list views include completed tasks.
func (s *Store) ToggleShowCompleted() {
	s.update("toggleShowCompleted", func(st State) State {
		st.ShowCompleted = !st.ShowCompleted

		return st
	})
}

// SwitchUser selects a configured user. Unknown ids are ignored.
func (s *Store) SwitchUser(id string) {
	if _, ok := model.FindUser(s.users, id); !ok {
		return
	}

	s.update("switchUser", func(st State) State {
		st.CurrentUserID = id

		return st
	})
}

func (s *Store) task(id string) (model.Task, bool) {
	for _, task := range s.Tasks() {
		if task.ID == id {
			return task, true
		}
	}

	return model.Task{}, false
}

// mapTask replaces task id with fn(task) in a new sequence. Unknown ids are ignored.
func (s *Store) mapTask(action, id string, fn func(model.Task) model.Task) {
	if _, ok := s.task(id); !ok {
		return
	}

	s.update(action, func(st State) State {
		tasks := make([]model.Task, 0, len(st.Tasks))

		for _, task := range st.Tasks {
			if task.ID == id {
				task = fn(task)
			}

			tasks = append(tasks, task)
		}

		st.Tasks = tasks

		return st
	})
}

func appendCopy[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)

	return append(out, item)
}

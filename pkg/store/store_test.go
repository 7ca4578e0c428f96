package store_test

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/matt-steen/todo-board/pkg/model"
	"github.com/matt-steen/todo-board/pkg/reorder"
	"github.com/matt-steen/todo-board/pkg/storage"
	"github.com/matt-steen/todo-board/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin  = model.User{ID: "u1", Name: "Owner", Role: model.RoleAdmin}
	member = model.User{ID: "u2", Name: "Partner", Role: model.RoleMember}
	epoch  = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
)

func newStore(t *testing.T, opts ...store.Option) (*store.Store, *storage.Memory) {
	t.Helper()

	backend := storage.NewMemory()

	opts = append([]store.Option{
		store.WithUsers([]model.User{admin, member}),
		store.WithClock(func() time.Time { return epoch }),
	}, opts...)

	s := store.New(storage.NewAdapter(backend), opts...)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	return s, backend
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}

	return out
}

// seed builds lists [A, B] and tasks [t1@A, t2@A, t3@B] in that global order.
func seed(t *testing.T, s *store.Store) (a, b model.List, t1, t2, t3 model.Task) {
	t.Helper()

	a, ok := s.AddList("A")
	require.True(t, ok)
	b, ok = s.AddList("B")
	require.True(t, ok)

	s.SetActiveTab(b.ID)
	t3, _ = s.AddTask("three", model.PriorityLow, nil)
	s.SetActiveTab(a.ID)
	t2, _ = s.AddTask("two", model.PriorityMedium, nil)
	t1, _ = s.AddTask("one", model.PriorityHigh, nil)

	require.Equal(t, []string{t1.ID, t2.ID, t3.ID}, ids(s.Tasks()))

	return a, b, t1, t2, t3
}

func TestAddListOnEmptyStore(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	assert.Equal("", s.ActiveTab())

	list, ok := s.AddList("Groceries")
	assert.True(ok)

	lists := s.Lists()
	assert.Len(lists, 1)
	assert.Equal("Groceries", lists[0].Name)
	assert.Equal("u1", lists[0].CreatedBy)
	assert.Equal(list.ID, s.ActiveTab())

	_, ok = s.AddList("   ")
	assert.False(ok)
	assert.Len(s.Lists(), 1)
}

func TestDeleteOnlyActiveList(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)

	list, _ := s.AddList("Only")
	s.AddTask("a", model.PriorityMedium, nil)
	s.AddTask("b", model.PriorityMedium, nil)

	s.DeleteList(list.ID)

	assert.Equal("", s.ActiveTab())
	assert.Empty(s.Tasks())
	assert.Empty(s.Lists())
}

func TestDeleteListCascadesOnlyItsTasks(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	a, b, _, _, t3 := seed(t, s)

	s.DeleteList(a.ID)

	assert.Equal([]string{t3.ID}, ids(s.Tasks()))
	assert.Equal(b.ID, s.ActiveTab())

	// deleting an inactive list keeps the selection
	c, _ := s.AddList("C")
	s.SetActiveTab(c.ID)
	s.DeleteList(b.ID)
	assert.Equal(c.ID, s.ActiveTab())
	assert.Empty(s.Tasks())

	// unknown ids are ignored
	before := s.Snapshot()
	s.DeleteList("nope")
	assert.Equal(before, s.Snapshot())
}

func TestRenameList(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	a, b, _, _, _ := seed(t, s)

	s.RenameList(a.ID, "Work")
	s.RenameList("nope", "Ghost")
	s.RenameList(b.ID, " ")

	assert.Equal("Work", s.Lists()[0].Name)
	assert.Equal("B", s.Lists()[1].Name)
	assert.Len(s.Lists(), 2)
}

func TestAddTask(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	list, _ := s.AddList("Inbox")

	first, ok := s.AddTask("first", "", nil)
	assert.True(ok)
	second, _ := s.AddTask("  second  ", model.PriorityHigh, nil)

	_, ok = s.AddTask("   ", model.PriorityHigh, nil)
	assert.False(ok)

	tasks := s.Tasks()
	assert.Equal([]string{second.ID, first.ID}, ids(tasks))
	assert.Equal("second", tasks[0].Title)
	assert.Equal(model.PriorityMedium, tasks[1].Priority)
	assert.Equal(list.ID, tasks[0].ListID)
	assert.Equal(epoch, tasks[0].CreatedAt)
	assert.False(tasks[0].Completed)
	assert.Nil(tasks[0].DueDate)
	assert.Equal("u1", tasks[0].CreatedBy)
	assert.Equal("u1", tasks[0].AssignedTo)
	assert.NotEqual(first.ID, second.ID)
}

func TestAddTaskDueDatePolicies(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	due := epoch.Add(48 * time.Hour)

	s, _ := newStore(t, store.WithDueDatePolicy(store.DueDateNow))
	s.AddList("Inbox")

	defaulted, _ := s.AddTask("defaulted", model.PriorityMedium, nil)
	assert.Equal(epoch, *defaulted.DueDate)

	given, _ := s.AddTask("given", model.PriorityMedium, &due)
	assert.Equal(due, *given.DueDate)

	plain, _ := newStore(t)
	plain.AddList("Inbox")

	unset, _ := plain.AddTask("unset", model.PriorityMedium, nil)
	assert.Nil(unset.DueDate)
}

func TestAddTaskRoutedToDelegate(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	s.AddList("Inbox")
	s.SetActiveTab(model.AssignedListID)

	routed, _ := s.AddTask("for partner", model.PriorityMedium, nil)
	assert.Equal("u2", routed.AssignedTo)
	assert.Equal("u1", routed.CreatedBy)
	assert.Equal(model.AssignedListID, routed.ListID)

	s.SwitchUser("u2")

	own, _ := s.AddTask("mine", model.PriorityMedium, nil)
	assert.Equal("u2", own.AssignedTo)

	view := s.VisibleTasks(s.Filter(model.AssignedListID))
	assert.Equal([]string{own.ID, routed.ID}, ids(view))
}

func TestAddTaskWithSelfAssignment(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t, store.WithAssignmentPolicy(model.SelfAssignment{}))
	s.SetActiveTab(model.AssignedListID)

	task, _ := s.AddTask("kept", model.PriorityMedium, nil)
	assert.Equal("u1", task.AssignedTo)
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	_, _, t1, _, _ := seed(t, s)

	due := epoch.Add(time.Hour)
	s.UpdateTask(t1.ID, store.TaskUpdate{
		Notes:    store.Ptr("buy milk"),
		DueDate:  &due,
		Priority: store.Ptr(model.PriorityLow),
	})

	updated := s.Tasks()[0]
	assert.Equal("buy milk", updated.Notes)
	assert.Equal(due, *updated.DueDate)
	assert.Equal(model.PriorityLow, updated.Priority)
	assert.Equal(t1.Title, updated.Title)
	assert.Equal(t1.CreatedAt, updated.CreatedAt)

	s.UpdateTask(t1.ID, store.TaskUpdate{ClearDueDate: true, Title: store.Ptr("renamed")})

	updated = s.Tasks()[0]
	assert.Nil(updated.DueDate)
	assert.Equal("renamed", updated.Title)
	assert.Equal("buy milk", updated.Notes)

	before := s.Snapshot()
	s.UpdateTask("nope", store.TaskUpdate{Title: store.Ptr("ghost")})
	assert.Equal(before, s.Snapshot())
}

func TestToggleTaskKeepsPosition(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	_, _, t1, t2, t3 := seed(t, s)

	s.ToggleTask(t2.ID)

	assert.Equal([]string{t1.ID, t2.ID, t3.ID}, ids(s.Tasks()))
	assert.True(s.Tasks()[1].Completed)

	s.ToggleTask(t2.ID)
	assert.False(s.Tasks()[1].Completed)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	_, _, t1, t2, t3 := seed(t, s)

	s.DeleteTask(t2.ID)
	s.DeleteTask("nope")

	assert.Equal([]string{t1.ID, t3.ID}, ids(s.Tasks()))
}

func TestReorderWithinListScenario(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	a, b, t1, t2, t3 := seed(t, s)

	var drag reorder.Drag

	drag.Begin(t1.ID)
	reorder.Apply(drag.End(s, s.Filter(a.ID), t2.ID), s)

	assert.Equal([]string{t2.ID, t1.ID, t3.ID}, ids(s.Tasks()))
	assert.Equal([]string{t3.ID}, ids(s.VisibleTasks(s.Filter(b.ID))))
}

func TestDropOntoSelfChangesNothing(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	a, _, t1, _, _ := seed(t, s)

	before := s.Snapshot()

	var drag reorder.Drag

	drag.Begin(t1.ID)
	reorder.Apply(drag.End(s, s.Filter(a.ID), t1.ID), s)

	drag.Begin(t1.ID)
	drag.Cancel()
	reorder.Apply(drag.End(s, s.Filter(a.ID), ""), s)

	assert.Equal(before, s.Snapshot())
}

func TestMoveAcrossListsScenario(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	a, b, t1, t2, t3 := seed(t, s)

	s.SetActiveTab(b.ID)

	var drag reorder.Drag

	drag.Begin(t3.ID)
	reorder.Apply(drag.End(s, s.Filter(b.ID), a.ID), s)

	tasks := s.Tasks()
	assert.Equal([]string{t1.ID, t2.ID, t3.ID}, ids(tasks))

	moved := tasks[2]
	assert.Equal(a.ID, moved.ListID)
	assert.Equal(t3.ID, moved.ID)
	assert.Equal(t3.CreatedAt, moved.CreatedAt)
	assert.Equal(t3.Title, moved.Title)
	assert.Equal(t3.Priority, moved.Priority)
	assert.Equal(t3.AssignedTo, moved.AssignedTo)

	assert.Equal([]string{t1.ID, t2.ID, t3.ID}, ids(s.VisibleTasks(s.Filter(a.ID))))
	assert.Empty(s.VisibleTasks(s.Filter(b.ID)))
}

func TestMoveOntoAssignedListReassigns(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	_, _, t1, _, _ := seed(t, s)

	s.MoveTask(t1.ID, model.AssignedListID)

	moved := s.Tasks()[0]
	assert.Equal(model.AssignedListID, moved.ListID)
	assert.Equal("u2", moved.AssignedTo)
	assert.Equal("u1", moved.CreatedBy)
}

func TestSnapshotsAreNotMutated(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	a, _, t1, t2, _ := seed(t, s)

	s.AddAttachment(t1.ID, "brief", "example.com/brief")

	before := s.Snapshot()
	beforeIDs := ids(before.Tasks)
	beforeAttachments := before.Tasks[0].Attachments

	s.UpdateTask(t1.ID, store.TaskUpdate{Title: store.Ptr("changed")})
	s.AddAttachment(t1.ID, "more", "example.com/more")
	s.ToggleTask(t2.ID)
	s.RenameList(a.ID, "renamed")
	s.AddLink("docs", "docs.example")

	order, _ := reorder.Reorder(s.Tasks(), s.Filter(a.ID), t1.ID, t2.ID)
	s.ReorderTasks(order)

	assert.Equal(beforeIDs, ids(before.Tasks))
	assert.Equal("one", before.Tasks[0].Title)
	assert.Len(beforeAttachments, 1)
	assert.False(before.Tasks[1].Completed)
	assert.Equal("A", before.Lists[0].Name)
	assert.Len(before.Links, 0)
}

// Adds, deletes and reorders never create or lose ids beyond what adds and deletes imply.
func TestTaskIdsFollowAddsAndDeletes(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	a, _ := s.AddList("A")
	b, _ := s.AddList("B")
	lists := []string{a.ID, b.ID}

	rng := rand.New(rand.NewSource(42))
	expected := map[string]bool{}

	for step := 0; step < 300; step++ {
		tasks := s.Tasks()

		switch op := rng.Intn(4); {
		case op == 0 || len(tasks) < 2:
			s.SetActiveTab(lists[rng.Intn(len(lists))])

			task, ok := s.AddTask(fmt.Sprintf("task %d", step), model.PriorityMedium, nil)
			assert.True(ok)

			expected[task.ID] = true
		case op == 1:
			victim := tasks[rng.Intn(len(tasks))].ID
			s.DeleteTask(victim)

			delete(expected, victim)
		default:
			listID := lists[rng.Intn(len(lists))]
			filter := reorder.Filter{ListID: listID, IncludeCompleted: true}
			view := filter.View(tasks)

			if len(view) < 2 {
				continue
			}

			order, _ := reorder.Reorder(tasks, filter, view[rng.Intn(len(view))].ID, view[rng.Intn(len(view))].ID)
			s.ReorderTasks(order)
		}

		got := ids(s.Tasks())
		want := make([]string, 0, len(expected))

		for id := range expected {
			want = append(want, id)
		}

		sort.Strings(got)
		sort.Strings(want)
		assert.Equal(want, got)
	}
}

func TestLinks(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t, store.WithDefaults(store.Defaults{
		Links: []model.Link{{ID: "l1", Title: "Google", URL: "https://google.com"}},
	}))

	assert.Len(s.Links(), 1)

	link, ok := s.AddLink("News", "news.example.com")
	assert.True(ok)
	assert.Equal("https://news.example.com", link.URL)

	bare, ok := s.AddLink("", "http://bare.example")
	assert.True(ok)
	assert.Equal("http://bare.example", bare.Title)

	_, ok = s.AddLink("nothing", "  ")
	assert.False(ok)

	s.DeleteLink("l1")

	links := s.Links()
	assert.Len(links, 2)
	assert.Equal(link.ID, links[0].ID)
}

func TestAttachments(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	_, _, t1, _, _ := seed(t, s)

	first, ok := s.AddAttachment(t1.ID, "design", "docs.example/design")
	assert.True(ok)
	assert.Equal("https://docs.example/design", first.URL)

	second, _ := s.AddAttachment(t1.ID, "", "https://tracker.example/1")

	_, ok = s.AddAttachment("nope", "x", "y.example")
	assert.False(ok)

	task := s.Tasks()[0]
	assert.Len(task.Attachments, 2)
	assert.Equal("https://tracker.example/1", task.Attachments[1].Title)

	s.RemoveAttachment(t1.ID, first.ID)
	assert.Equal([]model.Attachment{second}, s.Tasks()[0].Attachments)

	s.RemoveAttachment(t1.ID, second.ID)
	assert.Nil(s.Tasks()[0].Attachments)
}

func TestPreferences(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)

	user, ok := s.CurrentUser()
	assert.True(ok)
	assert.Equal("u1", user.ID)

	s.SwitchUser("u2")
	s.SwitchUser("intruder")

	user, _ = s.CurrentUser()
	assert.Equal("u2", user.ID)

	s.SetBackground("/bg-forest.png")
	s.SetUserName(" Sam ")
	s.ToggleShowCompleted()

	st := s.Snapshot()
	assert.Equal("/bg-forest.png", st.Background)
	assert.Equal("Sam", st.UserName)
	assert.True(st.ShowCompleted)
	assert.True(s.Filter("x").IncludeCompleted)
	assert.Equal("u2", s.Filter("x").Delegate)
}

func TestCompletedTasks(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)
	a, _, t1, t2, _ := seed(t, s)

	s.ToggleTask(t2.ID)

	assert.Equal([]string{t2.ID}, ids(s.CompletedTasks(a.ID)))
	assert.Equal([]string{t1.ID}, ids(s.VisibleTasks(s.Filter(a.ID))))
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := newStore(t)

	var seen []string

	s.Subscribe(func(st store.State) {
		seen = append(seen, st.ActiveTab)
	})

	s.SetActiveTab("x")
	s.SetActiveTab("y")

	assert.Equal([]string{"x", "y"}, seen)
}

package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matt-steen/todo-board/pkg/model"
)

// CurrentSchemaVersion is written into every blob. Version 0 is the shape the browser widget used
// before versions were tracked.
const CurrentSchemaVersion = 1

// ErrUnsupportedVersion means a blob was written by a newer version of the app.
var ErrUnsupportedVersion = errors.New("unsupported schema version")

type envelope struct {
	State   sonic.NoCopyRawMessage `json:"state"`
	Version int                    `json:"version"`
}

type wireState struct {
	Tasks         []wireTask `json:"tasks"`
	Lists         []wireList `json:"lists"`
	Links         []wireLink `json:"links"`
	ActiveTab     string     `json:"activeTab"`
	Background    string     `json:"background"`
	UserName      string     `json:"userName,omitempty"`
	ShowCompleted bool       `json:"showCompleted,omitempty"`
	CurrentUserID string     `json:"currentUserId,omitempty"`
}

type wireTask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	ListID      string     `json:"listId"`
	CreatedAt   int64      `json:"createdAt"`
	Priority    string     `json:"priority,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	DueDate     *int64     `json:"dueDate,omitempty"`
	Attachments []wireLink `json:"attachments,omitempty"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	CreatedBy   string     `json:"createdBy,omitempty"`
}

type wireList struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"createdBy,omitempty"`
}

type wireLink struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// migrations[v] upgrades a state of version v to v+1.
var migrations = map[int]func(*wireState, Defaults){
	0: migrateV0,
}

// migrateV0 fills in what the unversioned widget left optional. A missing due date stays missing:
// the widget variants disagreed on its default, so none is invented here.
func migrateV0(st *wireState, defaults Defaults) {
	for i := range st.Tasks {
		if st.Tasks[i].Priority == "" {
			st.Tasks[i].Priority = string(model.PriorityMedium)
		}
	}

	if st.Links == nil {
		for _, link := range defaults.Links {
			st.Links = append(st.Links, wireLink{ID: link.ID, Title: link.Title, URL: link.URL})
		}
	}
}

// Encode serializes the whole state into a versioned blob.
func Encode(st State) (string, error) {
	raw, err := sonic.Marshal(toWire(st))
	if err != nil {
		return "", fmt.Errorf("error encoding state: %w", err)
	}

	blob, err := sonic.MarshalString(envelope{State: raw, Version: CurrentSchemaVersion})
	if err != nil {
		return "", fmt.Errorf("error encoding envelope: %w", err)
	}

	return blob, nil
}

// Decode parses a blob of any known version, migrating it to the current one. A blob that is a
// bare state object without an envelope is treated as version 0.
func Decode(blob string, defaults Defaults) (State, error) {
	var env envelope
	if err := sonic.UnmarshalString(blob, &env); err != nil {
		return State{}, fmt.Errorf("error decoding envelope: %w", err)
	}

	raw := []byte(env.State)
	if len(raw) == 0 || string(raw) == "null" {
		raw = []byte(blob)
		env.Version = 0
	}

	if env.Version > CurrentSchemaVersion || env.Version < 0 {
		return State{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}

	var ws wireState
	if err := sonic.Unmarshal(raw, &ws); err != nil {
		return State{}, fmt.Errorf("error decoding state: %w", err)
	}

	for v := env.Version; v < CurrentSchemaVersion; v++ {
		migrations[v](&ws, defaults)
	}

	return fromWire(ws), nil
}

func toWire(st State) wireState {
	ws := wireState{
		Tasks:         make([]wireTask, 0, len(st.Tasks)),
		Lists:         make([]wireList, 0, len(st.Lists)),
		Links:         make([]wireLink, 0, len(st.Links)),
		ActiveTab:     st.ActiveTab,
		Background:    st.Background,
		UserName:      st.UserName,
		ShowCompleted: st.ShowCompleted,
		CurrentUserID: st.CurrentUserID,
	}

	for _, task := range st.Tasks {
		wt := wireTask{
			ID:         task.ID,
			Title:      task.Title,
			Completed:  task.Completed,
			ListID:     task.ListID,
			CreatedAt:  task.CreatedAt.UnixMilli(),
			Priority:   string(task.Priority),
			Notes:      task.Notes,
			AssignedTo: task.AssignedTo,
			CreatedBy:  task.CreatedBy,
		}

		if task.DueDate != nil {
			due := task.DueDate.UnixMilli()
			wt.DueDate = &due
		}

		for _, a := range task.Attachments {
			wt.Attachments = append(wt.Attachments, wireLink{ID: a.ID, Title: a.Title, URL: a.URL})
		}

		ws.Tasks = append(ws.Tasks, wt)
	}

	for _, list := range st.Lists {
		ws.Lists = append(ws.Lists, wireList{ID: list.ID, Name: list.Name, CreatedBy: list.CreatedBy})
	}

	for _, link := range st.Links {
		ws.Links = append(ws.Links, wireLink{ID: link.ID, Title: link.Title, URL: link.URL})
	}

	return ws
}

func fromWire(ws wireState) State {
	st := State{
		Tasks:         make([]model.Task, 0, len(ws.Tasks)),
		Lists:         make([]model.List, 0, len(ws.Lists)),
		Links:         make([]model.Link, 0, len(ws.Links)),
		ActiveTab:     ws.ActiveTab,
		Background:    ws.Background,
		UserName:      ws.UserName,
		ShowCompleted: ws.ShowCompleted,
		CurrentUserID: ws.CurrentUserID,
	}

	for _, wt := range ws.Tasks {
		task := model.Task{
			ID:         wt.ID,
			Title:      wt.Title,
			Completed:  wt.Completed,
			ListID:     wt.ListID,
			CreatedAt:  fromMillis(wt.CreatedAt),
			Priority:   model.ParsePriority(wt.Priority),
			Notes:      wt.Notes,
			AssignedTo: wt.AssignedTo,
			CreatedBy:  wt.CreatedBy,
		}

		if wt.DueDate != nil {
			due := fromMillis(*wt.DueDate)
			task.DueDate = &due
		}

		for _, a := range wt.Attachments {
			task.Attachments = append(task.Attachments, model.Attachment{ID: a.ID, Title: a.Title, URL: a.URL})
		}

		st.Tasks = append(st.Tasks, task)
	}

	for _, wl := range ws.Lists {
		st.Lists = append(st.Lists, model.List{ID: wl.ID, Name: wl.Name, CreatedBy: wl.CreatedBy})
	}

	for _, wl := range ws.Links {
		st.Links = append(st.Links, model.Link{ID: wl.ID, Title: wl.Title, URL: wl.URL})
	}

	return st
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

package controller

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/matt-steen/todo-board/pkg/model"
)

const day = 24 * time.Hour

var dueLayouts = []string{"2006-01-02 15:04", "2006-01-02"}

var errBadDueDate = errors.New("due date must look like 2006-01-02 or 2006-01-02 15:04")

// parseDue reads a due date typed into a form. Blank input means no due date.
func parseDue(text string, loc *time.Location) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	for _, layout := range dueLayouts {
		if due, err := time.ParseInLocation(layout, text, loc); err == nil {
			due = due.UTC()

			return &due, nil
		}
	}

	return nil, errBadDueDate
}

// formatDueInput is the inverse of parseDue, for prefilling forms.
func formatDueInput(due *time.Time, loc *time.Location) string {
	if due == nil {
		return ""
	}

	local := due.In(loc)
	if local.Hour() == 0 && local.Minute() == 0 {
		return local.Format("2006-01-02")
	}

	return local.Format("2006-01-02 15:04")
}

// describeDue renders a due date relative to now, with a tview color tag.
func describeDue(due *time.Time, now time.Time) string {
	if due == nil {
		return ""
	}

	days := int(math.Ceil(due.Sub(now).Hours() / day.Hours()))

	switch {
	case days < 0:
		n := -days

		plural := "s"
		if n == 1 {
			plural = ""
		}

		return fmt.Sprintf("[red]overdue by %d day%s", n, plural)
	case days == 0:
		return "[orange]due today"
	case days == 1:
		return "[yellow]due tomorrow"
	case days <= 7:
		return fmt.Sprintf("[green]due in %d days", days)
	default:
		return "[white]" + due.In(now.Location()).Format("Jan 2")
	}
}

func priorityColor(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "red"
	case model.PriorityLow:
		return "blue"
	default:
		return "orange"
	}
}

func priorityIndex(p model.Priority) int {
	for i, candidate := range model.Priorities() {
		if candidate == p {
			return i
		}
	}

	return 1
}

package task

import (
	"fmt"
	"strings"

	apperrors "focus_tracker/internal/errors"
)

// Task is one to-do item. Done is display-only and never logged.
type Task struct {
	Description string
	Done        bool
}

func NewTask(description string) (*Task, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return nil, apperrors.NewInvalidTaskInput("description", description, "Please enter a task.")
	}
	return &Task{Description: trimmed}, nil
}

// List is the session's to-do list.
type List struct {
	tasks []*Task
}

func NewList() *List {
	return &List{}
}

// Add appends a task. Blank input leaves the list unchanged.
func (l *List) Add(description string) (*Task, error) {
	t, err := NewTask(description)
	if err != nil {
		return nil, err
	}
	l.tasks = append(l.tasks, t)
	return t, nil
}

// Remove deletes the task at index i and returns it.
func (l *List) Remove(i int) (Task, error) {
	if err := l.check(i); err != nil {
		return Task{}, err
	}
	removed := *l.tasks[i]
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	return removed, nil
}

// Toggle flips the done mark of the task at index i.
func (l *List) Toggle(i int) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.tasks[i].Done = !l.tasks[i].Done
	return nil
}

func (l *List) Get(i int) *Task {
	if i >= 0 && i < len(l.tasks) {
		return l.tasks[i]
	}
	return nil
}

func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	for i, t := range l.tasks {
		out[i] = *t
	}
	return out
}

func (l *List) Len() int {
	return len(l.tasks)
}

func (l *List) check(i int) error {
	if i < 0 || i >= len(l.tasks) {
		return apperrors.NewInvalidTaskInput("index", i, fmt.Sprintf("No task at position %d.", i+1))
	}
	return nil
}

package model

import (
	"errors"
	"fmt"
	"math"
)

// Task is the domain model for a todo entry.
type Task struct {
	ID   uint64 `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("task not found")

// ErrIDsExhausted is returned by Add once the id counter has reached the
// largest uint64. The counter never wraps, so no further task can be added.
var ErrIDsExhausted = errors.New("task ids exhausted")

// NotFoundError reports an id that no task in the list carries.
type NotFoundError struct {
	ID uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no task found with id %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// List holds all tasks in insertion order plus the next id to hand out.
// Ids are never reused: nextID only grows.
type List struct {
	tasks  []Task
	nextID uint64
}

// New returns an empty list whose first task will get id 1.
func New() *List {
	return &List{tasks: []Task{}, nextID: 1}
}

// Restore rebuilds a list from persisted state. It refuses state where ids
// repeat or nextID does not exceed every id present.
func Restore(tasks []Task, nextID uint64) (*List, error) {
	seen := make(map[uint64]struct{}, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = struct{}{}
		if t.ID >= nextID {
			return nil, fmt.Errorf("next_id %d must be greater than task id %d", nextID, t.ID)
		}
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return &List{tasks: out, nextID: nextID}, nil
}

// Add appends a new pending task and returns a copy of it. The text is
// stored as given. Add only fails when no id below math.MaxUint64 is left,
// and then leaves the list unchanged.
func (l *List) Add(text string) (Task, error) {
	if l.nextID == math.MaxUint64 {
		return Task{}, ErrIDsExhausted
	}
	t := Task{ID: l.nextID, Text: text}
	l.nextID++
	l.tasks = append(l.tasks, t)
	return t, nil
}

// Tasks returns a copy of the tasks in insertion order.
func (l *List) Tasks() []Task {
	out := make([]Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// MarkDone flags the task with the given id as done. Marking a done task
// again is a no-op.
func (l *List) MarkDone(id uint64) error {
	i := l.index(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	l.tasks[i].Done = true
	return nil
}

// Remove deletes the task with the given id, keeping the order of the rest.
func (l *List) Remove(id uint64) error {
	i := l.index(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	return nil
}

// ClearDone drops every done task and reports how many were dropped.
func (l *List) ClearDone() int {
	kept := l.tasks[:0]
	for _, t := range l.tasks {
		if !t.Done {
			kept = append(kept, t)
		}
	}
	removed := len(l.tasks) - len(kept)
	// zero the tail so dropped tasks don't linger in the backing array
	clear(l.tasks[len(kept):])
	l.tasks = kept
	return removed
}

// Get returns the task with the given id, if any.
func (l *List) Get(id uint64) (Task, bool) {
	i := l.index(id)
	if i < 0 {
		return Task{}, false
	}
	return l.tasks[i], true
}

func (l *List) NextID() uint64 { return l.nextID }

func (l *List) Len() int { return len(l.tasks) }

// Stats counts done and pending tasks.
func (l *List) Stats() (done, pending int) {
	for _, t := range l.tasks {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

func (l *List) index(id uint64) int {
	for i := range l.tasks {
		if l.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

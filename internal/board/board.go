// Package board implements the kanban task board: ordered lists of ordered tasks.
package board

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/at-ishikawa/studyplanner/internal/study"
)

var (
	ErrTaskNotFound = errors.New("board: task not found in list")
	ErrListNotFound = errors.New("board: list not found")
)

// Task is a card of a TaskList.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Position    int        `json:"position" yaml:"position"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// TaskList is a column of the board. Positions of lists and tasks are assigned
// densely when created and are not renumbered after deletions.
type TaskList struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Position  int       `json:"position" yaml:"position"`
	Tasks     []Task    `json:"tasks" yaml:"tasks"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// TaskInput holds the user-editable fields of a Task.
type TaskInput struct {
	Title       string `validate:"required" label:"título"`
	Description string `label:"descrição"`
}

// ListInput holds the user-editable fields of a TaskList.
type ListInput struct {
	Title string `validate:"required" label:"título"`
}

// ValidateTask trims and validates a task.
func ValidateTask(v *study.Validator, in TaskInput) (TaskInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return in, v.Struct(in)
}

// ValidateList trims and validates a list.
func ValidateList(v *study.Validator, in ListInput) (ListInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	return in, v.Struct(in)
}

// NextListPosition returns the position of a list appended to the board.
func NextListPosition(lists []TaskList) int {
	return len(lists)
}

// NextTaskPosition returns the position of a task appended to the list.
func NextTaskPosition(list TaskList) int {
	return len(list.Tasks)
}

// Sort orders lists and their tasks by position in place.
func Sort(lists []TaskList) {
	sort.SliceStable(lists, func(i, j int) bool {
		return lists[i].Position < lists[j].Position
	})
	for _, l := range lists {
		sort.SliceStable(l.Tasks, func(i, j int) bool {
			return l.Tasks[i].Position < l.Tasks[j].Position
		})
	}
}

// FindList returns the list with the id.
func FindList(lists []TaskList, id string) (TaskList, error) {
	i := indexOfList(lists, id)
	if i < 0 {
		return TaskList{}, fmt.Errorf("%w: %s", ErrListNotFound, id)
	}
	return lists[i], nil
}

// AppendTask returns a copy of lists with task added at the end of the list.
func AppendTask(lists []TaskList, listID string, task Task) ([]TaskList, error) {
	i := indexOfList(lists, listID)
	if i < 0 {
		return lists, fmt.Errorf("%w: %s", ErrListNotFound, listID)
	}

	out := cloneLists(lists)
	task.Position = NextTaskPosition(out[i])
	out[i].Tasks = append(out[i].Tasks, task)
	return out, nil
}

// RemoveTask returns a copy of lists without the task. Remaining positions are kept.
func RemoveTask(lists []TaskList, listID, taskID string) ([]TaskList, error) {
	i := indexOfList(lists, listID)
	if i < 0 {
		return lists, fmt.Errorf("%w: %s", ErrListNotFound, listID)
	}
	j := indexOfTask(lists[i], taskID)
	if j < 0 {
		return lists, fmt.Errorf("%w: task %s in list %s", ErrTaskNotFound, taskID, listID)
	}

	out := cloneLists(lists)
	out[i].Tasks = append(out[i].Tasks[:j], out[i].Tasks[j+1:]...)
	return out, nil
}

// MoveTask returns a copy of lists where the task left the source list and was appended
// to the target list with position equal to the target's length before the move.
// The task keeps its id and creation time. Moving within one list changes nothing.
func MoveTask(lists []TaskList, taskID, sourceListID, targetListID string) ([]TaskList, error) {
	src := indexOfList(lists, sourceListID)
	if src < 0 {
		return lists, fmt.Errorf("%w: %s", ErrListNotFound, sourceListID)
	}
	dst := indexOfList(lists, targetListID)
	if dst < 0 {
		return lists, fmt.Errorf("%w: %s", ErrListNotFound, targetListID)
	}
	if src == dst {
		return lists, nil
	}
	j := indexOfTask(lists[src], taskID)
	if j < 0 {
		return lists, fmt.Errorf("%w: task %s in list %s", ErrTaskNotFound, taskID, sourceListID)
	}

	out := cloneLists(lists)
	task := out[src].Tasks[j]
	out[src].Tasks = append(out[src].Tasks[:j], out[src].Tasks[j+1:]...)
	task.Position = NextTaskPosition(out[dst])
	out[dst].Tasks = append(out[dst].Tasks, task)
	return out, nil
}

func indexOfList(lists []TaskList, id string) int {
	for i, l := range lists {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func indexOfTask(list TaskList, id string) int {
	for i, t := range list.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneLists(lists []TaskList) []TaskList {
	out := make([]TaskList, len(lists))
	for i, l := range lists {
		tasks := make([]Task, len(l.Tasks))
		copy(tasks, l.Tasks)
		l.Tasks = tasks
		out[i] = l
	}
	return out
}

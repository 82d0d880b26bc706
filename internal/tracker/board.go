package tracker

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/studyplanner/internal/board"
)

// Board returns the lists of the user with their tasks, ordered by position.
func (s *Service) Board(ctx context.Context, userID string) ([]board.TaskList, error) {
	lists, err := s.board.FindAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("board.FindAll() > %w", err)
	}
	board.Sort(lists)
	return lists, nil
}

// CreateList appends an empty list to the board.
func (s *Service) CreateList(ctx context.Context, userID string, in board.ListInput) (board.TaskList, error) {
	in, err := board.ValidateList(s.validator, in)
	if err != nil {
		return board.TaskList{}, err
	}
	lists, err := s.Board(ctx, userID)
	if err != nil {
		return board.TaskList{}, err
	}

	list := board.TaskList{
		Title:     in.Title,
		Position:  board.NextListPosition(lists),
		Tasks:     []board.Task{},
		CreatedAt: s.now(),
	}
	if err := s.board.CreateList(ctx, userID, &list); err != nil {
		return board.TaskList{}, fmt.Errorf("board.CreateList() > %w", err)
	}
	return list, nil
}

// DeleteList removes a list together with its tasks.
func (s *Service) DeleteList(ctx context.Context, userID, listID string) error {
	if err := s.board.DeleteList(ctx, userID, listID); err != nil {
		return fmt.Errorf("board.DeleteList() > %w", err)
	}
	return nil
}

// AddTask appends a task to a list.
func (s *Service) AddTask(ctx context.Context, userID, listID string, in board.TaskInput) (board.Task, error) {
	in, err := board.ValidateTask(s.validator, in)
	if err != nil {
		return board.Task{}, err
	}
	lists, err := s.Board(ctx, userID)
	if err != nil {
		return board.Task{}, err
	}
	list, err := board.FindList(lists, listID)
	if err != nil {
		return board.Task{}, err
	}

	task := board.Task{
		Title:       in.Title,
		Description: in.Description,
		Position:    board.NextTaskPosition(list),
		CreatedAt:   s.now(),
	}
	if err := s.board.CreateTask(ctx, userID, listID, &task); err != nil {
		return board.Task{}, fmt.Errorf("board.CreateTask() > %w", err)
	}
	return task, nil
}

// UpdateTask changes the title and description of a task.
func (s *Service) UpdateTask(ctx context.Context, userID, listID, taskID string, in board.TaskInput) (board.Task, error) {
	in, err := board.ValidateTask(s.validator, in)
	if err != nil {
		return board.Task{}, err
	}
	lists, err := s.Board(ctx, userID)
	if err != nil {
		return board.Task{}, err
	}
	list, err := board.FindList(lists, listID)
	if err != nil {
		return board.Task{}, err
	}

	for _, task := range list.Tasks {
		if task.ID != taskID {
			continue
		}
		task.Title = in.Title
		task.Description = in.Description
		now := s.now()
		task.UpdatedAt = &now
		if err := s.board.UpdateTask(ctx, userID, listID, &task); err != nil {
			return board.Task{}, fmt.Errorf("board.UpdateTask() > %w", err)
		}
		return task, nil
	}
	return board.Task{}, fmt.Errorf("%w: task %s in list %s", board.ErrTaskNotFound, taskID, listID)
}

func (s *Service) DeleteTask(ctx context.Context, userID, listID, taskID string) error {
	if err := s.board.DeleteTask(ctx, userID, listID, taskID); err != nil {
		return fmt.Errorf("board.DeleteTask() > %w", err)
	}
	return nil
}

// MoveTask moves a task to the end of another list and returns the resulting board.
// Moving a task within its own list changes nothing.
func (s *Service) MoveTask(ctx context.Context, userID, taskID, sourceListID, targetListID string) ([]board.TaskList, error) {
	lists, err := s.Board(ctx, userID)
	if err != nil {
		return nil, err
	}
	moved, err := board.MoveTask(lists, taskID, sourceListID, targetListID)
	if err != nil {
		return nil, err
	}
	if sourceListID == targetListID {
		return moved, nil
	}

	target, err := board.FindList(moved, targetListID)
	if err != nil {
		return nil, err
	}
	position := target.Tasks[len(target.Tasks)-1].Position
	if err := s.board.MoveTask(ctx, userID, taskID, sourceListID, targetListID, position); err != nil {
		return nil, fmt.Errorf("board.MoveTask() > %w", err)
	}
	return moved, nil
}

package board

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/studyplanner/internal/database"
)

//go:generate mockgen -source=repository.go -destination=../mocks/board/mock_repository.go -package=mock_board

// Repository stores the board of a user.
type Repository interface {
	FindAll(ctx context.Context, userID string) ([]TaskList, error)
	CreateList(ctx context.Context, userID string, list *TaskList) error
	DeleteList(ctx context.Context, userID, listID string) error
	CreateTask(ctx context.Context, userID, listID string, task *Task) error
	UpdateTask(ctx context.Context, userID, listID string, task *Task) error
	DeleteTask(ctx context.Context, userID, listID, taskID string) error
	MoveTask(ctx context.Context, userID, taskID, sourceListID, targetListID string, position int) error
}

// DBRepository implements Repository using sqlx.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

type listRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
}

type taskRow struct {
	ID          string       `db:"id"`
	ListID      string       `db:"list_id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	Position    int          `db:"position"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   sql.NullTime `db:"updated_at"`
}

// FindAll returns the lists of the user with their tasks, both ordered by position.
func (r *DBRepository) FindAll(ctx context.Context, userID string) ([]TaskList, error) {
	var rows []listRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT id, title, position, created_at FROM task_lists WHERE user_id = ? ORDER BY position, created_at, id",
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(task_lists) > %w", err)
	}
	if len(rows) == 0 {
		return []TaskList{}, nil
	}

	lists := make([]TaskList, len(rows))
	listIDs := make([]string, len(rows))
	listMap := make(map[string]*TaskList, len(rows))
	for i, row := range rows {
		lists[i] = TaskList{ID: row.ID, Title: row.Title, Position: row.Position, Tasks: []Task{}, CreatedAt: row.CreatedAt}
		listIDs[i] = row.ID
		listMap[row.ID] = &lists[i]
	}

	query, args, err := sqlx.In(
		"SELECT id, list_id, title, description, position, created_at, updated_at FROM tasks WHERE list_id IN (?) ORDER BY list_id, position, created_at, id",
		listIDs)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(tasks) > %w", err)
	}
	var tasks []taskRow
	if err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(tasks) > %w", err)
	}
	for _, row := range tasks {
		list, ok := listMap[row.ListID]
		if !ok {
			continue
		}
		task := Task{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Position:    row.Position,
			CreatedAt:   row.CreatedAt,
		}
		if row.UpdatedAt.Valid {
			updatedAt := row.UpdatedAt.Time
			task.UpdatedAt = &updatedAt
		}
		list.Tasks = append(list.Tasks, task)
	}
	return lists, nil
}

// CreateList inserts a list, assigning an id when it has none.
func (r *DBRepository) CreateList(ctx context.Context, userID string, list *TaskList) error {
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO task_lists (id, user_id, title, position, created_at) VALUES (?, ?, ?, ?, ?)",
		list.ID, userID, list.Title, list.Position, list.CreatedAt); err != nil {
		return fmt.Errorf("db.ExecContext(insert task_list) > %w", err)
	}
	return nil
}

// DeleteList removes a list and all of its tasks in one transaction.
func (r *DBRepository) DeleteList(ctx context.Context, userID, listID string) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := ensureList(ctx, tx, userID, listID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE list_id = ?", listID); err != nil {
			return fmt.Errorf("tx.ExecContext(delete tasks) > %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM task_lists WHERE id = ? AND user_id = ?", listID, userID); err != nil {
			return fmt.Errorf("tx.ExecContext(delete task_list) > %w", err)
		}
		return nil
	})
}

// CreateTask inserts a task into a list of the user, assigning an id when it has none.
func (r *DBRepository) CreateTask(ctx context.Context, userID, listID string, task *Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := ensureList(ctx, tx, userID, listID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO tasks (id, list_id, title, description, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			task.ID, listID, task.Title, task.Description, task.Position, task.CreatedAt, task.UpdatedAt); err != nil {
			return fmt.Errorf("tx.ExecContext(insert task) > %w", err)
		}
		return nil
	})
}

// UpdateTask changes the title and description of a task.
func (r *DBRepository) UpdateTask(ctx context.Context, userID, listID string, task *Task) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, updated_at = ?
		WHERE id = ? AND list_id = ? AND list_id IN (SELECT id FROM task_lists WHERE user_id = ?)`,
		task.Title, task.Description, task.UpdatedAt, task.ID, listID, userID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update task) > %w", err)
	}
	return requireTask(result, task.ID, listID)
}

// DeleteTask removes a task from a list.
func (r *DBRepository) DeleteTask(ctx context.Context, userID, listID, taskID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND list_id = ? AND list_id IN (SELECT id FROM task_lists WHERE user_id = ?)",
		taskID, listID, userID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(delete task) > %w", err)
	}
	return requireTask(result, taskID, listID)
}

// MoveTask reassigns a task to another list at position, keeping its identity.
func (r *DBRepository) MoveTask(ctx context.Context, userID, taskID, sourceListID, targetListID string, position int) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := ensureList(ctx, tx, userID, targetListID); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			`UPDATE tasks SET list_id = ?, position = ?
			WHERE id = ? AND list_id = ? AND list_id IN (SELECT id FROM task_lists WHERE user_id = ?)`,
			targetListID, position, taskID, sourceListID, userID)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(move task) > %w", err)
		}
		return requireTask(result, taskID, sourceListID)
	})
}

func ensureList(ctx context.Context, tx *sqlx.Tx, userID, listID string) error {
	var count int
	if err := tx.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM task_lists WHERE id = ? AND user_id = ?", listID, userID); err != nil {
		return fmt.Errorf("tx.GetContext(task_list exists) > %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", ErrListNotFound, listID)
	}
	return nil
}

func requireTask(result sql.Result, taskID, listID string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: task %s in list %s", ErrTaskNotFound, taskID, listID)
	}
	return nil
}

package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/studyplanner/internal/database"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

//go:generate mockgen -source=repository.go -destination=../mocks/calendar/mock_repository.go -package=mock_calendar

// EventRepository stores the custom events of a user.
type EventRepository interface {
	FindAll(ctx context.Context, userID string) ([]CustomEvent, error)
	Create(ctx context.Context, userID string, event *CustomEvent) error
	Delete(ctx context.Context, userID, id string) error
}

// DBEventRepository implements EventRepository using sqlx.
type DBEventRepository struct {
	db *sqlx.DB
}

// NewDBEventRepository creates a new DBEventRepository.
func NewDBEventRepository(db *sqlx.DB) *DBEventRepository {
	return &DBEventRepository{db: db}
}

type eventRow struct {
	ID          string        `db:"id"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	EventDate   database.Date `db:"event_date"`
	CreatedAt   time.Time     `db:"created_at"`
}

// FindAll returns the custom events of the user ordered by date.
func (r *DBEventRepository) FindAll(ctx context.Context, userID string) ([]CustomEvent, error) {
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT id, title, description, event_date, created_at FROM custom_events WHERE user_id = ? ORDER BY event_date, created_at, id",
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(custom_events) > %w", err)
	}

	events := make([]CustomEvent, len(rows))
	for i, row := range rows {
		events[i] = CustomEvent{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Date:        row.EventDate.Date,
			CreatedAt:   row.CreatedAt,
		}
	}
	return events, nil
}

// Create inserts a custom event, assigning an id when it has none.
func (r *DBEventRepository) Create(ctx context.Context, userID string, event *CustomEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO custom_events (id, user_id, title, description, event_date, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, userID, event.Title, event.Description, database.NewDate(event.Date), event.CreatedAt); err != nil {
		return fmt.Errorf("db.ExecContext(insert custom_event) > %w", err)
	}
	return nil
}

// Delete removes a custom event.
func (r *DBEventRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM custom_events WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(delete custom_event) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: custom event %s", study.ErrNotFound, id)
	}
	return nil
}

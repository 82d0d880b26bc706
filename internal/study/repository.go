package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/studyplanner/internal/database"
)

// ErrNotFound is returned when a record does not exist for the user.
var ErrNotFound = errors.New("study: record not found")

//go:generate mockgen -source=repository.go -destination=../mocks/study/mock_repository.go -package=mock_study

// DisciplineRepository stores the disciplines of a user.
type DisciplineRepository interface {
	FindAll(ctx context.Context, userID string) ([]Discipline, error)
	Create(ctx context.Context, userID string, discipline *Discipline) error
	Delete(ctx context.Context, userID, id string) error
}

// StudyRepository stores study records together with their reviews.
type StudyRepository interface {
	FindAll(ctx context.Context, userID string) ([]StudyRecord, error)
	FindByID(ctx context.Context, userID, id string) (*StudyRecord, error)
	Create(ctx context.Context, userID string, record *StudyRecord) error
	Update(ctx context.Context, userID string, record *StudyRecord) error
	UpdateReviews(ctx context.Context, userID, id string, reviews []Review) error
	Delete(ctx context.Context, userID, id string) error
}

// DBDisciplineRepository implements DisciplineRepository using sqlx.
type DBDisciplineRepository struct {
	db *sqlx.DB
}

// NewDBDisciplineRepository creates a new DBDisciplineRepository.
func NewDBDisciplineRepository(db *sqlx.DB) *DBDisciplineRepository {
	return &DBDisciplineRepository{db: db}
}

// FindAll returns the disciplines of the user ordered by name.
func (r *DBDisciplineRepository) FindAll(ctx context.Context, userID string) ([]Discipline, error) {
	var disciplines []Discipline
	if err := r.db.SelectContext(ctx, &disciplines,
		"SELECT id, name, created_at FROM disciplines WHERE user_id = ? ORDER BY name, id",
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(disciplines) > %w", err)
	}
	return disciplines, nil
}

// Create inserts a discipline, assigning an id when it has none.
func (r *DBDisciplineRepository) Create(ctx context.Context, userID string, discipline *Discipline) error {
	if discipline.ID == "" {
		discipline.ID = uuid.NewString()
	}
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO disciplines (id, user_id, name, created_at) VALUES (?, ?, ?, ?)",
		discipline.ID, userID, discipline.Name, discipline.CreatedAt); err != nil {
		return fmt.Errorf("db.ExecContext(insert discipline) > %w", err)
	}
	return nil
}

// Delete removes a discipline. Studies referring to it are kept.
func (r *DBDisciplineRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM disciplines WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(delete discipline) > %w", err)
	}
	return requireAffected(result, id)
}

type studyRow struct {
	ID           string        `db:"id"`
	DisciplineID string        `db:"discipline_id"`
	Subject      string        `db:"subject"`
	StudyDate    database.Date `db:"study_date"`
	Link         string        `db:"link"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    sql.NullTime  `db:"updated_at"`
}

func (row studyRow) toRecord() StudyRecord {
	record := StudyRecord{
		ID:           row.ID,
		DisciplineID: row.DisciplineID,
		Subject:      row.Subject,
		StudyDate:    row.StudyDate.Date,
		Link:         row.Link,
		Reviews:      []Review{},
		CreatedAt:    row.CreatedAt,
	}
	if row.UpdatedAt.Valid {
		updatedAt := row.UpdatedAt.Time
		record.UpdatedAt = &updatedAt
	}
	return record
}

type reviewRow struct {
	StudyID    string        `db:"study_id"`
	Position   int           `db:"position"`
	ReviewDate database.Date `db:"review_date"`
	Days       int           `db:"days"`
	Completed  bool          `db:"completed"`
}

const selectStudies = "SELECT id, discipline_id, subject, study_date, link, created_at, updated_at FROM studies"

var reviewColumns = []string{"study_id", "position", "review_date", "days", "completed"}

// DBStudyRepository implements StudyRepository using sqlx.
type DBStudyRepository struct {
	db *sqlx.DB
}

// NewDBStudyRepository creates a new DBStudyRepository.
func NewDBStudyRepository(db *sqlx.DB) *DBStudyRepository {
	return &DBStudyRepository{db: db}
}

// FindAll returns the studies of the user in creation order with their reviews.
func (r *DBStudyRepository) FindAll(ctx context.Context, userID string) ([]StudyRecord, error) {
	var rows []studyRow
	if err := r.db.SelectContext(ctx, &rows,
		selectStudies+" WHERE user_id = ? ORDER BY created_at, id", userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(studies) > %w", err)
	}

	records := make([]StudyRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toRecord()
	}
	if err := r.loadReviews(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// FindByID returns one study, or ErrNotFound.
func (r *DBStudyRepository) FindByID(ctx context.Context, userID, id string) (*StudyRecord, error) {
	var row studyRow
	err := r.db.GetContext(ctx, &row, selectStudies+" WHERE id = ? AND user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: study %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(study) > %w", err)
	}

	records := []StudyRecord{row.toRecord()}
	if err := r.loadReviews(ctx, records); err != nil {
		return nil, err
	}
	return &records[0], nil
}

// Create inserts a study and its reviews in one transaction, assigning an id when it has none.
func (r *DBStudyRepository) Create(ctx context.Context, userID string, record *StudyRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO studies (id, user_id, discipline_id, subject, study_date, link, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			record.ID, userID, record.DisciplineID, record.Subject, database.NewDate(record.StudyDate),
			record.Link, record.CreatedAt, record.UpdatedAt); err != nil {
			return fmt.Errorf("tx.ExecContext(insert study) > %w", err)
		}
		return insertReviews(ctx, tx, record.ID, record.Reviews)
	})
}

// Update replaces the fields and the reviews of a study.
func (r *DBStudyRepository) Update(ctx context.Context, userID string, record *StudyRecord) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE studies SET discipline_id = ?, subject = ?, study_date = ?, link = ?, updated_at = ?
			WHERE id = ? AND user_id = ?`,
			record.DisciplineID, record.Subject, database.NewDate(record.StudyDate), record.Link, record.UpdatedAt,
			record.ID, userID)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(update study) > %w", err)
		}
		if err := requireAffected(result, record.ID); err != nil {
			return err
		}
		return replaceReviews(ctx, tx, record.ID, record.Reviews)
	})
}

// UpdateReviews replaces the reviews of a study without touching its other fields.
func (r *DBStudyRepository) UpdateReviews(ctx context.Context, userID, id string, reviews []Review) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var count int
		if err := tx.GetContext(ctx, &count,
			"SELECT COUNT(*) FROM studies WHERE id = ? AND user_id = ?", id, userID); err != nil {
			return fmt.Errorf("tx.GetContext(study exists) > %w", err)
		}
		if count == 0 {
			return fmt.Errorf("%w: study %s", ErrNotFound, id)
		}
		return replaceReviews(ctx, tx, id, reviews)
	})
}

// Delete removes a study and its reviews.
func (r *DBStudyRepository) Delete(ctx context.Context, userID, id string) error {
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM studies WHERE id = ? AND user_id = ?", id, userID)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(delete study) > %w", err)
		}
		if err := requireAffected(result, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM study_reviews WHERE study_id = ?", id); err != nil {
			return fmt.Errorf("tx.ExecContext(delete study_reviews) > %w", err)
		}
		return nil
	})
}

func (r *DBStudyRepository) loadReviews(ctx context.Context, records []StudyRecord) error {
	if len(records) == 0 {
		return nil
	}

	studyIDs := make([]string, len(records))
	recordMap := make(map[string]*StudyRecord, len(records))
	for i := range records {
		studyIDs[i] = records[i].ID
		recordMap[records[i].ID] = &records[i]
	}

	query, args, err := sqlx.In(
		"SELECT study_id, position, review_date, days, completed FROM study_reviews WHERE study_id IN (?) ORDER BY study_id, position",
		studyIDs)
	if err != nil {
		return fmt.Errorf("sqlx.In(study_reviews) > %w", err)
	}
	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("db.SelectContext(study_reviews) > %w", err)
	}
	for _, row := range rows {
		record, ok := recordMap[row.StudyID]
		if !ok {
			continue
		}
		record.Reviews = append(record.Reviews, Review{
			Date:      row.ReviewDate.Date,
			Days:      ReviewOffset(row.Days),
			Completed: row.Completed,
		})
	}
	return nil
}

func replaceReviews(ctx context.Context, tx *sqlx.Tx, studyID string, reviews []Review) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM study_reviews WHERE study_id = ?", studyID); err != nil {
		return fmt.Errorf("tx.ExecContext(delete study_reviews) > %w", err)
	}
	return insertReviews(ctx, tx, studyID, reviews)
}

func insertReviews(ctx context.Context, tx *sqlx.Tx, studyID string, reviews []Review) error {
	if len(reviews) == 0 {
		return nil
	}

	query := database.BuildMultiRowInsert("study_reviews", reviewColumns, len(reviews))
	args := make([]interface{}, 0, len(reviews)*len(reviewColumns))
	for i, review := range reviews {
		args = append(args, studyID, i, database.NewDate(review.Date), review.Days.Days(), review.Completed)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("tx.ExecContext(insert study_reviews) > %w", err)
	}
	return nil
}

func requireAffected(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

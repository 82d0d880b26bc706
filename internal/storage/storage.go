// Package storage opens the repositories of the configured backend.
package storage

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/at-ishikawa/studyplanner/internal/board"
	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/config"
	"github.com/at-ishikawa/studyplanner/internal/database"
	"github.com/at-ishikawa/studyplanner/internal/firestore"
	"github.com/at-ishikawa/studyplanner/internal/study"
	"github.com/at-ishikawa/studyplanner/internal/tracker"
)

// Open returns the repositories of cfg.Storage.Backend. SQL databases are migrated
// before use. The returned closer releases the connection.
func Open(cfg *config.Config) (tracker.Repositories, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQL:
		db, err := database.Open(cfg.Database)
		if err != nil {
			return tracker.Repositories{}, nil, fmt.Errorf("database.Open() > %w", err)
		}
		if err := database.Migrate(db, cfg.Database.Driver); err != nil {
			_ = db.Close()
			return tracker.Repositories{}, nil, fmt.Errorf("database.Migrate() > %w", err)
		}
		slog.Debug("opened database", "driver", cfg.Database.Driver)
		return tracker.Repositories{
			Disciplines: study.NewDBDisciplineRepository(db),
			Studies:     study.NewDBStudyRepository(db),
			Events:      calendar.NewDBEventRepository(db),
			Board:       board.NewDBRepository(db),
		}, db, nil
	case config.BackendFirestore:
		client := firestore.NewClient(cfg.Firestore)
		slog.Debug("using firestore", "project_id", cfg.Firestore.ProjectID, "database", cfg.Firestore.Database)
		return tracker.Repositories{
			Disciplines: firestore.NewDisciplineRepository(client),
			Studies:     firestore.NewStudyRepository(client),
			Events:      firestore.NewEventRepository(client),
			Board:       firestore.NewBoardRepository(client),
		}, client, nil
	}
	return tracker.Repositories{}, nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
}

// Location returns the time zone "today" is computed in.
func Location(cfg *config.Config) (*time.Location, error) {
	if cfg.Reminder.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(cfg.Reminder.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation(%s) > %w", cfg.Reminder.Timezone, err)
	}
	return loc, nil
}

// NewService wires a tracker.Service over repos in the configured time zone.
func NewService(cfg *config.Config, repos tracker.Repositories) (*tracker.Service, error) {
	validator, err := study.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("study.NewValidator() > %w", err)
	}
	loc, err := Location(cfg)
	if err != nil {
		return nil, err
	}
	return tracker.NewService(repos, validator, tracker.WithLocation(loc)), nil
}

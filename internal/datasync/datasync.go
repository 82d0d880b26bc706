// Package datasync provides backup export and import between YAML files and storage.
package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/studyplanner/internal/board"
	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/study"
	"github.com/at-ishikawa/studyplanner/internal/tracker"
)

// BackupVersion is written to every backup file.
const BackupVersion = 1

// ErrUnsupportedVersion is returned when reading a backup written by a newer format.
var ErrUnsupportedVersion = errors.New("datasync: unsupported backup version")

// Backup is the YAML document holding one user's state.
type Backup struct {
	Version       int       `yaml:"version"`
	UserID        string    `yaml:"user_id"`
	ExportedAt    time.Time `yaml:"exported_at"`
	tracker.State `yaml:",inline"`
}

// WriteYAML encodes the backup with two-space indentation.
func WriteYAML(w io.Writer, backup Backup) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("encoder.Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoder.Close() > %w", err)
	}
	return nil
}

// ReadYAML decodes a backup and rejects unknown versions.
func ReadYAML(r io.Reader) (Backup, error) {
	var backup Backup
	if err := yaml.NewDecoder(r).Decode(&backup); err != nil {
		return Backup{}, fmt.Errorf("decoder.Decode() > %w", err)
	}
	if backup.Version > BackupVersion {
		return Backup{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, backup.Version)
	}
	return backup, nil
}

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	DisciplinesNew     int
	DisciplinesSkipped int
	StudiesNew         int
	StudiesSkipped     int
	StudiesUpdated     int
	EventsNew          int
	EventsSkipped      int
	ListsNew           int
	ListsSkipped       int
	TasksNew           int
	TasksSkipped       int
	TasksUpdated       int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Importer writes a backup into storage, matching records by id.
type Importer struct {
	repos  tracker.Repositories
	writer io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(repos tracker.Repositories, writer io.Writer) *Importer {
	return &Importer{
		repos:  repos,
		writer: writer,
	}
}

// Import creates missing records. Existing studies and tasks are overwritten only with
// UpdateExisting; disciplines, custom events and lists are never overwritten.
func (imp *Importer) Import(ctx context.Context, userID string, state tracker.State, opts ImportOptions) (*ImportResult, error) {
	var result ImportResult

	if err := imp.importDisciplines(ctx, userID, state.Disciplines, opts, &result); err != nil {
		return nil, fmt.Errorf("importDisciplines() > %w", err)
	}
	if err := imp.importStudies(ctx, userID, state.Studies, opts, &result); err != nil {
		return nil, fmt.Errorf("importStudies() > %w", err)
	}
	if err := imp.importEvents(ctx, userID, state.CustomEvents, opts, &result); err != nil {
		return nil, fmt.Errorf("importEvents() > %w", err)
	}
	if err := imp.importBoard(ctx, userID, state.Lists, opts, &result); err != nil {
		return nil, fmt.Errorf("importBoard() > %w", err)
	}
	return &result, nil
}

func (imp *Importer) importDisciplines(ctx context.Context, userID string, disciplines study.Disciplines, opts ImportOptions, result *ImportResult) error {
	existing, err := imp.repos.Disciplines.FindAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("Disciplines.FindAll() > %w", err)
	}
	ids := make(map[string]bool, len(existing))
	for _, d := range existing {
		ids[d.ID] = true
	}

	for _, d := range disciplines {
		if ids[d.ID] {
			fmt.Fprintf(imp.writer, "  [SKIP]  discipline %q (%s)\n", d.Name, d.ID)
			result.DisciplinesSkipped++
			continue
		}
		if !opts.DryRun {
			if err := imp.repos.Disciplines.Create(ctx, userID, &d); err != nil {
				return fmt.Errorf("Disciplines.Create(%s) > %w", d.ID, err)
			}
		}
		fmt.Fprintf(imp.writer, "  [NEW]  discipline %q (%s)\n", d.Name, d.ID)
		result.DisciplinesNew++
	}
	return nil
}

func (imp *Importer) importStudies(ctx context.Context, userID string, studies []study.StudyRecord, opts ImportOptions, result *ImportResult) error {
	existing, err := imp.repos.Studies.FindAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("Studies.FindAll() > %w", err)
	}
	ids := make(map[string]bool, len(existing))
	for _, s := range existing {
		ids[s.ID] = true
	}

	for _, s := range studies {
		if ids[s.ID] {
			if !opts.UpdateExisting {
				fmt.Fprintf(imp.writer, "  [SKIP]  study %q (%s)\n", s.Subject, s.ID)
				result.StudiesSkipped++
				continue
			}
			if !opts.DryRun {
				if err := imp.repos.Studies.Update(ctx, userID, &s); err != nil {
					return fmt.Errorf("Studies.Update(%s) > %w", s.ID, err)
				}
			}
			fmt.Fprintf(imp.writer, "  [UPDATE]  study %q (%s)\n", s.Subject, s.ID)
			result.StudiesUpdated++
			continue
		}

		if !opts.DryRun {
			if err := imp.repos.Studies.Create(ctx, userID, &s); err != nil {
				return fmt.Errorf("Studies.Create(%s) > %w", s.ID, err)
			}
		}
		fmt.Fprintf(imp.writer, "  [NEW]  study %q (%s)\n", s.Subject, s.ID)
		result.StudiesNew++
	}
	return nil
}

func (imp *Importer) importEvents(ctx context.Context, userID string, events []calendar.CustomEvent, opts ImportOptions, result *ImportResult) error {
	existing, err := imp.repos.Events.FindAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("Events.FindAll() > %w", err)
	}
	ids := make(map[string]bool, len(existing))
	for _, e := range existing {
		ids[e.ID] = true
	}

	for _, e := range events {
		if ids[e.ID] {
			fmt.Fprintf(imp.writer, "  [SKIP]  event %q (%s)\n", e.Title, e.ID)
			result.EventsSkipped++
			continue
		}
		if !opts.DryRun {
			if err := imp.repos.Events.Create(ctx, userID, &e); err != nil {
				return fmt.Errorf("Events.Create(%s) > %w", e.ID, err)
			}
		}
		fmt.Fprintf(imp.writer, "  [NEW]  event %q (%s)\n", e.Title, e.ID)
		result.EventsNew++
	}
	return nil
}

func (imp *Importer) importBoard(ctx context.Context, userID string, lists []board.TaskList, opts ImportOptions, result *ImportResult) error {
	existing, err := imp.repos.Board.FindAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("Board.FindAll() > %w", err)
	}
	existingTasks := make(map[string]map[string]bool, len(existing))
	for _, l := range existing {
		tasks := make(map[string]bool, len(l.Tasks))
		for _, t := range l.Tasks {
			tasks[t.ID] = true
		}
		existingTasks[l.ID] = tasks
	}

	for _, l := range lists {
		tasks, found := existingTasks[l.ID]
		if found {
			fmt.Fprintf(imp.writer, "  [SKIP]  list %q (%s)\n", l.Title, l.ID)
			result.ListsSkipped++
		} else {
			list := l
			list.Tasks = nil
			if !opts.DryRun {
				if err := imp.repos.Board.CreateList(ctx, userID, &list); err != nil {
					return fmt.Errorf("Board.CreateList(%s) > %w", l.ID, err)
				}
			}
			fmt.Fprintf(imp.writer, "  [NEW]  list %q (%s)\n", l.Title, l.ID)
			result.ListsNew++
		}

		for _, t := range l.Tasks {
			if err := imp.importTask(ctx, userID, l.ID, t, tasks[t.ID], opts, result); err != nil {
				return fmt.Errorf("importTask() > %w", err)
			}
		}
	}
	return nil
}

func (imp *Importer) importTask(ctx context.Context, userID, listID string, task board.Task, exists bool, opts ImportOptions, result *ImportResult) error {
	if exists {
		if !opts.UpdateExisting {
			fmt.Fprintf(imp.writer, "    [SKIP]  task %q (%s)\n", task.Title, task.ID)
			result.TasksSkipped++
			return nil
		}
		if !opts.DryRun {
			if err := imp.repos.Board.UpdateTask(ctx, userID, listID, &task); err != nil {
				return fmt.Errorf("Board.UpdateTask(%s) > %w", task.ID, err)
			}
		}
		fmt.Fprintf(imp.writer, "    [UPDATE]  task %q (%s)\n", task.Title, task.ID)
		result.TasksUpdated++
		return nil
	}

	if !opts.DryRun {
		if err := imp.repos.Board.CreateTask(ctx, userID, listID, &task); err != nil {
			return fmt.Errorf("Board.CreateTask(%s) > %w", task.ID, err)
		}
	}
	fmt.Fprintf(imp.writer, "    [NEW]  task %q (%s)\n", task.Title, task.ID)
	result.TasksNew++
	return nil
}

// Exporter reads storage and returns a backup of one user.
type Exporter struct {
	repos tracker.Repositories
	now   func() time.Time
}

// NewExporter creates a new Exporter.
func NewExporter(repos tracker.Repositories) *Exporter {
	return &Exporter{
		repos: repos,
		now:   time.Now,
	}
}

// Export reads every collection of the user.
func (e *Exporter) Export(ctx context.Context, userID string) (*Backup, error) {
	disciplines, err := e.repos.Disciplines.FindAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Disciplines.FindAll() > %w", err)
	}

	studies, err := e.repos.Studies.FindAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Studies.FindAll() > %w", err)
	}

	events, err := e.repos.Events.FindAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Events.FindAll() > %w", err)
	}

	lists, err := e.repos.Board.FindAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Board.FindAll() > %w", err)
	}
	board.Sort(lists)

	return &Backup{
		Version:    BackupVersion,
		UserID:     userID,
		ExportedAt: e.now().UTC(),
		State: tracker.State{
			Disciplines:  disciplines,
			Studies:      studies,
			CustomEvents: events,
			Lists:        lists,
		},
	}, nil
}

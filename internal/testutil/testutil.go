// Package testutil provides shared test helpers for creating config files and backup fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studyplanner/internal/board"
	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/datasync"
	"github.com/at-ishikawa/studyplanner/internal/study"
	"github.com/at-ishikawa/studyplanner/internal/tracker"
)

// UserID is the user configured by SetupTestConfig.
const UserID = "test-user"

// SetupTestConfig creates a config file backed by a SQLite database under tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"data", "reports"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`storage:
  backend: sql
database:
  driver: sqlite
  path: %s
user:
  id: %s
reminder:
  time: "08:00"
  timezone: UTC
reports:
  output_directory: %s
`,
		filepath.Join(tmpDir, "data", "studyplanner.db"),
		UserID,
		filepath.Join(tmpDir, "reports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithWebhook creates a config file that also posts reminders to webhookURL.
func SetupTestConfigWithWebhook(t *testing.T, tmpDir, webhookURL string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = []byte(strings.Replace(string(content), "  timezone: UTC\n", "  timezone: UTC\n  webhook_url: "+webhookURL+"\n", 1))
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// StateOption configures optional fields when creating a state fixture.
type StateOption func(*stateConfig)

type stateConfig struct {
	reviewsCompleted bool
}

// WithReviewsCompleted marks every review of the fixture as completed.
func WithReviewsCompleted() StateOption {
	return func(cfg *stateConfig) {
		cfg.reviewsCompleted = true
	}
}

// NewState returns one discipline, one study studied on studyDate with 7 and 30 day
// reviews, one custom event a day after studyDate and a board with one task.
func NewState(studyDate civil.Date, opts ...StateOption) tracker.State {
	cfg := stateConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	createdAt := time.Date(studyDate.Year, studyDate.Month, studyDate.Day, 9, 0, 0, 0, time.UTC)
	reviews := study.ScheduleReviews(studyDate, []study.ReviewOffset{study.Offset7Days, study.Offset30Days})
	for i := range reviews {
		reviews[i].Completed = cfg.reviewsCompleted
	}

	return tracker.State{
		Disciplines: study.Disciplines{
			{ID: "d1", Name: "Português", CreatedAt: createdAt},
		},
		Studies: []study.StudyRecord{
			{
				ID:           "s1",
				DisciplineID: "d1",
				Subject:      "Crase",
				StudyDate:    studyDate,
				Reviews:      reviews,
				CreatedAt:    createdAt,
			},
		},
		CustomEvents: []calendar.CustomEvent{
			{ID: "e1", Title: "Simulado", Date: studyDate.AddDays(1), CreatedAt: createdAt},
		},
		Lists: []board.TaskList{
			{
				ID:        "todo",
				Title:     "A fazer",
				Position:  0,
				CreatedAt: createdAt,
				Tasks: []board.Task{
					{ID: "t1", Title: "Ler lei seca", Position: 0, CreatedAt: createdAt},
				},
			},
			{ID: "done", Title: "Feito", Position: 1, CreatedAt: createdAt, Tasks: []board.Task{}},
		},
	}
}

// CreateBackupFile writes a YAML backup of NewState(studyDate, opts...) for UserID.
// Returns the path to the backup file.
func CreateBackupFile(t *testing.T, dir string, studyDate civil.Date, opts ...StateOption) string {
	t.Helper()

	path := filepath.Join(dir, "backup.yml")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	require.NoError(t, datasync.WriteYAML(f, datasync.Backup{
		Version:    datasync.BackupVersion,
		UserID:     UserID,
		ExportedAt: time.Date(studyDate.Year, studyDate.Month, studyDate.Day, 12, 0, 0, 0, time.UTC),
		State:      NewState(studyDate, opts...),
	}))
	return path
}

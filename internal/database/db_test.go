package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studyplanner/internal/config"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.DatabaseConfig
		wantDriver string
		wantErr    bool
	}{
		{
			name: "creates mysql connection with valid config",
			cfg: config.DatabaseConfig{
				Driver:   config.DriverMySQL,
				Host:     "localhost",
				Port:     3306,
				Database: "testdb",
				Username: "testuser",
				Password: "testpass",
			},
			wantDriver: "mysql",
		},
		{
			name: "creates mysql connection with pool settings",
			cfg: config.DatabaseConfig{
				Driver:          config.DriverMySQL,
				Host:            "db.example.com",
				Port:            3307,
				Database:        "studyplanner",
				Username:        "admin",
				Password:        "secret",
				TLS:             true,
				Params:          map[string]string{"charset": "utf8mb4"},
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 300,
			},
			wantDriver: "mysql",
		},
		{
			name: "creates sqlite database file",
			cfg: config.DatabaseConfig{
				Driver: config.DriverSQLite,
				Path:   filepath.Join(t.TempDir(), "nested", "planner.db"),
			},
			wantDriver: "sqlite",
		},
		{
			name:    "unsupported driver",
			cfg:     config.DatabaseConfig{Driver: "postgres"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			defer got.Close()

			assert.Equal(t, tt.wantDriver, got.DriverName())
		})
	}
}

func TestRunInTx(t *testing.T) {
	tests := []struct {
		name      string
		fn        func(ctx context.Context, tx *sqlx.Tx) error
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
		errMsg    string
	}{
		{
			name: "commits on success",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				_, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE list_id = ?", "list-1")
				return err
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM tasks WHERE list_id = \\?").
					WithArgs("list-1").
					WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectCommit()
			},
		},
		{
			name: "rolls back on error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return fmt.Errorf("something failed")
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			wantErr: true,
			errMsg:  "something failed",
		},
		{
			name: "begin error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(fmt.Errorf("begin failed"))
			},
			wantErr: true,
			errMsg:  "begin transaction",
		},
		{
			name: "commit error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(fmt.Errorf("commit failed"))
			},
			wantErr: true,
			errMsg:  "commit transaction",
		},
		{
			name: "rollback error keeps original error text",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return fmt.Errorf("insert failed")
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(fmt.Errorf("connection lost"))
			},
			wantErr: true,
			errMsg:  "original error: insert failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			tt.setupMock(mock)

			err = RunInTx(context.Background(), sqlxDB, tt.fn)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBuildMultiRowInsert(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		rowCount int
		want     string
	}{
		{
			name:     "single row",
			columns:  []string{"study_id", "position"},
			rowCount: 1,
			want:     "INSERT INTO study_reviews (study_id, position) VALUES (?, ?)",
		},
		{
			name:     "multiple rows",
			columns:  []string{"study_id", "position", "review_date"},
			rowCount: 3,
			want:     "INSERT INTO study_reviews (study_id, position, review_date) VALUES (?, ?, ?), (?, ?, ?), (?, ?, ?)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildMultiRowInsert("study_reviews", tt.columns, tt.rowCount))
		})
	}
}

func TestDate_Scan(t *testing.T) {
	want := civil.Date{Year: 2024, Month: time.January, Day: 8}

	tests := []struct {
		name    string
		src     interface{}
		want    civil.Date
		wantErr bool
	}{
		{name: "time from mysql", src: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), want: want},
		{name: "text date", src: "2024-01-08", want: want},
		{name: "text timestamp", src: "2024-01-08T00:00:00Z", want: want},
		{name: "bytes", src: []byte("2024-01-08"), want: want},
		{name: "null", src: nil, want: civil.Date{}},
		{name: "garbage", src: "not a date", wantErr: true},
		{name: "unsupported type", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Date
			err := got.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Date)
		})
	}
}

func TestDate_Value(t *testing.T) {
	got, err := NewDate(civil.Date{Year: 2024, Month: time.February, Day: 29}).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", got)
}

func TestMigrate_SQLite(t *testing.T) {
	db, err := Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "planner.db"),
	})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, config.DriverSQLite))
	// Running again is a no-op
	require.NoError(t, Migrate(db, config.DriverSQLite))

	var tables []string
	require.NoError(t, db.Select(&tables,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'schema_migrations' ORDER BY name"))
	assert.Equal(t, []string{"custom_events", "disciplines", "studies", "study_reviews", "task_lists", "tasks"}, tables)
}

package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/studyplanner/internal/board"
	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/export"
	mock_board "github.com/at-ishikawa/studyplanner/internal/mocks/board"
	mock_calendar "github.com/at-ishikawa/studyplanner/internal/mocks/calendar"
	mock_study "github.com/at-ishikawa/studyplanner/internal/mocks/study"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

const userID = "user-1"

var fixedNow = time.Date(2024, time.January, 8, 10, 30, 0, 0, time.UTC)

type mocks struct {
	disciplines *mock_study.MockDisciplineRepository
	studies     *mock_study.MockStudyRepository
	events      *mock_calendar.MockEventRepository
	board       *mock_board.MockRepository
}

func newTestService(t *testing.T) (*Service, mocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := mocks{
		disciplines: mock_study.NewMockDisciplineRepository(ctrl),
		studies:     mock_study.NewMockStudyRepository(ctrl),
		events:      mock_calendar.NewMockEventRepository(ctrl),
		board:       mock_board.NewMockRepository(ctrl),
	}
	validator, err := study.NewValidator()
	require.NoError(t, err)

	service := NewService(Repositories{
		Disciplines: m.disciplines,
		Studies:     m.studies,
		Events:      m.events,
		Board:       m.board,
	}, validator, WithClock(func() time.Time { return fixedNow }), WithLocation(time.UTC))
	return service, m
}

func date(year int, month time.Month, day int) civil.Date {
	return civil.Date{Year: year, Month: month, Day: day}
}

func TestService_Today(t *testing.T) {
	validator, err := study.NewValidator()
	require.NoError(t, err)
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:00 UTC is still the previous day in São Paulo
	service := NewService(Repositories{}, validator,
		WithClock(func() time.Time { return time.Date(2024, time.March, 1, 1, 0, 0, 0, time.UTC) }),
		WithLocation(saoPaulo))
	assert.Equal(t, date(2024, time.February, 29), service.Today())
}

func TestService_LoadState(t *testing.T) {
	t.Run("all collections are loaded and sorted", func(t *testing.T) {
		service, m := newTestService(t)
		m.disciplines.EXPECT().FindAll(gomock.Any(), userID).Return([]study.Discipline{
			{ID: "d2", Name: "Português"},
			{ID: "d1", Name: "Direito"},
		}, nil)
		m.studies.EXPECT().FindAll(gomock.Any(), userID).Return([]study.StudyRecord{{ID: "s1"}}, nil)
		m.events.EXPECT().FindAll(gomock.Any(), userID).Return([]calendar.CustomEvent{{ID: "e1"}}, nil)
		m.board.EXPECT().FindAll(gomock.Any(), userID).Return([]board.TaskList{
			{ID: "l2", Position: 1},
			{ID: "l1", Position: 0},
		}, nil)

		got, err := service.LoadState(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, study.Disciplines{{ID: "d1", Name: "Direito"}, {ID: "d2", Name: "Português"}}, got.Disciplines)
		assert.Equal(t, []study.StudyRecord{{ID: "s1"}}, got.Studies)
		assert.Equal(t, []calendar.CustomEvent{{ID: "e1"}}, got.CustomEvents)
		require.Len(t, got.Lists, 2)
		assert.Equal(t, "l1", got.Lists[0].ID)
		assert.Equal(t, "l2", got.Lists[1].ID)
	})

	t.Run("one failing read discards the state", func(t *testing.T) {
		service, m := newTestService(t)
		storageErr := errors.New("connection refused")
		m.disciplines.EXPECT().FindAll(gomock.Any(), userID).Return([]study.Discipline{{ID: "d1"}}, nil).AnyTimes()
		m.studies.EXPECT().FindAll(gomock.Any(), userID).Return(nil, storageErr)
		m.events.EXPECT().FindAll(gomock.Any(), userID).Return(nil, nil).AnyTimes()
		m.board.EXPECT().FindAll(gomock.Any(), userID).Return(nil, nil).AnyTimes()

		got, err := service.LoadState(context.Background(), userID)
		require.Error(t, err)
		assert.ErrorIs(t, err, storageErr)
		assert.Contains(t, err.Error(), "studies.FindAll() > ")
		assert.Equal(t, State{}, got)
	})
}

func TestService_CreateDiscipline(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		setup   func(m mocks)
		want    study.Discipline
		wantErr bool
	}{
		{
			name:  "name is trimmed and stored",
			input: "  Direito Constitucional ",
			setup: func(m mocks) {
				m.disciplines.EXPECT().Create(gomock.Any(), userID, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, d *study.Discipline) error {
						d.ID = "d1"
						return nil
					})
			},
			want: study.Discipline{ID: "d1", Name: "Direito Constitucional", CreatedAt: fixedNow},
		},
		{
			name:    "blank name is rejected",
			input:   "   ",
			setup:   func(m mocks) {},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newTestService(t)
			tt.setup(m)

			got, err := service.CreateDiscipline(context.Background(), userID, tt.input)
			if tt.wantErr {
				var validationErr *study.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_StudiesByDiscipline(t *testing.T) {
	service, m := newTestService(t)
	m.studies.EXPECT().FindAll(gomock.Any(), userID).Return([]study.StudyRecord{
		{ID: "s1", DisciplineID: "d1", StudyDate: date(2024, time.January, 1)},
		{ID: "s2", DisciplineID: "d2", StudyDate: date(2024, time.January, 5)},
		{ID: "s3", DisciplineID: "d1", StudyDate: date(2024, time.February, 1)},
	}, nil)

	got, err := service.StudiesByDiscipline(context.Background(), userID, "d1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s3", got[0].ID)
	assert.Equal(t, "s1", got[1].ID)
}

func TestService_SearchStudies(t *testing.T) {
	service, m := newTestService(t)
	m.disciplines.EXPECT().FindAll(gomock.Any(), userID).Return([]study.Discipline{{ID: "d1", Name: "Matemática"}}, nil)
	m.studies.EXPECT().FindAll(gomock.Any(), userID).Return([]study.StudyRecord{
		{ID: "s1", DisciplineID: "d1", Subject: "Frações", CreatedAt: fixedNow.Add(-time.Hour)},
		{ID: "s2", DisciplineID: "d2", Subject: "Crase", CreatedAt: fixedNow},
		{ID: "s3", DisciplineID: "d1", Subject: "Matrizes", CreatedAt: fixedNow},
	}, nil)

	got, disciplines, err := service.SearchStudies(context.Background(), userID, "MATEMÁTICA")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s3", got[0].ID)
	assert.Equal(t, "s1", got[1].ID)
	assert.Equal(t, "Matemática", disciplines.NameOf("d1"))
}

func TestService_CreateStudy(t *testing.T) {
	t.Run("reviews are scheduled from the study date", func(t *testing.T) {
		service, m := newTestService(t)
		m.studies.EXPECT().Create(gomock.Any(), userID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, record *study.StudyRecord) error {
				record.ID = "s1"
				return nil
			})

		got, err := service.CreateStudy(context.Background(), userID, study.StudyInput{
			DisciplineID: "d1",
			Subject:      " Controle de constitucionalidade ",
			StudyDate:    date(2024, time.January, 1),
			Offsets:      []study.ReviewOffset{study.Offset30Days, study.Offset7Days},
		})
		require.NoError(t, err)
		assert.Equal(t, study.StudyRecord{
			ID:           "s1",
			DisciplineID: "d1",
			Subject:      "Controle de constitucionalidade",
			StudyDate:    date(2024, time.January, 1),
			Reviews: []study.Review{
				{Date: date(2024, time.January, 8), Days: study.Offset7Days},
				{Date: date(2024, time.January, 31), Days: study.Offset30Days},
			},
			CreatedAt: fixedNow,
		}, got)
	})

	t.Run("invalid input never reaches storage", func(t *testing.T) {
		service, _ := newTestService(t)
		_, err := service.CreateStudy(context.Background(), userID, study.StudyInput{
			DisciplineID: "d1",
			Subject:      "Crase",
			StudyDate:    date(2024, time.January, 1),
			Offsets:      []study.ReviewOffset{8},
		})
		var validationErr *study.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Offsets[0]", validationErr.Violations[0].Field)
	})
}

func TestService_UpdateStudy(t *testing.T) {
	previous := study.StudyRecord{
		ID:           "s1",
		DisciplineID: "d1",
		Subject:      "Crase",
		StudyDate:    date(2024, time.January, 1),
		Reviews: []study.Review{
			{Date: date(2024, time.January, 8), Days: study.Offset7Days, Completed: true},
			{Date: date(2024, time.January, 31), Days: study.Offset30Days},
		},
		CreatedAt: fixedNow.Add(-24 * time.Hour),
	}

	t.Run("completed reviews that did not move are kept", func(t *testing.T) {
		service, m := newTestService(t)
		stored := previous
		m.studies.EXPECT().FindByID(gomock.Any(), userID, "s1").Return(&stored, nil)
		m.studies.EXPECT().Update(gomock.Any(), userID, gomock.Any()).Return(nil)

		got, err := service.UpdateStudy(context.Background(), userID, "s1", study.StudyInput{
			DisciplineID: "d2",
			Subject:      "Crase e regência",
			StudyDate:    date(2024, time.January, 1),
			Offsets:      []study.ReviewOffset{study.Offset7Days, study.Offset15Days},
		})
		require.NoError(t, err)
		assert.Equal(t, []study.Review{
			{Date: date(2024, time.January, 8), Days: study.Offset7Days, Completed: true},
			{Date: date(2024, time.January, 16), Days: study.Offset15Days},
		}, got.Reviews)
		assert.Equal(t, "d2", got.DisciplineID)
		assert.Equal(t, previous.CreatedAt, got.CreatedAt)
		require.NotNil(t, got.UpdatedAt)
		assert.Equal(t, fixedNow, *got.UpdatedAt)
		assert.True(t, stored.Reviews[0].Completed)
	})

	t.Run("moving the study date resets completion", func(t *testing.T) {
		service, m := newTestService(t)
		stored := previous
		m.studies.EXPECT().FindByID(gomock.Any(), userID, "s1").Return(&stored, nil)
		m.studies.EXPECT().Update(gomock.Any(), userID, gomock.Any()).Return(nil)

		got, err := service.UpdateStudy(context.Background(), userID, "s1", study.StudyInput{
			DisciplineID: "d1",
			Subject:      "Crase",
			StudyDate:    date(2024, time.January, 2),
			Offsets:      []study.ReviewOffset{study.Offset7Days},
		})
		require.NoError(t, err)
		assert.Equal(t, []study.Review{
			{Date: date(2024, time.January, 9), Days: study.Offset7Days},
		}, got.Reviews)
	})

	t.Run("unknown study", func(t *testing.T) {
		service, m := newTestService(t)
		m.studies.EXPECT().FindByID(gomock.Any(), userID, "missing").Return(nil, study.ErrNotFound)

		_, err := service.UpdateStudy(context.Background(), userID, "missing", study.StudyInput{
			DisciplineID: "d1",
			Subject:      "Crase",
			StudyDate:    date(2024, time.January, 2),
		})
		assert.ErrorIs(t, err, study.ErrNotFound)
	})
}

func TestService_ToggleReview(t *testing.T) {
	record := study.StudyRecord{
		ID: "s1",
		Reviews: []study.Review{
			{Date: date(2024, time.January, 8), Days: study.Offset7Days},
			{Date: date(2024, time.January, 31), Days: study.Offset30Days},
		},
	}

	tests := []struct {
		name      string
		index     int
		setup     func(m mocks)
		wantErr   error
		wantFlags []bool
	}{
		{
			name:  "pending review becomes completed",
			index: 1,
			setup: func(m mocks) {
				m.studies.EXPECT().UpdateReviews(gomock.Any(), userID, "s1", []study.Review{
					{Date: date(2024, time.January, 8), Days: study.Offset7Days},
					{Date: date(2024, time.January, 31), Days: study.Offset30Days, Completed: true},
				}).Return(nil)
			},
			wantFlags: []bool{false, true},
		},
		{
			name:    "index out of range",
			index:   2,
			setup:   func(m mocks) {},
			wantErr: study.ErrReviewIndexOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newTestService(t)
			stored := record
			m.studies.EXPECT().FindByID(gomock.Any(), userID, "s1").Return(&stored, nil)
			tt.setup(m)

			got, err := service.ToggleReview(context.Background(), userID, "s1", tt.index)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			for i, want := range tt.wantFlags {
				assert.Equal(t, want, got.Reviews[i].Completed)
			}
			assert.False(t, stored.Reviews[1].Completed)
		})
	}
}

func TestService_Day(t *testing.T) {
	service, m := newTestService(t)
	m.studies.EXPECT().FindAll(gomock.Any(), userID).Return([]study.StudyRecord{
		{
			ID:        "s1",
			Subject:   "Crase",
			StudyDate: date(2024, time.January, 1),
			Reviews:   []study.Review{{Date: date(2024, time.January, 8), Days: study.Offset7Days}},
		},
	}, nil)
	m.events.EXPECT().FindAll(gomock.Any(), userID).Return([]calendar.CustomEvent{
		{ID: "e1", Title: "Simulado", Date: date(2024, time.January, 8)},
	}, nil)

	got, err := service.Day(context.Background(), userID, date(2024, time.January, 8))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, calendar.KindReview, got[0].Kind)
	assert.Equal(t, "Revisão: Crase", got[0].Title)
	assert.Equal(t, calendar.KindCustom, got[1].Kind)
}

func TestService_Month(t *testing.T) {
	service, m := newTestService(t)
	m.studies.EXPECT().FindAll(gomock.Any(), userID).Return([]study.StudyRecord{
		{ID: "s1", Subject: "Crase", StudyDate: date(2024, time.January, 1), Reviews: []study.Review{}},
	}, nil)
	m.events.EXPECT().FindAll(gomock.Any(), userID).Return(nil, nil)

	cells, err := service.Month(context.Background(), userID, 2024, time.January)
	require.NoError(t, err)
	require.Len(t, cells, calendar.GridCells)
	// January 2024 starts on a Monday; the first cell is Sunday, December 31
	assert.Equal(t, date(2023, time.December, 31), cells[0].Date)
	assert.False(t, cells[0].InMonth)
	require.Len(t, cells[1].Events, 1)
	assert.Equal(t, "s1", cells[1].Events[0].StudyID)
}

func TestService_CreateCustomEvent(t *testing.T) {
	service, m := newTestService(t)
	m.events.EXPECT().Create(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, e *calendar.CustomEvent) error {
			e.ID = "e1"
			return nil
		})

	got, err := service.CreateCustomEvent(context.Background(), userID, calendar.CustomEventInput{
		Title: " Simulado ",
		Date:  date(2024, time.January, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, calendar.CustomEvent{ID: "e1", Title: "Simulado", Date: date(2024, time.January, 20), CreatedAt: fixedNow}, got)
}

func TestService_Export(t *testing.T) {
	studies := []study.StudyRecord{
		{
			ID:           "s1",
			DisciplineID: "d1",
			Subject:      "Crase",
			StudyDate:    date(2024, time.January, 1),
			Reviews:      []study.Review{{Date: date(2024, time.January, 8), Days: study.Offset7Days, Completed: true}},
		},
	}

	tests := []struct {
		name     string
		from, to civil.Date
		setup    func(m mocks)
		want     ExportResult
		wantErr  error
		invalid  bool
	}{
		{
			name: "rows in range",
			from: date(2024, time.January, 1),
			to:   date(2024, time.January, 31),
			setup: func(m mocks) {
				m.studies.EXPECT().FindAll(gomock.Any(), userID).Return(studies, nil)
				m.events.EXPECT().FindAll(gomock.Any(), userID).Return(nil, nil)
				m.disciplines.EXPECT().FindAll(gomock.Any(), userID).Return([]study.Discipline{{ID: "d1", Name: "Português"}}, nil)
			},
			want: ExportResult{
				Rows: []calendar.ExportRow{
					{Date: date(2024, time.January, 1), Label: "Crase", Category: calendar.CategoryStudy, Context: "Português"},
					{Date: date(2024, time.January, 8), Label: "Revisão: Crase", Category: calendar.CategoryReviewCompleted, Context: "Português"},
				},
				FileName: "eventos_calendario_2024-01-01_2024-01-31.csv",
			},
		},
		{
			name: "empty range",
			from: date(2024, time.March, 1),
			to:   date(2024, time.March, 31),
			setup: func(m mocks) {
				m.studies.EXPECT().FindAll(gomock.Any(), userID).Return(studies, nil)
				m.events.EXPECT().FindAll(gomock.Any(), userID).Return(nil, nil)
				m.disciplines.EXPECT().FindAll(gomock.Any(), userID).Return(nil, nil)
			},
			wantErr: export.ErrNoEvents,
		},
		{
			name:    "reversed range",
			from:    date(2024, time.February, 1),
			to:      date(2024, time.January, 1),
			setup:   func(m mocks) {},
			invalid: true,
		},
		{
			name:    "missing date",
			from:    date(2024, time.February, 1),
			setup:   func(m mocks) {},
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newTestService(t)
			tt.setup(m)

			got, err := service.Export(context.Background(), userID, tt.from, tt.to)
			if tt.invalid {
				var validationErr *study.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_PendingReviews(t *testing.T) {
	service, m := newTestService(t)
	m.studies.EXPECT().FindAll(gomock.Any(), userID).Return([]study.StudyRecord{
		{
			ID:      "s1",
			Subject: "Crase",
			Reviews: []study.Review{
				{Date: date(2024, time.January, 1), Days: study.Offset7Days},
				{Date: date(2024, time.January, 8), Days: study.Offset15Days},
				{Date: date(2024, time.January, 9), Days: study.Offset30Days},
			},
		},
	}, nil)

	got, err := service.PendingReviews(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 8), got.AsOf)
	require.Len(t, got.DueToday, 1)
	require.Len(t, got.Overdue, 1)
	assert.Equal(t, date(2024, time.January, 1), got.Overdue[0].Date)
}

func TestService_Dashboard(t *testing.T) {
	service, m := newTestService(t)
	m.disciplines.EXPECT().FindAll(gomock.Any(), userID).Return([]study.Discipline{{ID: "d1", Name: "Português"}}, nil)
	m.studies.EXPECT().FindAll(gomock.Any(), userID).Return([]study.StudyRecord{
		{ID: "s1", DisciplineID: "d1", StudyDate: date(2024, time.January, 8), CreatedAt: fixedNow},
	}, nil)

	got, err := service.Dashboard(context.Background(), userID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Totals.Disciplines)
	assert.Equal(t, 1, got.Totals.Studies)
	assert.Equal(t, 1, got.Totals.StudiesToday)
}

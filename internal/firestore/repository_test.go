package firestore

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/studyplanner/internal/board"
	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

var createdAt = time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

func TestDisciplineRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewDisciplineRepository(newTestClient(t, newFakeFirestore()))

	for _, name := range []string{"Português", "Direito"} {
		d := study.Discipline{Name: name, CreatedAt: createdAt}
		require.NoError(t, repo.Create(ctx, "u1", &d))
		assert.NotEmpty(t, d.ID)
	}
	other := study.Discipline{ID: "other", Name: "Matemática", CreatedAt: createdAt}
	require.NoError(t, repo.Create(ctx, "u2", &other))

	got, err := repo.FindAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Direito", got[0].Name)
	assert.Equal(t, "Português", got[1].Name)
	assert.True(t, createdAt.Equal(got[0].CreatedAt))

	require.NoError(t, repo.Delete(ctx, "u1", got[0].ID))
	assert.ErrorIs(t, repo.Delete(ctx, "u1", got[0].ID), study.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "u1", "other"), study.ErrNotFound)
}

func TestStudyRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStudyRepository(newTestClient(t, newFakeFirestore()))

	record := study.StudyRecord{
		ID:           "s1",
		DisciplineID: "d1",
		Subject:      "Crase",
		StudyDate:    civil.Date{Year: 2024, Month: time.January, Day: 1},
		Link:         "https://example.com/crase",
		Reviews:      study.ScheduleReviews(civil.Date{Year: 2024, Month: time.January, Day: 1}, []study.ReviewOffset{7, 30}),
		CreatedAt:    createdAt,
	}
	require.NoError(t, repo.Create(ctx, "u1", &record))

	t.Run("find by id", func(t *testing.T) {
		got, err := repo.FindByID(ctx, "u1", "s1")
		require.NoError(t, err)
		assert.Equal(t, record.Subject, got.Subject)
		assert.Equal(t, record.StudyDate, got.StudyDate)
		assert.Equal(t, record.Link, got.Link)
		assert.Equal(t, record.Reviews, got.Reviews)
		assert.Nil(t, got.UpdatedAt)

		_, err = repo.FindByID(ctx, "u1", "missing")
		assert.ErrorIs(t, err, study.ErrNotFound)
	})

	t.Run("update reviews", func(t *testing.T) {
		toggled, err := study.ToggleReviewCompletion(record, 0)
		require.NoError(t, err)
		require.NoError(t, repo.UpdateReviews(ctx, "u1", "s1", toggled.Reviews))

		got, err := repo.FindByID(ctx, "u1", "s1")
		require.NoError(t, err)
		assert.True(t, got.Reviews[0].Completed)
		assert.False(t, got.Reviews[1].Completed)
		assert.Equal(t, "Crase", got.Subject)

		assert.ErrorIs(t, repo.UpdateReviews(ctx, "u1", "missing", nil), study.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		updatedAt := createdAt.Add(time.Hour)
		updated := record
		updated.Subject = "Crase e regência"
		updated.Reviews = []study.Review{}
		updated.UpdatedAt = &updatedAt
		require.NoError(t, repo.Update(ctx, "u1", &updated))

		all, err := repo.FindAll(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Crase e regência", all[0].Subject)
		assert.Empty(t, all[0].Reviews)
		require.NotNil(t, all[0].UpdatedAt)
		assert.True(t, updatedAt.Equal(*all[0].UpdatedAt))
		assert.True(t, createdAt.Equal(all[0].CreatedAt))

		missing := updated
		missing.ID = "missing"
		assert.ErrorIs(t, repo.Update(ctx, "u1", &missing), study.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "u1", "s1"))
		assert.ErrorIs(t, repo.Delete(ctx, "u1", "s1"), study.ErrNotFound)

		all, err := repo.FindAll(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}

func TestEventRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository(newTestClient(t, newFakeFirestore()))

	later := calendar.CustomEvent{Title: "Prova", Date: civil.Date{Year: 2024, Month: time.March, Day: 10}, CreatedAt: createdAt}
	earlier := calendar.CustomEvent{Title: "Simulado", Description: "Bloco 1", Date: civil.Date{Year: 2024, Month: time.February, Day: 1}, CreatedAt: createdAt}
	require.NoError(t, repo.Create(ctx, "u1", &later))
	require.NoError(t, repo.Create(ctx, "u1", &earlier))

	got, err := repo.FindAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Simulado", got[0].Title)
	assert.Equal(t, "Bloco 1", got[0].Description)
	assert.Equal(t, civil.Date{Year: 2024, Month: time.February, Day: 1}, got[0].Date)
	assert.Equal(t, "Prova", got[1].Title)

	require.NoError(t, repo.Delete(ctx, "u1", later.ID))
	assert.ErrorIs(t, repo.Delete(ctx, "u1", later.ID), study.ErrNotFound)
}

func TestBoardRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBoardRepository(newTestClient(t, newFakeFirestore()))

	todo := board.TaskList{ID: "todo", Title: "A fazer", Position: 0, CreatedAt: createdAt}
	done := board.TaskList{ID: "done", Title: "Feito", Position: 1, CreatedAt: createdAt}
	require.NoError(t, repo.CreateList(ctx, "u1", &done))
	require.NoError(t, repo.CreateList(ctx, "u1", &todo))

	first := board.Task{ID: "t1", Title: "Ler lei seca", Position: 0, CreatedAt: createdAt}
	second := board.Task{ID: "t2", Title: "Resolver questões", Position: 1, CreatedAt: createdAt}
	require.NoError(t, repo.CreateTask(ctx, "u1", "todo", &second))
	require.NoError(t, repo.CreateTask(ctx, "u1", "todo", &first))
	assert.ErrorIs(t, repo.CreateTask(ctx, "u1", "missing", &board.Task{Title: "x"}), board.ErrListNotFound)

	lists, err := repo.FindAll(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "todo", lists[0].ID)
	require.Len(t, lists[0].Tasks, 2)
	assert.Equal(t, "t1", lists[0].Tasks[0].ID)
	assert.Equal(t, "t2", lists[0].Tasks[1].ID)
	assert.Empty(t, lists[1].Tasks)

	t.Run("update task", func(t *testing.T) {
		updatedAt := createdAt.Add(time.Minute)
		first.Title = "Ler a lei seca"
		first.UpdatedAt = &updatedAt
		require.NoError(t, repo.UpdateTask(ctx, "u1", "todo", &first))
		assert.ErrorIs(t, repo.UpdateTask(ctx, "u1", "done", &first), board.ErrTaskNotFound)
	})

	t.Run("move task keeps its identity", func(t *testing.T) {
		require.NoError(t, repo.MoveTask(ctx, "u1", "t1", "todo", "done", 0))

		lists, err := repo.FindAll(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, lists[0].Tasks, 1)
		assert.Equal(t, "t2", lists[0].Tasks[0].ID)
		require.Len(t, lists[1].Tasks, 1)
		moved := lists[1].Tasks[0]
		assert.Equal(t, "t1", moved.ID)
		assert.Equal(t, "Ler a lei seca", moved.Title)
		assert.Equal(t, 0, moved.Position)
		assert.True(t, createdAt.Equal(moved.CreatedAt))

		assert.ErrorIs(t, repo.MoveTask(ctx, "u1", "t1", "todo", "done", 1), board.ErrTaskNotFound)
		assert.ErrorIs(t, repo.MoveTask(ctx, "u1", "t2", "todo", "missing", 0), board.ErrListNotFound)
	})

	t.Run("delete list deletes its tasks", func(t *testing.T) {
		require.NoError(t, repo.DeleteList(ctx, "u1", "todo"))
		assert.ErrorIs(t, repo.DeleteList(ctx, "u1", "todo"), board.ErrListNotFound)

		lists, err := repo.FindAll(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, lists, 1)
		assert.Equal(t, "done", lists[0].ID)
		assert.ErrorIs(t, repo.DeleteTask(ctx, "u1", "todo", "t2"), board.ErrTaskNotFound)
	})

	t.Run("delete task", func(t *testing.T) {
		require.NoError(t, repo.DeleteTask(ctx, "u1", "done", "t1"))
		assert.ErrorIs(t, repo.DeleteTask(ctx, "u1", "done", "t1"), board.ErrTaskNotFound)
	})
}

package server

import (
	"cloud.google.com/go/civil"

	"github.com/at-ishikawa/studyplanner/internal/board"
	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/statistics"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

type Empty struct{}

type ListDisciplinesResponse struct {
	Disciplines []study.Discipline `json:"disciplines"`
}

type CreateDisciplineRequest struct {
	Name string `json:"name"`
}

type DisciplineResponse struct {
	Discipline study.Discipline `json:"discipline"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type ListStudiesRequest struct {
	Query        string `json:"query,omitempty"`
	DisciplineID string `json:"discipline_id,omitempty"`
}

type ListStudiesResponse struct {
	Studies     []study.StudyRecord `json:"studies"`
	Disciplines []study.Discipline  `json:"disciplines"`
}

type StudyRequest struct {
	ID           string               `json:"id,omitempty"`
	DisciplineID string               `json:"discipline_id"`
	Subject      string               `json:"subject"`
	StudyDate    civil.Date           `json:"study_date"`
	Link         string               `json:"link,omitempty"`
	Reviews      []study.ReviewOffset `json:"reviews"`
}

func (r StudyRequest) input() study.StudyInput {
	return study.StudyInput{
		DisciplineID: r.DisciplineID,
		Subject:      r.Subject,
		StudyDate:    r.StudyDate,
		Link:         r.Link,
		Offsets:      r.Reviews,
	}
}

type StudyResponse struct {
	Study study.StudyRecord `json:"study"`
}

type ToggleReviewRequest struct {
	StudyID     string `json:"study_id"`
	ReviewIndex int    `json:"review_index"`
}

type GetDayRequest struct {
	Date civil.Date `json:"date"`
}

type GetDayResponse struct {
	Events []calendar.Event `json:"events"`
}

type GetMonthRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type GetMonthResponse struct {
	Cells []calendar.Cell `json:"cells"`
}

type CreateCustomEventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Date        civil.Date `json:"date"`
}

type CustomEventResponse struct {
	Event calendar.CustomEvent `json:"event"`
}

type ExportEventsRequest struct {
	From civil.Date `json:"from"`
	To   civil.Date `json:"to"`
}

type ExportEventsResponse struct {
	FileName string               `json:"file_name"`
	CSV      string               `json:"csv"`
	Rows     []calendar.ExportRow `json:"rows"`
}

type BoardResponse struct {
	Lists []board.TaskList `json:"lists"`
}

type CreateTaskListRequest struct {
	Title string `json:"title"`
}

type TaskListResponse struct {
	List board.TaskList `json:"list"`
}

type TaskRequest struct {
	ListID      string `json:"list_id"`
	TaskID      string `json:"task_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type TaskResponse struct {
	Task board.Task `json:"task"`
}

type DeleteTaskRequest struct {
	ListID string `json:"list_id"`
	TaskID string `json:"task_id"`
}

type MoveTaskRequest struct {
	TaskID       string `json:"task_id"`
	SourceListID string `json:"source_list_id"`
	TargetListID string `json:"target_list_id"`
}

type GetDashboardRequest struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
}

type DashboardResponse struct {
	Dashboard statistics.Dashboard `json:"dashboard"`
}

type PendingReviewsResponse struct {
	Digest calendar.PendingDigest `json:"digest"`
}

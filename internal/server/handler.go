package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/studyplanner/internal/board"
	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/export"
	"github.com/at-ishikawa/studyplanner/internal/tracker"
)

const ServiceName = "studyplanner.v1.PlannerService"

// Procedure paths served by NewHandler.
const (
	ListDisciplinesProcedure   = "/" + ServiceName + "/ListDisciplines"
	CreateDisciplineProcedure  = "/" + ServiceName + "/CreateDiscipline"
	DeleteDisciplineProcedure  = "/" + ServiceName + "/DeleteDiscipline"
	ListStudiesProcedure       = "/" + ServiceName + "/ListStudies"
	CreateStudyProcedure       = "/" + ServiceName + "/CreateStudy"
	UpdateStudyProcedure       = "/" + ServiceName + "/UpdateStudy"
	DeleteStudyProcedure       = "/" + ServiceName + "/DeleteStudy"
	ToggleReviewProcedure      = "/" + ServiceName + "/ToggleReview"
	GetDayProcedure            = "/" + ServiceName + "/GetDay"
	GetMonthProcedure          = "/" + ServiceName + "/GetMonth"
	CreateCustomEventProcedure = "/" + ServiceName + "/CreateCustomEvent"
	DeleteCustomEventProcedure = "/" + ServiceName + "/DeleteCustomEvent"
	ExportEventsProcedure      = "/" + ServiceName + "/ExportEvents"
	GetBoardProcedure          = "/" + ServiceName + "/GetBoard"
	CreateTaskListProcedure    = "/" + ServiceName + "/CreateTaskList"
	DeleteTaskListProcedure    = "/" + ServiceName + "/DeleteTaskList"
	CreateTaskProcedure        = "/" + ServiceName + "/CreateTask"
	UpdateTaskProcedure        = "/" + ServiceName + "/UpdateTask"
	DeleteTaskProcedure        = "/" + ServiceName + "/DeleteTask"
	MoveTaskProcedure          = "/" + ServiceName + "/MoveTask"
	GetDashboardProcedure      = "/" + ServiceName + "/GetDashboard"
	GetPendingReviewsProcedure = "/" + ServiceName + "/GetPendingReviews"
)

// PlannerHandler implements the planner service on top of tracker.Service.
type PlannerHandler struct {
	service *tracker.Service
}

func NewPlannerHandler(service *tracker.Service) *PlannerHandler {
	return &PlannerHandler{service: service}
}

// NewHandler returns the mount path and the HTTP handler for every planner procedure.
func NewHandler(service *tracker.Service, opts ...connect.HandlerOption) (string, http.Handler) {
	h := NewPlannerHandler(service)
	opts = append([]connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(NewUserInterceptor()),
	}, opts...)

	mux := http.NewServeMux()
	register(mux, ListDisciplinesProcedure, h.ListDisciplines, opts)
	register(mux, CreateDisciplineProcedure, h.CreateDiscipline, opts)
	register(mux, DeleteDisciplineProcedure, h.DeleteDiscipline, opts)
	register(mux, ListStudiesProcedure, h.ListStudies, opts)
	register(mux, CreateStudyProcedure, h.CreateStudy, opts)
	register(mux, UpdateStudyProcedure, h.UpdateStudy, opts)
	register(mux, DeleteStudyProcedure, h.DeleteStudy, opts)
	register(mux, ToggleReviewProcedure, h.ToggleReview, opts)
	register(mux, GetDayProcedure, h.GetDay, opts)
	register(mux, GetMonthProcedure, h.GetMonth, opts)
	register(mux, CreateCustomEventProcedure, h.CreateCustomEvent, opts)
	register(mux, DeleteCustomEventProcedure, h.DeleteCustomEvent, opts)
	register(mux, ExportEventsProcedure, h.ExportEvents, opts)
	register(mux, GetBoardProcedure, h.GetBoard, opts)
	register(mux, CreateTaskListProcedure, h.CreateTaskList, opts)
	register(mux, DeleteTaskListProcedure, h.DeleteTaskList, opts)
	register(mux, CreateTaskProcedure, h.CreateTask, opts)
	register(mux, UpdateTaskProcedure, h.UpdateTask, opts)
	register(mux, DeleteTaskProcedure, h.DeleteTask, opts)
	register(mux, MoveTaskProcedure, h.MoveTask, opts)
	register(mux, GetDashboardProcedure, h.GetDashboard, opts)
	register(mux, GetPendingReviewsProcedure, h.GetPendingReviews, opts)
	return "/" + ServiceName + "/", mux
}

func register[Req, Res any](
	mux *http.ServeMux,
	procedure string,
	call func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, call, opts...))
}

func (h *PlannerHandler) ListDisciplines(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[ListDisciplinesResponse], error) {
	disciplines, err := h.service.ListDisciplines(ctx, UserID(ctx))
	if err != nil {
		return nil, toConnectError(ctx, ListDisciplinesProcedure, err)
	}
	return connect.NewResponse(&ListDisciplinesResponse{Disciplines: disciplines}), nil
}

func (h *PlannerHandler) CreateDiscipline(
	ctx context.Context,
	req *connect.Request[CreateDisciplineRequest],
) (*connect.Response[DisciplineResponse], error) {
	discipline, err := h.service.CreateDiscipline(ctx, UserID(ctx), req.Msg.Name)
	if err != nil {
		return nil, toConnectError(ctx, CreateDisciplineProcedure, err)
	}
	return connect.NewResponse(&DisciplineResponse{Discipline: discipline}), nil
}

func (h *PlannerHandler) DeleteDiscipline(
	ctx context.Context,
	req *connect.Request[IDRequest],
) (*connect.Response[Empty], error) {
	if err := h.service.DeleteDiscipline(ctx, UserID(ctx), req.Msg.ID); err != nil {
		return nil, toConnectError(ctx, DeleteDisciplineProcedure, err)
	}
	return connect.NewResponse(&Empty{}), nil
}

// ListStudies searches by free text, or lists one discipline when DisciplineID is set.
func (h *PlannerHandler) ListStudies(
	ctx context.Context,
	req *connect.Request[ListStudiesRequest],
) (*connect.Response[ListStudiesResponse], error) {
	userID := UserID(ctx)
	if req.Msg.DisciplineID != "" {
		studies, err := h.service.StudiesByDiscipline(ctx, userID, req.Msg.DisciplineID)
		if err != nil {
			return nil, toConnectError(ctx, ListStudiesProcedure, err)
		}
		return connect.NewResponse(&ListStudiesResponse{Studies: studies}), nil
	}

	studies, disciplines, err := h.service.SearchStudies(ctx, userID, req.Msg.Query)
	if err != nil {
		return nil, toConnectError(ctx, ListStudiesProcedure, err)
	}
	return connect.NewResponse(&ListStudiesResponse{
		Studies:     studies,
		Disciplines: disciplines,
	}), nil
}

func (h *PlannerHandler) CreateStudy(
	ctx context.Context,
	req *connect.Request[StudyRequest],
) (*connect.Response[StudyResponse], error) {
	record, err := h.service.CreateStudy(ctx, UserID(ctx), req.Msg.input())
	if err != nil {
		return nil, toConnectError(ctx, CreateStudyProcedure, err)
	}
	return connect.NewResponse(&StudyResponse{Study: record}), nil
}

func (h *PlannerHandler) UpdateStudy(
	ctx context.Context,
	req *connect.Request[StudyRequest],
) (*connect.Response[StudyResponse], error) {
	record, err := h.service.UpdateStudy(ctx, UserID(ctx), req.Msg.ID, req.Msg.input())
	if err != nil {
		return nil, toConnectError(ctx, UpdateStudyProcedure, err)
	}
	return connect.NewResponse(&StudyResponse{Study: record}), nil
}

func (h *PlannerHandler) DeleteStudy(
	ctx context.Context,
	req *connect.Request[IDRequest],
) (*connect.Response[Empty], error) {
	if err := h.service.DeleteStudy(ctx, UserID(ctx), req.Msg.ID); err != nil {
		return nil, toConnectError(ctx, DeleteStudyProcedure, err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (h *PlannerHandler) ToggleReview(
	ctx context.Context,
	req *connect.Request[ToggleReviewRequest],
) (*connect.Response[StudyResponse], error) {
	record, err := h.service.ToggleReview(ctx, UserID(ctx), req.Msg.StudyID, req.Msg.ReviewIndex)
	if err != nil {
		return nil, toConnectError(ctx, ToggleReviewProcedure, err)
	}
	return connect.NewResponse(&StudyResponse{Study: record}), nil
}

func (h *PlannerHandler) GetDay(
	ctx context.Context,
	req *connect.Request[GetDayRequest],
) (*connect.Response[GetDayResponse], error) {
	events, err := h.service.Day(ctx, UserID(ctx), req.Msg.Date)
	if err != nil {
		return nil, toConnectError(ctx, GetDayProcedure, err)
	}
	return connect.NewResponse(&GetDayResponse{Events: events}), nil
}

func (h *PlannerHandler) GetMonth(
	ctx context.Context,
	req *connect.Request[GetMonthRequest],
) (*connect.Response[GetMonthResponse], error) {
	if req.Msg.Month < 1 || req.Msg.Month > 12 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("month must be between 1 and 12, got %d", req.Msg.Month))
	}
	cells, err := h.service.Month(ctx, UserID(ctx), req.Msg.Year, time.Month(req.Msg.Month))
	if err != nil {
		return nil, toConnectError(ctx, GetMonthProcedure, err)
	}
	return connect.NewResponse(&GetMonthResponse{Cells: cells}), nil
}

func (h *PlannerHandler) CreateCustomEvent(
	ctx context.Context,
	req *connect.Request[CreateCustomEventRequest],
) (*connect.Response[CustomEventResponse], error) {
	event, err := h.service.CreateCustomEvent(ctx, UserID(ctx), calendar.CustomEventInput{
		Title:       req.Msg.Title,
		Description: req.Msg.Description,
		Date:        req.Msg.Date,
	})
	if err != nil {
		return nil, toConnectError(ctx, CreateCustomEventProcedure, err)
	}
	return connect.NewResponse(&CustomEventResponse{Event: event}), nil
}

func (h *PlannerHandler) DeleteCustomEvent(
	ctx context.Context,
	req *connect.Request[IDRequest],
) (*connect.Response[Empty], error) {
	if err := h.service.DeleteCustomEvent(ctx, UserID(ctx), req.Msg.ID); err != nil {
		return nil, toConnectError(ctx, DeleteCustomEventProcedure, err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (h *PlannerHandler) ExportEvents(
	ctx context.Context,
	req *connect.Request[ExportEventsRequest],
) (*connect.Response[ExportEventsResponse], error) {
	result, err := h.service.Export(ctx, UserID(ctx), req.Msg.From, req.Msg.To)
	if err != nil {
		return nil, toConnectError(ctx, ExportEventsProcedure, err)
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, result.Rows); err != nil {
		return nil, toConnectError(ctx, ExportEventsProcedure, fmt.Errorf("export.WriteCSV() > %w", err))
	}
	return connect.NewResponse(&ExportEventsResponse{
		FileName: result.FileName,
		CSV:      buf.String(),
		Rows:     result.Rows,
	}), nil
}

func (h *PlannerHandler) GetBoard(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[BoardResponse], error) {
	lists, err := h.service.Board(ctx, UserID(ctx))
	if err != nil {
		return nil, toConnectError(ctx, GetBoardProcedure, err)
	}
	return connect.NewResponse(&BoardResponse{Lists: lists}), nil
}

func (h *PlannerHandler) CreateTaskList(
	ctx context.Context,
	req *connect.Request[CreateTaskListRequest],
) (*connect.Response[TaskListResponse], error) {
	list, err := h.service.CreateList(ctx, UserID(ctx), board.ListInput{Title: req.Msg.Title})
	if err != nil {
		return nil, toConnectError(ctx, CreateTaskListProcedure, err)
	}
	return connect.NewResponse(&TaskListResponse{List: list}), nil
}

func (h *PlannerHandler) DeleteTaskList(
	ctx context.Context,
	req *connect.Request[IDRequest],
) (*connect.Response[Empty], error) {
	if err := h.service.DeleteList(ctx, UserID(ctx), req.Msg.ID); err != nil {
		return nil, toConnectError(ctx, DeleteTaskListProcedure, err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (h *PlannerHandler) CreateTask(
	ctx context.Context,
	req *connect.Request[TaskRequest],
) (*connect.Response[TaskResponse], error) {
	task, err := h.service.AddTask(ctx, UserID(ctx), req.Msg.ListID, board.TaskInput{
		Title:       req.Msg.Title,
		Description: req.Msg.Description,
	})
	if err != nil {
		return nil, toConnectError(ctx, CreateTaskProcedure, err)
	}
	return connect.NewResponse(&TaskResponse{Task: task}), nil
}

func (h *PlannerHandler) UpdateTask(
	ctx context.Context,
	req *connect.Request[TaskRequest],
) (*connect.Response[TaskResponse], error) {
	task, err := h.service.UpdateTask(ctx, UserID(ctx), req.Msg.ListID, req.Msg.TaskID, board.TaskInput{
		Title:       req.Msg.Title,
		Description: req.Msg.Description,
	})
	if err != nil {
		return nil, toConnectError(ctx, UpdateTaskProcedure, err)
	}
	return connect.NewResponse(&TaskResponse{Task: task}), nil
}

func (h *PlannerHandler) DeleteTask(
	ctx context.Context,
	req *connect.Request[DeleteTaskRequest],
) (*connect.Response[Empty], error) {
	if err := h.service.DeleteTask(ctx, UserID(ctx), req.Msg.ListID, req.Msg.TaskID); err != nil {
		return nil, toConnectError(ctx, DeleteTaskProcedure, err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (h *PlannerHandler) MoveTask(
	ctx context.Context,
	req *connect.Request[MoveTaskRequest],
) (*connect.Response[BoardResponse], error) {
	lists, err := h.service.MoveTask(ctx, UserID(ctx), req.Msg.TaskID, req.Msg.SourceListID, req.Msg.TargetListID)
	if err != nil {
		return nil, toConnectError(ctx, MoveTaskProcedure, err)
	}
	return connect.NewResponse(&BoardResponse{Lists: lists}), nil
}

// GetDashboard filters the statistics by year and month; zero values select all periods.
func (h *PlannerHandler) GetDashboard(
	ctx context.Context,
	req *connect.Request[GetDashboardRequest],
) (*connect.Response[DashboardResponse], error) {
	dashboard, err := h.service.Dashboard(ctx, UserID(ctx), req.Msg.Year, req.Msg.Month)
	if err != nil {
		return nil, toConnectError(ctx, GetDashboardProcedure, err)
	}
	return connect.NewResponse(&DashboardResponse{Dashboard: dashboard}), nil
}

func (h *PlannerHandler) GetPendingReviews(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[PendingReviewsResponse], error) {
	digest, err := h.service.PendingReviews(ctx, UserID(ctx))
	if err != nil {
		return nil, toConnectError(ctx, GetPendingReviewsProcedure, err)
	}
	return connect.NewResponse(&PendingReviewsResponse{Digest: digest}), nil
}

package tracker

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"

	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/export"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

// ExportResult is the content of a calendar export.
type ExportResult struct {
	Rows     []calendar.ExportRow
	FileName string
}

// Day returns the events of one date: studies, then reviews, then custom events.
func (s *Service) Day(ctx context.Context, userID string, date civil.Date) ([]calendar.Event, error) {
	studies, events, err := s.loadCalendar(ctx, userID)
	if err != nil {
		return nil, err
	}
	return calendar.EventsOnDate(studies, events, date), nil
}

// Month returns the 42 cells of a month view with their events.
func (s *Service) Month(ctx context.Context, userID string, year int, month time.Month) ([]calendar.Cell, error) {
	studies, events, err := s.loadCalendar(ctx, userID)
	if err != nil {
		return nil, err
	}
	return calendar.IndexEventsByDate(studies, events).Fill(calendar.MonthGrid(year, month)), nil
}

// PendingReviews returns the incomplete reviews due today or earlier.
func (s *Service) PendingReviews(ctx context.Context, userID string) (calendar.PendingDigest, error) {
	studies, err := s.studies.FindAll(ctx, userID)
	if err != nil {
		return calendar.PendingDigest{}, fmt.Errorf("studies.FindAll() > %w", err)
	}
	return calendar.PendingReviews(studies, s.Today()), nil
}

func (s *Service) CreateCustomEvent(ctx context.Context, userID string, in calendar.CustomEventInput) (calendar.CustomEvent, error) {
	in, err := calendar.ValidateCustomEvent(s.validator, in)
	if err != nil {
		return calendar.CustomEvent{}, err
	}

	event := calendar.CustomEvent{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		CreatedAt:   s.now(),
	}
	if err := s.events.Create(ctx, userID, &event); err != nil {
		return calendar.CustomEvent{}, fmt.Errorf("events.Create() > %w", err)
	}
	return event, nil
}

func (s *Service) DeleteCustomEvent(ctx context.Context, userID, id string) error {
	if err := s.events.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("events.Delete() > %w", err)
	}
	return nil
}

// Export collects the rows of every event dated from..to, both inclusive.
// export.ErrNoEvents is returned when the range is empty.
func (s *Service) Export(ctx context.Context, userID string, from, to civil.Date) (ExportResult, error) {
	if from == (civil.Date{}) || to == (civil.Date{}) {
		return ExportResult{}, study.NewValidationError("From", "Por favor, selecione as datas de início e fim para exportação.")
	}
	if from.After(to) {
		return ExportResult{}, study.NewValidationError("To", "A data final deve ser igual ou posterior à data inicial.")
	}

	var studies []study.StudyRecord
	var events []calendar.CustomEvent
	var disciplines study.Disciplines
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		studies, events, err = s.loadCalendar(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		if disciplines, err = s.disciplines.FindAll(gctx, userID); err != nil {
			return fmt.Errorf("disciplines.FindAll() > %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return ExportResult{}, err
	}

	rows := calendar.EventsInRange(studies, events, disciplines, from, to)
	if len(rows) == 0 {
		return ExportResult{}, export.ErrNoEvents
	}
	return ExportResult{Rows: rows, FileName: export.FileName(from, to)}, nil
}

// loadCalendar reads studies and custom events concurrently.
func (s *Service) loadCalendar(ctx context.Context, userID string) ([]study.StudyRecord, []calendar.CustomEvent, error) {
	var studies []study.StudyRecord
	var events []calendar.CustomEvent
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if studies, err = s.studies.FindAll(ctx, userID); err != nil {
			return fmt.Errorf("studies.FindAll() > %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if events, err = s.events.FindAll(ctx, userID); err != nil {
			return fmt.Errorf("events.FindAll() > %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return studies, events, nil
}

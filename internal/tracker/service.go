// Package tracker coordinates the study, calendar and board repositories of a user.
package tracker

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"

	"github.com/at-ishikawa/studyplanner/internal/board"
	"github.com/at-ishikawa/studyplanner/internal/calendar"
	"github.com/at-ishikawa/studyplanner/internal/statistics"
	"github.com/at-ishikawa/studyplanner/internal/study"
)

// Repositories groups the storage a Service works with.
type Repositories struct {
	Disciplines study.DisciplineRepository
	Studies     study.StudyRepository
	Events      calendar.EventRepository
	Board       board.Repository
}

// State is everything stored for one user.
type State struct {
	Disciplines  study.Disciplines      `json:"disciplines" yaml:"disciplines"`
	Studies      []study.StudyRecord    `json:"studies" yaml:"studies"`
	CustomEvents []calendar.CustomEvent `json:"custom_events" yaml:"custom_events"`
	Lists        []board.TaskList       `json:"task_lists" yaml:"task_lists"`
}

// Index indexes the calendar events of the state by date.
func (st State) Index() calendar.Index {
	return calendar.IndexEventsByDate(st.Studies, st.CustomEvents)
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLocation sets the time zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.location = loc
	}
}

type Service struct {
	disciplines study.DisciplineRepository
	studies     study.StudyRepository
	events      calendar.EventRepository
	board       board.Repository

	validator *study.Validator
	now       func() time.Time
	location  *time.Location
}

func NewService(repos Repositories, validator *study.Validator, opts ...Option) *Service {
	s := &Service{
		disciplines: repos.Disciplines,
		studies:     repos.Studies,
		events:      repos.Events,
		board:       repos.Board,
		validator:   validator,
		now:         time.Now,
		location:    time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current date in the service's time zone.
func (s *Service) Today() civil.Date {
	return civil.DateOf(s.now().In(s.location))
}

// LoadState reads all the collections of the user concurrently.
// Nothing is returned unless every read succeeds.
func (s *Service) LoadState(ctx context.Context, userID string) (State, error) {
	var state State
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		disciplines, err := s.disciplines.FindAll(ctx, userID)
		if err != nil {
			return fmt.Errorf("disciplines.FindAll() > %w", err)
		}
		state.Disciplines = disciplines
		return nil
	})
	g.Go(func() error {
		studies, err := s.studies.FindAll(ctx, userID)
		if err != nil {
			return fmt.Errorf("studies.FindAll() > %w", err)
		}
		state.Studies = studies
		return nil
	})
	g.Go(func() error {
		events, err := s.events.FindAll(ctx, userID)
		if err != nil {
			return fmt.Errorf("events.FindAll() > %w", err)
		}
		state.CustomEvents = events
		return nil
	})
	g.Go(func() error {
		lists, err := s.board.FindAll(ctx, userID)
		if err != nil {
			return fmt.Errorf("board.FindAll() > %w", err)
		}
		state.Lists = lists
		return nil
	})
	if err := g.Wait(); err != nil {
		return State{}, err
	}

	state.Disciplines.SortByName()
	board.Sort(state.Lists)
	return state, nil
}

// Dashboard computes the statistics of the user. year and month filter the
// periods; 0 disables the filter.
func (s *Service) Dashboard(ctx context.Context, userID string, year, month int) (statistics.Dashboard, error) {
	disciplines, studies, err := s.loadStudies(ctx, userID)
	if err != nil {
		return statistics.Dashboard{}, err
	}
	return statistics.Calculate(disciplines, studies, s.Today(), year, month), nil
}

// loadStudies reads disciplines and studies concurrently.
func (s *Service) loadStudies(ctx context.Context, userID string) (study.Disciplines, []study.StudyRecord, error) {
	var disciplines study.Disciplines
	var studies []study.StudyRecord
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if disciplines, err = s.disciplines.FindAll(ctx, userID); err != nil {
			return fmt.Errorf("disciplines.FindAll() > %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if studies, err = s.studies.FindAll(ctx, userID); err != nil {
			return fmt.Errorf("studies.FindAll() > %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	disciplines.SortByName()
	return disciplines, studies, nil
}

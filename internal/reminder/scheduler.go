package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/at-ishikawa/studyplanner/internal/calendar"
)

// DigestSource returns the pending reviews of a user. tracker.Service implements it.
type DigestSource interface {
	PendingReviews(ctx context.Context, userID string) (calendar.PendingDigest, error)
}

// Job builds one digest and hands it to every notifier.
type Job struct {
	source    DigestSource
	userID    string
	notifiers []Notifier
}

func NewJob(source DigestSource, userID string, notifiers ...Notifier) *Job {
	return &Job{source: source, userID: userID, notifiers: notifiers}
}

// Run sends the digest. A failing notifier does not stop the others.
func (j *Job) Run(ctx context.Context) error {
	digest, err := j.source.PendingReviews(ctx, j.userID)
	if err != nil {
		return fmt.Errorf("source.PendingReviews() > %w", err)
	}

	var errs []error
	for _, n := range j.notifiers {
		if err := n.Notify(ctx, j.userID, digest); err != nil {
			errs = append(errs, fmt.Errorf("%T.Notify() > %w", n, err))
		}
	}
	return errors.Join(errs...)
}

// Scheduler runs jobs once a day at a wall-clock time in its location.
type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler(loc *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
	}
}

// ScheduleDaily registers job at the given HH:MM time. Each run gets its own context
// derived from ctx; errors are logged.
func (s *Scheduler) ScheduleDaily(ctx context.Context, clock string, job *Job) (cron.EntryID, error) {
	spec, err := BuildDailySpec(clock)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, func() {
		if err := job.Run(ctx); err != nil {
			slog.Default().ErrorContext(ctx, "reminder job failed",
				slog.String("user_id", job.userID),
				slog.Any("error", err),
			)
		}
	})
}

// Next returns the next activation of an entry, or the zero time before Start.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BuildDailySpec converts HH:MM into a five-field cron expression.
func BuildDailySpec(clock string) (string, error) {
	hourText, minuteText, ok := strings.Cut(clock, ":")
	if !ok {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	hour, err := strconv.Atoi(hourText)
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", clock)
	}
	minute, err := strconv.Atoi(minuteText)
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", clock)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplanner/internal/bootstrap"
	"github.com/at-ishikawa/studyplanner/internal/reminder"
	"github.com/at-ishikawa/studyplanner/internal/storage"
)

func newReminderCommand() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "reminder",
		Short: "Send the pending review digest every day at reminder.time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnvironment()
			if err != nil {
				return err
			}
			defer env.close()

			notifiers := []reminder.Notifier{reminder.NewLogNotifier(slog.Default())}
			if env.cfg.Reminder.WebhookURL != "" {
				notifiers = append(notifiers, reminder.NewWebhookNotifier(env.cfg.Reminder.WebhookURL))
			}
			job := reminder.NewJob(env.service, env.userID, notifiers...)

			if once {
				if err := job.Run(cmd.Context()); err != nil {
					return fmt.Errorf("job.Run() > %w", err)
				}
				digest, err := env.service.PendingReviews(cmd.Context(), env.userID)
				if err != nil {
					return fmt.Errorf("service.PendingReviews() > %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), reminder.Message(digest))
				return nil
			}

			loc, err := storage.Location(env.cfg)
			if err != nil {
				return err
			}
			return runReminderScheduler(cmd.Context(), job, env.cfg.Reminder.Time, reminder.NewScheduler(loc))
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "send the digest now and exit")
	return cmd
}

func runReminderScheduler(ctx context.Context, job *reminder.Job, clock string, scheduler *reminder.Scheduler) error {
	app := bootstrap.New()
	return app.Run(ctx, func(ctx context.Context) error {
		id, err := scheduler.ScheduleDaily(ctx, clock, job)
		if err != nil {
			return fmt.Errorf("scheduler.ScheduleDaily() > %w", err)
		}
		scheduler.Start()
		stopped := make(chan struct{})
		app.AddShutdownHook(func(ctx context.Context) error {
			defer close(stopped)
			return scheduler.Stop(ctx)
		})
		slog.Default().Info("reminder scheduled", "time", clock, "next", scheduler.Next(id))

		<-stopped
		return nil
	})
}
